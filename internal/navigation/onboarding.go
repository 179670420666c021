package navigation

import "letterpath/internal/models"

// onboardingEdges is the fixed onboarding flow. MainApp is terminal.
var onboardingEdges = map[models.Screen]models.Screen{
	models.Splash{}:    models.Login{},
	models.Login{}:     models.Welcome{},
	models.Welcome{}:   models.NameSetup{},
	models.NameSetup{}: models.AgeSetup{},
	models.AgeSetup{}:  models.Intro1{},
	models.Intro1{}:    models.Intro2{},
	models.Intro2{}:    models.MainApp{},
}

// OnboardingNext returns the onboarding successor of s
func OnboardingNext(s models.Screen) (models.Screen, bool) {
	next, ok := onboardingEdges[s]
	return next, ok
}
