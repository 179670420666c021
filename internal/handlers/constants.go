package handlers

const (
	ErrInvalidJSON         = "Invalid JSON body"
	ErrInvalidScreen       = "Invalid screen"
	ErrInvalidLetter       = "Invalid letter"
	ErrUnknownLevel        = "Unknown level"
	ErrNoOnboardingStep    = "No onboarding step from the current screen"
	ErrInternalServerError = "Internal server error"

	maxBodyBytes = 1 << 20
)
