package models

import (
	"fmt"
)

// ScreenKind identifies a Screen variant
type ScreenKind string

const (
	KindSplash                 ScreenKind = "splash"
	KindLogin                  ScreenKind = "login"
	KindWelcome                ScreenKind = "welcome"
	KindNameSetup              ScreenKind = "name_setup"
	KindAgeSetup               ScreenKind = "age_setup"
	KindIntro1                 ScreenKind = "intro_1"
	KindIntro2                 ScreenKind = "intro_2"
	KindMainApp                ScreenKind = "main_app"
	KindLevelMap               ScreenKind = "level_map"
	KindProfile                ScreenKind = "profile"
	KindCharacterSelection     ScreenKind = "character_selection"
	KindPronunciationHelper    ScreenKind = "pronunciation_helper"
	KindSpelling               ScreenKind = "spelling"
	KindWriting                ScreenKind = "writing"
	KindSyllableActivity       ScreenKind = "syllable_activity"
	KindWordFormation          ScreenKind = "word_formation"
	KindProgressiveWordReading ScreenKind = "progressive_word_reading"
)

// Screen is a navigation destination. The set of implementations is closed:
// only the variant structs in this file satisfy it. Every variant is a
// comparable value, so two Screens are equal under == exactly when they have
// the same variant and the same payload.
type Screen interface {
	Kind() ScreenKind
	screen()
}

type (
	Splash    struct{}
	Login     struct{}
	Welcome   struct{}
	NameSetup struct{}
	AgeSetup  struct{}
	Intro1    struct{}
	Intro2    struct{}
	MainApp   struct{}
	LevelMap  struct{}
	Profile   struct{}

	CharacterSelection struct {
		Level int
	}
	PronunciationHelper struct {
		Char  Letter
		Level int
	}
	Spelling struct {
		Char  Letter
		Level int
	}
	Writing struct {
		Char  Letter
		Level int
	}
	SyllableActivity struct {
		Level int
	}
	WordFormation struct {
		Level int
	}
	ProgressiveWordReading struct {
		Level int
	}
)

func (Splash) Kind() ScreenKind                 { return KindSplash }
func (Login) Kind() ScreenKind                  { return KindLogin }
func (Welcome) Kind() ScreenKind                { return KindWelcome }
func (NameSetup) Kind() ScreenKind              { return KindNameSetup }
func (AgeSetup) Kind() ScreenKind               { return KindAgeSetup }
func (Intro1) Kind() ScreenKind                 { return KindIntro1 }
func (Intro2) Kind() ScreenKind                 { return KindIntro2 }
func (MainApp) Kind() ScreenKind                { return KindMainApp }
func (LevelMap) Kind() ScreenKind               { return KindLevelMap }
func (Profile) Kind() ScreenKind                { return KindProfile }
func (CharacterSelection) Kind() ScreenKind     { return KindCharacterSelection }
func (PronunciationHelper) Kind() ScreenKind    { return KindPronunciationHelper }
func (Spelling) Kind() ScreenKind               { return KindSpelling }
func (Writing) Kind() ScreenKind                { return KindWriting }
func (SyllableActivity) Kind() ScreenKind       { return KindSyllableActivity }
func (WordFormation) Kind() ScreenKind          { return KindWordFormation }
func (ProgressiveWordReading) Kind() ScreenKind { return KindProgressiveWordReading }

func (Splash) screen()                 {}
func (Login) screen()                  {}
func (Welcome) screen()                {}
func (NameSetup) screen()              {}
func (AgeSetup) screen()               {}
func (Intro1) screen()                 {}
func (Intro2) screen()                 {}
func (MainApp) screen()                {}
func (LevelMap) screen()               {}
func (Profile) screen()                {}
func (CharacterSelection) screen()     {}
func (PronunciationHelper) screen()    {}
func (Spelling) screen()               {}
func (Writing) screen()                {}
func (SyllableActivity) screen()       {}
func (WordFormation) screen()          {}
func (ProgressiveWordReading) screen() {}

// ScreenDTO is the JSON form of a Screen
type ScreenDTO struct {
	Kind  ScreenKind `json:"kind"`
	Char  string     `json:"char,omitempty"`
	Level int        `json:"level,omitempty"`
}

// EncodeScreen converts a Screen to its wire form
func EncodeScreen(s Screen) ScreenDTO {
	switch v := s.(type) {
	case CharacterSelection:
		return ScreenDTO{Kind: v.Kind(), Level: v.Level}
	case PronunciationHelper:
		return ScreenDTO{Kind: v.Kind(), Char: v.Char.String(), Level: v.Level}
	case Spelling:
		return ScreenDTO{Kind: v.Kind(), Char: v.Char.String(), Level: v.Level}
	case Writing:
		return ScreenDTO{Kind: v.Kind(), Char: v.Char.String(), Level: v.Level}
	case SyllableActivity:
		return ScreenDTO{Kind: v.Kind(), Level: v.Level}
	case WordFormation:
		return ScreenDTO{Kind: v.Kind(), Level: v.Level}
	case ProgressiveWordReading:
		return ScreenDTO{Kind: v.Kind(), Level: v.Level}
	default:
		return ScreenDTO{Kind: s.Kind()}
	}
}

// DecodeScreen converts a wire form back into a Screen, validating payloads
func DecodeScreen(dto ScreenDTO) (Screen, error) {
	switch dto.Kind {
	case KindSplash:
		return Splash{}, nil
	case KindLogin:
		return Login{}, nil
	case KindWelcome:
		return Welcome{}, nil
	case KindNameSetup:
		return NameSetup{}, nil
	case KindAgeSetup:
		return AgeSetup{}, nil
	case KindIntro1:
		return Intro1{}, nil
	case KindIntro2:
		return Intro2{}, nil
	case KindMainApp:
		return MainApp{}, nil
	case KindLevelMap:
		return LevelMap{}, nil
	case KindProfile:
		return Profile{}, nil
	case KindCharacterSelection:
		return CharacterSelection{Level: dto.Level}, nil
	case KindSyllableActivity:
		return SyllableActivity{Level: dto.Level}, nil
	case KindWordFormation:
		return WordFormation{Level: dto.Level}, nil
	case KindProgressiveWordReading:
		return ProgressiveWordReading{Level: dto.Level}, nil
	case KindPronunciationHelper, KindSpelling, KindWriting:
		char, err := ParseLetterString(dto.Char)
		if err != nil {
			return nil, fmt.Errorf("screen %s: %w", dto.Kind, err)
		}
		switch dto.Kind {
		case KindPronunciationHelper:
			return PronunciationHelper{Char: char, Level: dto.Level}, nil
		case KindSpelling:
			return Spelling{Char: char, Level: dto.Level}, nil
		default:
			return Writing{Char: char, Level: dto.Level}, nil
		}
	default:
		return nil, fmt.Errorf("unknown screen kind %q", dto.Kind)
	}
}
