package handlers

import (
	"net/http"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"letterpath/internal/models"
)

func TestScreenOnboardingOverHTTP(t *testing.T) {
	app := newTestApp(t, models.Login{})

	kinds := []models.ScreenKind{}
	for {
		rec := call(t, app.screens.Advance, http.MethodPost, nil)
		if rec.Code == http.StatusConflict {
			break
		}
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		kinds = append(kinds, decode[ScreenResponse](t, rec).Current.Kind)
	}

	assert.Equal(t, models.KindMainApp, kinds[len(kinds)-1])
	resp := decode[ScreenResponse](t, call(t, app.screens.GetScreen, http.MethodGet, nil))
	if diff := cmp.Diff([]models.ScreenDTO{{Kind: models.KindMainApp}}, resp.Stack); diff != "" {
		t.Errorf("stack after onboarding mismatch (-want +got):\n%s", diff)
	}
}

func TestScreenPushPop(t *testing.T) {
	app := newTestApp(t, models.MainApp{})

	rec := call(t, app.screens.Push, http.MethodPost, models.ScreenDTO{Kind: models.KindCharacterSelection, Level: 2})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, models.CharacterSelection{Level: 2}, app.nav.Current())

	resp := decode[ScreenResponse](t, call(t, app.screens.Pop, http.MethodPost, nil))
	assert.Equal(t, models.KindMainApp, resp.Current.Kind)

	resp = decode[ScreenResponse](t, call(t, app.screens.Pop, http.MethodPost, nil))
	assert.Len(t, resp.Stack, 1, "root is never popped")
}

func TestScreenReplace(t *testing.T) {
	app := newTestApp(t, models.MainApp{})
	app.nav.Push(models.CharacterSelection{Level: 1})

	rec := call(t, app.screens.Replace, http.MethodPost, models.ScreenDTO{Kind: models.KindCharacterSelection, Level: 3})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	want := []models.ScreenDTO{{Kind: models.KindMainApp}, {Kind: models.KindCharacterSelection, Level: 3}}
	if diff := cmp.Diff(want, decode[ScreenResponse](t, rec).Stack); diff != "" {
		t.Errorf("stack after replace mismatch (-want +got):\n%s", diff)
	}

	rec = call(t, app.screens.Replace, http.MethodPost, models.ScreenDTO{Kind: "nowhere"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, models.CharacterSelection{Level: 3}, app.nav.Current())
}

func TestScreenPushRejectsBadInput(t *testing.T) {
	app := newTestApp(t, models.MainApp{})

	rec := call(t, app.screens.Push, http.MethodPost, models.ScreenDTO{Kind: "nowhere"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = call(t, app.screens.Push, http.MethodPost, models.ScreenDTO{Kind: models.KindWriting, Char: "7", Level: 1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = call(t, app.screens.Push, http.MethodPost, strings.Repeat("x", 3))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, models.MainApp{}, app.nav.Current())
}

func TestOnboardingFinalizeAndReset(t *testing.T) {
	app := newTestApp(t, models.Welcome{})
	app.nav.Push(models.NameSetup{})

	resp := decode[ScreenResponse](t, call(t, app.screens.FinalizeOnboarding, http.MethodPost, nil))
	assert.Equal(t, []models.ScreenDTO{{Kind: models.KindMainApp}}, resp.Stack)

	resp = decode[ScreenResponse](t, call(t, app.screens.ResetOnboarding, http.MethodPost, nil))
	assert.Equal(t, []models.ScreenDTO{{Kind: models.KindLogin}}, resp.Stack)
}
