package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"letterpath/internal/config"
	"letterpath/internal/grading"
	"letterpath/internal/logger"
	"letterpath/internal/models"
	"letterpath/internal/navigation"
	"letterpath/internal/repository"
	"letterpath/internal/service"
)

type testApp struct {
	nav      *navigation.Controller
	ledger   *service.LedgerService
	streak   *service.StreakService
	screens  *ScreenHandler
	progress *ProgressHandler
	activity *ActivityHandler
}

func newTestApp(t *testing.T, root models.Screen) *testApp {
	t.Helper()
	log := logger.NewNop()
	persist := service.NewPersister(repository.NewMemoryStore(), log)
	t.Cleanup(persist.Close)

	ledger := service.NewLedgerService(persist, log, nil)
	streak := service.NewStreakService(persist, log, nil)
	nav := navigation.NewController(root, log)
	t.Cleanup(nav.Close)
	levels := config.DefaultLevels()

	activity, err := service.NewActivityService(service.ActivityDeps{
		Ledger:        ledger,
		Streak:        streak,
		Navigation:    nav,
		Pronunciation: grading.NewPronunciationGrader(),
		Shape:         grading.AcceptAnyDrawingGrader{},
		Levels:        levels,
		Logger:        log,
	})
	require.NoError(t, err)
	t.Cleanup(activity.Close)

	return &testApp{
		nav:      nav,
		ledger:   ledger,
		streak:   streak,
		screens:  NewScreenHandler(nav, log),
		progress: NewProgressHandler(ledger, streak, activity, levels, log),
		activity: NewActivityHandler(activity, nav, log),
	}
}

func call(t *testing.T, h http.HandlerFunc, method string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	recorder := httptest.NewRecorder()
	h(recorder, httptest.NewRequest(method, "/", &buf))
	return recorder
}

func decode[T any](t *testing.T, recorder *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &v), recorder.Body.String())
	return v
}
