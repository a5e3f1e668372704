package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AsunaPahlo/armada-web/internal/estimator"
	"github.com/AsunaPahlo/armada-web/internal/fleet"
	"github.com/AsunaPahlo/armada-web/internal/gamedata"
	"github.com/AsunaPahlo/armada-web/internal/shared/config"
)

func testEstimatesHandler(t *testing.T) *EstimatesHandler {
	t.Helper()

	previous := config.GlobalConfig
	config.GlobalConfig = &config.Config{
		Fleet: config.FleetConfig{DefaultTargetLevel: 90},
	}
	t.Cleanup(func() { config.GlobalConfig = previous })

	est := estimator.New(&gamedata.Tables{
		Ranks:  gamedata.FallbackRanks(),
		Phases: gamedata.FallbackPhases(),
	})
	agg := fleet.NewAggregator(fleet.NewStore(nil), est, nil, nil)
	return NewEstimatesHandler(agg)
}

func TestEstimatesUsesConfiguredDefaultTarget(t *testing.T) {
	handler := testEstimatesHandler(t)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/estimates", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body estimatesResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, 90, body.TargetLevel)
}

func TestEstimatesClampsTargetToMaxLevel(t *testing.T) {
	handler := testEstimatesHandler(t)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/estimates?target=999", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body estimatesResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, gamedata.MaxLevel, body.TargetLevel)
}

func TestEstimatesRejectsBadTarget(t *testing.T) {
	handler := testEstimatesHandler(t)

	for _, target := range []string{"abc", "0", "-5"} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/estimates?target="+target, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, "target %q", target)
	}
}
