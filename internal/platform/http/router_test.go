package http

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/votersetu/verification-api/internal/auth"
	"github.com/votersetu/verification-api/internal/business/registry"
	"github.com/votersetu/verification-api/pkg/model"
)

type locationJSON struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

func nanRosterRouter(t *testing.T) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := registry.NewService(nil, nil, nil)
	svc.Initialize([]model.PollingStation{{
		ID:       "ps1",
		Name:     "Bad Coords Hall",
		State:    "Delhi",
		Location: model.GeoPoint{Latitude: math.NaN(), Longitude: 77.209},
		Status:   model.StatusOperational,
	}})

	tokens := auth.NewTokens("test-secret")
	router := NewRouter(Deps{Registry: svc, Tokens: tokens})

	token, err := tokens.Generate("off1", "asha", auth.RoleOfficer)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return router, token
}

func authedGet(t *testing.T, router *gin.Engine, token, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestListStationsWithNaNCoordinates(t *testing.T) {
	router, token := nanRosterRouter(t)

	w := authedGet(t, router, token, "/api/stations")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body: %s)", w.Code, http.StatusOK, w.Body.String())
	}

	var body struct {
		Items []struct {
			ID       string       `json:"id"`
			Location locationJSON `json:"location"`
		} `json:"items"`
		Total int `json:"total"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Total != 1 || len(body.Items) != 1 {
		t.Fatalf("roster = %+v, want one station", body)
	}
	loc := body.Items[0].Location
	if loc.Latitude != nil {
		t.Errorf("latitude = %v, want null for the malformed value", *loc.Latitude)
	}
	if loc.Longitude == nil || *loc.Longitude != 77.209 {
		t.Errorf("longitude = %v, want 77.209", loc.Longitude)
	}
}

func TestGetStationWithNaNCoordinates(t *testing.T) {
	router, token := nanRosterRouter(t)

	w := authedGet(t, router, token, "/api/stations/ps1")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body: %s)", w.Code, http.StatusOK, w.Body.String())
	}

	var station struct {
		ID       string       `json:"id"`
		Location locationJSON `json:"location"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &station); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if station.ID != "ps1" {
		t.Errorf("id = %q, want ps1", station.ID)
	}
	if station.Location.Latitude != nil {
		t.Errorf("latitude = %v, want null", *station.Location.Latitude)
	}
}
