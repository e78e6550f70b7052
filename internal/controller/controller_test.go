package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"museum-artifact-backend/config"
	"museum-artifact-backend/internal/model"
)

// stubAPI simulates the backend endpoints the controller talks to and records
// every claim and trigger it receives.
type stubAPI struct {
	t *testing.T

	mu           sync.Mutex
	interactions []model.Interaction
	claimStatus  map[string]int
	claimed      []string
	triggered    []map[string]string
	apiKeys      []string
}

func newStubAPI(t *testing.T) (*stubAPI, *httptest.Server) {
	stub := &stubAPI{t: t, claimStatus: map[string]int{}}
	server := httptest.NewServer(stub)
	t.Cleanup(server.Close)
	return stub, server
}

func (s *stubAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apiKeys = append(s.apiKeys, r.Header.Get("X-API-Key"))

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/api/interactions":
		data, err := json.Marshal(s.interactions)
		require.NoError(s.t, err)
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"count":   len(s.interactions),
			"data":    json.RawMessage(data),
		})

	case r.Method == http.MethodPatch && strings.HasSuffix(r.URL.Path, "/process"):
		id := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/api/interactions/"), "/process")
		s.claimed = append(s.claimed, id)
		status := s.claimStatus[id]
		if status == 0 {
			status = http.StatusOK
		}
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]any{"success": status == http.StatusOK})

	case r.Method == http.MethodPost && r.URL.Path == "/api/responses/trigger":
		var body map[string]string
		require.NoError(s.t, json.NewDecoder(r.Body).Decode(&body))
		s.triggered = append(s.triggered, body)

		playback := Playback{
			ArtifactID:   body["artifactId"],
			ArtifactName: "Stub Artifact",
			Response: Cue{
				Type:  model.ResponseCombined,
				Sound: &SoundCue{File: "stub.mp3", Volume: 70, Duration: 5000},
				Light: &LightCue{Color: "#00FF00", Pattern: model.LightPulse, Intensity: 80, Duration: 5000},
			},
			TriggeredAt: time.Now(),
		}
		data, err := json.Marshal(playback)
		require.NoError(s.t, err)
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"message": "Response triggered successfully",
			"data":    json.RawMessage(data),
		})

	default:
		http.NotFound(w, r)
	}
}

func testControllerConfig(baseURL string) *config.ControllerConfig {
	return &config.ControllerConfig{
		Enabled:        true,
		Interval:       time.Second,
		APIBaseURL:     baseURL,
		APIKey:         "controller-key",
		BatchLimit:     10,
		LookbackHours:  1,
		ValueThreshold: 60,
	}
}

func candidate(id, artifactID string, value float64) model.Interaction {
	return model.Interaction{
		ID:         id,
		ArtifactID: artifactID,
		SensorData: model.SensorData{Type: model.SensorProximity, Value: value},
	}
}

func TestPollOnceFiresAboveThreshold(t *testing.T) {
	stub, server := newStubAPI(t)
	stub.interactions = []model.Interaction{
		candidate("low", "ART001", 40),
		candidate("high", "ART001", 75),
	}

	var out bytes.Buffer
	svc := NewService(testControllerConfig(server.URL), &out)

	fired := svc.PollOnce(context.Background())
	assert.Equal(t, 1, fired)

	// Only the interaction above the threshold is claimed and triggered.
	assert.Equal(t, []string{"high"}, stub.claimed)
	require.Len(t, stub.triggered, 1)
	assert.Equal(t, "ART001", stub.triggered[0]["artifactId"])
	assert.Equal(t, "high", stub.triggered[0]["interactionId"])

	assert.Contains(t, out.String(), "Stub Artifact")
	for _, key := range stub.apiKeys {
		assert.Equal(t, "controller-key", key)
	}
}

func TestPollOnceSkipsAlreadyTriggered(t *testing.T) {
	stub, server := newStubAPI(t)
	already := candidate("done", "ART001", 90)
	already.ResponseTriggered = true
	stub.interactions = []model.Interaction{already}

	svc := NewService(testControllerConfig(server.URL), &bytes.Buffer{})

	fired := svc.PollOnce(context.Background())
	assert.Zero(t, fired)
	assert.Empty(t, stub.claimed)
	assert.Empty(t, stub.triggered)
}

func TestPollOnceLostClaim(t *testing.T) {
	stub, server := newStubAPI(t)
	stub.interactions = []model.Interaction{candidate("contested", "ART001", 75)}
	stub.claimStatus["contested"] = http.StatusConflict

	svc := NewService(testControllerConfig(server.URL), &bytes.Buffer{})

	// A lost claim means another tick owns the interaction; no trigger fires.
	fired := svc.PollOnce(context.Background())
	assert.Zero(t, fired)
	assert.Equal(t, []string{"contested"}, stub.claimed)
	assert.Empty(t, stub.triggered)
}

func TestPollOnceEmptyBatch(t *testing.T) {
	_, server := newStubAPI(t)

	svc := NewService(testControllerConfig(server.URL), &bytes.Buffer{})
	assert.Zero(t, svc.PollOnce(context.Background()))
}
