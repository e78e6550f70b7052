package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"museum-artifact-backend/config"
	"museum-artifact-backend/internal/model"
)

// envelope is the API's uniform response shape.
type envelope struct {
	Success bool            `json:"success"`
	Count   int             `json:"count"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

// Playback is the trigger endpoint's playback description. Disabled channels
// arrive as null and are not rendered.
type Playback struct {
	ArtifactID   string    `json:"artifactId"`
	ArtifactName string    `json:"artifactName"`
	Response     Cue       `json:"response"`
	TriggeredAt  time.Time `json:"triggeredAt"`
}

// Cue carries the per-channel parameters of a fired response.
type Cue struct {
	Type  model.ResponseType `json:"type"`
	Sound *SoundCue          `json:"sound"`
	Light *LightCue          `json:"light"`
}

// SoundCue is the sound channel of a playback description.
type SoundCue struct {
	File     string `json:"file"`
	Volume   int    `json:"volume"`
	Duration int    `json:"duration"`
}

// LightCue is the light channel of a playback description.
type LightCue struct {
	Color     string             `json:"color"`
	Pattern   model.LightPattern `json:"pattern"`
	Intensity int                `json:"intensity"`
	Duration  int                `json:"duration"`
}

// Service polls the API for unprocessed interactions and fires their
// responses: claim, trigger, render. Each candidate is handled fully before
// the next; errors are logged and the loop moves on.
type Service struct {
	cfg    *config.ControllerConfig
	client *http.Client
	out    io.Writer
}

// NewService creates a controller service from the polling configuration.
func NewService(cfg *config.ControllerConfig, out io.Writer) *Service {
	return &Service{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
		out:    out,
	}
}

// Run starts the polling loop until the context is cancelled.
func (s *Service) Run(ctx context.Context) {
	if !s.cfg.Enabled {
		log.Println("Response controller is disabled. Not starting.")
		return
	}
	log.Printf("Starting response controller: interval=%s threshold=%.0f", s.cfg.Interval, s.cfg.ValueThreshold)

	s.PollOnce(ctx)

	timer := time.NewTimer(s.cfg.Interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Response controller shutting down.")
			return
		case <-timer.C:
			s.PollOnce(ctx)
			timer.Reset(s.cfg.Interval)
		}
	}
}

// PollOnce performs a single polling round. It returns the number of
// responses fired, which the loop ignores but tests inspect.
func (s *Service) PollOnce(ctx context.Context) int {
	candidates, err := s.fetchUnprocessed(ctx)
	if err != nil {
		log.Printf("Failed to fetch unprocessed interactions: %v", err)
		return 0
	}

	fired := 0
	for _, interaction := range candidates {
		if interaction.SensorData.Value <= s.cfg.ValueThreshold || interaction.ResponseTriggered {
			continue
		}

		// Claim before acting: a lost claim means another tick owns this
		// interaction, so a response fires at most once.
		claimed, err := s.claim(ctx, interaction.ID)
		if err != nil {
			log.Printf("Failed to claim interaction %s: %v", interaction.ID, err)
			continue
		}
		if !claimed {
			log.Printf("Interaction %s already claimed, skipping", interaction.ID)
			continue
		}

		playback, err := s.trigger(ctx, interaction.ArtifactID, interaction.ID)
		if err != nil {
			log.Printf("Failed to trigger response for %s: %v", interaction.ArtifactID, err)
			continue
		}

		Render(s.out, playback)
		fired++
	}
	return fired
}

// fetchUnprocessed pulls the current batch of unprocessed interactions.
func (s *Service) fetchUnprocessed(ctx context.Context) ([]model.Interaction, error) {
	url := fmt.Sprintf("%s/api/interactions?processed=false&limit=%d&hours=%d",
		s.cfg.APIBaseURL, s.cfg.BatchLimit, s.cfg.LookbackHours)

	var interactions []model.Interaction
	if err := s.doJSON(ctx, http.MethodGet, url, nil, &interactions); err != nil {
		return nil, err
	}
	return interactions, nil
}

// claim marks an interaction processed. A 409 means another worker won.
func (s *Service) claim(ctx context.Context, id string) (bool, error) {
	url := fmt.Sprintf("%s/api/interactions/%s/process", s.cfg.APIBaseURL, id)

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, url, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("X-API-Key", s.cfg.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusConflict:
		return false, nil
	default:
		return false, fmt.Errorf("claim returned status %d", resp.StatusCode)
	}
}

// trigger fires the artifact's response for a claimed interaction.
func (s *Service) trigger(ctx context.Context, artifactID, interactionID string) (*Playback, error) {
	url := s.cfg.APIBaseURL + "/api/responses/trigger"
	body := map[string]string{
		"artifactId":    artifactID,
		"interactionId": interactionID,
	}

	var playback Playback
	if err := s.doJSON(ctx, http.MethodPost, url, body, &playback); err != nil {
		return nil, err
	}
	return &playback, nil
}

// doJSON performs an authenticated request and decodes the envelope's data.
func (s *Service) doJSON(ctx context.Context, method, url string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return err
	}
	req.Header.Set("X-API-Key", s.cfg.APIKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if !env.Success {
		return fmt.Errorf("api error (status %d): %s", resp.StatusCode, env.Error)
	}
	if out != nil && env.Data != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("failed to decode response data: %w", err)
		}
	}
	return nil
}
