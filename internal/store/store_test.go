package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"museum-artifact-backend/internal/db"
	"museum-artifact-backend/internal/model"
)

// newTestDB opens an isolated in-memory SQLite database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.Migrate(gormDB))

	t.Cleanup(func() {
		sqlDB, err := gormDB.DB()
		if err == nil {
			sqlDB.Close()
		}
	})
	return gormDB
}

func testArtifact(artifactID string) *model.Artifact {
	return &model.Artifact{
		ArtifactID:  artifactID,
		Name:        "Amphora",
		Description: "A Greek storage vessel",
		Location:    model.Location{Room: "Hall A"},
		SensorConfig: model.SensorConfig{
			Type:        model.SensorProximity,
			Sensitivity: 50,
			Threshold:   100,
		},
		ResponsePattern: model.ResponsePattern{
			Type: model.ResponseCombined,
			Sound: model.SoundConfig{
				Enabled:  true,
				File:     "amphora.mp3",
				Volume:   70,
				Duration: 5000,
			},
			Light: model.LightConfig{
				Enabled:   true,
				Color:     "#00FF00",
				Pattern:   model.LightPulse,
				Intensity: 80,
				Duration:  5000,
			},
		},
		IsActive: true,
	}
}

func testInteraction(artifactID string, value float64) *model.Interaction {
	return &model.Interaction{
		ArtifactID: artifactID,
		SensorData: model.SensorData{
			Type:  model.SensorProximity,
			Value: value,
			Unit:  "cm",
		},
	}
}

func TestArtifactLookupIsCaseInsensitive(t *testing.T) {
	s := NewGormStore(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, s.CreateArtifact(ctx, testArtifact("art001")))

	for _, id := range []string{"art001", "ART001", "Art001"} {
		artifact, err := s.GetArtifact(ctx, id)
		require.NoError(t, err, "lookup with %q", id)
		assert.Equal(t, "ART001", artifact.ArtifactID)
	}
}

func TestCreateArtifactDuplicate(t *testing.T) {
	s := NewGormStore(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, s.CreateArtifact(ctx, testArtifact("ART001")))

	err := s.CreateArtifact(ctx, testArtifact("art001"))
	assert.ErrorIs(t, err, ErrDuplicateArtifact)

	artifacts, err := s.ListArtifacts(ctx, ArtifactFilter{})
	require.NoError(t, err)
	assert.Len(t, artifacts, 1)
}

func TestListArtifactsFilters(t *testing.T) {
	s := NewGormStore(newTestDB(t))
	ctx := context.Background()

	a := testArtifact("ART001")
	require.NoError(t, s.CreateArtifact(ctx, a))

	b := testArtifact("ART002")
	b.Location.Room = "Hall B"
	b.IsActive = false
	require.NoError(t, s.CreateArtifact(ctx, b))

	active := true
	artifacts, err := s.ListArtifacts(ctx, ArtifactFilter{Active: &active})
	require.NoError(t, err)
	require.Len(t, artifacts, 1)
	assert.Equal(t, "ART001", artifacts[0].ArtifactID)

	artifacts, err = s.ListArtifacts(ctx, ArtifactFilter{Room: "Hall B"})
	require.NoError(t, err)
	require.Len(t, artifacts, 1)
	assert.Equal(t, "ART002", artifacts[0].ArtifactID)
}

func TestRecordInteraction(t *testing.T) {
	s := NewGormStore(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, s.CreateArtifact(ctx, testArtifact("ART001")))

	owner, err := s.RecordInteraction(ctx, testInteraction("art001", 75))
	require.NoError(t, err)
	assert.Equal(t, int64(1), owner.Statistics.TotalInteractions)
	require.NotNil(t, owner.Statistics.LastInteraction)
	first := *owner.Statistics.LastInteraction

	owner, err = s.RecordInteraction(ctx, testInteraction("ART001", 42))
	require.NoError(t, err)
	assert.Equal(t, int64(2), owner.Statistics.TotalInteractions)
	require.NotNil(t, owner.Statistics.LastInteraction)
	assert.False(t, owner.Statistics.LastInteraction.Before(first))

	interactions, err := s.ListInteractions(ctx, InteractionFilter{ArtifactID: "ART001"})
	require.NoError(t, err)
	assert.Len(t, interactions, 2)
	assert.Equal(t, model.InteractionDetected, interactions[0].InteractionType)
}

func TestRecordInteractionInactiveArtifact(t *testing.T) {
	s := NewGormStore(newTestDB(t))
	ctx := context.Background()

	artifact := testArtifact("ART001")
	artifact.IsActive = false
	require.NoError(t, s.CreateArtifact(ctx, artifact))

	_, err := s.RecordInteraction(ctx, testInteraction("ART001", 75))
	assert.ErrorIs(t, err, ErrArtifactInactive)

	interactions, err := s.ListInteractions(ctx, InteractionFilter{})
	require.NoError(t, err)
	assert.Empty(t, interactions, "a rejected interaction must not be persisted")

	stored, err := s.GetArtifact(ctx, "ART001")
	require.NoError(t, err)
	assert.Zero(t, stored.Statistics.TotalInteractions)
}

func TestRecordInteractionUnknownArtifact(t *testing.T) {
	s := NewGormStore(newTestDB(t))

	_, err := s.RecordInteraction(context.Background(), testInteraction("NOPE", 75))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClaimInteractionAtMostOnce(t *testing.T) {
	s := NewGormStore(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, s.CreateArtifact(ctx, testArtifact("ART001")))
	interaction := testInteraction("ART001", 75)
	_, err := s.RecordInteraction(ctx, interaction)
	require.NoError(t, err)

	claimed, err := s.ClaimInteraction(ctx, interaction.ID)
	require.NoError(t, err)
	assert.True(t, claimed.Processed)

	_, err = s.ClaimInteraction(ctx, interaction.ID)
	assert.ErrorIs(t, err, ErrAlreadyProcessed)

	_, err = s.ClaimInteraction(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTriggerResponseStampsInteraction(t *testing.T) {
	s := NewGormStore(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, s.CreateArtifact(ctx, testArtifact("ART001")))
	interaction := testInteraction("ART001", 75)
	_, err := s.RecordInteraction(ctx, interaction)
	require.NoError(t, err)

	result, err := s.TriggerResponse(ctx, "art001", interaction.ID, nil)
	require.NoError(t, err)
	assert.True(t, result.Details.Sound.Played)
	assert.True(t, result.Details.Light.Activated)
	require.NotNil(t, result.Details.TriggeredAt)

	stored, err := s.GetInteraction(ctx, interaction.ID)
	require.NoError(t, err)
	assert.True(t, stored.ResponseTriggered)
	require.NotNil(t, stored.ResponseDetails.TriggeredAt)
	assert.Equal(t, model.LightPulse, stored.ResponseDetails.Light.Pattern)
}

func TestTriggerResponseWithoutInteraction(t *testing.T) {
	s := NewGormStore(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, s.CreateArtifact(ctx, testArtifact("ART001")))
	interaction := testInteraction("ART001", 75)
	_, err := s.RecordInteraction(ctx, interaction)
	require.NoError(t, err)

	_, err = s.TriggerResponse(ctx, "ART001", "", nil)
	require.NoError(t, err)

	stored, err := s.GetInteraction(ctx, interaction.ID)
	require.NoError(t, err)
	assert.False(t, stored.ResponseTriggered, "triggering without an interaction id must touch no interaction")

	// An unknown interaction id is silently skipped.
	_, err = s.TriggerResponse(ctx, "ART001", "missing", nil)
	assert.NoError(t, err)
}

func TestTriggerResponseOverridePattern(t *testing.T) {
	s := NewGormStore(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, s.CreateArtifact(ctx, testArtifact("ART001")))

	override := &model.ResponsePattern{
		Type:  model.ResponseLight,
		Light: model.LightConfig{Enabled: true, Color: "#FF0000", Pattern: model.LightBlink, Intensity: 90, Duration: 2000},
	}
	result, err := s.TriggerResponse(ctx, "ART001", "", override)
	require.NoError(t, err)
	assert.Equal(t, model.ResponseLight, result.Pattern.Type)
	assert.False(t, result.Details.Sound.Played)
	assert.Equal(t, model.LightBlink, result.Details.Light.Pattern)
}

func TestTriggerResponseInactiveArtifact(t *testing.T) {
	s := NewGormStore(newTestDB(t))
	ctx := context.Background()

	artifact := testArtifact("ART001")
	artifact.IsActive = false
	require.NoError(t, s.CreateArtifact(ctx, artifact))

	_, err := s.TriggerResponse(ctx, "ART001", "", nil)
	assert.ErrorIs(t, err, ErrArtifactInactive)
}

func TestReplaceArtifactPreservesIdentityAndStats(t *testing.T) {
	s := NewGormStore(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, s.CreateArtifact(ctx, testArtifact("ART001")))
	_, err := s.RecordInteraction(ctx, testInteraction("ART001", 75))
	require.NoError(t, err)

	replacement := testArtifact("ART001")
	replacement.Name = "Restored Amphora"
	replacement.ResponsePattern.Sound.Enabled = false

	replaced, err := s.ReplaceArtifact(ctx, "art001", replacement)
	require.NoError(t, err)
	assert.Equal(t, "Restored Amphora", replaced.Name)
	assert.Equal(t, int64(1), replaced.Statistics.TotalInteractions)

	stored, err := s.GetArtifact(ctx, "ART001")
	require.NoError(t, err)
	assert.Equal(t, "Restored Amphora", stored.Name)
	assert.False(t, stored.ResponsePattern.Sound.Enabled)
}

func TestToggleArtifact(t *testing.T) {
	s := NewGormStore(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, s.CreateArtifact(ctx, testArtifact("ART001")))

	toggled, err := s.ToggleArtifact(ctx, "ART001")
	require.NoError(t, err)
	assert.False(t, toggled.IsActive)

	toggled, err = s.ToggleArtifact(ctx, "art001")
	require.NoError(t, err)
	assert.True(t, toggled.IsActive)
}

func TestDeleteArtifactKeepsInteractions(t *testing.T) {
	s := NewGormStore(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, s.CreateArtifact(ctx, testArtifact("ART001")))
	interaction := testInteraction("ART001", 75)
	_, err := s.RecordInteraction(ctx, interaction)
	require.NoError(t, err)

	require.NoError(t, s.DeleteArtifact(ctx, "art001"))

	_, err = s.GetArtifact(ctx, "ART001")
	assert.ErrorIs(t, err, ErrNotFound)

	stored, err := s.GetInteraction(ctx, interaction.ID)
	require.NoError(t, err)
	assert.Equal(t, "ART001", stored.ArtifactID, "history keeps the denormalized artifact id")

	assert.ErrorIs(t, s.DeleteArtifact(ctx, "ART001"), ErrNotFound)
}

func TestResponseHistory(t *testing.T) {
	s := NewGormStore(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, s.CreateArtifact(ctx, testArtifact("ART001")))

	var triggeredIDs []string
	for i := 0; i < 3; i++ {
		interaction := testInteraction("ART001", float64(70+i))
		_, err := s.RecordInteraction(ctx, interaction)
		require.NoError(t, err)
		if i < 2 {
			_, err = s.TriggerResponse(ctx, "ART001", interaction.ID, nil)
			require.NoError(t, err)
			triggeredIDs = append(triggeredIDs, interaction.ID)
			time.Sleep(5 * time.Millisecond)
		}
	}

	history, err := s.ResponseHistory(ctx, "art001", 10)
	require.NoError(t, err)
	require.Len(t, history, 2)
	// Most recently fired first.
	assert.Equal(t, triggeredIDs[1], history[0].ID)
	assert.Equal(t, triggeredIDs[0], history[1].ID)
}
