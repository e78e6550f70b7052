package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"museum-artifact-backend/internal/model"
)

// RecordInteraction persists a sensor event for an active artifact and bumps
// the artifact's interaction counter in the same transaction. The returned
// artifact reflects the updated statistics.
func (s *gormStore) RecordInteraction(ctx context.Context, interaction *model.Interaction) (*model.Artifact, error) {
	var owner *model.Artifact
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		artifact, err := findArtifact(tx, interaction.ArtifactID)
		if err != nil {
			return err
		}
		if !artifact.IsActive {
			return ErrArtifactInactive
		}

		interaction.ArtifactID = artifact.ArtifactID
		interaction.ArtifactRef = &artifact.ID
		if interaction.InteractionType == "" {
			interaction.InteractionType = model.InteractionDetected
		}
		if interaction.SensorData.Unit == "" {
			interaction.SensorData.Unit = "raw"
		}

		if err := tx.Create(interaction).Error; err != nil {
			return fmt.Errorf("failed to create interaction: %w", err)
		}

		now := time.Now()
		if err := tx.Model(artifact).UpdateColumns(map[string]any{
			"total_interactions": gorm.Expr("total_interactions + 1"),
			"last_interaction":   now,
		}).Error; err != nil {
			return fmt.Errorf("failed to update artifact statistics: %w", err)
		}

		artifact.Statistics.TotalInteractions++
		artifact.Statistics.LastInteraction = &now
		owner = artifact
		return nil
	})
	if err != nil {
		return nil, err
	}
	return owner, nil
}

// ListInteractions returns interactions matching the filter, newest first.
func (s *gormStore) ListInteractions(ctx context.Context, filter InteractionFilter) ([]model.Interaction, error) {
	query := s.db.WithContext(ctx).Model(&model.Interaction{})
	if filter.ArtifactID != "" {
		query = query.Where("artifact_id = ?", NormalizeID(filter.ArtifactID))
	}
	if filter.Processed != nil {
		query = query.Where("processed = ?", *filter.Processed)
	}
	if !filter.Since.IsZero() {
		query = query.Where("created_at >= ?", filter.Since)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var interactions []model.Interaction
	if err := query.Order("created_at DESC").Find(&interactions).Error; err != nil {
		return nil, fmt.Errorf("failed to list interactions: %w", err)
	}
	return interactions, nil
}

// GetInteraction fetches one interaction by id.
func (s *gormStore) GetInteraction(ctx context.Context, id string) (*model.Interaction, error) {
	var interaction model.Interaction
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&interaction).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch interaction %q: %w", id, err)
	}
	return &interaction, nil
}

// InteractionsByArtifact returns the most recent interactions for one artifact.
func (s *gormStore) InteractionsByArtifact(ctx context.Context, artifactID string, limit int) ([]model.Interaction, error) {
	return s.ListInteractions(ctx, InteractionFilter{ArtifactID: artifactID, Limit: limit})
}

// ClaimInteraction atomically marks an interaction processed. Only one caller
// can win the claim; later callers get ErrAlreadyProcessed. This is what
// keeps overlapping controller ticks from double-triggering a response.
func (s *gormStore) ClaimInteraction(ctx context.Context, id string) (*model.Interaction, error) {
	res := s.db.WithContext(ctx).Model(&model.Interaction{}).
		Where("id = ? AND processed = ?", id, false).
		Update("processed", true)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to claim interaction %q: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		if _, err := s.GetInteraction(ctx, id); err != nil {
			return nil, err
		}
		return nil, ErrAlreadyProcessed
	}
	return s.GetInteraction(ctx, id)
}

// DeleteInteraction removes one interaction.
func (s *gormStore) DeleteInteraction(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Interaction{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete interaction %q: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// TriggerResult carries everything the API needs to describe a fired response.
type TriggerResult struct {
	Artifact *model.Artifact
	Pattern  model.ResponsePattern
	Details  model.ResponseDetails
}

// TriggerResponse resolves the artifact's effective response pattern (the
// override wins when supplied), and, when an interaction id is given, stamps
// that interaction as triggered. An unknown interaction id is silently
// skipped; the response still fires.
func (s *gormStore) TriggerResponse(ctx context.Context, artifactID, interactionID string, override *model.ResponsePattern) (*TriggerResult, error) {
	artifact, err := findArtifact(s.db.WithContext(ctx), artifactID)
	if err != nil {
		return nil, err
	}
	if !artifact.IsActive {
		return nil, ErrArtifactInactive
	}

	pattern := artifact.ResponsePattern
	if override != nil {
		pattern = *override
	}

	now := time.Now()
	details := model.ResponseDetails{
		Sound: model.SoundResult{
			Played: pattern.Sound.Enabled,
			File:   pattern.Sound.File,
		},
		Light: model.LightResult{
			Activated: pattern.Light.Enabled,
			Pattern:   pattern.Light.Pattern,
		},
		TriggeredAt: &now,
	}

	if interactionID != "" {
		err := s.db.WithContext(ctx).Model(&model.Interaction{}).
			Where("id = ?", interactionID).
			Updates(map[string]any{
				"response_triggered":   true,
				"resp_sound_played":    details.Sound.Played,
				"resp_sound_file":      details.Sound.File,
				"resp_light_activated": details.Light.Activated,
				"resp_light_pattern":   details.Light.Pattern,
				"resp_triggered_at":    now,
			}).Error
		if err != nil {
			return nil, fmt.Errorf("failed to stamp interaction %q: %w", interactionID, err)
		}
	}

	return &TriggerResult{Artifact: artifact, Pattern: pattern, Details: details}, nil
}

// ResponseHistory returns past triggered responses for an artifact, most
// recently fired first.
func (s *gormStore) ResponseHistory(ctx context.Context, artifactID string, limit int) ([]model.Interaction, error) {
	query := s.db.WithContext(ctx).
		Where("artifact_id = ? AND response_triggered = ?", NormalizeID(artifactID), true).
		Order("resp_triggered_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var interactions []model.Interaction
	if err := query.Find(&interactions).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch response history for %q: %w", artifactID, err)
	}
	return interactions, nil
}
