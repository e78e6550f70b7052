package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"museum-artifact-backend/internal/model"
)

// ListArtifacts returns artifacts matching the filter, newest first.
func (s *gormStore) ListArtifacts(ctx context.Context, filter ArtifactFilter) ([]model.Artifact, error) {
	query := s.db.WithContext(ctx).Model(&model.Artifact{})
	if filter.Active != nil {
		query = query.Where("is_active = ?", *filter.Active)
	}
	if filter.Room != "" {
		query = query.Where("location_room = ?", filter.Room)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var artifacts []model.Artifact
	if err := query.Order("created_at DESC").Find(&artifacts).Error; err != nil {
		return nil, fmt.Errorf("failed to list artifacts: %w", err)
	}
	return artifacts, nil
}

// GetArtifact fetches one artifact by its (case-insensitive) identifier.
func (s *gormStore) GetArtifact(ctx context.Context, artifactID string) (*model.Artifact, error) {
	return findArtifact(s.db.WithContext(ctx), artifactID)
}

func findArtifact(tx *gorm.DB, artifactID string) (*model.Artifact, error) {
	var artifact model.Artifact
	err := tx.Where("artifact_id = ?", NormalizeID(artifactID)).First(&artifact).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch artifact %q: %w", artifactID, err)
	}
	return &artifact, nil
}

// CreateArtifact inserts a new artifact, normalizing its identifier.
func (s *gormStore) CreateArtifact(ctx context.Context, artifact *model.Artifact) error {
	artifact.ArtifactID = NormalizeID(artifact.ArtifactID)

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Artifact{}).
			Where("artifact_id = ?", artifact.ArtifactID).
			Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check artifact uniqueness: %w", err)
		}
		if count > 0 {
			return ErrDuplicateArtifact
		}

		if err := tx.Create(artifact).Error; err != nil {
			return fmt.Errorf("failed to create artifact %q: %w", artifact.ArtifactID, err)
		}
		return nil
	})
}

// ReplaceArtifact performs a full update of the artifact found by artifactID.
// Identity, creation time and running statistics are carried over; everything
// else comes from the replacement document.
func (s *gormStore) ReplaceArtifact(ctx context.Context, artifactID string, replacement *model.Artifact) (*model.Artifact, error) {
	var replaced *model.Artifact
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := findArtifact(tx, artifactID)
		if err != nil {
			return err
		}

		replacement.ID = existing.ID
		replacement.ArtifactID = existing.ArtifactID
		replacement.Statistics = existing.Statistics
		replacement.CreatedAt = existing.CreatedAt

		if err := tx.Save(replacement).Error; err != nil {
			return fmt.Errorf("failed to replace artifact %q: %w", existing.ArtifactID, err)
		}
		replaced = replacement
		return nil
	})
	if err != nil {
		return nil, err
	}
	return replaced, nil
}

// ToggleArtifact flips the active flag and persists it.
func (s *gormStore) ToggleArtifact(ctx context.Context, artifactID string) (*model.Artifact, error) {
	var toggled *model.Artifact
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		artifact, err := findArtifact(tx, artifactID)
		if err != nil {
			return err
		}

		artifact.IsActive = !artifact.IsActive
		if err := tx.Model(artifact).Update("is_active", artifact.IsActive).Error; err != nil {
			return fmt.Errorf("failed to toggle artifact %q: %w", artifact.ArtifactID, err)
		}
		toggled = artifact
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toggled, nil
}

// DeleteArtifact removes an artifact. Historical interactions keep their
// denormalized artifactId and are not cascaded.
func (s *gormStore) DeleteArtifact(ctx context.Context, artifactID string) error {
	res := s.db.WithContext(ctx).
		Where("artifact_id = ?", NormalizeID(artifactID)).
		Delete(&model.Artifact{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete artifact %q: %w", artifactID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
