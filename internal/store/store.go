package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"museum-artifact-backend/internal/model"
)

// Sentinel errors mapped to HTTP status codes at the API boundary.
var (
	ErrNotFound          = errors.New("record not found")
	ErrDuplicateArtifact = errors.New("artifact id already exists")
	ErrArtifactInactive  = errors.New("artifact is not active")
	ErrAlreadyProcessed  = errors.New("interaction already processed")
)

// ArtifactFilter narrows artifact listings.
type ArtifactFilter struct {
	Active *bool
	Room   string
	Limit  int
}

// InteractionFilter narrows interaction listings.
type InteractionFilter struct {
	ArtifactID string
	Processed  *bool
	Since      time.Time
	Limit      int
}

// Store defines the interface for all database operations.
type Store interface {
	DB() *gorm.DB

	ListArtifacts(ctx context.Context, filter ArtifactFilter) ([]model.Artifact, error)
	GetArtifact(ctx context.Context, artifactID string) (*model.Artifact, error)
	CreateArtifact(ctx context.Context, artifact *model.Artifact) error
	ReplaceArtifact(ctx context.Context, artifactID string, artifact *model.Artifact) (*model.Artifact, error)
	ToggleArtifact(ctx context.Context, artifactID string) (*model.Artifact, error)
	DeleteArtifact(ctx context.Context, artifactID string) error

	RecordInteraction(ctx context.Context, interaction *model.Interaction) (*model.Artifact, error)
	ListInteractions(ctx context.Context, filter InteractionFilter) ([]model.Interaction, error)
	GetInteraction(ctx context.Context, id string) (*model.Interaction, error)
	InteractionsByArtifact(ctx context.Context, artifactID string, limit int) ([]model.Interaction, error)
	ClaimInteraction(ctx context.Context, id string) (*model.Interaction, error)
	DeleteInteraction(ctx context.Context, id string) error

	TriggerResponse(ctx context.Context, artifactID, interactionID string, override *model.ResponsePattern) (*TriggerResult, error)
	ResponseHistory(ctx context.Context, artifactID string, limit int) ([]model.Interaction, error)

	Overview(ctx context.Context, since time.Time) (*OverviewStats, error)
	ArtifactActivity(ctx context.Context, artifactID string, since time.Time) (*ArtifactActivity, error)
	HourlySeries(ctx context.Context, since time.Time) ([]HourlyBucket, error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// DB exposes the underlying handle for association queries and tests.
func (s *gormStore) DB() *gorm.DB {
	return s.db
}

// NormalizeID upper-cases an artifact identifier so lookups are
// case-insensitive.
func NormalizeID(artifactID string) string {
	return strings.ToUpper(strings.TrimSpace(artifactID))
}
