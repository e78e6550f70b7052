package store

import (
	"context"
	"fmt"
	"sort"
	"time"

	"museum-artifact-backend/internal/model"
)

// PopularArtifact is one row of the overview's most-interacted ranking.
type PopularArtifact struct {
	ArtifactID string `gorm:"column:artifact_id" json:"artifactId"`
	Count      int64  `gorm:"column:count" json:"count"`
}

// SensorTypeCount groups windowed interactions by sensor kind.
type SensorTypeCount struct {
	Type  model.SensorType `gorm:"column:type" json:"type"`
	Count int64            `gorm:"column:count" json:"count"`
}

// OverviewStats aggregates museum-wide counts for one lookback window.
type OverviewStats struct {
	TotalArtifacts     int64
	ActiveArtifacts    int64
	TotalInteractions  int64
	RecentInteractions int64
	PopularArtifacts   []PopularArtifact
	InteractionsByType []SensorTypeCount
}

// HourOfDayCount groups an artifact's windowed interactions by hour of day.
type HourOfDayCount struct {
	Hour  int   `json:"hour"`
	Count int64 `json:"count"`
}

// ArtifactActivity aggregates one artifact's activity within a window.
type ArtifactActivity struct {
	Artifact           *model.Artifact
	Interactions       int64
	ResponsesTriggered int64
	AverageSensorValue float64
	InteractionsByHour []HourOfDayCount
}

// HourlyBucket is one calendar-hour bucket of the museum-wide time series.
type HourlyBucket struct {
	Timestamp       time.Time `json:"timestamp"`
	Count           int64     `json:"count"`
	UniqueArtifacts int       `json:"uniqueArtifacts"`
}

// Overview computes the museum-wide statistics. Everything is recomputed per
// request; there is no caching in front of these queries.
func (s *gormStore) Overview(ctx context.Context, since time.Time) (*OverviewStats, error) {
	db := s.db.WithContext(ctx)
	var stats OverviewStats

	if err := db.Model(&model.Artifact{}).Count(&stats.TotalArtifacts).Error; err != nil {
		return nil, fmt.Errorf("failed to count artifacts: %w", err)
	}
	if err := db.Model(&model.Artifact{}).Where("is_active = ?", true).Count(&stats.ActiveArtifacts).Error; err != nil {
		return nil, fmt.Errorf("failed to count active artifacts: %w", err)
	}
	if err := db.Model(&model.Interaction{}).Count(&stats.TotalInteractions).Error; err != nil {
		return nil, fmt.Errorf("failed to count interactions: %w", err)
	}
	if err := db.Model(&model.Interaction{}).Where("created_at >= ?", since).Count(&stats.RecentInteractions).Error; err != nil {
		return nil, fmt.Errorf("failed to count recent interactions: %w", err)
	}

	if err := db.Model(&model.Interaction{}).
		Select("artifact_id, COUNT(*) AS count").
		Where("created_at >= ?", since).
		Group("artifact_id").
		Order("count DESC").
		Limit(5).
		Scan(&stats.PopularArtifacts).Error; err != nil {
		return nil, fmt.Errorf("failed to rank popular artifacts: %w", err)
	}

	if err := db.Model(&model.Interaction{}).
		Select("sensor_type AS type, COUNT(*) AS count").
		Where("created_at >= ?", since).
		Group("sensor_type").
		Scan(&stats.InteractionsByType).Error; err != nil {
		return nil, fmt.Errorf("failed to group interactions by sensor type: %w", err)
	}

	return &stats, nil
}

// ArtifactActivity computes one artifact's windowed activity. The hour-of-day
// histogram is folded in Go over the windowed rows so the query stays
// portable between the postgres and sqlite drivers.
func (s *gormStore) ArtifactActivity(ctx context.Context, artifactID string, since time.Time) (*ArtifactActivity, error) {
	db := s.db.WithContext(ctx)

	artifact, err := findArtifact(db, artifactID)
	if err != nil {
		return nil, err
	}

	activity := ArtifactActivity{Artifact: artifact}

	if err := db.Model(&model.Interaction{}).
		Where("artifact_id = ? AND created_at >= ?", artifact.ArtifactID, since).
		Count(&activity.Interactions).Error; err != nil {
		return nil, fmt.Errorf("failed to count interactions for %q: %w", artifact.ArtifactID, err)
	}

	if err := db.Model(&model.Interaction{}).
		Where("artifact_id = ? AND response_triggered = ? AND created_at >= ?", artifact.ArtifactID, true, since).
		Count(&activity.ResponsesTriggered).Error; err != nil {
		return nil, fmt.Errorf("failed to count triggered responses for %q: %w", artifact.ArtifactID, err)
	}

	row := db.Model(&model.Interaction{}).
		Select("COALESCE(AVG(sensor_value), 0)").
		Where("artifact_id = ? AND created_at >= ?", artifact.ArtifactID, since).
		Row()
	if err := row.Scan(&activity.AverageSensorValue); err != nil {
		return nil, fmt.Errorf("failed to average sensor values for %q: %w", artifact.ArtifactID, err)
	}

	var createdAts []time.Time
	if err := db.Model(&model.Interaction{}).
		Where("artifact_id = ? AND created_at >= ?", artifact.ArtifactID, since).
		Pluck("created_at", &createdAts).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch interaction times for %q: %w", artifact.ArtifactID, err)
	}

	byHour := make(map[int]int64)
	for _, t := range createdAts {
		byHour[t.UTC().Hour()]++
	}
	for hour := 0; hour < 24; hour++ {
		if count, ok := byHour[hour]; ok {
			activity.InteractionsByHour = append(activity.InteractionsByHour, HourOfDayCount{Hour: hour, Count: count})
		}
	}

	return &activity, nil
}

// HourlySeries buckets windowed interactions by calendar hour, ascending.
func (s *gormStore) HourlySeries(ctx context.Context, since time.Time) ([]HourlyBucket, error) {
	var rows []struct {
		CreatedAt  time.Time
		ArtifactID string
	}
	if err := s.db.WithContext(ctx).Model(&model.Interaction{}).
		Select("created_at, artifact_id").
		Where("created_at >= ?", since).
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch windowed interactions: %w", err)
	}

	counts := make(map[time.Time]int64)
	artifacts := make(map[time.Time]map[string]struct{})
	for _, r := range rows {
		bucket := r.CreatedAt.UTC().Truncate(time.Hour)
		counts[bucket]++
		if artifacts[bucket] == nil {
			artifacts[bucket] = make(map[string]struct{})
		}
		artifacts[bucket][r.ArtifactID] = struct{}{}
	}

	series := make([]HourlyBucket, 0, len(counts))
	for bucket, count := range counts {
		series = append(series, HourlyBucket{
			Timestamp:       bucket,
			Count:           count,
			UniqueArtifacts: len(artifacts[bucket]),
		})
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Timestamp.Before(series[j].Timestamp) })
	return series, nil
}
