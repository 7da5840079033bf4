package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/vitals"
	"gorm.io/gorm"
)

// VitalModel is the GORM model for web vitals
type VitalModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	MetricID       string    `gorm:"size:100;not null"`
	Name           string    `gorm:"size:10;not null;index:idx_web_vitals_name_recorded,priority:1"`
	Value          float64   `gorm:"not null"`
	Delta          float64   `gorm:"not null;default:0"`
	Rating         string    `gorm:"size:20"`
	NavigationType string    `gorm:"size:30"`
	Page           string    `gorm:"size:500"`
	RecordedAt     time.Time `gorm:"not null;index:idx_web_vitals_name_recorded,priority:2"`
}

// TableName returns the table name for the model
func (VitalModel) TableName() string {
	return "web_vitals"
}

// ToEntity converts the model to a domain entity
func (m *VitalModel) ToEntity() *vitals.Vital {
	return &vitals.Vital{
		ID:             m.ID,
		MetricID:       m.MetricID,
		Name:           m.Name,
		Value:          m.Value,
		Delta:          m.Delta,
		Rating:         m.Rating,
		NavigationType: m.NavigationType,
		Page:           m.Page,
		RecordedAt:     m.RecordedAt,
	}
}

// VitalModelFromEntity creates a model from a domain entity
func VitalModelFromEntity(v *vitals.Vital) *VitalModel {
	return &VitalModel{
		ID:             v.ID,
		MetricID:       v.MetricID,
		Name:           v.Name,
		Value:          v.Value,
		Delta:          v.Delta,
		Rating:         v.Rating,
		NavigationType: v.NavigationType,
		Page:           v.Page,
		RecordedAt:     v.RecordedAt,
	}
}

// VitalRepository implements vitals.Repository
type VitalRepository struct {
	db      *gorm.DB
	builder squirrel.StatementBuilderType
}

// NewVitalRepository creates a new vital repository
func NewVitalRepository(db *gorm.DB) *VitalRepository {
	var format squirrel.PlaceholderFormat = squirrel.Question
	if db.Dialector.Name() == DriverPostgres {
		format = squirrel.Dollar
	}
	return &VitalRepository{
		db:      db,
		builder: squirrel.StatementBuilder.PlaceholderFormat(format),
	}
}

// Save inserts a vital
func (r *VitalRepository) Save(ctx context.Context, v *vitals.Vital) error {
	if err := r.db.WithContext(ctx).Create(VitalModelFromEntity(v)).Error; err != nil {
		return fmt.Errorf("save vital: %w", err)
	}
	return nil
}

type aggregateRow struct {
	Name    string
	Count   int64
	Average float64
}

// Aggregate returns count and mean per metric recorded at or after since
func (r *VitalRepository) Aggregate(ctx context.Context, since time.Time) ([]vitals.Aggregate, error) {
	query, args, err := r.builder.
		Select("name", "COUNT(*) AS count", "AVG(value) AS average").
		From(VitalModel{}.TableName()).
		Where(squirrel.GtOrEq{"recorded_at": since.UTC()}).
		GroupBy("name").
		OrderBy("name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build aggregate query: %w", err)
	}

	var rows []aggregateRow
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("aggregate vitals: %w", err)
	}

	out := make([]vitals.Aggregate, len(rows))
	for i, row := range rows {
		out[i] = vitals.Aggregate{Name: row.Name, Count: row.Count, Average: row.Average}
	}
	return out, nil
}

type valueRow struct {
	Name  string
	Value float64
}

// ValuesByMetric loads the values of every metric in one query, ordered by
// name then value
func (r *VitalRepository) ValuesByMetric(ctx context.Context, since time.Time) (map[string][]float64, error) {
	query, args, err := r.builder.
		Select("name", "value").
		From(VitalModel{}.TableName()).
		Where(squirrel.GtOrEq{"recorded_at": since.UTC()}).
		OrderBy("name", "value").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build values query: %w", err)
	}

	var rows []valueRow
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("list vital values: %w", err)
	}

	out := make(map[string][]float64)
	for _, row := range rows {
		out[row.Name] = append(out[row.Name], row.Value)
	}
	return out, nil
}

var _ vitals.Repository = (*VitalRepository)(nil)
