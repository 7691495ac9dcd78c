// internal/repository/check_run.go
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/dangerclosesec/siren/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CheckRunRepositoryIface interface {
	Create(ctx context.Context, run *model.CheckRun) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.CheckRun, error)
	Query(ctx context.Context, params QueryParams) ([]model.CheckRun, int64, error)
}

// CheckRunRepository handles database operations for check runs
type CheckRunRepository struct {
	db *gorm.DB
}

// NewCheckRunRepository creates a new CheckRunRepository
func NewCheckRunRepository(db *gorm.DB) *CheckRunRepository {
	return &CheckRunRepository{db: db}
}

// Create inserts a new check run
func (r *CheckRunRepository) Create(ctx context.Context, run *model.CheckRun) error {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}

	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	result := r.db.WithContext(ctx).Create(run)
	if result.Error != nil {
		return fmt.Errorf("failed to create check run: %w", translateError(result.Error))
	}

	return nil
}

// FindByID retrieves a check run by its ID
func (r *CheckRunRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.CheckRun, error) {
	var run model.CheckRun
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&run)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to find check run: %w", translateError(result.Error))
	}

	return &run, nil
}

// QueryParams holds parameters for querying check runs
type QueryParams struct {
	SourceName string
	SourceHash string
	Accepted   *bool
	StartTime  time.Time
	EndTime    time.Time
	Limit      int
	Offset     int
}

// Query retrieves check runs matching params, newest first, along with the
// total number of matches
func (r *CheckRunRepository) Query(ctx context.Context, params QueryParams) ([]model.CheckRun, int64, error) {
	var runs []model.CheckRun
	var count int64

	query := r.db.WithContext(ctx).Model(&model.CheckRun{})

	// Apply filters
	if params.SourceName != "" {
		query = query.Where("source_name = ?", params.SourceName)
	}
	if params.SourceHash != "" {
		query = query.Where("source_hash = ?", params.SourceHash)
	}
	if params.Accepted != nil {
		query = query.Where("accepted = ?", *params.Accepted)
	}
	if !params.StartTime.IsZero() {
		query = query.Where("created_at >= ?", params.StartTime)
	}
	if !params.EndTime.IsZero() {
		query = query.Where("created_at <= ?", params.EndTime)
	}

	// Get total count for pagination
	if err := query.Count(&count).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count check runs: %w", translateError(err))
	}

	// Apply pagination
	if params.Limit > 0 {
		query = query.Limit(params.Limit)
	} else {
		query = query.Limit(100) // Default limit
	}

	if params.Offset > 0 {
		query = query.Offset(params.Offset)
	}

	result := query.Order("created_at DESC").Find(&runs)
	if result.Error != nil {
		return nil, 0, fmt.Errorf("failed to query check runs: %w", translateError(result.Error))
	}

	return runs, count, nil
}
