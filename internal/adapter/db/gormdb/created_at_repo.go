package gormdb

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CreatedAtRepo persists user creation times through GORM.
type CreatedAtRepo struct {
	db  *gorm.DB    // GORM database connection
	log *zap.Logger // Structured logger for database operations
}

// NewCreatedAtRepo creates a new instance of CreatedAtRepo.
func NewCreatedAtRepo(db *gorm.DB, log *zap.Logger) *CreatedAtRepo {
	return &CreatedAtRepo{db: db, log: log}
}

// UserEntity is the single row kept locally per remote user.
type UserEntity struct {
	ID        int64 `gorm:"primaryKey;autoIncrement:false"` // Remote user identifier
	CreatedAt int64 `gorm:"not null;autoCreateTime:false"`  // Epoch milliseconds
}

// TableName specifies the table name for the UserEntity model.
func (UserEntity) TableName() string {
	return "users"
}

// Migrate creates or updates the users table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&UserEntity{}); err != nil {
		return fmt.Errorf("failed to migrate users table: %w", err)
	}
	return nil
}

// Get retrieves the creation time recorded for id.
func (r *CreatedAtRepo) Get(ctx context.Context, id int64) (int64, bool, error) {
	var model UserEntity
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("creation time not found in db", zap.Int64("id", id))
			return 0, false, nil
		}
		r.log.Error("failed to get creation time from db", zap.Error(err), zap.Int64("id", id))
		return 0, false, fmt.Errorf("failed to get creation time: %w", err)
	}

	return model.CreatedAt, true, nil
}

// Put inserts or replaces the creation time for id.
func (r *CreatedAtRepo) Put(ctx context.Context, id int64, ts int64) error {
	model := UserEntity{
		ID:        id,
		CreatedAt: ts,
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"created_at"}),
		}).
		Create(&model).Error
	if err != nil {
		r.log.Error("failed to store creation time in db", zap.Error(err), zap.Int64("id", id))
		return fmt.Errorf("failed to store creation time: %w", err)
	}

	r.log.Debug("creation time stored in db", zap.Int64("id", id), zap.Int64("created_at", ts))
	return nil
}

// Remove deletes the row for id. Missing rows are not an error.
func (r *CreatedAtRepo) Remove(ctx context.Context, id int64) error {
	if err := r.db.WithContext(ctx).Delete(&UserEntity{}, id).Error; err != nil {
		r.log.Error("failed to delete creation time in db", zap.Error(err), zap.Int64("id", id))
		return fmt.Errorf("failed to delete creation time: %w", err)
	}

	r.log.Debug("creation time deleted in db", zap.Int64("id", id))
	return nil
}

// Count returns the number of stored rows.
func (r *CreatedAtRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&UserEntity{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count creation times: %w", err)
	}
	return n, nil
}
