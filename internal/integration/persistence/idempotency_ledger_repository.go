// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fitness-tracker/companion/internal/application/adapter"
	"github.com/fitness-tracker/companion/internal/domain/entity"
	domainerror "github.com/fitness-tracker/companion/internal/domain/error"
	"github.com/fitness-tracker/companion/internal/integration/persistence/model"
)

// idempotencyLedgerRepository implements the adapter.IdempotencyLedger interface on SQL.
type idempotencyLedgerRepository struct {
	db        *gorm.DB
	namespace string
	clock     adapter.Clock
}

// NewIdempotencyLedgerRepository creates a new SQL ledger scoped to namespace
// (typically the account id). clock stamps generation updates; nil means
// the system clock.
func NewIdempotencyLedgerRepository(db *gorm.DB, namespace string, clock adapter.Clock) adapter.IdempotencyLedger {
	if clock == nil {
		clock = adapter.SystemClock()
	}
	return &idempotencyLedgerRepository{
		db:        db,
		namespace: namespace,
		clock:     clock,
	}
}

// Insert records the entry if its key is absent, relying on the primary key
// to make the check and the write a single statement.
func (r *idempotencyLedgerRepository) Insert(ctx context.Context, e entity.IdempotencyEntry) (bool, error) {
	entryModel := model.IdempotencyEntryModelFromEntity(r.namespace, e)
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(entryModel)
	if result.Error != nil {
		return false, domainerror.NewLedgerError(
			domainerror.ErrCodeLedgerWriteFailed,
			"failed to record effect",
			result.Error,
		)
	}
	return result.RowsAffected == 1, nil
}

// Exists reports whether an effect key has been recorded.
func (r *idempotencyLedgerRepository) Exists(ctx context.Context, effectKey string) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).
		Model(&model.IdempotencyEntryModel{}).
		Where("namespace = ? AND effect_key = ?", r.namespace, effectKey).
		Count(&count)
	if result.Error != nil {
		return false, domainerror.NewLedgerError(
			domainerror.ErrCodeLedgerUnavailable,
			"failed to read effect",
			result.Error,
		)
	}
	return count > 0, nil
}

// Generation returns the current generation for a scope.
func (r *idempotencyLedgerRepository) Generation(ctx context.Context, scope string) (int64, error) {
	var generationModel model.LedgerGenerationModel
	result := r.db.WithContext(ctx).
		Where("namespace = ? AND scope = ?", r.namespace, scope).
		First(&generationModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, domainerror.NewLedgerError(
			domainerror.ErrCodeLedgerUnavailable,
			"failed to read generation",
			result.Error,
		)
	}
	return generationModel.Generation, nil
}

// AdvanceGeneration increments the generation for a scope in one upsert.
func (r *idempotencyLedgerRepository) AdvanceGeneration(ctx context.Context, scope string) (int64, error) {
	var next int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := r.clock.Now().UTC()
		upsert := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "namespace"}, {Name: "scope"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"generation": gorm.Expr("ledger_generations.generation + 1"),
				"updated_at": now,
			}),
		}).Create(&model.LedgerGenerationModel{
			Namespace:  r.namespace,
			Scope:      scope,
			Generation: 1,
			UpdatedAt:  now,
		})
		if upsert.Error != nil {
			return upsert.Error
		}

		var generationModel model.LedgerGenerationModel
		if err := tx.Where("namespace = ? AND scope = ?", r.namespace, scope).First(&generationModel).Error; err != nil {
			return err
		}
		next = generationModel.Generation
		return nil
	})
	if err != nil {
		return 0, domainerror.NewLedgerError(
			domainerror.ErrCodeLedgerWriteFailed,
			"failed to advance generation",
			err,
		)
	}
	return next, nil
}
