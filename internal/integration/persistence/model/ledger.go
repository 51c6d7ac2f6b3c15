// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/fitness-tracker/companion/internal/domain/entity"
)

// IdempotencyEntryModel represents the idempotency_ledger table in the database.
type IdempotencyEntryModel struct {
	Namespace string    `gorm:"type:varchar(255);primaryKey"`
	EffectKey string    `gorm:"type:varchar(500);primaryKey"`
	FiredAt   time.Time `gorm:"not null"`
}

// TableName returns the table name for the IdempotencyEntryModel.
func (IdempotencyEntryModel) TableName() string {
	return "idempotency_ledger"
}

// IdempotencyEntryModelFromEntity converts a domain IdempotencyEntry to a model.
func IdempotencyEntryModelFromEntity(namespace string, e entity.IdempotencyEntry) *IdempotencyEntryModel {
	return &IdempotencyEntryModel{
		Namespace: namespace,
		EffectKey: e.EffectKey,
		FiredAt:   e.FiredAt.UTC(),
	}
}

// LedgerGenerationModel represents the ledger_generations table in the database.
type LedgerGenerationModel struct {
	Namespace  string    `gorm:"type:varchar(255);primaryKey"`
	Scope      string    `gorm:"type:varchar(255);primaryKey"`
	Generation int64     `gorm:"not null;default:0"`
	UpdatedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for the LedgerGenerationModel.
func (LedgerGenerationModel) TableName() string {
	return "ledger_generations"
}

// AllModels returns the models migrated for the SQL ledger.
func AllModels() []interface{} {
	return []interface{}{
		&IdempotencyEntryModel{},
		&LedgerGenerationModel{},
	}
}
