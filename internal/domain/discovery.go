package domain

import (
	"time"

	"github.com/google/uuid"
)

// Entity kinds a discovery can point at.
const (
	EntityKindGenerationRun  = "generation_run"
	EntityKindCellPopulation = "cell_population"
)

// Discovery records who first saved a fingerprint. Insert-only: rows are
// created exactly once (the primary key on fingerprint is the synchronization
// primitive for concurrent claims) and never updated or deleted afterwards.
type Discovery struct {
	Fingerprint        string    `gorm:"primaryKey;column:fingerprint" json:"fingerprint"`
	EntityKind         string    `gorm:"not null;column:entity_kind" json:"entity_kind"`
	EntityID           uuid.UUID `gorm:"type:uuid;not null;column:entity_id" json:"entity_id"`
	DiscoveredByUserID uuid.UUID `gorm:"type:uuid;not null;index;column:discovered_by_user_id" json:"discovered_by_user_id"`
	DiscoveredAt       time.Time `gorm:"not null;default:now();index" json:"discovered_at"`
}

func (Discovery) TableName() string { return "discovery" }
