package domain

import (
	"time"

	"github.com/google/uuid"
)

// Like marks a user liking one saved entity. Exactly one of GenerationRunID /
// CellPopulationID is set; the composite unique indexes keep likes idempotent
// per (user, entity).
type Like struct {
	ID               uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID           uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_like_run;uniqueIndex:uq_like_pop;column:user_id" json:"user_id"`
	GenerationRunID  *uuid.UUID `gorm:"type:uuid;uniqueIndex:uq_like_run;column:generation_run_id" json:"generation_run_id,omitempty"`
	CellPopulationID *uuid.UUID `gorm:"type:uuid;uniqueIndex:uq_like_pop;column:cell_population_id" json:"cell_population_id,omitempty"`
	CreatedAt        time.Time  `gorm:"not null;default:now()" json:"created_at"`
}

func (Like) TableName() string { return "like" }

type Bookmark struct {
	ID               uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID           uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_bookmark_run;uniqueIndex:uq_bookmark_pop;column:user_id" json:"user_id"`
	GenerationRunID  *uuid.UUID `gorm:"type:uuid;uniqueIndex:uq_bookmark_run;column:generation_run_id" json:"generation_run_id,omitempty"`
	CellPopulationID *uuid.UUID `gorm:"type:uuid;uniqueIndex:uq_bookmark_pop;column:cell_population_id" json:"cell_population_id,omitempty"`
	CreatedAt        time.Time  `gorm:"not null;default:now()" json:"created_at"`
}

func (Bookmark) TableName() string { return "bookmark" }

// GenerationView is one row per (user, configuration) viewed; repeat views
// refresh ViewedAt through an upsert so trailing-window counts stay honest.
type GenerationView struct {
	ID                 uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID             uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_generation_view;column:user_id" json:"user_id"`
	Dimension          int       `gorm:"not null;uniqueIndex:uq_generation_view;column:dimension" json:"dimension"`
	RuleDefinition     string    `gorm:"not null;uniqueIndex:uq_generation_view;column:rule_definition" json:"rule_definition"`
	NeighborhoodRadius int       `gorm:"not null;default:1;uniqueIndex:uq_generation_view;column:neighborhood_radius" json:"neighborhood_radius"`
	LatticeType        string    `gorm:"not null;default:'';uniqueIndex:uq_generation_view;column:lattice_type" json:"lattice_type"`
	ViewedAt           time.Time `gorm:"not null;default:now();index" json:"viewed_at"`
}

func (GenerationView) TableName() string { return "user_generation_view" }
