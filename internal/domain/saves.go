package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Rule families supported by the simulator.
const (
	RuleFamilyWolfram = "wolfram"
	RuleFamilyConway  = "conway"
)

// Stability classifications for a cell population snapshot.
const (
	StabilityEvolving = "evolving"
	StabilityStable   = "stable"
	StabilityPeriodic = "periodic"
)

// GenerationRun is a user-saved automaton run. The fingerprint column carries
// a unique index: the table itself is the last line of defense against two
// saves of the same configuration, independent of the discovery claim.
//
// Rows are soft-deleted so a user's lifetime saved-run count never decreases.
type GenerationRun struct {
	ID                 uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID             uuid.UUID      `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
	Dimension          int            `gorm:"not null;column:dimension" json:"dimension"`
	RuleFamily         string         `gorm:"not null;column:rule_family" json:"rule_family"`
	RuleDefinition     string         `gorm:"not null;column:rule_definition" json:"rule_definition"`
	NeighborhoodRadius int            `gorm:"not null;default:1;column:neighborhood_radius" json:"neighborhood_radius"`
	LatticeType        *string        `gorm:"column:lattice_type" json:"lattice_type,omitempty"`
	PopulationShape    datatypes.JSON `gorm:"column:population_shape" json:"population_shape"`
	CellStates         datatypes.JSON `gorm:"column:cell_states" json:"cell_states"`
	SeedPopulation     []byte         `gorm:"column:seed_population" json:"-"`
	GenerationIndex    int            `gorm:"column:generation_index" json:"generation_index"`
	Title              string         `gorm:"column:title" json:"title"`
	Description        string         `gorm:"column:description" json:"description"`
	Fingerprint        string         `gorm:"uniqueIndex;not null;column:fingerprint" json:"fingerprint"`
	LikeCount          int64          `gorm:"not null;default:0;column:like_count" json:"like_count"`
	BookmarkCount      int64          `gorm:"not null;default:0;column:bookmark_count" json:"bookmark_count"`

	CreatedAt time.Time      `gorm:"not null;default:now();index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (GenerationRun) TableName() string { return "generation_run" }

// CellPopulation is a saved population snapshot. Same uniqueness defense as
// GenerationRun; the fingerprint additionally folds in stability.
type CellPopulation struct {
	ID                 uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID             uuid.UUID      `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
	Dimension          int            `gorm:"not null;column:dimension" json:"dimension"`
	RuleFamily         string         `gorm:"not null;column:rule_family" json:"rule_family"`
	RuleDefinition     string         `gorm:"not null;column:rule_definition" json:"rule_definition"`
	NeighborhoodRadius int            `gorm:"not null;default:1;column:neighborhood_radius" json:"neighborhood_radius"`
	LatticeType        *string        `gorm:"column:lattice_type" json:"lattice_type,omitempty"`
	Stability          string         `gorm:"not null;column:stability" json:"stability"`
	StablePeriod       *int           `gorm:"column:stable_period" json:"stable_period,omitempty"`
	Cells              datatypes.JSON `gorm:"column:cells" json:"cells"`
	Title              string         `gorm:"column:title" json:"title"`
	Description        string         `gorm:"column:description" json:"description"`
	Fingerprint        string         `gorm:"uniqueIndex;not null;column:fingerprint" json:"fingerprint"`
	LikeCount          int64          `gorm:"not null;default:0;column:like_count" json:"like_count"`
	BookmarkCount      int64          `gorm:"not null;default:0;column:bookmark_count" json:"bookmark_count"`

	CreatedAt time.Time      `gorm:"not null;default:now();index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (CellPopulation) TableName() string { return "cell_population" }
