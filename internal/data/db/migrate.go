package db

import (
	types "github.com/rulemine/rulemine-backend/internal/domain"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(

		// Identity
		&types.User{},

		// Saved entities
		&types.GenerationRun{},
		&types.CellPopulation{},

		// Attribution
		&types.Discovery{},

		// Social counters + behavioral statistics inputs
		&types.Like{},
		&types.Bookmark{},
		&types.GenerationView{},

		// Badges
		&types.UserAchievement{},
	)
}
