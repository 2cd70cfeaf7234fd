package repos

import (
	"gorm.io/gorm"

	"github.com/rulemine/rulemine-backend/internal/data/repos/achievements"
	"github.com/rulemine/rulemine-backend/internal/data/repos/discovery"
	"github.com/rulemine/rulemine-backend/internal/data/repos/saves"
	"github.com/rulemine/rulemine-backend/internal/data/repos/user"
	"github.com/rulemine/rulemine-backend/internal/pkg/logger"
)

type UserRepo = user.UserRepo

type GenerationRunRepo = saves.GenerationRunRepo
type CellPopulationRepo = saves.CellPopulationRepo
type LikeRepo = saves.LikeRepo
type BookmarkRepo = saves.BookmarkRepo
type ViewRepo = saves.ViewRepo
type ListParams = saves.ListParams

type DiscoveryRepo = discovery.DiscoveryRepo
type UserClaimCount = discovery.UserClaimCount

type AchievementRepo = achievements.AchievementRepo

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	return user.NewUserRepo(db, baseLog)
}

func NewGenerationRunRepo(db *gorm.DB, baseLog *logger.Logger) GenerationRunRepo {
	return saves.NewGenerationRunRepo(db, baseLog)
}

func NewCellPopulationRepo(db *gorm.DB, baseLog *logger.Logger) CellPopulationRepo {
	return saves.NewCellPopulationRepo(db, baseLog)
}

func NewLikeRepo(db *gorm.DB, baseLog *logger.Logger) LikeRepo {
	return saves.NewLikeRepo(db, baseLog)
}

func NewBookmarkRepo(db *gorm.DB, baseLog *logger.Logger) BookmarkRepo {
	return saves.NewBookmarkRepo(db, baseLog)
}

func NewViewRepo(db *gorm.DB, baseLog *logger.Logger) ViewRepo {
	return saves.NewViewRepo(db, baseLog)
}

func NewDiscoveryRepo(db *gorm.DB, baseLog *logger.Logger) DiscoveryRepo {
	return discovery.NewDiscoveryRepo(db, baseLog)
}

func NewAchievementRepo(db *gorm.DB, baseLog *logger.Logger) AchievementRepo {
	return achievements.NewAchievementRepo(db, baseLog)
}
