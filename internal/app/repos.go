package app

import (
	"gorm.io/gorm"

	"github.com/rulemine/rulemine-backend/internal/data/repos"
	"github.com/rulemine/rulemine-backend/internal/pkg/logger"
)

type Repos struct {
	User        repos.UserRepo
	Run         repos.GenerationRunRepo
	Population  repos.CellPopulationRepo
	Like        repos.LikeRepo
	Bookmark    repos.BookmarkRepo
	View        repos.ViewRepo
	Discovery   repos.DiscoveryRepo
	Achievement repos.AchievementRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	return Repos{
		User:        repos.NewUserRepo(db, log),
		Run:         repos.NewGenerationRunRepo(db, log),
		Population:  repos.NewCellPopulationRepo(db, log),
		Like:        repos.NewLikeRepo(db, log),
		Bookmark:    repos.NewBookmarkRepo(db, log),
		View:        repos.NewViewRepo(db, log),
		Discovery:   repos.NewDiscoveryRepo(db, log),
		Achievement: repos.NewAchievementRepo(db, log),
	}
}
