package app

import (
	"gorm.io/gorm"

	"github.com/playdeck/gameguide-backend/internal/data/repos"
	"github.com/playdeck/gameguide-backend/internal/platform/logger"
)

type Repos struct {
	User         repos.UserRepo
	Chat         repos.ChatRepo
	Feedback     repos.FeedbackRepo
	SearchedGame repos.SearchedGameRepo
	Analytics    repos.AnalyticsRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:         repos.NewUserRepo(db, log),
		Chat:         repos.NewChatRepo(db, log),
		Feedback:     repos.NewFeedbackRepo(db, log),
		SearchedGame: repos.NewSearchedGameRepo(db, log),
		Analytics:    repos.NewAnalyticsRepo(db, log),
	}
}
