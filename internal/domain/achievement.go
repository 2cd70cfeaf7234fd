package domain

import (
	"time"

	"github.com/google/uuid"
)

// UserAchievement is a currently-earned badge. Presence of the row means
// earned; revoking deletes it, so revocable badges always reflect only the
// latest evaluation. Seen resets to false on every earn and re-earn.
type UserAchievement struct {
	ID            uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_user_achievement;column:user_id" json:"user_id"`
	AchievementID string    `gorm:"not null;uniqueIndex:uq_user_achievement;column:achievement_id" json:"achievement_id"`
	EarnedAt      time.Time `gorm:"not null;default:now();column:earned_at" json:"earned_at"`
	Seen          bool      `gorm:"not null;default:false;column:seen" json:"seen"`
}

func (UserAchievement) TableName() string { return "user_achievement" }
