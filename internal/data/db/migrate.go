package db

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/playdeck/gameguide-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		&types.User{},
		&types.Feedback{},
		&types.SearchedGame{},
		&types.ChatRecord{},
	)
}

func EnsureUserIndexes(db *gorm.DB) error {
	// Usernames are unique case-insensitively; this index is also what
	// login and the registration pre-check match against.
	if err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_users_user_name_lower
		ON users (lower(user_name))
		WHERE deleted_at IS NULL;
	`).Error; err != nil {
		return fmt.Errorf("create idx_users_user_name_lower: %w", err)
	}
	return nil
}

func EnsureChatIndexes(db *gorm.DB) error {
	// History reload and the per-user question cap both scan by user + time.
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_chat_history_user_timestamp
		ON chat_history (user_id, timestamp);
	`).Error; err != nil {
		return fmt.Errorf("create idx_chat_history_user_timestamp: %w", err)
	}

	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_feedback_user_type
		ON feedback (user_id, feedback_type);
	`).Error; err != nil {
		return fmt.Errorf("create idx_feedback_user_type: %w", err)
	}
	return nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	if err := AutoMigrateAll(s.db); err != nil {
		s.log.Error("Auto migration failed", "error", err)
		return err
	}
	if err := EnsureUserIndexes(s.db); err != nil {
		s.log.Error("User index migration failed", "error", err)
		return err
	}
	if err := EnsureChatIndexes(s.db); err != nil {
		s.log.Error("Chat index migration failed", "error", err)
		return err
	}
	return nil
}
