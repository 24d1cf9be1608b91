package model

import "gorm.io/gorm"

// AutoMigrate runs GORM auto-migration for all models and creates custom indexes.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&Player{},
		&Group{},
		&Membership{},
		&Prize{},
		&Match{},
		&Attendance{},
		&GoalEvent{},
		&PrizeAward{},
		&JoinRequest{},
	); err != nil {
		return err
	}

	// Case-insensitive unique username.
	if err := db.Exec(
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_players_username_lower " +
			"ON players ((lower(username)))",
	).Error; err != nil {
		return err
	}

	// Group admins are looked up by player when listing "my groups".
	return db.Exec(
		"CREATE INDEX IF NOT EXISTS idx_group_admins_player ON group_admins (player_id)",
	).Error
}
