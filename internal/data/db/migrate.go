package db

import (
	"gorm.io/gorm"

	"github.com/cognigen/cognigen-backend/internal/domain/learning"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		&learning.LearningPath{},
	)
}
