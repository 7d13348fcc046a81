package utils

import (
	"workbench/internal/constants"
	"workbench/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func InitDatabase(dbPath string) (*gorm.DB, error) {
	if dbPath == "" {
		dbPath = "workbench.db"
	}
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&models.Post{}, &models.Setting{}); err != nil {
		return nil, err
	}

	if err := seedSettings(db); err != nil {
		return nil, err
	}

	return db, nil
}

// seedSettings populates the database with default settings if they don't exist.
func seedSettings(db *gorm.DB) error {
	defaultSettings := map[string]string{
		constants.SettingPassword:        "admin",
		constants.SettingSiteTitle:       "Digital Workbench",
		constants.SettingSiteDescription: "Notes from the workbench",
		constants.SettingOpenAIBaseURL:   "",
		constants.SettingOpenAIToken:     "",
		constants.SettingOpenAIModel:     "gpt-4o-mini",
		constants.SettingBlobAPIURL:      "",
		constants.SettingBlobToken:       "",
		constants.SettingBackupCron:      "",
	}

	for key, value := range defaultSettings {
		setting := models.Setting{Key: key}
		result := db.FirstOrCreate(&setting, models.Setting{Key: key})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			// Only set the value if the record was just created.
			setting.Value = value
			db.Save(&setting)
		}
	}

	return nil
}
