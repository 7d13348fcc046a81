package models

import "gorm.io/gorm"

// Setting stores site-level key/value configuration.
type Setting struct {
	gorm.Model
	Key   string `gorm:"type:varchar(255);uniqueIndex"`
	Value string `gorm:"type:text"`
}

// SiteBackup bundles posts and settings for a full snapshot.
type SiteBackup struct {
	Posts    []PostBackup      `json:"posts"`
	Settings map[string]string `json:"settings,omitempty"`
}
