package services

import (
	"archive/zip"
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"workbench/internal/constants"
	"workbench/internal/models"
)

var ErrBackupNoChange = errors.New("no changes since last backup")

// BackupService exports posts as zipped JSON, restores them, and writes
// scheduled snapshots to a local directory.
type BackupService struct {
	PostService    *PostService
	SettingService *SettingService
	Dir            string
}

func NewBackupService(postService *PostService, settingService *SettingService, dir string) *BackupService {
	return &BackupService{
		PostService:    postService,
		SettingService: settingService,
		Dir:            dir,
	}
}

func (s *BackupService) generateBackupDataAndHash() (*models.SiteBackup, string, error) {
	posts, err := s.PostService.GetAllPostsForBackup()
	if err != nil {
		return nil, "", fmt.Errorf("failed to collect posts: %w", err)
	}

	settings, err := s.SettingService.GetAllSettings()
	if err != nil {
		return nil, "", fmt.Errorf("failed to collect settings: %w", err)
	}
	delete(settings, constants.SettingBackupLastHash)

	backupData := &models.SiteBackup{
		Posts:    posts,
		Settings: settings,
	}

	jsonData, err := json.Marshal(backupData)
	if err != nil {
		return nil, "", fmt.Errorf("failed to serialize backup: %w", err)
	}

	hash := sha256.Sum256(jsonData)
	return backupData, hex.EncodeToString(hash[:]), nil
}

// ExportZip builds a zip archive containing backup.json with all posts and
// settings, for the admin download endpoint.
func (s *BackupService) ExportZip() ([]byte, error) {
	backupData, _, err := s.generateBackupDataAndHash()
	if err != nil {
		return nil, err
	}
	return zipBackup(backupData)
}

// ImportPosts re-creates each backed up post through the normal create path,
// so ids and slugs are assigned fresh and uniqueness holds against the
// current collection.
func (s *BackupService) ImportPosts(posts []models.PostBackup) error {
	for _, p := range posts {
		if _, err := s.PostService.RestorePost(p); err != nil {
			return fmt.Errorf("failed to import post %q: %w", p.Title, err)
		}
	}
	return nil
}

// Snapshot writes a zip backup into the backup directory unless nothing
// changed since the previous one. Returns the written path.
func (s *BackupService) Snapshot() (string, error) {
	backupData, newHash, err := s.generateBackupDataAndHash()
	if err != nil {
		return "", err
	}

	lastHash, _ := s.SettingService.GetSetting(constants.SettingBackupLastHash)
	if newHash == lastHash {
		return "", ErrBackupNoChange
	}

	content, err := zipBackup(backupData)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	path := filepath.Join(s.Dir, fmt.Sprintf("workbench_backup_%s.zip", time.Now().Format("20060102150405")))
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", fmt.Errorf("failed to write backup file: %w", err)
	}

	err = s.SettingService.UpdateSettings(map[string]string{
		constants.SettingBackupLastHash: newHash,
	})
	return path, err
}

func zipBackup(backupData *models.SiteBackup) ([]byte, error) {
	jsonData, err := json.MarshalIndent(backupData, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize backup: %w", err)
	}

	buf := new(bytes.Buffer)
	zipWriter := zip.NewWriter(buf)
	zipFile, err := zipWriter.Create("backup.json")
	if err != nil {
		return nil, fmt.Errorf("failed to create zip entry: %w", err)
	}
	if _, err := zipFile.Write(jsonData); err != nil {
		return nil, fmt.Errorf("failed to write zip entry: %w", err)
	}
	if err := zipWriter.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
