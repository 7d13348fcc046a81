package tasks

import (
	"errors"
	"log"
	"runtime/debug"
	"sync"

	"workbench/internal/constants"
	"workbench/internal/services"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the periodic local backup snapshot. The cron expression
// lives in the settings table; ReloadTasks picks up changes.
type Scheduler struct {
	cron           *cron.Cron
	settingService *services.SettingService
	backupService  *services.BackupService
	mu             sync.Mutex
}

func NewScheduler(settingService *services.SettingService, backupService *services.BackupService) *Scheduler {
	return &Scheduler{
		cron:           cron.New(),
		settingService: settingService,
		backupService:  backupService,
	}
}

func (s *Scheduler) Start() {
	log.Println("backup scheduler initializing...")
	s.ReloadTasks()
}

func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *Scheduler) ReloadTasks() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil {
		s.cron.Stop()
	}
	s.cron = cron.New()

	spec, err := s.settingService.GetSetting(constants.SettingBackupCron)
	if err != nil || spec == "" {
		log.Println("no backup schedule configured")
		return
	}

	job := func() {
		path, err := s.backupService.Snapshot()
		if err != nil {
			if errors.Is(err, services.ErrBackupNoChange) {
				log.Println("scheduled backup: no changes, skipping")
			} else {
				log.Printf("scheduled backup failed: %v", err)
			}
			return
		}
		log.Printf("scheduled backup written to %s", path)
	}

	if _, err := s.cron.AddFunc(spec, recoveryWrapper(job)); err != nil {
		log.Printf("failed to schedule backup task %q: %v", spec, err)
		return
	}

	s.cron.Start()
	log.Printf("backup task scheduled: %s", spec)
}

func recoveryWrapper(job func()) func() {
	return func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("scheduled task panicked: %v\n%s", r, debug.Stack())
			}
		}()
		job()
	}
}
