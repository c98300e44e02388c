// Package settingsstore keeps the settings blob in a JSON file next to the data store.
package settingsstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/alchemorsel/kitchen/internal/domain/settings"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const debounceDelay = 100 * time.Millisecond

// FileStore implements outbound.SettingsStore on a single JSON file
type FileStore struct {
	path   string
	mu     sync.Mutex
	logger *zap.Logger
}

// NewFileStore creates a store for the blob at path; the file need not exist yet
func NewFileStore(path string, logger *zap.Logger) *FileStore {
	return &FileStore{
		path:   path,
		logger: logger.Named("settings-store"),
	}
}

// Path returns the file backing the store
func (s *FileStore) Path() string {
	return s.path
}

// Load merges the stored blob over the defaults key by key. A missing or unreadable
// blob yields the defaults.
func (s *FileStore) Load() (settings.AppSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return settings.Defaults(), nil
	}
	if err != nil {
		return settings.AppSettings{}, fmt.Errorf("failed to read settings: %w", err)
	}

	merged, err := merge(data)
	if err != nil {
		s.logger.Warn("Stored settings are unreadable, using defaults",
			zap.String("path", s.path),
			zap.Error(err),
		)
		return settings.Defaults(), nil
	}
	return merged, nil
}

// Save writes the blob atomically by renaming a temp file over the old one
func (s *FileStore) Save(value settings.AppSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	value.Version = settings.CurrentVersion
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".settings-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp settings file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write settings: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace settings: %w", err)
	}

	s.logger.Debug("Settings saved", zap.String("path", s.path))
	return nil
}

// Watch calls onChange with the freshly merged blob whenever the file is written
// by another process. It returns once the watcher is running and stops with ctx.
func (s *FileStore) Watch(ctx context.Context, onChange func(settings.AppSettings)) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create settings watcher: %w", err)
	}
	// The directory is watched because Save replaces the file by rename.
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	go s.watchLoop(ctx, watcher, onChange)
	return nil
}

func (s *FileStore) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, onChange func(settings.AppSettings)) {
	defer watcher.Close()

	target := filepath.Clean(s.path)
	var timer *time.Timer
	fire := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target || !event.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounceDelay, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})

		case <-fire:
			current, err := s.Load()
			if err != nil {
				s.logger.Warn("Failed to reload settings", zap.Error(err))
				continue
			}
			s.logger.Info("Settings changed on disk", zap.String("path", s.path))
			onChange(current)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			s.logger.Warn("Settings watcher error", zap.Error(err))
		}
	}
}

// merge lays the stored JSON over the defaults with viper, so keys added after the
// blob was written still get their default value.
func merge(data []byte) (settings.AppSettings, error) {
	v := viper.New()
	v.SetConfigType("json")
	setDefaults(v, settings.Defaults())

	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return settings.AppSettings{}, err
	}

	var out settings.AppSettings
	if err := v.Unmarshal(&out); err != nil {
		return settings.AppSettings{}, err
	}
	out.Version = settings.CurrentVersion
	return out, nil
}

func setDefaults(v *viper.Viper, d settings.AppSettings) {
	v.SetDefault("version", d.Version)
	v.SetDefault("displayName", d.DisplayName)
	v.SetDefault("defaultServings", d.DefaultServings)
	v.SetDefault("weekStartDay", d.WeekStartDay)

	v.SetDefault("aiPreferences.diet", d.AIPreferences.Diet)
	v.SetDefault("aiPreferences.allergies", d.AIPreferences.Allergies)
	v.SetDefault("aiPreferences.dislikedFoods", d.AIPreferences.DislikedFoods)
	v.SetDefault("aiPreferences.preferredCuisines", d.AIPreferences.PreferredCuisines)
	v.SetDefault("aiPreferences.skillLevel", d.AIPreferences.SkillLevel)
	v.SetDefault("aiPreferences.maxPrepMinutes", d.AIPreferences.MaxPrepMinutes)
	v.SetDefault("aiPreferences.preferPantryItems", d.AIPreferences.PreferPantryItems)

	v.SetDefault("shopping.moveCheckedToPantry", d.Shopping.MoveCheckedToPantry)
	v.SetDefault("shopping.groupByCategory", d.Shopping.GroupByCategory)
}
