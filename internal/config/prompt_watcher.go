package config

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"resumeforge/internal/errors"
)

// PromptWatcher watches persona template files and pushes reloaded content
// into a PromptStore, so prompt tuning does not require a restart.
type PromptWatcher struct {
	mu sync.Mutex

	generateFile string
	improveFile  string
	fallback     Personas
	store        *PromptStore

	fsWatcher     *fsnotify.Watcher
	debounceDelay time.Duration
	debounceTimer *time.Timer

	stopChan chan struct{}
	logger   *errors.Logger
	running  bool
}

// NewPromptWatcher creates a watcher over the configured persona files.
// fallback supplies the persona used when a watched file disappears or
// fails to parse.
func NewPromptWatcher(cfg PromptFilesConfig, fallback Personas, store *PromptStore, logger *errors.Logger) *PromptWatcher {
	return &PromptWatcher{
		generateFile:  cfg.GeneratePersonaFile,
		improveFile:   cfg.ImprovePersonaFile,
		fallback:      fallback,
		store:         store,
		debounceDelay: time.Second,
		stopChan:      make(chan struct{}),
		logger:        logger,
	}
}

// Start begins watching. It is a no-op when no persona files are
// configured.
func (pw *PromptWatcher) Start() error {
	pw.mu.Lock()
	defer pw.mu.Unlock()

	if pw.running {
		return fmt.Errorf("prompt watcher is already running")
	}
	if pw.generateFile == "" && pw.improveFile == "" {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	pw.fsWatcher = watcher

	for _, file := range pw.watchedFiles() {
		// Watch the directory as well so atomic renames are seen.
		if err := watcher.Add(file); err != nil {
			pw.logger.Warn("Failed to watch prompt file", "file", file, "error", err)
		}
		if err := watcher.Add(filepath.Dir(file)); err != nil {
			pw.logger.Warn("Failed to watch prompt directory", "directory", filepath.Dir(file), "error", err)
		}
	}

	pw.running = true
	go pw.watchLoop()

	pw.logger.Info("Prompt file watcher started",
		"files", pw.watchedFiles(),
		"debounce_delay", pw.debounceDelay)
	return nil
}

// Stop stops the watcher.
func (pw *PromptWatcher) Stop() error {
	pw.mu.Lock()
	defer pw.mu.Unlock()

	if !pw.running {
		return nil
	}

	close(pw.stopChan)
	if pw.debounceTimer != nil {
		pw.debounceTimer.Stop()
	}
	if err := pw.fsWatcher.Close(); err != nil {
		pw.logger.LogError(err, "Failed to close prompt file watcher")
		return err
	}

	pw.running = false
	pw.logger.Info("Prompt file watcher stopped")
	return nil
}

func (pw *PromptWatcher) watchedFiles() []string {
	var files []string
	if pw.generateFile != "" {
		files = append(files, pw.generateFile)
	}
	if pw.improveFile != "" {
		files = append(files, pw.improveFile)
	}
	return files
}

func (pw *PromptWatcher) watchLoop() {
	for {
		select {
		case <-pw.stopChan:
			return
		case event, ok := <-pw.fsWatcher.Events:
			if !ok {
				return
			}
			if pw.isRelevant(event) {
				pw.scheduleReload()
			}
		case err, ok := <-pw.fsWatcher.Errors:
			if !ok {
				return
			}
			pw.logger.LogError(err, "Prompt file watcher error")
		}
	}
}

func (pw *PromptWatcher) isRelevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
		return false
	}
	eventPath := filepath.Clean(event.Name)
	for _, file := range pw.watchedFiles() {
		if eventPath == filepath.Clean(file) {
			return true
		}
	}
	return false
}

// scheduleReload debounces bursts of file events into a single reload.
func (pw *PromptWatcher) scheduleReload() {
	pw.mu.Lock()
	defer pw.mu.Unlock()

	if pw.debounceTimer != nil {
		pw.debounceTimer.Stop()
	}
	pw.debounceTimer = time.AfterFunc(pw.debounceDelay, pw.reload)
}

func (pw *PromptWatcher) reload() {
	personas := pw.fallback

	if pw.generateFile != "" {
		if content, err := readPromptFile(pw.generateFile); err != nil {
			pw.logger.Warn("Keeping previous generate persona", "file", pw.generateFile, "error", err)
			personas.Generate = pw.store.Current().Generate
		} else {
			personas.Generate = content
		}
	}
	if pw.improveFile != "" {
		if content, err := readPromptFile(pw.improveFile); err != nil {
			pw.logger.Warn("Keeping previous improve persona", "file", pw.improveFile, "error", err)
			personas.Improve = pw.store.Current().Improve
		} else {
			personas.Improve = content
		}
	}

	pw.store.Replace(personas)
	pw.logger.Info("Prompt personas reloaded")
}
