package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// FormulaExtension is the extension of formula files.
const FormulaExtension = ".mlgf"

// settleDelay groups the bursts of events an editor produces for one save.
const settleDelay = 100 * time.Millisecond

// ResultHandler receives the result of re-rendering a changed file.
type ResultHandler func(filename string, result Result)

// StartWatching watches the directory trees below dirs and re-renders every
// formula file that is written or created.
func (e *Engine) StartWatching(dirs []string, handler ResultHandler) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.isWatching {
		return fmt.Errorf("already watching")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("error creating watcher: %w", err)
	}

	for _, dir := range dirs {
		err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !info.IsDir() {
				return nil
			}
			if path != dir && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return watcher.Add(path)
		})
		if err != nil {
			watcher.Close()
			return fmt.Errorf("error adding directory to watcher: %w", err)
		}
	}

	e.watcher = watcher
	e.watchDirs = dirs
	e.isWatching = true
	e.logger.Info("watching for changes", zap.Strings("dirs", dirs))

	go e.watchLoop(watcher, handler)
	return nil
}

func (e *Engine) StopWatching() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.isWatching {
		return fmt.Errorf("not watching")
	}

	e.isWatching = false
	return e.watcher.Close()
}

// IsWatching reports whether the engine is watching for changes.
func (e *Engine) IsWatching() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.isWatching
}

func (e *Engine) watchLoop(watcher *fsnotify.Watcher, handler ResultHandler) {
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			e.handleFileEvent(event, handler)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			e.logger.Error("watch error", zap.Error(err))
		}
	}
}

func (e *Engine) handleFileEvent(event fsnotify.Event, handler ResultHandler) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}
	if !strings.HasSuffix(event.Name, FormulaExtension) {
		return
	}

	// wait for a while after file change to consider multiple changes as one
	time.Sleep(settleDelay)

	result, err := e.Run(event.Name)
	if err != nil {
		e.logger.Error("error rendering file", zap.String("path", event.Name), zap.Error(err))
		return
	}
	e.reportResult(event.Name, result)
	if handler != nil {
		handler(event.Name, result)
	}
}

func (e *Engine) reportResult(filename string, result Result) {
	if len(result.Issues) == 0 {
		e.logger.Info("no issues found", zap.String("path", filename))
		return
	}

	e.logger.Info("found issues",
		zap.String("path", filename),
		zap.Int("count", len(result.Issues)))
	for _, issue := range result.Issues {
		e.logger.Debug("issue",
			zap.String("rule", issue.Rule),
			zap.String("message", issue.Message))
	}
}
