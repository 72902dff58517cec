package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dshills/formulary/internal/watcher"
)

// WatchHandler receives the outcome of each validation in watch mode.
// err is set when the formula file cannot be read or the configuration
// cannot be reloaded; path names the file involved.
type WatchHandler func(path string, report Report, err error)

// ValidateFile validates the trimmed content of a formula file.
func (app *Application) ValidateFile(path string) (Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Report{}, fmt.Errorf("reading formula %s: %w", path, err)
	}
	return app.Validate(strings.TrimSpace(string(data))), nil
}

// Watch validates the formula file at path immediately and again after
// every change to it or to the configuration file. A configuration change
// reloads the configuration first. Watch blocks until ctx is done.
func (app *Application) Watch(ctx context.Context, path string, h WatchHandler, opts ...watcher.Option) error {
	if h == nil {
		return errors.New("watch handler is nil")
	}

	opts = append([]watcher.Option{watcher.WithLogger(app.logger.WithComponent("watcher"))}, opts...)
	w, err := watcher.New(opts...)
	if err != nil {
		return err
	}
	defer w.Close()

	formulaPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := w.Add(formulaPath); err != nil {
		return err
	}

	var configPath string
	if app.opts.ConfigPath != "" {
		if abs, err := filepath.Abs(app.opts.ConfigPath); err == nil {
			if err := w.Add(abs); err == nil {
				configPath = abs
			} else {
				app.logger.Warn("not watching config: %v", err)
			}
		}
	}

	check := func() {
		report, err := app.ValidateFile(formulaPath)
		h(formulaPath, report, err)
	}

	w.OnChange(func(ev watcher.Event) {
		log := app.logger.WithFields(map[string]any{"path": ev.Path, "op": ev.Op})
		switch ev.Path {
		case configPath:
			log.Debug("config changed")
			if err := app.Reload(); err != nil {
				h(configPath, Report{}, err)
				return
			}
			check()
		case formulaPath:
			log.Debug("formula changed")
			check()
		}
	})

	check()
	if err := w.Start(ctx); err != nil {
		return err
	}
	<-w.Done()
	return nil
}
