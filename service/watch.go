package service

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the catalogue whenever its file changes, until ctx is done.
//
// The containing directory is watched so that a file replaced by rename is
// followed too. Bursts of events are debounced by Config.Debounce, and a
// reload happens only when the file content actually changed. Failed reloads
// are logged and leave the current parser in service.
func (s *Service) Watch(ctx context.Context) error {
	path, err := filepath.Abs(s.config.Path)
	if err != nil {
		return fmt.Errorf("service: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("service: create watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("service: watch %s: %w", filepath.Dir(path), err)
	}
	s.logger.Debug("watching catalogue", slog.String("path", path))

	timer := time.NewTimer(s.config.Debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				timer.Reset(s.config.Debounce)
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("catalogue watcher", slog.Any("error", err))

		case <-timer.C:
			changed, err := s.reloadIfChanged()
			switch {
			case err != nil:
				s.logger.Error("catalogue reload failed",
					slog.String("path", path),
					slog.Any("error", err),
				)
			case !changed:
				s.logger.Debug("catalogue unchanged", slog.String("path", path))
			}
		}
	}
}
