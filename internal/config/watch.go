package config

import (
	"log/slog"

	"github.com/fsnotify/fsnotify"
)

// Watch observes path for writes/creates and invokes onChange with the
// freshly reloaded Config each time (SPEC_FULL.md S3: config hot-reload).
// It is an ambient convenience, not a spec-mandated behavior: a front-end
// may use it to let a long-running interactive session pick up a changed
// defaultArgs/timeout value without restarting, but the core engine itself
// never depends on it. The returned stop func closes the underlying watcher.
func Watch(path string, onChange func(*Config)) (stop func() error, err error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return nil, err
	}

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				cfg, err := Load(path)
				if err != nil {
					slog.Warn("config.watch_reload_failed", "path", path, "error", err)
					continue
				}
				onChange(cfg)
			case werr, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.Warn("config.watch_error", "path", path, "error", werr)
			}
		}
	}()

	return watcher.Close, nil
}
