// Package inbox turns files dropped into a directory into deep links. Each
// *.url file holds one URL; it is handed to the handler and then removed.
package inbox

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Ext is the suffix of files the inbox picks up.
const Ext = ".url"

// settle is how long the directory must stay quiet before it is drained,
// so half-written files are not read.
const settle = 150 * time.Millisecond

// Handler opens one deep link.
type Handler func(ctx context.Context, url string) error

// Result describes one processed file.
type Result struct {
	File string
	URL  string
	Err  error
}

// Callback is called after each processed file.
type Callback func(Result)

// Watch drains dir once, then processes every *.url file created or
// written there until ctx is cancelled.
func Watch(ctx context.Context, dir string, handle Handler, logger *slog.Logger, cb Callback) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		return err
	}
	logger.Info("inbox: started", slog.String("dir", dir))

	Drain(ctx, dir, handle, logger, cb)

	var drainTimer *time.Timer
	var drainCh <-chan time.Time
	scheduleDrain := func() {
		if drainTimer == nil {
			drainTimer = time.NewTimer(settle)
			drainCh = drainTimer.C
		} else {
			drainTimer.Reset(settle)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if drainTimer != nil {
				drainTimer.Stop()
			}
			logger.Info("inbox: stopped")
			return nil

		case <-drainCh:
			Drain(ctx, dir, handle, logger, cb)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !wanted(ev.Name) {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				scheduleDrain()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("inbox: watch error", slog.String("error", watchErr.Error()))
		}
	}
}

func wanted(path string) bool {
	base := filepath.Base(path)
	return strings.HasSuffix(base, Ext) && !strings.HasPrefix(base, ".")
}

// Drain processes every *.url file currently in dir, oldest name first.
func Drain(ctx context.Context, dir string, handle Handler, logger *slog.Logger, cb Callback) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		logger.Warn("inbox: list failed", slog.String("dir", dir), slog.String("error", err.Error()))
		return
	}
	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() && wanted(e.Name()) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		if ctx.Err() != nil {
			return
		}
		res := process(ctx, filepath.Join(dir, name), handle, logger)
		if cb != nil {
			cb(res)
		}
	}
}

func process(ctx context.Context, path string, handle Handler, logger *slog.Logger) Result {
	res := Result{File: filepath.Base(path)}

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("inbox: read failed", slog.String("file", res.File), slog.String("error", err.Error()))
		}
		res.Err = err
		return res
	}
	res.URL = firstLine(string(data))

	if res.URL == "" {
		res.Err = errors.New("inbox: empty file")
	} else {
		res.Err = handle(ctx, res.URL)
	}
	if errors.Is(res.Err, context.Canceled) {
		return res
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn("inbox: remove failed", slog.String("file", res.File), slog.String("error", err.Error()))
	}

	if res.Err != nil {
		logger.Warn("inbox: deep link rejected",
			slog.String("file", res.File),
			slog.String("url", res.URL),
			slog.String("error", res.Err.Error()))
	} else {
		logger.Debug("inbox: deep link handled", slog.String("file", res.File), slog.String("url", res.URL))
	}
	return res
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
