package watcher

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-minutes/internal/infrastructure/transcript"
)

// DefaultSettle is how long a new file is left alone before it is handled
const DefaultSettle = 500 * time.Millisecond

// Handler processes one newly created transcript
type Handler func(ctx context.Context, path string) error

// Config controls a Watcher
type Config struct {
	Dir           string
	MaxConcurrent int
	Settle        time.Duration
}

// Watcher hands every new transcript file in a directory to a Handler
type Watcher struct {
	cfg       Config
	handler   Handler
	logger    *zap.Logger
	fsw       *fsnotify.Watcher
	semaphore chan struct{}
	wg        sync.WaitGroup
}

// New starts watching cfg.Dir. Call Close when done.
func New(cfg Config, handler Handler, logger *zap.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(cfg.Dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 2
	}
	if cfg.Settle < 0 {
		cfg.Settle = 0
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Watcher{
		cfg:       cfg,
		handler:   handler,
		logger:    logger,
		fsw:       fsw,
		semaphore: make(chan struct{}, cfg.MaxConcurrent),
	}, nil
}

// Run blocks until ctx is done, then waits for in-flight handlers
func (w *Watcher) Run(ctx context.Context) error {
	w.logger.Info("👀 Watching for transcripts",
		zap.String("dir", w.cfg.Dir),
		zap.Int("max_concurrent", w.cfg.MaxConcurrent),
	)

	for {
		select {
		case <-ctx.Done():
			w.wg.Wait()
			w.logger.Info("🛑 Watcher stopped")
			return ctx.Err()

		case event, ok := <-w.fsw.Events:
			if !ok {
				w.wg.Wait()
				return fmt.Errorf("watcher events channel closed")
			}
			if !event.Has(fsnotify.Create) {
				continue
			}
			if !transcript.AcceptedFile(event.Name, "") {
				w.logger.Debug("Ignoring non-transcript file", zap.String("path", event.Name))
				continue
			}

			select {
			case w.semaphore <- struct{}{}:
				w.wg.Add(1)
				go w.handle(ctx, event.Name)
			case <-ctx.Done():
				w.wg.Wait()
				return ctx.Err()
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				w.wg.Wait()
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error("❌ Watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) handle(ctx context.Context, path string) {
	defer w.wg.Done()
	defer func() { <-w.semaphore }()

	w.logger.Info("📄 New transcript detected", zap.String("path", path))

	// Writers usually create then fill the file.
	if w.cfg.Settle > 0 {
		select {
		case <-time.After(w.cfg.Settle):
		case <-ctx.Done():
			return
		}
	}

	if err := w.handler(ctx, path); err != nil {
		w.logger.Error("❌ Failed to process transcript", zap.String("path", path), zap.Error(err))
	}
}

// Close stops the underlying filesystem watcher
func (w *Watcher) Close() error {
	return w.fsw.Close()
}
