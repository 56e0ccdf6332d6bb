package jobcontext

import (
	"context"
	"fmt"
	"time"
)

type KeyContext string

var (
	keyRunID     KeyContext = "run_id"
	keySessionID KeyContext = "session_id"
	keyStartTime KeyContext = "run_start_time"
)

// RunMetadata holds metadata for one generation run
type RunMetadata struct {
	RunID     string
	SessionID string
	StartTime time.Time
}

// RunBegin derives a run context carrying metadata.
// A positive timeout bounds the whole run; otherwise only parent cancellation applies.
func RunBegin(parentCtx context.Context, runID, sessionID string, timeout time.Duration) (context.Context, context.CancelFunc) {
	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if timeout > 0 {
		ctx, cancel = context.WithTimeout(parentCtx, timeout)
	} else {
		ctx, cancel = context.WithCancel(parentCtx)
	}

	ctx = context.WithValue(ctx, keyRunID, runID)
	ctx = context.WithValue(ctx, keySessionID, sessionID)
	ctx = context.WithValue(ctx, keyStartTime, time.Now())

	return ctx, cancel
}

// Guard runs fn once, converting a panic into an error.
// fn is not invoked when ctx is already done.
func Guard(ctx context.Context, fn func(context.Context) error) (err error) {
	if ctx.Err() != nil {
		return fmt.Errorf("context cancelled before run: %w", ctx.Err())
	}

	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic recovered: %v", p)
		}
	}()

	return fn(ctx)
}

// GetRunID extracts the run ID from context
func GetRunID(ctx context.Context) (string, bool) {
	runID, ok := ctx.Value(keyRunID).(string)
	return runID, ok
}

// GetSessionID extracts the session ID from context
func GetSessionID(ctx context.Context) (string, bool) {
	sessionID, ok := ctx.Value(keySessionID).(string)
	return sessionID, ok
}

// GetStartTime extracts the run start time from context
func GetStartTime(ctx context.Context) (time.Time, bool) {
	startTime, ok := ctx.Value(keyStartTime).(time.Time)
	return startTime, ok
}

// Elapsed returns the time since the run started, zero outside a run
func Elapsed(ctx context.Context) time.Duration {
	startTime, ok := GetStartTime(ctx)
	if !ok {
		return 0
	}
	return time.Since(startTime)
}

// GetRunMetadata extracts all run metadata from context
func GetRunMetadata(ctx context.Context) *RunMetadata {
	runID, _ := GetRunID(ctx)
	sessionID, _ := GetSessionID(ctx)
	startTime, _ := GetStartTime(ctx)

	return &RunMetadata{
		RunID:     runID,
		SessionID: sessionID,
		StartTime: startTime,
	}
}
