package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/johnquangdev/meeting-minutes/internal/domain/entities"
	"github.com/johnquangdev/meeting-minutes/internal/infrastructure/transcript"
	"github.com/johnquangdev/meeting-minutes/internal/infrastructure/watcher"
)

type watchFlags struct {
	apiKey      string
	output      string
	concurrency int
}

func newWatchCmd(deps Deps) *cobra.Command {
	flags := &watchFlags{}

	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Generate minutes for every transcript dropped into a directory",
		Long: `Watch a directory and generate minutes for each new .txt transcript.

Minutes are written next to the transcript as <name>.minutes.json (or .yaml).
The meeting title defaults to the file name. Stop with Ctrl+C.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, deps, args[0], flags)
		},
	}

	cmd.Flags().StringVar(&flags.apiKey, "api-key", "", "Use this credential instead of the stored one")
	cmd.Flags().StringVarP(&flags.output, "output", "o", OutputJSON, "Output format: json or yaml")
	cmd.Flags().IntVar(&flags.concurrency, "concurrency", 2, "Transcripts processed at the same time")

	return cmd
}

func runWatch(cmd *cobra.Command, deps Deps, dir string, flags *watchFlags) error {
	if flags.output != OutputJSON && flags.output != OutputYAML {
		return fmt.Errorf("unsupported output format %q (use json or yaml)", flags.output)
	}

	var mu sync.Mutex
	out := cmd.OutOrStdout()
	report := func(format string, args ...interface{}) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintf(out, format, args...)
	}

	loader := transcript.NewLoader(deps.FS, 0)
	handle := func(ctx context.Context, path string) error {
		text, err := loader.Load(path)
		if err != nil {
			report("Skipped %s: %v\n", path, err)
			return err
		}

		doc, err := generateDocument(ctx, deps, filepath.Base(path), entities.GenerationRequest{
			TranscriptText: text,
			MeetingTitle:   titleFromPath(path),
			Credential:     flags.apiKey,
		}, nil)
		if err != nil {
			report("Failed %s: %v\n", path, err)
			return err
		}

		target := minutesPath(path, flags.output)
		var buf bytes.Buffer
		if err := writeDocument(&buf, *doc, flags.output); err != nil {
			return err
		}
		if err := afero.WriteFile(deps.FS, target, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("failed to write minutes: %w", err)
		}
		report("Wrote %s\n", target)
		return nil
	}

	w, err := watcher.New(watcher.Config{
		Dir:           dir,
		MaxConcurrent: flags.concurrency,
		Settle:        deps.WatchSettle,
	}, handle, deps.Logger)
	if err != nil {
		return err
	}
	defer w.Close()

	fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s for transcripts\n", dir)
	if err := w.Run(cmd.Context()); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// minutesPath maps standup.txt to standup.minutes.json
func minutesPath(path, format string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".minutes." + format
}

// titleFromPath maps weekly_sync-2024.txt to "weekly sync 2024"
func titleFromPath(path string) string {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return strings.Join(strings.FieldsFunc(name, func(r rune) bool { return r == '_' || r == '-' }), " ")
}
