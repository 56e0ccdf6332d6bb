package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/johnquangdev/meeting-minutes/internal/domain/entities"
	"github.com/johnquangdev/meeting-minutes/internal/infrastructure/transcript"
	minutesUsecase "github.com/johnquangdev/meeting-minutes/internal/usecase/minutes"
)

// Output formats
const (
	OutputJSON = "json"
	OutputYAML = "yaml"
)

// generateFlags holds the flags for the generate command
type generateFlags struct {
	title  string
	date   string
	apiKey string
	output string
	quiet  bool
}

func newGenerateCmd(deps Deps) *cobra.Command {
	flags := &generateFlags{}

	cmd := &cobra.Command{
		Use:   "generate <file>|-",
		Short: "Generate minutes from a transcript",
		Long: `Generate structured minutes from a plain-text transcript.

The transcript is read from a .txt file, or from standard input when the
argument is "-". Progress is reported on standard error.

Examples:
  # Generate from a file using the stored credential
  minutes generate standup.txt --title "Daily Standup" --date 2024-03-06

  # Read stdin and print YAML
  cat standup.txt | minutes generate - --output yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, deps, args[0], flags)
		},
	}

	cmd.Flags().StringVar(&flags.title, "title", "", "Meeting title (default \"Meeting Minutes\")")
	cmd.Flags().StringVar(&flags.date, "date", "", "Meeting date as YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&flags.apiKey, "api-key", "", "Use this credential instead of the stored one")
	cmd.Flags().StringVarP(&flags.output, "output", "o", OutputJSON, "Output format: json or yaml")
	cmd.Flags().BoolVarP(&flags.quiet, "quiet", "q", false, "Do not report progress")

	return cmd
}

func runGenerate(cmd *cobra.Command, deps Deps, source string, flags *generateFlags) error {
	if flags.output != OutputJSON && flags.output != OutputYAML {
		return fmt.Errorf("unsupported output format %q (use json or yaml)", flags.output)
	}

	text, err := readTranscript(deps, source)
	if err != nil {
		return err
	}

	var progress io.Writer
	if !flags.quiet {
		progress = cmd.ErrOrStderr()
	}
	doc, err := generateDocument(cmd.Context(), deps, "cli", entities.GenerationRequest{
		TranscriptText: text,
		MeetingTitle:   flags.title,
		MeetingDate:    flags.date,
		Credential:     flags.apiKey,
	}, progress)
	if err != nil {
		return err
	}

	return writeDocument(cmd.OutOrStdout(), *doc, flags.output)
}

// generateDocument runs one controller pass. progress may be nil.
func generateDocument(ctx context.Context, deps Deps, id string, req entities.GenerationRequest, progress io.Writer) (*entities.MinutesDocument, error) {
	generator := minutesUsecase.NewGenerator(deps.Chat, deps.credentialStore(), deps.Logger)
	opts := []minutesUsecase.ControllerOption{
		minutesUsecase.WithTimeout(deps.Timeout),
		minutesUsecase.WithLogger(deps.Logger),
	}
	if progress != nil {
		opts = append(opts, minutesUsecase.WithStageListener(progressPrinter(progress)))
	}
	controller := minutesUsecase.NewController(id, generator, opts...)

	doc, err := controller.Run(ctx, req)
	if err != nil {
		return nil, describe(err)
	}
	return doc, nil
}

func readTranscript(deps Deps, source string) (string, error) {
	loader := transcript.NewLoader(deps.FS, 0)
	if source == "-" {
		return loader.Read(deps.Stdin)
	}
	return loader.Load(source)
}

// progressPrinter reports each stage as "[ 60%] generation"
func progressPrinter(w io.Writer) minutesUsecase.StageListener {
	return func(status entities.ProcessingStatus) {
		label := status.Label
		if label == "" {
			label = string(status.Stage)
		}
		fmt.Fprintf(w, "[%3d%%] %s\n", status.Progress, label)
	}
}

func writeDocument(w io.Writer, doc entities.MinutesDocument, format string) error {
	if format == OutputYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("failed to encode minutes: %w", err)
		}
		return enc.Close()
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// describe adds a hint for failures the user can fix
func describe(err error) error {
	if errors.Is(err, entities.ErrMissingCredential) {
		return fmt.Errorf("%w (run `minutes credential set <key>` or pass --api-key)", err)
	}
	return err
}
