package cli

import (
	"io"
	"os"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-minutes/internal/domain/repositories"
	"github.com/johnquangdev/meeting-minutes/internal/infrastructure/watcher"
	"github.com/johnquangdev/meeting-minutes/internal/usecase/credential"
	minutesUsecase "github.com/johnquangdev/meeting-minutes/internal/usecase/minutes"
)

// Deps are the collaborators shared by every command
type Deps struct {
	FS            afero.Fs
	Credentials   repositories.KeyValueStore
	CredentialKey string
	Chat          minutesUsecase.ChatCompleter
	Timeout       time.Duration
	Stdin         io.Reader
	WatchSettle   time.Duration
	Logger        *zap.Logger
}

// NewRootCmd builds the minutes command tree
func NewRootCmd(deps Deps) *cobra.Command {
	if deps.FS == nil {
		deps.FS = afero.NewOsFs()
	}
	if deps.Stdin == nil {
		deps.Stdin = os.Stdin
	}
	if deps.WatchSettle == 0 {
		deps.WatchSettle = watcher.DefaultSettle
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	cmd := &cobra.Command{
		Use:           "minutes",
		Short:         "Turn meeting transcripts into structured minutes",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          func(c *cobra.Command, _ []string) error { return c.Help() },
	}
	cmd.AddCommand(newGenerateCmd(deps))
	cmd.AddCommand(newWatchCmd(deps))
	cmd.AddCommand(newCredentialCmd(deps))
	return cmd
}

func (d Deps) credentialStore() *credential.Store {
	return credential.NewStore(d.Credentials, d.CredentialKey, d.Logger)
}
