package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newCredentialCmd(deps Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "credential",
		Short: "Manage the stored API credential",
	}
	cmd.AddCommand(newCredentialSetCmd(deps))
	cmd.AddCommand(newCredentialStatusCmd(deps))
	cmd.AddCommand(newCredentialClearCmd(deps))
	return cmd
}

func newCredentialSetCmd(deps Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "set [key]",
		Short: "Save the API credential, replacing any previous one",
		Long: `Save the API credential, replacing any previous one.

Without an argument the key is read from standard input. On a terminal
the input is hidden.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var value string
			if len(args) == 1 {
				value = args[0]
			} else {
				read, err := promptSecret(cmd.ErrOrStderr(), deps.Stdin)
				if err != nil {
					return err
				}
				value = read
			}

			store := deps.credentialStore()
			if err := store.Set(cmd.Context(), value); err != nil {
				return err
			}
			status, err := store.Status(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Credential saved: %s\n", status.Masked)
			return nil
		},
	}
}

func newCredentialStatusCmd(deps Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether a credential is configured",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			status, err := deps.credentialStore().Status(cmd.Context())
			if err != nil {
				return err
			}
			if !status.Configured {
				fmt.Fprintln(cmd.OutOrStdout(), "No credential configured")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Credential configured: %s\n", status.Masked)
			return nil
		},
	}
}

func newCredentialClearCmd(deps Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove the stored credential",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := deps.credentialStore().Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Credential cleared")
			return nil
		},
	}
}

// promptSecret reads one line, hiding the input when in is a terminal
func promptSecret(prompt io.Writer, in io.Reader) (string, error) {
	fmt.Fprint(prompt, "API key: ")

	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		secret, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(prompt)
		if err != nil {
			return "", fmt.Errorf("reading API key: %w", err)
		}
		return strings.TrimSpace(string(secret)), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("reading API key: %w", err)
	}
	return strings.TrimSpace(line), nil
}
