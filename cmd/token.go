package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/multigit/ghswitch/internal/config"
	"github.com/multigit/ghswitch/internal/ui"
)

var tokenFlagValue string

var tokenCmd = &cobra.Command{
	Use:   "token [account]",
	Short: "Set an account's GitHub personal access token",
	Long: `Store a personal access token for an account. The token is used for
repository existence checks, creation and deletion over the GitHub API;
without one those operations fall back to manual flows.`,
	Example: `  ghswitch token work
  ghswitch token work --token ghp_xxxx`,
	Args: cobra.MaximumNArgs(1),
	RunE: runToken,
}

func init() {
	rootCmd.AddCommand(tokenCmd)
	tokenCmd.Flags().StringVar(&tokenFlagValue, "token", "", "Token value (prompted securely when omitted)")
}

func runToken(cmd *cobra.Command, args []string) error {
	d, err := defaultDeps()
	if err != nil {
		return err
	}
	name := ""
	if len(args) > 0 {
		name = args[0]
	}
	return finish(runTokenWith(d, name))
}

func runTokenWith(d *deps, name string) error {
	if err := d.autoInit(); err != nil {
		return err
	}

	name, _, err := d.resolveAccount(name, "Set token for which account?")
	if err != nil {
		return err
	}

	token := tokenFlagValue
	if token == "" {
		token, err = d.prompt.Password(fmt.Sprintf("GitHub token for %s:", name))
		if err != nil {
			return err
		}
	}
	if token == "" {
		return fmt.Errorf("empty token")
	}

	if _, err := d.store.Update(name, config.Patch{GitHubToken: &token}); err != nil {
		return err
	}
	ui.Success(fmt.Sprintf("Token stored for account '%s'", name))
	return nil
}
