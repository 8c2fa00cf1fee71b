package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/multigit/ghswitch/internal/config"
	"github.com/multigit/ghswitch/internal/ui"
)

var (
	configFlagGitHub string
	configFlagName   string
	configFlagEmail  string
	configFlagAlias  string
)

var configCmd = &cobra.Command{
	Use:   "config [account]",
	Short: "Update an account's identity fields",
	Long: `Update the GitHub username, git identity or SSH host alias of an
existing account. Changing the alias re-provisions the SSH key and config
block for the new alias; the old block is removed.`,
	Example: `  ghswitch config work --email john@newcorp.com
  ghswitch config work --alias github.com-newcorp`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.Flags().StringVar(&configFlagGitHub, "github", "", "GitHub username")
	configCmd.Flags().StringVar(&configFlagName, "name", "", "Full name for git commits")
	configCmd.Flags().StringVar(&configFlagEmail, "email", "", "Email address for git commits")
	configCmd.Flags().StringVar(&configFlagAlias, "alias", "", "SSH host alias")
}

func runConfig(cmd *cobra.Command, args []string) error {
	d, err := defaultDeps()
	if err != nil {
		return err
	}
	name := ""
	if len(args) > 0 {
		name = args[0]
	}
	return finish(runConfigWith(d, name))
}

func runConfigWith(d *deps, name string) error {
	if err := d.autoInit(); err != nil {
		return err
	}

	name, current, err := d.resolveAccount(name, "Configure which account?")
	if err != nil {
		return err
	}

	if configFlagEmail != "" {
		if err := validateEmail(configFlagEmail); err != nil {
			return err
		}
	}

	patch := config.Patch{}
	if configFlagGitHub != "" {
		patch.GitHubUsername = &configFlagGitHub
	}
	if configFlagName != "" {
		patch.GitUsername = &configFlagName
	}
	if configFlagEmail != "" {
		patch.GitEmail = &configFlagEmail
	}
	if configFlagAlias != "" {
		patch.SSHHostAlias = &configFlagAlias
	}
	if patch == (config.Patch{}) {
		return fmt.Errorf("nothing to update\nPass at least one of --github, --name, --email, --alias")
	}

	updated, err := d.store.Update(name, patch)
	if err != nil {
		return err
	}

	if configFlagAlias != "" && configFlagAlias != current.SSHHostAlias {
		if err := d.ssh.RemoveBlock(current.SSHHostAlias); err != nil {
			ui.Warning(fmt.Sprintf("Failed to remove old SSH config entry: %v", err))
		}
		if err := provisionSSH(d, updated); err != nil {
			return err
		}
	}

	ui.Success(fmt.Sprintf("Account '%s' updated", name))
	return nil
}
