package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/multigit/ghswitch/internal/ui"
)

var switchGlobal bool

var switchCmd = &cobra.Command{
	Use:   "switch [account]",
	Short: "Switch the repository to a different account",
	Long: `Set the repository's git identity to the given account and point the
origin remote at the account's SSH host alias.

With --global the git identity is set globally instead and no repository
is required.`,
	Example: `  ghswitch switch work
  ghswitch switch            # pick interactively
  ghswitch switch personal --global`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSwitch,
}

func init() {
	rootCmd.AddCommand(switchCmd)
	switchCmd.Flags().BoolVarP(&switchGlobal, "global", "g", false, "Set the git identity globally")
}

func runSwitch(cmd *cobra.Command, args []string) error {
	d, err := defaultDeps()
	if err != nil {
		return err
	}
	name := ""
	if len(args) > 0 {
		name = args[0]
	}
	return finish(runSwitchWith(d, name))
}

func runSwitchWith(d *deps, name string) error {
	if err := d.autoInit(); err != nil {
		return err
	}

	name, acct, err := d.resolveAccount(name, "Switch to which account?")
	if err != nil {
		return err
	}

	if !switchGlobal && !d.git.IsRepo() {
		return fmt.Errorf("not a git repository\nRun inside a repository, or use --global")
	}

	fmt.Printf("Switching to: %s (%s)\n", name, acct.GitEmail)

	if err := d.git.SetIdentity(acct, switchGlobal); err != nil {
		return fmt.Errorf("failed to update git identity: %w", err)
	}

	if !switchGlobal {
		if oldURL := d.git.RemoteURL(); oldURL != "" {
			info, err := d.git.CurrentRepoInfo(false)
			if err != nil {
				return err
			}
			if err := d.git.SetOriginURL(acct, info); err != nil {
				return err
			}
			newURL := d.git.RemoteURL()
			if newURL != oldURL {
				fmt.Println("Remote 'origin' updated:")
				fmt.Printf("  Old: %s\n", oldURL)
				fmt.Printf("  New: %s\n", newURL)
			}
		}
	}

	ui.Success(fmt.Sprintf("Now using account '%s'", name))
	return nil
}
