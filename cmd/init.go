package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/multigit/ghswitch/internal/ui"
)

var (
	initPrivate bool
	initPush    bool
)

var initCmd = &cobra.Command{
	Use:   "init [account]",
	Short: "Initialize a repository under an account",
	Long: `Initialize the working directory as a git repository owned by an
account: set the git identity, create the repository on GitHub (API or
manual fallback), attach the origin remote through the account's SSH host
alias and create an initial commit.`,
	Example: `  ghswitch init work
  ghswitch init work --private --push`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRepoInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initPrivate, "private", false, "Create the GitHub repository as private")
	initCmd.Flags().BoolVar(&initPush, "push", false, "Push the initial commit after attaching the remote")
}

func runRepoInit(cmd *cobra.Command, args []string) error {
	d, err := defaultDeps()
	if err != nil {
		return err
	}
	name := ""
	if len(args) > 0 {
		name = args[0]
	}
	return finish(runRepoInitWith(d, name))
}

func runRepoInitWith(d *deps, name string) error {
	if err := d.autoInit(); err != nil {
		return err
	}

	name, acct, err := d.resolveAccount(name, "Initialize under which account?")
	if err != nil {
		return err
	}

	if !d.git.IsRepo() {
		confirmed, err := d.prompt.Confirm("Not a git repository. Initialize one here?", true)
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Println("Cancelled")
			return nil
		}
	}

	info, err := d.git.CurrentRepoInfo(true)
	if err != nil {
		return err
	}

	if err := d.git.SetIdentity(acct, false); err != nil {
		return err
	}
	ui.Success(fmt.Sprintf("Git identity set to %s <%s>", acct.GitUsername, acct.GitEmail))

	ctx := context.Background()
	acct, err = d.ensureToken(name, acct)
	if err != nil {
		return err
	}

	if !info.Exists || !d.remote.Exists(ctx, acct, info.Name) {
		create, err := d.prompt.Confirm(fmt.Sprintf("Create %s/%s on GitHub?", acct.GitHubUsername, info.Name), true)
		if err != nil {
			return err
		}
		if create {
			if err := d.remote.Create(ctx, acct, info.Name, initPrivate); err != nil {
				return err
			}
			ui.Success(fmt.Sprintf("Repository %s/%s created", acct.GitHubUsername, info.Name))
		}
	}

	if err := d.git.SetOriginURL(acct, info); err != nil {
		return err
	}
	ui.Success(fmt.Sprintf("Remote 'origin' set to %s", d.git.RemoteURL()))

	if !d.git.HasCommits() {
		if err := d.git.Commit("Initial commit"); err != nil {
			return err
		}
		ui.Success("Initial commit created")
	}

	if initPush {
		if err := d.git.Push(false, ""); err != nil {
			return err
		}
		ui.Success("Pushed to origin")
	}

	return nil
}
