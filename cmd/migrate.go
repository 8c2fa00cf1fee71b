package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/multigit/ghswitch/internal/ui"
)

type migrateOpts struct {
	from         string
	to           string
	deleteSource bool
	private      bool
	forcePush    bool
}

var migrateFlags migrateOpts

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate the repository to another account",
	Long: `Move the current repository from one account to another: switch the
local git identity, create the repository under the target account when
needed, repoint the origin remote through the target's SSH host alias,
push, and optionally delete the source repository.

Deleting the source is gated behind a two-stage confirmation: a yes/no
question followed by re-typing DELETE-<repo>. A failure after the remote
has been attached leaves the switched identity and remote in place; there
is no rollback.`,
	Example: `  ghswitch migrate --from personal --to work
  ghswitch migrate --to work --private --delete-source`,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.Flags().StringVar(&migrateFlags.from, "from", "", "Source account")
	migrateCmd.Flags().StringVar(&migrateFlags.to, "to", "", "Target account")
	migrateCmd.Flags().BoolVar(&migrateFlags.deleteSource, "delete-source", false, "Delete the repository from the source account after migrating")
	migrateCmd.Flags().BoolVar(&migrateFlags.private, "private", false, "Create the target repository as private")
	migrateCmd.Flags().BoolVar(&migrateFlags.forcePush, "force-push", false, "Force-push to the target repository")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	d, err := defaultDeps()
	if err != nil {
		return err
	}
	return finish(runMigrateWith(d, migrateFlags))
}

func runMigrateWith(d *deps, opts migrateOpts) error {
	if err := d.autoInit(); err != nil {
		return err
	}
	ctx := context.Background()

	// 1. Repository presence, offering init
	freshInit := false
	if !d.git.IsRepo() {
		confirmed, err := d.prompt.Confirm("Not a git repository. Initialize one here?", true)
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Println("Cancelled")
			return nil
		}
		freshInit = true
	}

	info, err := d.git.CurrentRepoInfo(true)
	if err != nil {
		return err
	}

	// 2. Source and target accounts
	fromName, fromAcct, err := d.resolveAccount(opts.from, "Migrate from which account?")
	if err != nil {
		return err
	}
	toName, toAcct, err := d.resolveAccountExcluding(opts.to, fromName, "Migrate to which account?")
	if err != nil {
		return err
	}
	if fromName == toName {
		return fmt.Errorf("source and target accounts are both '%s'", fromName)
	}

	fmt.Printf("Migrating %s: %s -> %s\n", info.Name, fromName, toName)

	// 3. Tokens, where an operation will need them
	toAcct, err = d.ensureToken(toName, toAcct)
	if err != nil {
		return err
	}
	if opts.deleteSource {
		fromAcct, err = d.ensureToken(fromName, fromAcct)
		if err != nil {
			return err
		}
	}

	// 4. Same-named repository under the target
	targetExists := false
	if !freshInit {
		targetExists = d.remote.Exists(ctx, toAcct, info.Name)
		if targetExists {
			confirmed, err := d.prompt.Confirm(
				fmt.Sprintf("Account '%s' already has a repository named '%s'. Push into it?", toName, info.Name), false)
			if err != nil {
				return err
			}
			if !confirmed {
				fmt.Println("Cancelled")
				return nil
			}
		}
	}

	// 5. Local identity
	if err := d.git.SetIdentity(toAcct, false); err != nil {
		return err
	}
	ui.Success(fmt.Sprintf("Git identity set to %s <%s>", toAcct.GitUsername, toAcct.GitEmail))

	// 6. Target remote, created server-side when absent
	if !targetExists {
		if err := d.remote.Create(ctx, toAcct, info.Name, opts.private); err != nil {
			return err
		}
		ui.Success(fmt.Sprintf("Repository %s/%s created", toAcct.GitHubUsername, info.Name))
	}

	sourceOwner := info.Owner
	if sourceOwner == "" {
		sourceOwner = fromAcct.GitHubUsername
	}
	repoPreExisted := info.Exists

	info.Owner = "" // reattach under the target account
	if err := d.git.SetOriginURL(toAcct, info); err != nil {
		return err
	}
	ui.Success(fmt.Sprintf("Remote 'origin' set to %s", d.git.RemoteURL()))

	// 8. Initial commit for a fresh repository
	if freshInit && !d.git.HasCommits() {
		if err := d.git.Commit("Initial commit"); err != nil {
			return err
		}
		ui.Success("Initial commit created")
	}

	// 7+9. Push with upstream tracking, optionally forced
	push := true
	if !opts.forcePush {
		push, err = d.prompt.Confirm("Push the current branch to the new origin?", true)
		if err != nil {
			return err
		}
	}
	if push {
		if err := d.git.Push(opts.forcePush, ""); err != nil {
			return err
		}
		ui.Success("Pushed to origin")
	}

	// 10. Source deletion, doubly gated
	if opts.deleteSource && repoPreExisted {
		phrase := "DELETE-" + info.Name
		confirmed, err := d.prompt.ConfirmDangerous(
			fmt.Sprintf("Delete %s/%s from account '%s'? This cannot be undone.", sourceOwner, info.Name, fromName), phrase)
		if err != nil {
			return err
		}
		if !confirmed {
			ui.Info("Source repository left untouched")
			return nil
		}
		if err := d.remote.Delete(ctx, fromAcct, info.Name); err != nil {
			return err
		}
		ui.Success(fmt.Sprintf("Repository %s/%s deleted", fromAcct.GitHubUsername, info.Name))
	}

	fmt.Println()
	ui.Success(fmt.Sprintf("Migration to '%s' complete", toName))
	return nil
}
