package cmd

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/kballard/go-shellquote"
	"github.com/spf13/cobra"

	gitx "github.com/multigit/ghswitch/internal/git"
	"github.com/multigit/ghswitch/internal/ui"
)

var cloneAccount string

var cloneCmd = &cobra.Command{
	Use:   "clone <url> [directory]",
	Short: "Clone a repository through an account's SSH host alias",
	Long: `Clone a GitHub repository as a specific account. Accepts HTTPS or SSH
URLs and rewrites them through the account's SSH host alias so the right
key is used, then sets the local git identity in the clone.`,
	Example: `  ghswitch clone https://github.com/alice/repo.git
  ghswitch clone git@github.com:alice/repo.git --account work`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runClone,
}

func init() {
	rootCmd.AddCommand(cloneCmd)
	cloneCmd.Flags().StringVar(&cloneAccount, "account", "", "Account to clone as (prompted when omitted)")
}

func runClone(cmd *cobra.Command, args []string) error {
	d, err := defaultDeps()
	if err != nil {
		return err
	}
	return finish(runCloneWith(d, args))
}

func runCloneWith(d *deps, args []string) error {
	if err := d.autoInit(); err != nil {
		return err
	}

	url := args[0]
	var directory string
	if len(args) > 1 {
		directory = args[1]
	}

	name, acct, err := d.resolveAccount(cloneAccount, "Clone as which account?")
	if err != nil {
		return err
	}

	info := gitx.ParseRemoteURL(url)
	if info == nil {
		return fmt.Errorf("unrecognized URL: %s\nExpected a GitHub HTTPS or SSH URL", url)
	}

	cloneURL := gitx.AliasSSHURL(acct.SSHHostAlias, info.Owner, info.Name)
	fmt.Printf("Cloning as: %s\n", name)
	fmt.Printf("URL: %s\n\n", cloneURL)

	cloneArgs := []string{"clone", cloneURL}
	if directory == "" {
		directory = info.Name
	} else {
		cloneArgs = append(cloneArgs, directory)
	}

	gitCmd := exec.Command("git", cloneArgs...)
	gitCmd.Stdout = os.Stdout
	gitCmd.Stderr = os.Stderr
	gitCmd.Stdin = os.Stdin
	if err := gitCmd.Run(); err != nil {
		return fmt.Errorf("%s failed: %w", shellquote.Join(append([]string{"git"}, cloneArgs...)...), err)
	}

	clonedGit := gitx.New(&gitx.ExecRunner{Dir: directory})
	if err := clonedGit.SetIdentity(acct, false); err != nil {
		ui.Warning(fmt.Sprintf("Clone succeeded but setting the git identity failed: %v", err))
	}

	fmt.Println()
	ui.Success("Repository cloned")
	return nil
}
