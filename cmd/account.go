package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/multigit/ghswitch/internal/config"
	"github.com/multigit/ghswitch/internal/sshcfg"
	"github.com/multigit/ghswitch/internal/ui"
)

var (
	addFlagGitHub string
	addFlagName   string
	addFlagEmail  string
	addFlagAlias  string
	addFlagToken  string
	addFlagNoSSH  bool
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Manage configured accounts",
	Long:  `List, add, remove and configure GitHub account identities.`,
}

var accountListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List all configured accounts",
	RunE:    runAccountList,
}

var accountAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add a new account identity",
	Long:  `Add a new account with its git identity and SSH host alias, and provision the SSH key pair and config block.`,
	Example: `  # Interactive mode
  ghswitch account add work

  # Using flags
  ghswitch account add work --github john-work --name "John Doe" --email john@work.com`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAccountAdd,
}

var accountRemoveCmd = &cobra.Command{
	Use:     "remove <name>",
	Aliases: []string{"rm"},
	Short:   "Remove an account identity",
	Long:    `Remove an account from the configuration and optionally its SSH host block and key files.`,
	Args:    cobra.ExactArgs(1),
	RunE:    runAccountRemove,
}

var accountDefaultCmd = &cobra.Command{
	Use:   "default <name>",
	Short: "Set the default account",
	Args:  cobra.ExactArgs(1),
	RunE:  runAccountDefault,
}

func init() {
	rootCmd.AddCommand(accountCmd)
	accountCmd.AddCommand(accountListCmd)
	accountCmd.AddCommand(accountAddCmd)
	accountCmd.AddCommand(accountRemoveCmd)
	accountCmd.AddCommand(accountDefaultCmd)

	accountAddCmd.Flags().StringVar(&addFlagGitHub, "github", "", "GitHub username")
	accountAddCmd.Flags().StringVar(&addFlagName, "name", "", "Full name for git commits")
	accountAddCmd.Flags().StringVar(&addFlagEmail, "email", "", "Email address for git commits")
	accountAddCmd.Flags().StringVar(&addFlagAlias, "alias", "", "SSH host alias (default github.com-<name>)")
	accountAddCmd.Flags().StringVar(&addFlagToken, "token", "", "GitHub personal access token")
	accountAddCmd.Flags().BoolVar(&addFlagNoSSH, "no-ssh", false, "Skip SSH key and config provisioning")
}

func runAccountList(cmd *cobra.Command, args []string) error {
	d, err := defaultDeps()
	if err != nil {
		return err
	}
	if err := d.autoInit(); err != nil {
		return err
	}

	cfg, err := d.store.Read()
	if err != nil {
		return err
	}

	if len(cfg.Accounts) == 0 {
		fmt.Println("No accounts configured yet.")
		fmt.Println("\nAdd your first account with: ghswitch account add")
		return nil
	}

	names, _ := d.store.Names()
	fmt.Println("\nConfigured accounts:")
	fmt.Println()
	for _, name := range names {
		acct := cfg.Accounts[name]
		indicator := " "
		if name == cfg.DefaultAccount {
			indicator = "→"
		}
		token := ""
		if acct.GitHubToken != "" {
			token = "[token]"
		}
		fmt.Printf("%s %-15s %-20s %-30s %s\n", indicator, name, acct.GitHubUsername, acct.GitEmail, token)
	}
	fmt.Println()
	return nil
}

func runAccountAdd(cmd *cobra.Command, args []string) error {
	d, err := defaultDeps()
	if err != nil {
		return err
	}
	return finish(runAccountAddWith(d, args))
}

func runAccountAddWith(d *deps, args []string) error {
	if err := d.autoInit(); err != nil {
		return err
	}

	var name string
	if len(args) > 0 {
		name = args[0]
	} else {
		n, err := d.prompt.Input("Account name (e.g. work, personal):", "Short name used to address this account in commands", nil)
		if err != nil {
			return err
		}
		name = n
	}

	acct := config.Account{
		GitHubUsername: addFlagGitHub,
		GitUsername:    addFlagName,
		GitEmail:       addFlagEmail,
		SSHHostAlias:   addFlagAlias,
		GitHubToken:    addFlagToken,
	}

	var err error
	if acct.GitHubUsername == "" {
		acct.GitHubUsername, err = d.prompt.Input("GitHub username:", "Your GitHub login (e.g. johndoe)", nil)
		if err != nil {
			return err
		}
	}
	if acct.GitUsername == "" {
		acct.GitUsername, err = d.prompt.Input("Full name:", "Your full name for git commits", nil)
		if err != nil {
			return err
		}
	}
	if acct.GitEmail == "" {
		acct.GitEmail, err = d.prompt.Input("Email address:", "Your email for git commits", validateEmail)
		if err != nil {
			return err
		}
	}
	if acct.SSHHostAlias == "" {
		acct.SSHHostAlias = sshcfg.HostAliasPrefix + name
	}

	if err := d.store.Create(name, acct); err != nil {
		return err
	}

	if !addFlagNoSSH {
		if err := provisionSSH(d, acct); err != nil {
			return err
		}
	}

	fmt.Println()
	ui.Success(fmt.Sprintf("Account '%s' added", name))
	cfg, err := d.store.Read()
	if err == nil && cfg.DefaultAccount == name {
		ui.Info(fmt.Sprintf("'%s' is now the default account", name))
	}
	fmt.Println()
	fmt.Printf("Next: ghswitch switch %s\n", name)
	return nil
}

// provisionSSH creates the key pair and Host block for an account and
// prints the public key with setup instructions.
func provisionSSH(d *deps, acct config.Account) error {
	publicKey, created, err := d.ssh.CreateKeyPair(acct, false)
	if err != nil {
		return fmt.Errorf("failed to create SSH key: %w", err)
	}
	if created {
		ui.Success(fmt.Sprintf("SSH key generated: %s", d.ssh.KeyPath(acct.SSHHostAlias)))
	} else {
		ui.Info(fmt.Sprintf("Reusing existing SSH key: %s", d.ssh.KeyPath(acct.SSHHostAlias)))
	}

	// First provisioning on a fresh machine: the backup-before-write check
	// needs a file to back up
	if err := d.ssh.EnsureFile(); err != nil {
		return err
	}

	hostExists, err := d.ssh.HostExists(acct.SSHHostAlias)
	if err != nil {
		return err
	}
	if !hostExists {
		if err := d.ssh.AddBlock(d.ssh.GenerateBlock(acct)); err != nil {
			return err
		}
		ui.Success(fmt.Sprintf("SSH config entry added: Host %s", acct.SSHHostAlias))
	}

	fmt.Println("\n" + strings.Repeat("-", 70))
	fmt.Println("Add this public key to your GitHub account:")
	fmt.Println("https://github.com/settings/keys")
	fmt.Println(strings.Repeat("-", 70))
	fmt.Print(publicKey)
	fmt.Println(strings.Repeat("-", 70))
	return nil
}

func runAccountRemove(cmd *cobra.Command, args []string) error {
	d, err := defaultDeps()
	if err != nil {
		return err
	}
	return finish(runAccountRemoveWith(d, args[0]))
}

func runAccountRemoveWith(d *deps, name string) error {
	if err := d.autoInit(); err != nil {
		return err
	}

	acct, err := d.store.Get(name)
	if err != nil {
		return err
	}

	confirmed, err := d.prompt.Confirm(fmt.Sprintf("Remove account '%s' (%s)?", name, acct.GitEmail), false)
	if err != nil {
		return err
	}
	if !confirmed {
		fmt.Println("Cancelled")
		return nil
	}

	if err := d.store.Delete(name); err != nil {
		return err
	}

	removeSSH, err := d.prompt.Confirm(fmt.Sprintf("Also remove SSH config entry and keys for %s?", acct.SSHHostAlias), false)
	if err != nil {
		return err
	}
	if removeSSH {
		if err := d.ssh.RemoveBlock(acct.SSHHostAlias); err != nil {
			ui.Warning(fmt.Sprintf("Failed to update SSH config: %v", err))
		}
		ui.Info(fmt.Sprintf("Key files under %s were left in place; delete them manually if unused", d.ssh.KeyPath(acct.SSHHostAlias)))
	}

	ui.Success(fmt.Sprintf("Account '%s' removed", name))
	return nil
}

func runAccountDefault(cmd *cobra.Command, args []string) error {
	d, err := defaultDeps()
	if err != nil {
		return err
	}
	if err := d.autoInit(); err != nil {
		return err
	}

	if err := d.store.SetDefault(args[0]); err != nil {
		return err
	}
	ui.Success(fmt.Sprintf("Default account set to '%s'", args[0]))
	return nil
}
