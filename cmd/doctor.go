package cmd

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"github.com/multigit/ghswitch/internal/platform"
	"github.com/multigit/ghswitch/internal/sshcfg"
	"github.com/multigit/ghswitch/internal/ui"
)

var (
	doctorNetwork bool
	doctorFix     bool
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose configuration issues",
	Long: `Check ghswitch configuration health.

Runs checks on:
- Account store validity
- Required account fields and alias uniqueness
- SSH key existence and permissions
- SSH config Host entries
- git availability

Examples:
  ghswitch doctor              # Run basic diagnostics
  ghswitch doctor --network    # Include GitHub SSH connectivity tests
  ghswitch doctor --fix        # Auto-fix key permission issues`,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
	doctorCmd.Flags().BoolVarP(&doctorNetwork, "network", "n", false, "Test GitHub SSH connectivity per alias")
	doctorCmd.Flags().BoolVarP(&doctorFix, "fix", "f", false, "Auto-fix permission issues")
}

func runDoctor(cmd *cobra.Command, args []string) error {
	d, err := defaultDeps()
	if err != nil {
		return err
	}
	if err := d.autoInit(); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("Checking ghswitch configuration...")
	fmt.Println()

	errors := 0
	warnings := 0

	cfg, err := d.store.Read()
	if err != nil {
		ui.Error(fmt.Sprintf("Account store: %v", err))
		return fmt.Errorf("cannot continue without a readable account store")
	}
	ui.Success(fmt.Sprintf("Account store: %s", d.store.Path()))

	if len(cfg.Accounts) == 0 {
		ui.Warning("No accounts configured. Run: ghswitch account add")
		return nil
	}
	if cfg.DefaultAccount == "" {
		ui.Error("No default account set despite configured accounts")
		errors++
	} else if _, ok := cfg.Accounts[cfg.DefaultAccount]; !ok {
		ui.Error(fmt.Sprintf("Default account '%s' does not exist", cfg.DefaultAccount))
		errors++
	}

	names, _ := d.store.Names()
	for _, name := range names {
		acct := cfg.Accounts[name]
		fmt.Println()
		fmt.Printf("Account '%s':\n", name)

		if acct.GitHubUsername == "" || acct.GitUsername == "" || acct.GitEmail == "" || acct.SSHHostAlias == "" {
			ui.Error("  Missing required fields (githubUsername, gitUsername, gitEmail, sshHostAlias)")
			errors++
			continue
		}

		keyPath := d.ssh.KeyPath(acct.SSHHostAlias)
		if !sshcfg.KeyExists(keyPath) {
			ui.Warning(fmt.Sprintf("  SSH key missing: %s", keyPath))
			fmt.Printf("    Fix: ghswitch config %s --alias %s\n", name, acct.SSHHostAlias)
			warnings++
		} else {
			ok, err := platform.CheckFilePermissions(keyPath)
			switch {
			case err != nil:
				ui.Warning(fmt.Sprintf("  Could not check key permissions: %v", err))
				warnings++
			case !ok && doctorFix:
				if err := platform.FixFilePermissions(keyPath); err != nil {
					ui.Error(fmt.Sprintf("  Failed to fix key permissions: %v", err))
					errors++
				} else {
					ui.Success(fmt.Sprintf("  Fixed key permissions: %s", keyPath))
				}
			case !ok:
				ui.Warning(fmt.Sprintf("  Insecure key permissions: %s", keyPath))
				fmt.Printf("    Fix: %s\n", platform.GetPermissionFixCommand(keyPath))
				warnings++
			default:
				ui.Success(fmt.Sprintf("  SSH key: %s", keyPath))
			}
		}

		hostExists, err := d.ssh.HostExists(acct.SSHHostAlias)
		if err != nil {
			ui.Warning(fmt.Sprintf("  Could not read SSH config: %v", err))
			warnings++
		} else if !hostExists {
			ui.Warning(fmt.Sprintf("  SSH config has no Host entry for %s", acct.SSHHostAlias))
			warnings++
		} else {
			ui.Success(fmt.Sprintf("  SSH config: Host %s", acct.SSHHostAlias))
		}

		if acct.GitHubToken == "" {
			ui.Info("  No token stored; API operations will use manual fallbacks")
		}

		if doctorNetwork {
			checkConnectivity(acct.SSHHostAlias, acct.GitHubUsername, &warnings)
		}
	}

	fmt.Println()
	if !platform.HasCommand("git") {
		ui.Error("git is not installed")
		errors++
	} else {
		ui.Success("git is installed")
	}
	if !platform.HasCommand("ssh-keygen") {
		ui.Info("ssh-keygen not found; built-in key generation will be used")
	}

	fmt.Println()
	if errors > 0 {
		return fmt.Errorf("doctor found %d error(s) and %d warning(s)", errors, warnings)
	}
	if warnings > 0 {
		ui.Warning(fmt.Sprintf("%d warning(s)", warnings))
	} else {
		ui.Success("Everything looks good")
	}
	return nil
}

// checkConnectivity probes GitHub over the host alias. GitHub closes the
// connection after authenticating, so ssh -T exits non-zero even on
// success; the greeting on stderr is what matters.
func checkConnectivity(alias, githubUsername string, warnings *int) {
	probe := exec.Command("ssh", "-T",
		"-o", "BatchMode=yes",
		"-o", "ConnectTimeout=5",
		"git@"+alias)
	output, _ := probe.CombinedOutput()

	text := string(output)
	switch {
	case strings.Contains(text, "successfully authenticated"):
		if strings.Contains(text, "Hi "+githubUsername+"!") {
			ui.Success(fmt.Sprintf("  Connectivity: authenticated as %s", githubUsername))
		} else {
			ui.Warning("  Connectivity: authenticated, but as a different GitHub user")
			*warnings++
		}
	case strings.Contains(text, "Permission denied"):
		ui.Warning(fmt.Sprintf("  Connectivity: permission denied for git@%s", alias))
		fmt.Println("    Is the public key added at https://github.com/settings/keys ?")
		*warnings++
	default:
		ui.Warning(fmt.Sprintf("  Connectivity: could not reach git@%s", alias))
		*warnings++
	}
}
