package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ghswitch",
	Short: "Manage multiple GitHub identities on one machine",
	Long: `ghswitch manages multiple GitHub account identities on one machine.

Each account bundles a GitHub login, a git authorship identity, an SSH
host alias, and an optional personal access token. Commands switch a
repository between identities, migrate a repository between accounts, and
provision SSH keys and config per account.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Fatal errors print a diagnostic and exit
// non-zero; user cancellation exits zero.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
