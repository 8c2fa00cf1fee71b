package config

// Account is one GitHub identity: the GitHub login, the git authorship
// identity used for commits, the SSH host alias that selects the key,
// and an optional personal access token for API operations.
type Account struct {
	GitHubUsername string `json:"githubUsername"`
	GitUsername    string `json:"gitUsername"`
	GitEmail       string `json:"gitEmail"`
	SSHHostAlias   string `json:"sshHostAlias"`
	GitHubToken    string `json:"githubToken,omitempty"`
}

// Config is the on-disk shape of the account store.
// DefaultAccount references a key in Accounts whenever Accounts is non-empty.
type Config struct {
	Accounts       map[string]Account `json:"accounts"`
	DefaultAccount string             `json:"defaultAccount"`
}

// Patch carries a partial account update. Nil fields are left untouched.
type Patch struct {
	GitHubUsername *string
	GitUsername    *string
	GitEmail       *string
	SSHHostAlias   *string
	GitHubToken    *string
}

// NewConfig creates a new empty config
func NewConfig() *Config {
	return &Config{
		Accounts:       map[string]Account{},
		DefaultAccount: "",
	}
}
