package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/multigit/ghswitch/internal/platform"
)

const ConfigFileName = "config.json"

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrAccountExists   = errors.New("account already exists")
	ErrDefaultAccount  = errors.New("account is the default account")
	ErrSoleAccount     = errors.New("account is the only account")
	ErrAliasInUse      = errors.New("ssh host alias already in use")
)

// Store reads and writes the account configuration file. Every mutation is
// a full read-modify-write of the file; last writer wins.
type Store struct {
	path string
}

// NewStore creates a store backed by the given config file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// DefaultPath returns the config file path under the user's home directory.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, platform.GetConfigDirName(), ConfigFileName), nil
}

// Path returns the config file path backing this store.
func (s *Store) Path() string {
	return s.path
}

// Exists checks if the config file exists
func (s *Store) Exists() (bool, error) {
	_, err := os.Stat(s.path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// Init creates the config file with an empty template if it is missing.
// An existing file is never overwritten.
func (s *Store) Init() error {
	exists, err := s.Exists()
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	if err := platform.MkdirSecure(filepath.Dir(s.path)); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return s.save(NewConfig())
}

// Read parses the config file. Any read or parse failure is returned to the
// caller; the invoking command treats it as fatal.
func (s *Store) Read() (*Config, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", s.path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", s.path, err)
	}
	if cfg.Accounts == nil {
		cfg.Accounts = map[string]Account{}
	}
	return &cfg, nil
}

func (s *Store) save(cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	// Pretty-printed so the file stays hand-editable
	if err := platform.CreateFileSecure(s.path, append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write config %s: %w", s.path, err)
	}
	return nil
}

// Get returns the account for name, or the default account when name is
// empty.
func (s *Store) Get(name string) (Account, error) {
	cfg, err := s.Read()
	if err != nil {
		return Account{}, err
	}

	if name == "" {
		name = cfg.DefaultAccount
	}
	if name == "" {
		return Account{}, fmt.Errorf("no accounts configured: %w", ErrAccountNotFound)
	}

	acct, ok := cfg.Accounts[name]
	if !ok {
		return Account{}, fmt.Errorf("account '%s': %w", name, ErrAccountNotFound)
	}
	return acct, nil
}

// Create adds a new named account. The first account created becomes the
// default. The SSH host alias must be unique across accounts.
func (s *Store) Create(name string, acct Account) error {
	cfg, err := s.Read()
	if err != nil {
		return err
	}

	if _, ok := cfg.Accounts[name]; ok {
		return fmt.Errorf("account '%s': %w", name, ErrAccountExists)
	}
	for other, existing := range cfg.Accounts {
		if existing.SSHHostAlias == acct.SSHHostAlias {
			return fmt.Errorf("alias '%s' is used by account '%s': %w", acct.SSHHostAlias, other, ErrAliasInUse)
		}
	}

	cfg.Accounts[name] = acct
	if len(cfg.Accounts) == 1 {
		cfg.DefaultAccount = name
	}
	return s.save(cfg)
}

// Update merges the supplied fields into an existing account and returns
// the updated account.
func (s *Store) Update(name string, patch Patch) (Account, error) {
	cfg, err := s.Read()
	if err != nil {
		return Account{}, err
	}

	acct, ok := cfg.Accounts[name]
	if !ok {
		return Account{}, fmt.Errorf("account '%s': %w", name, ErrAccountNotFound)
	}

	if patch.SSHHostAlias != nil && *patch.SSHHostAlias != acct.SSHHostAlias {
		for other, existing := range cfg.Accounts {
			if other != name && existing.SSHHostAlias == *patch.SSHHostAlias {
				return Account{}, fmt.Errorf("alias '%s' is used by account '%s': %w", *patch.SSHHostAlias, other, ErrAliasInUse)
			}
		}
		acct.SSHHostAlias = *patch.SSHHostAlias
	}
	if patch.GitHubUsername != nil {
		acct.GitHubUsername = *patch.GitHubUsername
	}
	if patch.GitUsername != nil {
		acct.GitUsername = *patch.GitUsername
	}
	if patch.GitEmail != nil {
		acct.GitEmail = *patch.GitEmail
	}
	if patch.GitHubToken != nil {
		acct.GitHubToken = *patch.GitHubToken
	}

	cfg.Accounts[name] = acct
	if err := s.save(cfg); err != nil {
		return Account{}, err
	}
	return acct, nil
}

// Delete removes an account. Deleting the default account or the sole
// remaining account is rejected.
func (s *Store) Delete(name string) error {
	cfg, err := s.Read()
	if err != nil {
		return err
	}

	if _, ok := cfg.Accounts[name]; !ok {
		return fmt.Errorf("account '%s': %w", name, ErrAccountNotFound)
	}
	if name == cfg.DefaultAccount {
		return fmt.Errorf("account '%s': %w", name, ErrDefaultAccount)
	}
	if len(cfg.Accounts) == 1 {
		return fmt.Errorf("account '%s': %w", name, ErrSoleAccount)
	}

	delete(cfg.Accounts, name)
	return s.save(cfg)
}

// SetDefault marks an existing account as the default.
func (s *Store) SetDefault(name string) error {
	cfg, err := s.Read()
	if err != nil {
		return err
	}

	if _, ok := cfg.Accounts[name]; !ok {
		return fmt.Errorf("account '%s': %w", name, ErrAccountNotFound)
	}
	cfg.DefaultAccount = name
	return s.save(cfg)
}

// Names returns all account names, sorted.
func (s *Store) Names() ([]string, error) {
	cfg, err := s.Read()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(cfg.Accounts))
	for name := range cfg.Accounts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
