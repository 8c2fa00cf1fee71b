package sshcfg

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/multigit/ghswitch/internal/config"
	"github.com/multigit/ghswitch/internal/platform"
)

const (
	// HostAliasPrefix is the conventional prefix for managed aliases,
	// e.g. github.com-work
	HostAliasPrefix = "github.com-"

	keyFilePrefix = "id_rsa_"
)

// hostBoundary matches the start of a Host block: a line beginning with
// optional whitespace, the Host keyword and at least one pattern.
var hostBoundary = regexp.MustCompile(`(?m)^[ \t]*Host[ \t]+`)

var hostAlias = regexp.MustCompile(`^[ \t]*Host[ \t]+(\S+)`)

// HostBlock is a contiguous chunk of SSH config text starting with a Host
// line. Text is kept raw so unmanaged blocks survive rewrites byte-for-byte.
type HostBlock struct {
	Alias string
	Text  string
}

// File is a parsed SSH config: any text before the first Host line, then
// the Host blocks in file order. Reserializing an unmodified File yields
// the original bytes.
type File struct {
	Preamble string
	Blocks   []HostBlock
}

// Manager reads and mutates the user's SSH config file and the key pairs
// referenced from it.
type Manager struct {
	path string
	now  func() time.Time
}

// NewManager creates a manager for the given SSH config file path.
func NewManager(path string) *Manager {
	return &Manager{path: path, now: time.Now}
}

// DefaultManager creates a manager for ~/.ssh/config.
func DefaultManager() (*Manager, error) {
	path, err := platform.GetSSHConfigPath()
	if err != nil {
		return nil, err
	}
	return NewManager(path), nil
}

// Path returns the SSH config file path.
func (m *Manager) Path() string {
	return m.path
}

// ReadRaw returns the config file contents, or an empty string if the file
// does not exist yet.
func (m *Manager) ReadRaw() (string, error) {
	data, err := os.ReadFile(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read SSH config: %w", err)
	}
	return string(data), nil
}

// ParseHostBlocks splits text into Host blocks, keeping file order.
func ParseHostBlocks(text string) *File {
	starts := hostBoundary.FindAllStringIndex(text, -1)
	if len(starts) == 0 {
		return &File{Preamble: text}
	}

	f := &File{Preamble: text[:starts[0][0]]}
	for i, loc := range starts {
		end := len(text)
		if i+1 < len(starts) {
			end = starts[i+1][0]
		}
		block := text[loc[0]:end]
		alias := ""
		if m := hostAlias.FindStringSubmatch(block); m != nil {
			alias = m[1]
		}
		f.Blocks = append(f.Blocks, HostBlock{Alias: alias, Text: block})
	}
	return f
}

// Get returns the block for alias, or nil.
func (f *File) Get(alias string) *HostBlock {
	for i := range f.Blocks {
		if f.Blocks[i].Alias == alias {
			return &f.Blocks[i]
		}
	}
	return nil
}

// Remove drops the block for alias. Reports whether a block was removed.
func (f *File) Remove(alias string) bool {
	for i := range f.Blocks {
		if f.Blocks[i].Alias == alias {
			f.Blocks = append(f.Blocks[:i], f.Blocks[i+1:]...)
			return true
		}
	}
	return false
}

// String reassembles the file. Unmodified blocks keep their original bytes
// and order.
func (f *File) String() string {
	var b strings.Builder
	b.WriteString(f.Preamble)
	for _, block := range f.Blocks {
		b.WriteString(block.Text)
	}
	return b.String()
}

// HostExists checks whether a Host block for alias is present.
func (m *Manager) HostExists(alias string) (bool, error) {
	raw, err := m.ReadRaw()
	if err != nil {
		return false, err
	}
	return ParseHostBlocks(raw).Get(alias) != nil, nil
}

// KeyPath derives the private key path for an alias by stripping the
// conventional github.com- prefix, e.g. github.com-work -> id_rsa_work.
func (m *Manager) KeyPath(alias string) string {
	name := strings.TrimPrefix(alias, HostAliasPrefix)
	return filepath.Join(filepath.Dir(m.path), keyFilePrefix+name)
}

// KeyExists checks whether a private key file exists at path.
func KeyExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// GenerateBlock renders the managed Host block for an account.
func (m *Manager) GenerateBlock(acct config.Account) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s <%s>\n", acct.GitUsername, acct.GitEmail)
	fmt.Fprintf(&b, "Host %s\n", acct.SSHHostAlias)
	b.WriteString("  HostName github.com\n")
	b.WriteString("  User git\n")
	fmt.Fprintf(&b, "  IdentityFile %s\n", platform.NormalizePathForSSHConfig(m.KeyPath(acct.SSHHostAlias)))
	b.WriteString("  IdentitiesOnly yes\n")
	return b.String()
}

// Backup copies the current config to a timestamp-suffixed sibling. It
// fails when no config file exists yet, which also blocks the subsequent
// write (fail-closed); see EnsureFile.
func (m *Manager) Backup() (string, error) {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return "", fmt.Errorf("cannot back up SSH config: %w", err)
	}

	backupPath := fmt.Sprintf("%s.%s.bak", m.path, m.now().Format("20060102-150405"))
	if err := platform.CreateFileSecure(backupPath, data); err != nil {
		return "", fmt.Errorf("failed to write SSH config backup: %w", err)
	}
	return backupPath, nil
}

// EnsureFile creates an empty config file with secure permissions when none
// exists, so the backup-before-write check can pass on a fresh machine.
func (m *Manager) EnsureFile() error {
	if _, err := os.Stat(m.path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}
	if err := platform.MkdirSecure(filepath.Dir(m.path)); err != nil {
		return fmt.Errorf("failed to create .ssh directory: %w", err)
	}
	return platform.CreateFileSecure(m.path, nil)
}

// Write backs up the current config and then overwrites it with newText.
func (m *Manager) Write(newText string) error {
	if _, err := m.Backup(); err != nil {
		return err
	}
	if err := platform.MkdirSecure(filepath.Dir(m.path)); err != nil {
		return fmt.Errorf("failed to create .ssh directory: %w", err)
	}
	if err := platform.CreateFileSecure(m.path, []byte(newText)); err != nil {
		return fmt.Errorf("failed to write SSH config: %w", err)
	}
	return nil
}

// AddBlock appends a Host block to the config.
func (m *Manager) AddBlock(block string) error {
	existing, err := m.ReadRaw()
	if err != nil {
		return err
	}

	var b strings.Builder
	if existing != "" {
		b.WriteString(existing)
		if !strings.HasSuffix(existing, "\n") {
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	b.WriteString(block)
	return m.Write(b.String())
}

// RemoveBlock removes the Host block for alias and rewrites the config.
// Unrelated blocks keep their position and bytes.
func (m *Manager) RemoveBlock(alias string) error {
	raw, err := m.ReadRaw()
	if err != nil {
		return err
	}

	f := ParseHostBlocks(raw)
	if !f.Remove(alias) {
		return nil
	}
	return m.Write(f.String())
}
