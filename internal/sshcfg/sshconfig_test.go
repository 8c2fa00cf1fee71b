package sshcfg

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/multigit/ghswitch/internal/config"
)

const twoBlocks = `# global defaults
ServerAliveInterval 60

Host github.com-work
  HostName github.com
  User git
  IdentityFile ~/.ssh/id_rsa_work
  IdentitiesOnly yes

Host github.com-personal
  HostName github.com
  User git
  IdentityFile ~/.ssh/id_rsa_personal
  IdentitiesOnly yes
`

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m := NewManager(filepath.Join(t.TempDir(), "config"))
	m.now = func() time.Time { return time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC) }
	return m
}

func TestReadRaw_MissingFileIsEmpty(t *testing.T) {
	m := newTestManager(t)
	raw, err := m.ReadRaw()
	require.NoError(t, err)
	assert.Empty(t, raw)
}

func TestParseHostBlocks(t *testing.T) {
	f := ParseHostBlocks(twoBlocks)

	assert.Equal(t, "# global defaults\nServerAliveInterval 60\n\n", f.Preamble)
	require.Len(t, f.Blocks, 2)
	assert.Equal(t, "github.com-work", f.Blocks[0].Alias)
	assert.Equal(t, "github.com-personal", f.Blocks[1].Alias)

	// Reassembly of an unmodified file is byte-identical
	assert.Equal(t, twoBlocks, f.String())
}

func TestParseHostBlocks_NoHosts(t *testing.T) {
	f := ParseHostBlocks("# just a comment\n")
	assert.Empty(t, f.Blocks)
	assert.Equal(t, "# just a comment\n", f.String())
}

func TestRemoveBlock_PreservesOtherBlocks(t *testing.T) {
	m := newTestManager(t)
	require.NoError(t, os.WriteFile(m.Path(), []byte(twoBlocks), 0600))

	require.NoError(t, m.RemoveBlock("github.com-work"))

	got, err := m.ReadRaw()
	require.NoError(t, err)
	assert.NotContains(t, got, "Host github.com-work")
	assert.Contains(t, got, "Host github.com-personal\n  HostName github.com\n  User git\n  IdentityFile ~/.ssh/id_rsa_personal\n  IdentitiesOnly yes\n")
	assert.Contains(t, got, "# global defaults")
}

func TestRemoveBlock_UnknownAliasIsNoop(t *testing.T) {
	m := newTestManager(t)
	require.NoError(t, os.WriteFile(m.Path(), []byte(twoBlocks), 0600))

	require.NoError(t, m.RemoveBlock("github.com-nope"))

	got, err := m.ReadRaw()
	require.NoError(t, err)
	assert.Equal(t, twoBlocks, got)
}

func TestHostExists(t *testing.T) {
	m := newTestManager(t)
	require.NoError(t, os.WriteFile(m.Path(), []byte(twoBlocks), 0600))

	exists, err := m.HostExists("github.com-work")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = m.HostExists("github.com-nope")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestKeyPath(t *testing.T) {
	m := NewManager("/home/u/.ssh/config")
	assert.Equal(t, "/home/u/.ssh/id_rsa_work", m.KeyPath("github.com-work"))
	// Aliases without the conventional prefix are used as-is
	assert.Equal(t, "/home/u/.ssh/id_rsa_corp", m.KeyPath("corp"))
}

func TestGenerateBlock(t *testing.T) {
	m := NewManager("/home/u/.ssh/config")
	block := m.GenerateBlock(config.Account{
		GitHubUsername: "john-work",
		GitUsername:    "John Doe",
		GitEmail:       "john@work.example.com",
		SSHHostAlias:   "github.com-work",
	})

	assert.Equal(t, strings.Join([]string{
		"# John Doe <john@work.example.com>",
		"Host github.com-work",
		"  HostName github.com",
		"  User git",
		"  IdentityFile /home/u/.ssh/id_rsa_work",
		"  IdentitiesOnly yes",
		"",
	}, "\n"), block)

	// Generated blocks parse back under their alias
	f := ParseHostBlocks(block)
	require.Len(t, f.Blocks, 1)
	assert.Equal(t, "github.com-work", f.Blocks[0].Alias)
}

func TestBackup_FailsClosedWithoutFile(t *testing.T) {
	m := newTestManager(t)

	_, err := m.Backup()
	assert.Error(t, err)

	// The failed backup also blocks the write
	assert.Error(t, m.Write("Host x\n"))
	_, statErr := os.Stat(m.Path())
	assert.True(t, os.IsNotExist(statErr))
}

func TestWrite_BacksUpThenOverwrites(t *testing.T) {
	m := newTestManager(t)
	require.NoError(t, os.WriteFile(m.Path(), []byte("old\n"), 0600))

	require.NoError(t, m.Write("new\n"))

	got, err := m.ReadRaw()
	require.NoError(t, err)
	assert.Equal(t, "new\n", got)

	backup, err := os.ReadFile(m.Path() + ".20260824-120000.bak")
	require.NoError(t, err)
	assert.Equal(t, "old\n", string(backup))
}

func TestEnsureFile_UnblocksFirstWrite(t *testing.T) {
	m := newTestManager(t)

	require.NoError(t, m.EnsureFile())
	require.NoError(t, m.AddBlock("Host github.com-work\n  HostName github.com\n"))

	exists, err := m.HostExists("github.com-work")
	require.NoError(t, err)
	assert.True(t, exists)

	// Idempotent on an existing file
	require.NoError(t, m.EnsureFile())
	exists, err = m.HostExists("github.com-work")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestAddBlock_AppendsWithSeparator(t *testing.T) {
	m := newTestManager(t)
	require.NoError(t, os.WriteFile(m.Path(), []byte("Host a\n  HostName github.com\n"), 0600))

	require.NoError(t, m.AddBlock("Host b\n  HostName github.com\n"))

	got, err := m.ReadRaw()
	require.NoError(t, err)
	assert.Equal(t, "Host a\n  HostName github.com\n\nHost b\n  HostName github.com\n", got)
}
