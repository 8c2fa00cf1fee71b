package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, s.Init())
	return s
}

func testAccount(alias string) Account {
	return Account{
		GitHubUsername: "john-" + alias,
		GitUsername:    "John Doe",
		GitEmail:       "john@" + alias + ".example.com",
		SSHHostAlias:   "github.com-" + alias,
	}
}

func TestInit_CreatesTemplate(t *testing.T) {
	s := newTestStore(t)

	cfg, err := s.Read()
	require.NoError(t, err)
	assert.Empty(t, cfg.Accounts)
	assert.Empty(t, cfg.DefaultAccount)
}

func TestInit_NeverOverwrites(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Create("work", testAccount("work")))

	require.NoError(t, s.Init())

	cfg, err := s.Read()
	require.NoError(t, err)
	assert.Len(t, cfg.Accounts, 1)
}

func TestRead_UnparsableIsError(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.WriteFile(s.Path(), []byte("{not json"), 0600))

	_, err := s.Read()
	assert.Error(t, err)
}

func TestCreate_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	want := testAccount("work")
	want.GitHubToken = "ghp_secret"
	require.NoError(t, s.Create("work", want))

	got, err := s.Get("work")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestCreate_FirstAccountBecomesDefault(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Create("work", testAccount("work")))
	require.NoError(t, s.Create("personal", testAccount("personal")))

	cfg, err := s.Read()
	require.NoError(t, err)
	assert.Equal(t, "work", cfg.DefaultAccount)
}

func TestCreate_DuplicateName(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Create("work", testAccount("work")))

	err := s.Create("work", testAccount("other"))
	assert.ErrorIs(t, err, ErrAccountExists)
}

func TestCreate_DuplicateAlias(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Create("work", testAccount("work")))

	dupe := testAccount("personal")
	dupe.SSHHostAlias = "github.com-work"
	err := s.Create("personal", dupe)
	assert.ErrorIs(t, err, ErrAliasInUse)
}

func TestGet_DefaultWhenNameEmpty(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Create("work", testAccount("work")))
	require.NoError(t, s.Create("personal", testAccount("personal")))

	got, err := s.Get("")
	require.NoError(t, err)
	assert.Equal(t, "john-work", got.GitHubUsername)
}

func TestGet_NotFound(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Create("work", testAccount("work")))

	_, err := s.Get("nope")
	assert.ErrorIs(t, err, ErrAccountNotFound)

	empty := newTestStore(t)
	_, err = empty.Get("")
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestUpdate_MergesOnlySuppliedFields(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Create("work", testAccount("work")))

	email := "new@example.com"
	updated, err := s.Update("work", Patch{GitEmail: &email})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", updated.GitEmail)
	assert.Equal(t, "john-work", updated.GitHubUsername)
	assert.Equal(t, "github.com-work", updated.SSHHostAlias)

	got, err := s.Get("work")
	require.NoError(t, err)
	assert.Equal(t, updated, got)
}

func TestUpdate_NotFound(t *testing.T) {
	s := newTestStore(t)
	token := "t"
	_, err := s.Update("nope", Patch{GitHubToken: &token})
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestUpdate_AliasCollision(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Create("work", testAccount("work")))
	require.NoError(t, s.Create("personal", testAccount("personal")))

	alias := "github.com-work"
	_, err := s.Update("personal", Patch{SSHHostAlias: &alias})
	assert.ErrorIs(t, err, ErrAliasInUse)
}

func TestDelete_DefaultAccountRejected(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Create("work", testAccount("work")))
	require.NoError(t, s.Create("personal", testAccount("personal")))

	err := s.Delete("work")
	assert.ErrorIs(t, err, ErrDefaultAccount)

	// Store must be unchanged
	cfg, readErr := s.Read()
	require.NoError(t, readErr)
	assert.Len(t, cfg.Accounts, 2)
	assert.Equal(t, "work", cfg.DefaultAccount)
}

func TestDelete_SoleAccountRejected(t *testing.T) {
	s := newTestStore(t)
	// A sole account normally is the default, which trips the default
	// check first; a hand-edited config can clear defaultAccount, and the
	// sole-account invariant must still hold
	data, err := json.MarshalIndent(&Config{
		Accounts:       map[string]Account{"work": testAccount("work")},
		DefaultAccount: "",
	}, "", "  ")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(s.Path(), data, 0600))

	assert.ErrorIs(t, s.Delete("work"), ErrSoleAccount)

	cfg, readErr := s.Read()
	require.NoError(t, readErr)
	assert.Len(t, cfg.Accounts, 1)
}

func TestDelete_RemovesExactlyThatAccount(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Create("work", testAccount("work")))
	require.NoError(t, s.Create("personal", testAccount("personal")))

	require.NoError(t, s.Delete("personal"))

	cfg, err := s.Read()
	require.NoError(t, err)
	assert.Len(t, cfg.Accounts, 1)
	assert.Contains(t, cfg.Accounts, "work")
	assert.Equal(t, "work", cfg.DefaultAccount)
}

func TestSetDefault(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Create("work", testAccount("work")))
	require.NoError(t, s.Create("personal", testAccount("personal")))

	require.NoError(t, s.SetDefault("personal"))
	got, err := s.Get("")
	require.NoError(t, err)
	assert.Equal(t, "john-personal", got.GitHubUsername)

	assert.ErrorIs(t, s.SetDefault("nope"), ErrAccountNotFound)
}

func TestSave_PrettyPrintedJSON(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Create("work", testAccount("work")))

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  \"accounts\"")

	var cfg Config
	require.NoError(t, json.Unmarshal(data, &cfg))
	assert.Equal(t, "work", cfg.DefaultAccount)
}

func TestNames_Sorted(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Create("work", testAccount("work")))
	require.NoError(t, s.Create("personal", testAccount("personal")))

	names, err := s.Names()
	require.NoError(t, err)
	assert.Equal(t, []string{"personal", "work"}, names)
}
