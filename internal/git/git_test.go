package git

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/multigit/ghswitch/internal/config"
)

// fakeRunner replays canned results keyed by the joined command line and
// records every invocation.
type fakeRunner struct {
	results map[string]Result
	errs    map[string]error
	calls   []string
}

func (r *fakeRunner) Run(name string, args ...string) (Result, error) {
	key := strings.Join(append([]string{name}, args...), " ")
	r.calls = append(r.calls, key)
	return r.results[key], r.errs[key]
}

func (r *fakeRunner) set(cmd, stdout string) {
	if r.results == nil {
		r.results = map[string]Result{}
	}
	r.results[cmd] = Result{Stdout: stdout}
}

func (r *fakeRunner) fail(cmd, stderr string) {
	if r.results == nil {
		r.results = map[string]Result{}
	}
	if r.errs == nil {
		r.errs = map[string]error{}
	}
	r.results[cmd] = Result{Stderr: stderr, ExitCode: 1}
	r.errs[cmd] = fmt.Errorf("exit status 1")
}

var workAccount = config.Account{
	GitHubUsername: "john-work",
	GitUsername:    "John Doe",
	GitEmail:       "john@work.example.com",
	SSHHostAlias:   "github.com-work",
}

func TestParseRemoteURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want *RepoInfo
	}{
		{
			name: "ssh with host alias",
			url:  "git@github.com-work:alice/repo.git",
			want: &RepoInfo{
				Name: "repo", Owner: "alice", FullName: "alice/repo",
				SSHURL: "git@github.com:alice/repo.git", HTTPSURL: "https://github.com/alice/repo.git",
				Exists: true,
			},
		},
		{
			name: "ssh without suffix",
			url:  "git@github.com:alice/repo",
			want: &RepoInfo{
				Name: "repo", Owner: "alice", FullName: "alice/repo",
				SSHURL: "git@github.com:alice/repo.git", HTTPSURL: "https://github.com/alice/repo.git",
				Exists: true,
			},
		},
		{
			name: "https",
			url:  "https://github.com/alice/repo.git",
			want: &RepoInfo{
				Name: "repo", Owner: "alice", FullName: "alice/repo",
				SSHURL: "git@github.com:alice/repo.git", HTTPSURL: "https://github.com/alice/repo.git",
				Exists: true,
			},
		},
		{
			name: "garbage",
			url:  "not-a-url",
			want: nil,
		},
		{
			name: "empty",
			url:  "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseRemoteURL(tt.url))
		})
	}
}

func TestIsRepo(t *testing.T) {
	r := &fakeRunner{}
	r.set("git rev-parse --is-inside-work-tree", "true\n")
	assert.True(t, New(r).IsRepo())

	r = &fakeRunner{}
	r.fail("git rev-parse --is-inside-work-tree", "fatal: not a git repository")
	assert.False(t, New(r).IsRepo())
}

func TestRemoteURL_EmptyWhenNoOrigin(t *testing.T) {
	r := &fakeRunner{}
	r.fail("git remote get-url origin", "error: No such remote 'origin'")
	assert.Empty(t, New(r).RemoteURL())

	r = &fakeRunner{}
	r.set("git remote get-url origin", "git@github.com:a/b.git\n")
	assert.Equal(t, "git@github.com:a/b.git", New(r).RemoteURL())
}

func TestRemoteExists(t *testing.T) {
	r := &fakeRunner{}
	r.set("git remote", "origin\nupstream\n")
	g := New(r)
	assert.True(t, g.RemoteExists("origin"))
	assert.True(t, g.RemoteExists("upstream"))
	assert.False(t, g.RemoteExists("fork"))
}

func TestSetIdentity(t *testing.T) {
	r := &fakeRunner{}
	require.NoError(t, New(r).SetIdentity(workAccount, false))
	assert.Equal(t, []string{
		"git config --local user.name John Doe",
		"git config --local user.email john@work.example.com",
	}, r.calls)

	r = &fakeRunner{}
	require.NoError(t, New(r).SetIdentity(workAccount, true))
	assert.Contains(t, r.calls[0], "--global")
}

func TestCurrentRepoInfo_NotARepo(t *testing.T) {
	r := &fakeRunner{}
	r.fail("git rev-parse --is-inside-work-tree", "fatal: not a git repository")

	_, err := New(r).CurrentRepoInfo(false)
	assert.ErrorContains(t, err, "not a git repository")
}

func TestCurrentRepoInfo_InitIfMissing(t *testing.T) {
	r := &fakeRunner{}
	r.fail("git rev-parse --is-inside-work-tree", "fatal: not a git repository")
	r.fail("git remote get-url origin", "error: No such remote 'origin'")

	info, err := NewInDir(r, "/tmp/demo").CurrentRepoInfo(true)
	require.NoError(t, err)
	assert.Contains(t, r.calls, "git init")
	assert.Equal(t, &RepoInfo{Name: "demo"}, info)
	assert.False(t, info.Exists)
}

func TestCurrentRepoInfo_ParsesOrigin(t *testing.T) {
	r := &fakeRunner{}
	r.set("git rev-parse --is-inside-work-tree", "true\n")
	r.set("git remote get-url origin", "git@github.com-personal:alice/demo.git\n")

	info, err := New(r).CurrentRepoInfo(false)
	require.NoError(t, err)
	assert.Equal(t, "alice/demo", info.FullName)
	assert.True(t, info.Exists)
}

func TestSetOriginURL_AddsWhenMissing(t *testing.T) {
	r := &fakeRunner{}
	info := &RepoInfo{Name: "demo"}

	require.NoError(t, New(r).SetOriginURL(workAccount, info))

	assert.Contains(t, r.calls, "git remote add origin git@github.com-work:john-work/demo.git")
	assert.Equal(t, "john-work", info.Owner)
	assert.Equal(t, "john-work/demo", info.FullName)
	assert.Equal(t, "git@github.com:john-work/demo.git", info.SSHURL)
}

func TestSetOriginURL_RewritesExisting(t *testing.T) {
	r := &fakeRunner{}
	r.set("git remote", "origin\n")
	info := &RepoInfo{Name: "demo", Owner: "alice"}

	require.NoError(t, New(r).SetOriginURL(workAccount, info))

	assert.Contains(t, r.calls, "git remote set-url origin git@github.com-work:alice/demo.git")
}

func TestPush_UsesCurrentBranch(t *testing.T) {
	r := &fakeRunner{}
	r.set("git rev-parse --abbrev-ref HEAD", "main\n")

	require.NoError(t, New(r).Push(false, ""))
	assert.Contains(t, r.calls, "git push -u origin main")
}

func TestPush_Forced(t *testing.T) {
	r := &fakeRunner{}
	require.NoError(t, New(r).Push(true, "feature"))
	assert.Contains(t, r.calls, "git push -u origin feature --force")
}

func TestPush_ClassifiesFailures(t *testing.T) {
	tests := []struct {
		stderr string
		hint   string
	}{
		{"ERROR: Repository not found.", "not found"},
		{"Permission denied (publickey).", "permission denied"},
		{"! [rejected] main -> main (non-fast-forward)", "diverged"},
		{"remote: error: refusing to update checked out branch", "checked out"},
		{"something else entirely", "push failed"},
	}

	for _, tt := range tests {
		r := &fakeRunner{}
		r.fail("git push -u origin main", tt.stderr)

		err := New(r).Push(false, "main")
		require.Error(t, err)
		assert.ErrorContains(t, err, tt.hint)
		// The raw stderr is always surfaced alongside the hint
		assert.ErrorContains(t, err, strings.TrimSpace(tt.stderr))
	}
}

func TestCommit(t *testing.T) {
	r := &fakeRunner{}
	require.NoError(t, New(r).Commit("Initial commit"))
	assert.Equal(t, []string{"git add -A", "git commit -m Initial commit"}, r.calls)
}
