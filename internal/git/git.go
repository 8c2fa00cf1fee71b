package git

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/multigit/ghswitch/internal/config"
)

// Git wraps local repository inspection and mutation behind a Runner.
type Git struct {
	run Runner
	dir string
}

// New creates a git adapter over the given runner.
func New(run Runner) *Git {
	return &Git{run: run}
}

// NewInDir creates a git adapter whose synthesized repository names come
// from dir instead of the process working directory.
func NewInDir(run Runner, dir string) *Git {
	return &Git{run: run, dir: dir}
}

// Default creates an adapter that runs git in the current directory.
func Default() *Git {
	return &Git{run: &ExecRunner{}}
}

// IsRepo reports whether the working directory is inside a git work tree.
// Any non-zero exit means false, never an error.
func (g *Git) IsRepo() bool {
	res, err := g.run.Run("git", "rev-parse", "--is-inside-work-tree")
	return err == nil && strings.TrimSpace(res.Stdout) == "true"
}

// Init initializes a repository in the working directory.
func (g *Git) Init() error {
	if res, err := g.run.Run("git", "init"); err != nil {
		return fmt.Errorf("git init failed: %s: %w", res.Stderr, err)
	}
	return nil
}

// RemoteURL returns the origin URL, or an empty string when there is no
// origin remote.
func (g *Git) RemoteURL() string {
	res, err := g.run.Run("git", "remote", "get-url", "origin")
	if err != nil {
		return ""
	}
	return strings.TrimSpace(res.Stdout)
}

// RemoteExists reports whether a remote with the given name is configured.
func (g *Git) RemoteExists(name string) bool {
	res, err := g.run.Run("git", "remote")
	if err != nil {
		return false
	}
	for _, line := range strings.Split(res.Stdout, "\n") {
		if strings.TrimSpace(line) == name {
			return true
		}
	}
	return false
}

// SetIdentity sets user.name and user.email, locally or globally.
func (g *Git) SetIdentity(acct config.Account, global bool) error {
	scope := "--local"
	if global {
		scope = "--global"
	}
	for _, kv := range [][2]string{
		{"user.name", acct.GitUsername},
		{"user.email", acct.GitEmail},
	} {
		if res, err := g.run.Run("git", "config", scope, kv[0], kv[1]); err != nil {
			return fmt.Errorf("failed to set %s: %s: %w", kv[0], res.Stderr, err)
		}
	}
	return nil
}

// CurrentBranch returns the checked-out branch name.
func (g *Git) CurrentBranch() (string, error) {
	res, err := g.run.Run("git", "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", fmt.Errorf("failed to determine current branch: %s: %w", res.Stderr, err)
	}
	return strings.TrimSpace(res.Stdout), nil
}

// HasCommits reports whether the repository has any commit yet.
func (g *Git) HasCommits() bool {
	_, err := g.run.Run("git", "rev-parse", "HEAD")
	return err == nil
}

// Commit stages everything and creates a commit.
func (g *Git) Commit(message string) error {
	if res, err := g.run.Run("git", "add", "-A"); err != nil {
		return fmt.Errorf("git add failed: %s: %w", res.Stderr, err)
	}
	if res, err := g.run.Run("git", "commit", "-m", message); err != nil {
		return fmt.Errorf("git commit failed: %s: %w", res.Stderr, err)
	}
	return nil
}

// CurrentRepoInfo builds the RepoInfo for the working directory. When the
// directory is not a repository it fails unless initIfMissing is set, in
// which case the repository is initialized first. Without an origin remote
// the info is synthesized from the directory basename.
func (g *Git) CurrentRepoInfo(initIfMissing bool) (*RepoInfo, error) {
	if !g.IsRepo() {
		if !initIfMissing {
			return nil, fmt.Errorf("not a git repository")
		}
		if err := g.Init(); err != nil {
			return nil, err
		}
	}

	if url := g.RemoteURL(); url != "" {
		info := ParseRemoteURL(url)
		if info == nil {
			return nil, fmt.Errorf("unrecognized origin URL: %s", url)
		}
		return info, nil
	}

	dir := g.dir
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		dir = cwd
	}
	return &RepoInfo{Name: filepath.Base(dir)}, nil
}

// SetOriginURL points origin at the account's SSH host alias and updates
// info in place with the resolved owner and URLs.
func (g *Git) SetOriginURL(acct config.Account, info *RepoInfo) error {
	owner := info.Owner
	if owner == "" {
		owner = acct.GitHubUsername
	}
	url := AliasSSHURL(acct.SSHHostAlias, owner, info.Name)

	action := "add"
	if g.RemoteExists("origin") {
		action = "set-url"
	}
	if res, err := g.run.Run("git", "remote", action, "origin", url); err != nil {
		return fmt.Errorf("git remote %s failed: %s: %w", action, res.Stderr, err)
	}

	info.Owner = owner
	info.FullName = owner + "/" + info.Name
	info.SSHURL = CanonicalSSHURL(owner, info.Name)
	info.HTTPSURL = CanonicalHTTPSURL(owner, info.Name)
	return nil
}

// Push pushes branch (the current branch when empty) to origin with
// upstream tracking. Failures are classified by stderr purely for user
// messaging; the raw output is always surfaced and nothing is retried.
func (g *Git) Push(force bool, branch string) error {
	if branch == "" {
		current, err := g.CurrentBranch()
		if err != nil {
			return err
		}
		branch = current
	}

	args := []string{"push", "-u", "origin", branch}
	if force {
		args = append(args, "--force")
	}

	res, err := g.run.Run("git", args...)
	if err != nil {
		hint := classifyPushError(res.Stderr)
		return fmt.Errorf("%s\n  command: %s\n  output: %s: %w",
			hint, commandLine("git", args...), strings.TrimSpace(res.Stderr), err)
	}
	return nil
}

// classifyPushError maps push stderr to a diagnosable cause.
func classifyPushError(stderr string) string {
	lower := strings.ToLower(stderr)
	switch {
	case strings.Contains(lower, "repository not found") || strings.Contains(lower, "does not appear to be a git repository"):
		return "push failed: the remote repository was not found"
	case strings.Contains(lower, "permission denied") || strings.Contains(lower, "denied to"):
		return "push failed: permission denied for this identity"
	case strings.Contains(lower, "refusing to update checked out branch"):
		return "push failed: the remote branch is checked out"
	case strings.Contains(lower, "non-fast-forward") || strings.Contains(lower, "fetch first") || strings.Contains(lower, "[rejected]"):
		return "push failed: remote history has diverged (pull or use --force-push)"
	default:
		return "push failed"
	}
}
