package githubapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"
	"github.com/google/go-github/v84/github"

	"github.com/multigit/ghswitch/internal/config"
	gitx "github.com/multigit/ghswitch/internal/git"
	"github.com/multigit/ghswitch/internal/ui"
)

const manualRetries = 3

// ErrAborted reports that the user declined to complete a manual fallback
// flow. Callers treat it as cancellation, not failure.
var ErrAborted = errors.New("aborted by user")

// Remote creates, checks and deletes repositories on GitHub. With a token
// it talks to the REST API; without one (or when the API path fails) it
// falls back to a manual, human-confirmed flow.
type Remote struct {
	run    gitx.Runner
	prompt ui.Prompter

	// baseURL overrides the API endpoint in tests.
	baseURL *url.URL
	// httpClient overrides the rate-limited default transport in tests.
	httpClient *http.Client
}

// New creates a remote adapter. The runner backs the token-less existence
// probe; the prompter drives manual fallback flows.
func New(run gitx.Runner, prompt ui.Prompter) *Remote {
	return &Remote{run: run, prompt: prompt}
}

// WithBaseURL points the adapter at a different API endpoint (GitHub
// Enterprise, or a test server). The URL must end with a slash per
// go-github's convention; one is appended if missing.
func (r *Remote) WithBaseURL(rawURL string) error {
	if !strings.HasSuffix(rawURL, "/") {
		rawURL += "/"
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid base URL %s: %w", rawURL, err)
	}
	r.baseURL = parsed
	return nil
}

// client builds a token-authenticated API client with a secondary rate
// limit aware transport.
func (r *Remote) client(token string) *github.Client {
	httpClient := r.httpClient
	if httpClient == nil {
		httpClient = github_ratelimit.NewClient(nil)
		httpClient.Timeout = 15 * time.Second
	}
	client := github.NewClient(httpClient).WithAuthToken(token)
	if r.baseURL != nil {
		client.BaseURL = r.baseURL
	}
	return client
}

// Exists checks whether the account owns a repository with the given name.
// Only HTTP 200 counts as existing; 404 and network failures mean "not
// found" and never raise. Without a token the repository's SSH URL is
// probed over the account's host alias instead.
func (r *Remote) Exists(ctx context.Context, acct config.Account, repoName string) bool {
	if acct.GitHubToken == "" {
		return r.existsOverSSH(acct, repoName)
	}

	_, resp, err := r.client(acct.GitHubToken).Repositories.Get(ctx, acct.GitHubUsername, repoName)
	if err != nil {
		return false
	}
	return resp.StatusCode == http.StatusOK
}

// existsOverSSH probes the repository through the host alias. Exit zero
// means the remote answered for that repo with this identity.
func (r *Remote) existsOverSSH(acct config.Account, repoName string) bool {
	sshURL := gitx.AliasSSHURL(acct.SSHHostAlias, acct.GitHubUsername, repoName)
	_, err := r.run.Run("git", "ls-remote", "--exit-code", sshURL, "HEAD")
	return err == nil
}

// Create creates a repository under the account with the requested
// visibility and no auto-initialization. An API failure (or a missing
// token) falls back to printed instructions with bounded verification
// retries.
func (r *Remote) Create(ctx context.Context, acct config.Account, repoName string, private bool) error {
	if acct.GitHubToken != "" {
		repo := &github.Repository{
			Name:     github.Ptr(repoName),
			Private:  github.Ptr(private),
			AutoInit: github.Ptr(false),
		}
		_, _, err := r.client(acct.GitHubToken).Repositories.Create(ctx, "", repo)
		if err == nil {
			return nil
		}
		ui.Warning(fmt.Sprintf("GitHub API create failed: %v", err))
	}
	return r.manualCreate(ctx, acct, repoName, private)
}

func (r *Remote) manualCreate(ctx context.Context, acct config.Account, repoName string, private bool) error {
	visibility := "Public"
	if private {
		visibility = "Private"
	}

	fmt.Println()
	ui.Info("Create the repository manually:")
	fmt.Printf("  1. Open https://github.com/new (signed in as %s)\n", acct.GitHubUsername)
	fmt.Printf("  2. Repository name: %s\n", repoName)
	fmt.Printf("  3. Visibility: %s\n", visibility)
	fmt.Println("  4. Do NOT initialize with a README")
	fmt.Println()

	for attempt := 1; attempt <= manualRetries; attempt++ {
		done, err := r.prompt.Confirm(fmt.Sprintf("Created %s/%s?", acct.GitHubUsername, repoName), false)
		if err != nil {
			return err
		}
		if !done {
			return ErrAborted
		}
		if r.Exists(ctx, acct, repoName) {
			return nil
		}
		ui.Warning(fmt.Sprintf("Repository %s/%s not found yet (attempt %d/%d)", acct.GitHubUsername, repoName, attempt, manualRetries))
	}
	return fmt.Errorf("repository %s/%s was not created after %d attempts", acct.GitHubUsername, repoName, manualRetries)
}

// Delete removes a repository. The caller is responsible for the dangerous
// action confirmation; the adapter does not gate on it. API failure or a
// missing token falls back to a manual instructed deletion.
func (r *Remote) Delete(ctx context.Context, acct config.Account, repoName string) error {
	if acct.GitHubToken != "" {
		_, err := r.client(acct.GitHubToken).Repositories.Delete(ctx, acct.GitHubUsername, repoName)
		if err == nil {
			return nil
		}
		ui.Warning(fmt.Sprintf("GitHub API delete failed: %v", err))
	}
	return r.manualDelete(ctx, acct, repoName)
}

func (r *Remote) manualDelete(ctx context.Context, acct config.Account, repoName string) error {
	fmt.Println()
	ui.Info("Delete the repository manually:")
	fmt.Printf("  1. Open https://github.com/%s/%s/settings\n", acct.GitHubUsername, repoName)
	fmt.Println("  2. Scroll to the danger zone and delete the repository")
	fmt.Println()

	for attempt := 1; attempt <= manualRetries; attempt++ {
		done, err := r.prompt.Confirm(fmt.Sprintf("Deleted %s/%s?", acct.GitHubUsername, repoName), false)
		if err != nil {
			return err
		}
		if !done {
			return ErrAborted
		}
		if !r.Exists(ctx, acct, repoName) {
			return nil
		}
		ui.Warning(fmt.Sprintf("Repository %s/%s still exists (attempt %d/%d)", acct.GitHubUsername, repoName, attempt, manualRetries))
	}
	return fmt.Errorf("repository %s/%s still exists after %d attempts", acct.GitHubUsername, repoName, manualRetries)
}
