package git

import (
	"fmt"
	"regexp"
	"strings"
)

// RepoInfo describes the repository a command is operating on. It is
// derived fresh per invocation and never persisted.
type RepoInfo struct {
	Name     string
	Owner    string
	FullName string
	SSHURL   string
	HTTPSURL string
	// Exists reports whether an upstream is currently known.
	Exists bool
}

var (
	// git@github.com-work:alice/repo.git or git@github.com:alice/repo
	sshURLPattern = regexp.MustCompile(`^([^@\s]+)@([^:\s]+):([^/\s]+)/(.+?)(?:\.git)?$`)
	// https://github.com/alice/repo.git
	httpsURLPattern = regexp.MustCompile(`^https://github\.com/([^/\s]+)/(.+?)(?:\.git)?$`)
)

// ParseRemoteURL recognizes SSH (user@host:owner/name) and GitHub HTTPS
// remote URLs. Canonical URLs are always built against github.com: a local
// host alias in the input is plumbing, not identity, and is normalized
// away. Returns nil for anything else.
func ParseRemoteURL(url string) *RepoInfo {
	var owner, name string

	if m := sshURLPattern.FindStringSubmatch(url); m != nil {
		owner, name = m[3], m[4]
	} else if m := httpsURLPattern.FindStringSubmatch(url); m != nil {
		owner, name = m[1], m[2]
	} else {
		return nil
	}

	name = strings.TrimSuffix(name, ".git")
	return &RepoInfo{
		Name:     name,
		Owner:    owner,
		FullName: owner + "/" + name,
		SSHURL:   CanonicalSSHURL(owner, name),
		HTTPSURL: CanonicalHTTPSURL(owner, name),
		Exists:   true,
	}
}

// CanonicalSSHURL builds the standard github.com SSH URL.
func CanonicalSSHURL(owner, name string) string {
	return fmt.Sprintf("git@github.com:%s/%s.git", owner, name)
}

// CanonicalHTTPSURL builds the standard github.com HTTPS URL.
func CanonicalHTTPSURL(owner, name string) string {
	return fmt.Sprintf("https://github.com/%s/%s.git", owner, name)
}

// AliasSSHURL builds an SSH URL through a local host alias.
func AliasSSHURL(alias, owner, name string) string {
	return fmt.Sprintf("git@%s:%s/%s.git", alias, owner, name)
}
