package cmd

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/AlecAivazis/survey/v2/terminal"

	"github.com/multigit/ghswitch/internal/config"
	gitx "github.com/multigit/ghswitch/internal/git"
	"github.com/multigit/ghswitch/internal/githubapi"
	"github.com/multigit/ghswitch/internal/sshcfg"
	"github.com/multigit/ghswitch/internal/ui"
)

// deps bundles the injected collaborators every command sequences over.
type deps struct {
	store  *config.Store
	ssh    *sshcfg.Manager
	git    *gitx.Git
	remote *githubapi.Remote
	prompt ui.Prompter
}

func defaultDeps() (*deps, error) {
	path, err := config.DefaultPath()
	if err != nil {
		return nil, err
	}
	ssh, err := sshcfg.DefaultManager()
	if err != nil {
		return nil, err
	}

	runner := &gitx.ExecRunner{}
	prompt := ui.NewPrompter()
	return &deps{
		store:  config.NewStore(path),
		ssh:    ssh,
		git:    gitx.New(runner),
		remote: githubapi.New(runner, prompt),
		prompt: prompt,
	}, nil
}

// autoInit creates the account store with an empty template on first use.
// An existing file is never overwritten.
func (d *deps) autoInit() error {
	return d.store.Init()
}

// finish maps user cancellation to a clean zero exit.
func finish(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, githubapi.ErrAborted) || errors.Is(err, terminal.InterruptErr) {
		fmt.Println("Cancelled")
		return nil
	}
	return err
}

// resolveAccount returns the named account, or prompts for one when name is
// empty. A single configured account is used without prompting.
func (d *deps) resolveAccount(name, message string) (string, config.Account, error) {
	if name != "" {
		acct, err := d.store.Get(name)
		return name, acct, err
	}

	names, err := d.store.Names()
	if err != nil {
		return "", config.Account{}, err
	}
	switch len(names) {
	case 0:
		return "", config.Account{}, fmt.Errorf("no accounts configured\nRun: ghswitch account add")
	case 1:
		name = names[0]
	default:
		name, err = d.prompt.Select(message, names)
		if err != nil {
			return "", config.Account{}, err
		}
	}

	acct, err := d.store.Get(name)
	return name, acct, err
}

// resolveAccountExcluding is resolveAccount with one name held out of the
// interactive choices. An explicitly passed name is returned as-is; the
// caller rejects source==target itself.
func (d *deps) resolveAccountExcluding(name, exclude, message string) (string, config.Account, error) {
	if name != "" {
		acct, err := d.store.Get(name)
		return name, acct, err
	}

	names, err := d.store.Names()
	if err != nil {
		return "", config.Account{}, err
	}
	options := names[:0:0]
	for _, n := range names {
		if n != exclude {
			options = append(options, n)
		}
	}
	switch len(options) {
	case 0:
		return "", config.Account{}, fmt.Errorf("no other account to choose from\nRun: ghswitch account add")
	case 1:
		name = options[0]
	default:
		name, err = d.prompt.Select(message, options)
		if err != nil {
			return "", config.Account{}, err
		}
	}

	acct, err := d.store.Get(name)
	return name, acct, err
}

// ensureToken offers to collect and persist a personal access token when
// the account has none. Declining is fine: API operations fall back to
// their manual flows.
func (d *deps) ensureToken(name string, acct config.Account) (config.Account, error) {
	if acct.GitHubToken != "" {
		return acct, nil
	}

	ui.Info(fmt.Sprintf("Account '%s' has no GitHub token; API operations will need one", name))
	provide, err := d.prompt.Confirm("Provide a token now?", true)
	if err != nil {
		return acct, err
	}
	if !provide {
		return acct, nil
	}

	token, err := d.prompt.Password(fmt.Sprintf("GitHub token for %s:", name))
	if err != nil {
		return acct, err
	}
	return d.store.Update(name, config.Patch{GitHubToken: &token})
}

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func validateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}
