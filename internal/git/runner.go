package git

import (
	"os/exec"
	"strings"

	"github.com/kballard/go-shellquote"
)

// Result captures one external command invocation.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner executes external commands. The adapter never talks to os/exec
// directly so tests can inject deterministic fakes.
type Runner interface {
	Run(name string, args ...string) (Result, error)
}

// ExecRunner runs commands synchronously with captured output.
type ExecRunner struct {
	// Dir is the working directory; empty means the process working dir.
	Dir string
}

func (r *ExecRunner) Run(name string, args ...string) (Result, error) {
	cmd := exec.Command(name, args...)
	cmd.Dir = r.Dir

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		res.ExitCode = exitErr.ExitCode()
	} else if err != nil {
		res.ExitCode = -1
	}
	return res, err
}

// commandLine renders an invocation for diagnostics.
func commandLine(name string, args ...string) string {
	return shellquote.Join(append([]string{name}, args...)...)
}
