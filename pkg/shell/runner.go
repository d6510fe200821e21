// pkg/shell/runner.go
package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"mvdan.cc/sh/v3/syntax"
)

// Command is a single external program invocation
type Command struct {
	Name string   // Program name or path
	Args []string // Arguments, not shell-expanded
	Dir  string   // Working directory (current directory if empty)
	Env  []string // Extra KEY=VALUE pairs appended to the process environment
}

// String renders the command as a copy-pasteable shell line
func (c Command) String() string {
	words := make([]string, 0, len(c.Args)+1+len(c.Env))
	words = append(words, c.Env...)
	words = append(words, c.Name)
	words = append(words, c.Args...)

	quoted := make([]string, 0, len(words))
	for _, w := range words {
		q, err := syntax.Quote(w, syntax.LangBash)
		if err != nil {
			q = strconv.Quote(w)
		}
		quoted = append(quoted, q)
	}
	return strings.Join(quoted, " ")
}

// Result holds the captured output of a finished command
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Runner executes commands. Implementations must return a non-nil error
// whenever the command did not exit with status 0.
type Runner interface {
	Run(ctx context.Context, cmd Command) (Result, error)
}

// ErrCommandFailed is wrapped by every error returned for a non-zero exit
var ErrCommandFailed = errors.New("command failed")

// ExitError describes a command that ran but exited unsuccessfully
type ExitError struct {
	Command Command
	Code    int
	Err     error
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s: exit status %d", e.Command.Name, e.Code)
}

func (e *ExitError) Unwrap() []error {
	return []error{ErrCommandFailed, e.Err}
}

// ExecRunner runs commands on the local host with os/exec.
// Output is captured and, when Stdout/Stderr are set, streamed as well.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
	Logger *log.Logger
}

// Run executes cmd and blocks until it exits
func (r ExecRunner) Run(ctx context.Context, cmd Command) (Result, error) {
	if r.Logger != nil {
		r.Logger.Debugf("$ %s", cmd)
	}

	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	if len(cmd.Env) > 0 {
		c.Env = append(os.Environ(), cmd.Env...)
	}

	var stdout, stderr bytes.Buffer
	c.Stdout = tee(&stdout, r.Stdout)
	c.Stderr = tee(&stderr, r.Stderr)

	err := c.Run()
	res := Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if err == nil {
		return res, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
	} else {
		res.ExitCode = 1
		var execErr *exec.Error
		if errors.As(err, &execErr) {
			res.ExitCode = 127
		}
	}
	return res, &ExitError{Command: cmd, Code: res.ExitCode, Err: err}
}

func tee(buf *bytes.Buffer, w io.Writer) io.Writer {
	if w == nil {
		return buf
	}
	return io.MultiWriter(buf, w)
}
