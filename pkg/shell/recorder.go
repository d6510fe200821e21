// pkg/shell/recorder.go
package shell

import (
	"context"
	"fmt"
)

// Queued is a canned response handed out by a Recorder
type Queued struct {
	Result Result
	Err    error
}

// Recorder is a Runner that never executes anything. It remembers every
// command and replays queued results in order; once the queue is drained
// it returns Err (nil by default). Used for dry runs and tests.
type Recorder struct {
	Commands []Command
	Queue    []Queued
	Err      error
}

// Run records cmd and returns the next queued result
func (r *Recorder) Run(ctx context.Context, cmd Command) (Result, error) {
	r.Commands = append(r.Commands, cmd)

	if len(r.Queue) > 0 {
		next := r.Queue[0]
		r.Queue = r.Queue[1:]
		if next.Err != nil && next.Result.ExitCode == 0 {
			next.Result.ExitCode = 1
		}
		return next.Result, wrapQueued(cmd, next)
	}
	if r.Err != nil {
		return Result{ExitCode: 1}, &ExitError{Command: cmd, Code: 1, Err: r.Err}
	}
	return Result{}, nil
}

// Lines returns the recorded commands rendered as shell lines
func (r *Recorder) Lines() []string {
	lines := make([]string, 0, len(r.Commands))
	for _, c := range r.Commands {
		lines = append(lines, c.String())
	}
	return lines
}

func wrapQueued(cmd Command, q Queued) error {
	if q.Err == nil && q.Result.ExitCode == 0 {
		return nil
	}
	err := q.Err
	if err == nil {
		err = fmt.Errorf("exit status %d", q.Result.ExitCode)
	}
	return &ExitError{Command: cmd, Code: q.Result.ExitCode, Err: err}
}
