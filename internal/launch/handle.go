package launch

import (
	"bufio"
	"context"
	"os/exec"

	"github.com/quasar/mclaunch/internal/mcerrors"
)

// Handle is the caller-visible result of a successful spawn: the child
// process plus line-buffered readers over its captured stdio.
type Handle struct {
	cmd    *exec.Cmd
	Stdout *bufio.Scanner
	Stderr *bufio.Scanner

	killed bool
}

// Kill terminates the child process. The launcher's background wait
// goroutine observes this and reports StateKilled rather than
// StateFailed/StateExited.
func (h *Handle) Kill() error {
	h.killed = true
	return h.cmd.Process.Kill()
}

// Pid returns the child process's OS process id.
func (h *Handle) Pid() int { return h.cmd.Process.Pid }

// wait blocks until the child exits, returning its exit code (or -1 if it
// could not be determined) and any process-control error.
func (h *Handle) wait() (int, error) {
	err := h.cmd.Wait()
	if err == nil {
		return 0, nil
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		return exitErr.ExitCode(), nil
	}
	return -1, &mcerrors.GameError{Err: err}
}

// spawn builds the argv and launches the java executable with CWD =
// GameDir, environment inherited, and captured stdout/stderr exposed as
// line-buffered scanners.
func (l *Launcher) spawn(ctx context.Context) (*Handle, error) {
	env := l.environmentFeatures()
	argv, err := l.buildArgv(env)
	if err != nil {
		return nil, err
	}

	javaPath := l.Options.JavaPath
	cmd := exec.CommandContext(ctx, javaPath, argv...)
	cmd.Dir = l.Options.GameDir

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, &mcerrors.LaunchError{Reason: "couldn't attach stdout: " + err.Error()}
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, &mcerrors.LaunchError{Reason: "couldn't attach stderr: " + err.Error()}
	}

	if err := cmd.Start(); err != nil {
		return nil, &mcerrors.LaunchError{Reason: "couldn't start java process: " + err.Error()}
	}

	return &Handle{
		cmd:    cmd,
		Stdout: bufio.NewScanner(stdout),
		Stderr: bufio.NewScanner(stderr),
	}, nil
}
