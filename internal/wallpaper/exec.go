package wallpaper

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// ExternalToolError is returned when a desktop tool exits unsuccessfully or
// cannot be started.
type ExternalToolError struct {
	Tool   string
	Stderr string
	Cause  error
}

func (e *ExternalToolError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("%s failed: %v: %s", e.Tool, e.Cause, e.Stderr)
	}
	return fmt.Sprintf("%s failed: %v", e.Tool, e.Cause)
}

func (e *ExternalToolError) Unwrap() error {
	return e.Cause
}

// Prober answers the questions environment detection asks about the host.
type Prober interface {
	// LookPath reports whether an executable is on PATH.
	LookPath(name string) bool
	// ProcessRunning reports whether a process with exactly this name runs.
	ProcessRunning(ctx context.Context, name string) bool
}

// Runner runs an external command and returns its standard output.
// Failures are *ExternalToolError.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (string, error)
}

type systemProber struct{}

func (systemProber) LookPath(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

func (systemProber) ProcessRunning(ctx context.Context, name string) bool {
	return exec.CommandContext(ctx, "pgrep", "-x", name).Run() == nil
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return stdout.String(), &ExternalToolError{Tool: name, Stderr: strings.TrimSpace(stderr.String()), Cause: err}
	}
	return stdout.String(), nil
}
