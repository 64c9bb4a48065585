package toolchain

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// BuildSystem selects how a workspace is compiled and run.
type BuildSystem string

const (
	BuildSystemJavac BuildSystem = "javac"
	BuildSystemMaven BuildSystem = "Maven"
)

// Result is the outcome of one toolchain stage: the combined stdout/stderr
// text and whether the stage exited cleanly.
type Result struct {
	Output string
	Ok     bool
}

// ErrToolchainUnavailable indicates the required build tools are not
// installed. This is an environment problem, not a content problem, so the
// session aborts instead of retrying.
var ErrToolchainUnavailable = errors.New("toolchain unavailable")

// Runner compiles and runs candidate code in a workspace directory.
type Runner interface {
	Compile(ctx context.Context, dir string, system BuildSystem, files []string) (Result, error)
	Run(ctx context.Context, dir string, system BuildSystem, mainClass string) (Result, error)
}

// ExecRunner shells out to the real javac/java or Maven binaries.
type ExecRunner struct {
	Timeout time.Duration
}

// NewExecRunner returns a runner with the given per-stage timeout.
func NewExecRunner(timeout time.Duration) *ExecRunner {
	return &ExecRunner{Timeout: timeout}
}

// Compile compiles the given files (javac) or the whole project (Maven).
func (r *ExecRunner) Compile(ctx context.Context, dir string, system BuildSystem, files []string) (Result, error) {
	switch system {
	case BuildSystemMaven:
		return r.execute(ctx, dir, "mvn", "-q", "compile")
	default:
		args := append([]string{}, files...)
		return r.execute(ctx, dir, "javac", args...)
	}
}

// Run executes the compiled code. mainClass is the fully qualified class name.
func (r *ExecRunner) Run(ctx context.Context, dir string, system BuildSystem, mainClass string) (Result, error) {
	switch system {
	case BuildSystemMaven:
		return r.execute(ctx, dir, "mvn", "-q", "exec:java", "-Dexec.mainClass="+mainClass)
	default:
		return r.execute(ctx, dir, "java", "-cp", ".", mainClass)
	}
}

// execute runs one command in dir and captures combined output. A missing
// binary surfaces as ErrToolchainUnavailable; a non-zero exit is a normal
// failed Result, not an error.
func (r *ExecRunner) execute(ctx context.Context, dir, binary string, args ...string) (Result, error) {
	if _, err := exec.LookPath(binary); err != nil {
		return Result{}, fmt.Errorf("%w: %s not found in PATH", ErrToolchainUnavailable, binary)
	}

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Dir = dir
	output, err := cmd.CombinedOutput()

	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return Result{Output: string(output) + "\n(toolchain stage timed out)", Ok: false}, nil
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return Result{Output: string(output), Ok: false}, nil
		}
		return Result{Output: string(output)}, fmt.Errorf("%w: failed to invoke %s: %v", ErrToolchainUnavailable, binary, err)
	}

	return Result{Output: string(output), Ok: true}, nil
}
