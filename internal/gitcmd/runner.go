// Package gitcmd shells out to the git executable and converts its
// output into text or typed failures. It contains no parsing logic.
package gitcmd

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"unicode/utf8"
)

// CommandError reports a git invocation that exited non-zero or could
// not be started at all.
type CommandError struct {
	Args     []string
	ExitCode int
	Stderr   string
}

func (e *CommandError) Error() string {
	if e.ExitCode < 0 {
		return fmt.Sprintf("git %s: could not run: %s", strings.Join(e.Args, " "), e.Stderr)
	}
	return fmt.Sprintf("git %s: exit %d: %s", strings.Join(e.Args, " "), e.ExitCode, strings.TrimSpace(e.Stderr))
}

// EncodingError reports output that did not decode as UTF-8 text.
type EncodingError struct {
	Args []string
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("git %s: output is not valid UTF-8", strings.Join(e.Args, " "))
}

// Runner invokes git inside a single repository.
type Runner struct {
	// Dir is the repository root every command runs in.
	Dir string
}

// NewRunner returns a Runner rooted at dir.
func NewRunner(dir string) *Runner {
	return &Runner{Dir: dir}
}

// Run executes git with the given arguments and returns its stdout.
// A non-zero exit is always a *CommandError regardless of any stdout
// the process produced; undecodable stdout is an *EncodingError.
func (r *Runner) Run(ctx context.Context, args ...string) (string, error) {
	out, err := r.runBytes(ctx, args)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(out) {
		return "", &EncodingError{Args: args}
	}
	return string(out), nil
}

// RunLenient executes git like Run but tolerates invalid UTF-8 in the
// output: undecodable byte runs are replaced with U+FFFD instead of
// failing, so file content in any encoding still comes through.
func (r *Runner) RunLenient(ctx context.Context, args ...string) (string, error) {
	out, err := r.runBytes(ctx, args)
	if err != nil {
		return "", err
	}
	return strings.ToValidUTF8(string(out), string(utf8.RuneError)), nil
}

func (r *Runner) runBytes(ctx context.Context, args []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = r.Dir

	var stderr strings.Builder
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, &CommandError{Args: args, ExitCode: exitErr.ExitCode(), Stderr: stderr.String()}
		}
		return nil, &CommandError{Args: args, ExitCode: -1, Stderr: err.Error()}
	}
	return out, nil
}

// LogCommits returns the raw history log for path, one commit per line in
// hash|date|author|subject form. When a line range is given, git limits
// the log to commits touching those lines.
func (r *Runner) LogCommits(ctx context.Context, path string, startLine, endLine int) (string, error) {
	args := []string{"log", "--no-color", "--pretty=format:%H|%aI|%an|%s"}
	if startLine > 0 && endLine > 0 {
		// -L emits the patch after each commit line; the caller's parser
		// skips anything that is not a pretty-format line.
		args = append(args, "-L", fmt.Sprintf("%d,%d:%s", startLine, endLine, path))
	} else {
		args = append(args, "--follow", "--", path)
	}
	// Ranged logs interleave raw file bytes, so decoding must be as
	// lenient as the blame path.
	return r.RunLenient(ctx, args...)
}

// BlameAt returns line-porcelain blame output for path as of commit.
// Content lines may hold arbitrary bytes, so decoding is lenient.
func (r *Runner) BlameAt(ctx context.Context, commit, path string) (string, error) {
	return r.RunLenient(ctx, "blame", "--line-porcelain", commit, "--", path)
}

// ShowCommit returns the unified diff a commit applied to the given
// line range of path.
func (r *Runner) ShowCommit(ctx context.Context, commit, path string, startLine, endLine int) (string, error) {
	return r.RunLenient(ctx, "show", "--no-color", commit, "-L", fmt.Sprintf("%d,%d:%s", startLine, endLine, path))
}
