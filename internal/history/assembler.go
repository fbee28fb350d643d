package history

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// ErrNoHistory means the history log itself failed or named no commits.
var ErrNoHistory = errors.New("no history found")

// ErrEmptyRange means the file has history but the requested line range
// matches no lines in any assembled version.
var ErrEmptyRange = errors.New("line range matches no lines in any version")

// CommandRunner is the slice of the git adapter the assembler needs.
// *gitcmd.Runner implements it.
type CommandRunner interface {
	LogCommits(ctx context.Context, path string, startLine, endLine int) (string, error)
	BlameAt(ctx context.Context, commit, path string) (string, error)
	ShowCommit(ctx context.Context, commit, path string, startLine, endLine int) (string, error)
}

// Assembler builds the ordered version sequence for one path.
type Assembler struct {
	Runner CommandRunner

	// Workers bounds the concurrent per-commit fetches. Zero or one
	// keeps the fetches strictly sequential.
	Workers int
}

// fetchResult holds one commit's retrieved data, slotted by commit
// index so assembly order never depends on completion order.
type fetchResult struct {
	blame   []BlameLine
	changes []LineChange
	err     error
}

// Assemble retrieves the commits touching the requested path (and line
// range, if any), pairs each with its blame and change data, and
// returns them ordered by commit date. A commit whose data cannot be
// retrieved or parsed is dropped and recorded in History.Skipped; only
// a failing or empty history log aborts the whole assembly.
func (a *Assembler) Assemble(ctx context.Context, req Request) (*History, error) {
	logText, err := a.Runner.LogCommits(ctx, req.Path, req.StartLine, req.EndLine)
	if err != nil {
		if !req.WholeFile() && isRangePastEOF(err) {
			return nil, fmt.Errorf("%w: %s:%d-%d", ErrEmptyRange, req.Path, req.StartLine, req.EndLine)
		}
		return nil, fmt.Errorf("%w for %s: %v", ErrNoHistory, req.Path, err)
	}

	commits := parseCommitLog(logText)
	if len(commits) == 0 {
		return nil, fmt.Errorf("%w for %s", ErrNoHistory, req.Path)
	}

	// git log emits newest first; the canonical order is ascending.
	reverseCommits(commits)
	sort.SliceStable(commits, func(i, j int) bool {
		return commits[i].Date.Before(commits[j].Date)
	})

	results := make([]fetchResult, len(commits))
	if a.Workers > 1 {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(a.Workers)
		for i := range commits {
			g.Go(func() error {
				results[i] = a.fetchCommit(gctx, req, commits[i], i == 0)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	} else {
		for i := range commits {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			results[i] = a.fetchCommit(ctx, req, commits[i], i == 0)
		}
	}

	h := &History{Request: req}
	for i, commit := range commits {
		if results[i].err != nil {
			h.Skipped = append(h.Skipped, SkippedCommit{Commit: commit, Reason: results[i].err})
			continue
		}
		h.Versions = append(h.Versions, FileVersion{
			Commit:     commit,
			BlameLines: results[i].blame,
			Changes:    results[i].changes,
		})
	}

	if len(h.Versions) == 0 {
		return nil, fmt.Errorf("%w for %s: all %d commits were unreadable", ErrNoHistory, req.Path, len(commits))
	}

	if req.WholeFile() {
		fillSnapshotChanges(h.Versions)
	} else if !rangeEverPopulated(h.Versions, req) {
		return nil, fmt.Errorf("%w: %s:%d-%d", ErrEmptyRange, req.Path, req.StartLine, req.EndLine)
	}

	// Reversal is presentation only; it never changes which commits
	// made it into the sequence.
	if req.Reverse {
		reverseVersions(h.Versions)
	}

	return h, nil
}

// fetchCommit retrieves blame and change data for a single commit. Any
// failure is returned for the caller to record; it is never fatal for
// the assembly as a whole.
func (a *Assembler) fetchCommit(ctx context.Context, req Request, commit CommitInfo, earliest bool) fetchResult {
	blameText, err := a.Runner.BlameAt(ctx, commit.Hash, req.Path)
	if err != nil {
		return fetchResult{err: fmt.Errorf("blame: %w", err)}
	}
	blame, err := ParseBlame(blameText)
	if err != nil {
		return fetchResult{err: err}
	}

	res := fetchResult{blame: blame}

	// The chronologically earliest commit has no predecessor, so its
	// changes stay empty by construction. Whole-file requests compute
	// changes from consecutive snapshots after assembly instead.
	if earliest || req.WholeFile() {
		return res
	}

	end := req.EndLine
	if end <= 0 {
		end = req.StartLine
	}
	diffText, err := a.Runner.ShowCommit(ctx, commit.Hash, req.Path, req.StartLine, end)
	if err != nil {
		return fetchResult{err: fmt.Errorf("show: %w", err)}
	}
	res.changes = ParseDiff(diffText)
	return res
}

// fillSnapshotChanges computes each surviving version's changes from
// its predecessor's content. Runs after skipped commits are removed so
// consecutive really means consecutive in the sequence.
func fillSnapshotChanges(versions []FileVersion) {
	for i := 1; i < len(versions); i++ {
		prev := blameContent(versions[i-1].BlameLines)
		curr := blameContent(versions[i].BlameLines)
		versions[i].Changes = ComputeChanges(prev, curr)
	}
}

func blameContent(lines []BlameLine) []string {
	content := make([]string, len(lines))
	for i, l := range lines {
		content[i] = l.Content
	}
	return content
}

// isRangePastEOF recognizes the log failure git raises when an -L range
// starts beyond the file's current length ("fatal: file a.txt has only
// 1 lines"). The file does have history in that case, the range just
// never matches it.
func isRangePastEOF(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "has only") && strings.Contains(msg, "lines")
}

func rangeEverPopulated(versions []FileVersion, req Request) bool {
	end := req.EndLine
	if end <= 0 {
		end = req.StartLine
	}
	for _, v := range versions {
		if len(v.LinesIn(req.StartLine, end)) > 0 {
			return true
		}
	}
	return false
}

// parseCommitLog extracts hash|date|author|subject lines, skipping the
// patch text that `git log -L` interleaves with them.
func parseCommitLog(text string) []CommitInfo {
	var commits []CommitInfo
	for _, line := range splitLines(text) {
		parts := strings.SplitN(line, "|", 4)
		if len(parts) != 4 {
			continue
		}
		if len(parts[0]) < 7 || !isHex(parts[0]) {
			continue
		}
		date, err := time.Parse(time.RFC3339, parts[1])
		if err != nil {
			continue
		}
		commits = append(commits, CommitInfo{
			Hash:    parts[0],
			Date:    date,
			Author:  parts[2],
			Message: parts[3],
		})
	}
	return commits
}

func reverseCommits(commits []CommitInfo) {
	for i, j := 0, len(commits)-1; i < j; i, j = i+1, j-1 {
		commits[i], commits[j] = commits[j], commits[i]
	}
}

func reverseVersions(versions []FileVersion) {
	for i, j := 0, len(versions)-1; i < j; i, j = i+1, j-1 {
		versions[i], versions[j] = versions[j], versions[i]
	}
}
