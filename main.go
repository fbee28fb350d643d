package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	git "github.com/go-git/go-git/v5"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/WyattLamberth/garch/internal/config"
	"github.com/WyattLamberth/garch/internal/export"
	"github.com/WyattLamberth/garch/internal/gitcmd"
	"github.com/WyattLamberth/garch/internal/history"
	"github.com/WyattLamberth/garch/internal/tui"
)

var (
	reverse      bool
	themeName    string
	highContrast bool
	exportFormat string
	exportFile   string
	exportCopy   bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "garch",
		Short:         "Explore the evolution of code through git history",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&reverse, "reverse", "r", false, "Start from the newest version instead of the oldest")
	rootCmd.PersistentFlags().StringVar(&themeName, "theme", "", "Color theme: default, solarized, or dracula")
	rootCmd.PersistentFlags().BoolVar(&highContrast, "high-contrast", false, "Boost theme contrast")
	rootCmd.PersistentFlags().StringVar(&exportFormat, "export-format", "", "Export the newest version as html, markdown, or ansi without launching the TUI")
	rootCmd.PersistentFlags().StringVar(&exportFile, "export-file", "", "Write the export to the provided file path")
	rootCmd.PersistentFlags().BoolVar(&exportCopy, "export-copy", false, "Copy the export to your clipboard")

	linesCmd := &cobra.Command{
		Use:   "lines <path>:<start>[-<end>]",
		Short: "Trace the evolution of specific lines in a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, start, end := history.ParseTarget(args[0])
			return run(history.Request{Path: path, StartLine: start, EndLine: end, Reverse: reverse})
		},
	}

	fileCmd := &cobra.Command{
		Use:   "file <path>",
		Short: "Show the evolution of an entire file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(history.Request{Path: args[0], StartLine: 1, EndLine: 0, Reverse: reverse})
		},
	}

	rootCmd.AddCommand(linesCmd, fileCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(req history.Request) error {
	lipgloss.SetColorProfile(termenv.EnvColorProfile())

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if themeName != "" {
		cfg.ThemePreset = config.ThemePreset(themeName)
	}
	if highContrast {
		cfg.HighContrast = true
	}
	cfg.Theme = config.ThemeForPreset(cfg.ThemePreset, cfg.HighContrast)

	repoRoot, relPath, err := resolveRepo(req.Path)
	if err != nil {
		return fmt.Errorf("git repository not detected for %s: %w", req.Path, err)
	}
	req.Path = relPath

	runner := gitcmd.NewRunner(repoRoot)
	assembler := &history.Assembler{Runner: runner, Workers: cfg.FetchWorkers}

	hist, err := assembler.Assemble(context.Background(), req)
	if err != nil {
		switch {
		case errors.Is(err, history.ErrEmptyRange):
			return fmt.Errorf("the file has history, but lines %d-%d never existed in it", req.StartLine, req.EndLine)
		case errors.Is(err, history.ErrNoHistory):
			return fmt.Errorf("no history found for %s", req.Path)
		default:
			return err
		}
	}

	if exportFormat != "" || exportFile != "" || exportCopy {
		return runExport(hist, req)
	}

	model := tui.NewModel(cfg, runner, hist)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())

	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("error running viewer: %w", err)
	}
	// Surface skipped commits once the alternate screen is gone.
	if m, ok := final.(tui.Model); ok {
		for _, line := range m.SkippedSummary() {
			fmt.Fprintln(os.Stderr, line)
		}
	}
	return nil
}

// runExport renders the newest assembled version without the TUI.
func runExport(hist *history.History, req history.Request) error {
	format := export.Format(exportFormat)
	if format == "" {
		format = export.FormatMarkdown
	}

	newest := hist.Version(hist.Len() - 1)
	if req.Reverse {
		newest = hist.Version(0)
	}

	rendered, err := export.Render(newest, format, export.Options{
		Title:     fmt.Sprintf("%s @ %s", filepath.Base(req.Path), newest.Commit.ShortHash()),
		StartLine: req.StartLine,
		EndLine:   req.EndLine,
	})
	if err != nil {
		return err
	}

	if exportFile != "" {
		if err := os.WriteFile(exportFile, []byte(rendered), 0o644); err != nil {
			return fmt.Errorf("error writing export: %w", err)
		}
		fmt.Printf("Snapshot saved to %s\n", exportFile)
	}

	if exportCopy {
		if err := export.CopyToClipboard(rendered, os.Stdout); err != nil {
			return fmt.Errorf("error copying snapshot to clipboard: %w", err)
		}
		fmt.Println("Snapshot copied to clipboard.")
	}

	if exportFile == "" && !exportCopy {
		fmt.Println(rendered)
	}
	return nil
}

// resolveRepo walks up from the target path to the enclosing git
// repository and returns its root plus the repo-relative path.
func resolveRepo(path string) (repoRoot, relPath string, err error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", "", err
	}

	repo, err := git.PlainOpenWithOptions(filepath.Dir(abs), &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", "", err
	}
	wt, err := repo.Worktree()
	if err != nil {
		return "", "", err
	}
	repoRoot = wt.Filesystem.Root()

	relPath, err = filepath.Rel(repoRoot, abs)
	if err != nil {
		return "", "", err
	}
	return repoRoot, filepath.ToSlash(relPath), nil
}
