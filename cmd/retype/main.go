// Package main provides the CLI entrypoint for retype.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/typedrift/retype/internal/config"
	"github.com/typedrift/retype/internal/model"
	"github.com/typedrift/retype/internal/profile"
	"github.com/typedrift/retype/internal/session"
	"github.com/typedrift/retype/internal/statsui"
	"github.com/typedrift/retype/internal/store"
	"github.com/typedrift/retype/internal/text"
	"github.com/typedrift/retype/internal/tui"
)

var (
	practicePassage   string
	practiceMilestone int

	resetForce bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "retype",
		Short:         "Terminal typing trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.Flags().StringVar(&practicePassage, "passage", "", "path to a passage file (one sentence per line)")
	rootCmd.Flags().IntVar(&practiceMilestone, "milestone-wpm", profile.DefaultMilestoneWPM, "WPM threshold for the one-time personal-best notice")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newResetCmd())

	return rootCmd
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "passage", &practicePassage, fileCfg.Practice.Passage)
	applyIntConfig(cmd, "milestone-wpm", &practiceMilestone, fileCfg.Practice.MilestoneWPM)

	cfg := model.Config{
		PassagePath:  practicePassage,
		MilestoneWPM: practiceMilestone,
	}
	if cfg.MilestoneWPM <= 0 {
		return fmt.Errorf("--milestone-wpm must be > 0")
	}

	passage, err := loadPassage(cfg.PassagePath)
	if err != nil {
		return err
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	sess, err := session.New(passage, store.NewSnapshotPersister(st))
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	tracker := profile.NewTracker(st, cfg.MilestoneWPM)

	program := tea.NewProgram(tui.NewModel(sess, tracker), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// loadPassage resolves the typing text: an explicit path, then the default
// passage file, then the embedded excerpt.
func loadPassage(path string) (*text.Passage, error) {
	if path != "" {
		passage, err := text.Load(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load passage %s: %w", path, err)
		}
		return passage, nil
	}
	defaultPath := config.DefaultPassagePath()
	if _, err := os.Stat(defaultPath); err == nil {
		passage, err := text.Load(defaultPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load passage %s: %w", defaultPath, err)
		}
		return passage, nil
	}
	return text.Default(), nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show lifetime stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
}

func runStatsCmd(_ *cobra.Command, _ []string) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	program := tea.NewProgram(statsui.NewModel(st), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func newResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Clear typing progress",
		Args:  cobra.NoArgs,
		RunE:  runResetCmd,
	}
	cmd.Flags().BoolVar(&resetForce, "force", false, "confirm clearing all progress")
	return cmd
}

func runResetCmd(_ *cobra.Command, _ []string) error {
	if !resetForce {
		return fmt.Errorf("this clears all typing progress; re-run with --force to confirm")
	}
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	if err := st.ClearAll(context.Background()); err != nil {
		return fmt.Errorf("failed to clear progress: %w", err)
	}
	fmt.Println("Progress cleared.")
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# retype configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# passage = ""         # Path to a passage file, one sentence per line
# milestone-wpm = %d   # WPM threshold for the one-time personal-best notice
`, profile.DefaultMilestoneWPM)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
