// Package main provides the CLI entrypoint for fightclock.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/fightclock/internal/audio"
	"github.com/verte-zerg/fightclock/internal/config"
	"github.com/verte-zerg/fightclock/internal/historyui"
	"github.com/verte-zerg/fightclock/internal/logging"
	"github.com/verte-zerg/fightclock/internal/match"
	"github.com/verte-zerg/fightclock/internal/model"
	"github.com/verte-zerg/fightclock/internal/stats"
	"github.com/verte-zerg/fightclock/internal/store"
	"github.com/verte-zerg/fightclock/internal/timefmt"
	"github.com/verte-zerg/fightclock/internal/tui"
)

const (
	defaultDuration = "2:00"
	defaultSound    = true
	defaultRecord   = true
	maxLeadIn       = time.Minute
)

var (
	clockDuration string
	clockLeadIn   time.Duration
	clockSound    bool
	clockRecord   bool
	clockLogLevel string

	historySince   string
	historyLast    int
	historyOutcome string
	historyPlain   bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "fightclock",
		Short:         "Match countdown clock",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runClockCmd,
	}

	rootCmd.Flags().StringVar(&clockDuration, "duration", defaultDuration, "match length (M:SS, 0:01 to 59:59)")
	rootCmd.Flags().DurationVar(&clockLeadIn, "lead-in", match.DefaultLeadIn, "blank pause before the 3-2-1 count")
	rootCmd.Flags().BoolVar(&clockSound, "sound", defaultSound, "ring the terminal bell for cues")
	rootCmd.Flags().BoolVar(&clockRecord, "record", defaultRecord, "store finished and abandoned matches")
	rootCmd.Flags().StringVar(&clockLogLevel, "log-level", logging.DefaultLevel, "log level (debug, info, warn, error)")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newHistoryCmd())

	return rootCmd
}

func runClockCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := applyDurationConfig(cmd, "lead-in", &clockLeadIn, fileCfg.Clock.LeadIn); err != nil {
		return err
	}
	applyStringConfig(cmd, "duration", &clockDuration, fileCfg.Clock.Duration)
	applyBoolConfig(cmd, "sound", &clockSound, fileCfg.Clock.Sound)
	applyBoolConfig(cmd, "record", &clockRecord, fileCfg.Clock.Record)
	applyStringConfig(cmd, "log-level", &clockLogLevel, fileCfg.Clock.LogLevel)

	cfg, err := buildConfig(clockDuration, clockLeadIn, clockSound, clockRecord, clockLogLevel)
	if err != nil {
		return err
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}

	logger, logFile, err := logging.OpenFile(config.DefaultLogPath(), level)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := logFile.Close(); cerr != nil {
			logErrf("failed to close log: %v\n", cerr)
		}
	}()

	opts := match.Options{
		Clock:    clockwork.NewRealClock(),
		Player:   newPlayer(cfg.Sound, os.Stderr),
		Logger:   &logger,
		Duration: time.Duration(cfg.DurationSeconds) * time.Second,
		LeadIn:   cfg.LeadIn,
	}
	if cfg.Record {
		st, err := store.Open(config.DefaultDBPath())
		if err != nil {
			return fmt.Errorf("failed to open db: %w", err)
		}
		defer func() {
			if cerr := st.Close(); cerr != nil {
				logErrf("failed to close db: %v\n", cerr)
			}
		}()
		opts.Recorder = st
	}

	logger.Info().
		Int("duration_s", cfg.DurationSeconds).
		Dur("lead_in", cfg.LeadIn).
		Bool("sound", cfg.Sound).
		Bool("record", cfg.Record).
		Msg("clock started")

	ctrl := match.New(opts)
	program := tea.NewProgram(tui.NewModel(ctrl, opts.Clock), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	// Leaving mid-match still logs it.
	ctrl.Reset()
	return nil
}

// newPlayer picks the audio backend. The bell is only used when stderr is a
// terminal and is built on the first key press.
func newPlayer(sound bool, w *os.File) audio.Player {
	if !sound || !term.IsTerminal(int(w.Fd())) {
		return audio.Nop{}
	}
	return audio.NewLazy(func() audio.Player {
		return audio.NewBell(w)
	})
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

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded matches",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().StringVar(&historySince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&historyLast, "last", 0, "limit to last N matches")
	cmd.Flags().StringVar(&historyOutcome, "outcome", "", "outcome filter (finished or abandoned)")
	cmd.Flags().BoolVar(&historyPlain, "plain", false, "print a plain report instead of the TUI")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	if historyLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	cfg, err := historyui.ParseFilters(historySince, strconv.Itoa(historyLast), historyOutcome)
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

	if historyPlain {
		return writePlainHistory(cmd.Context(), cmd.OutOrStdout(), st, cfg)
	}
	program := tea.NewProgram(historyui.NewModel(st, cfg), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run history TUI: %w", err)
	}
	return nil
}

func writePlainHistory(ctx context.Context, w io.Writer, src stats.MatchLister, cfg model.HistoryConfig) error {
	if ctx == nil {
		ctx = context.Background()
	}
	report, err := stats.BuildReport(ctx, src, cfg)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	if err := stats.WriteReport(w, report, stats.TerminalWidth(), stats.ShouldUseColor(w)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
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

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyDurationConfig(cmd *cobra.Command, name string, target *time.Duration, value *string) error {
	if value == nil {
		return nil
	}
	if cmd.Flags().Changed(name) {
		return nil
	}
	parsed, err := time.ParseDuration(strings.TrimSpace(*value))
	if err != nil {
		return fmt.Errorf("invalid %s in config: %w", name, err)
	}
	*target = parsed
	return nil
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# fightclock configuration
# Uncomment a value to enable it. CLI flags override config values.

[clock]
# duration = %q        # Match length (M:SS, 0:01 to 59:59)
# lead-in = %q           # Blank pause before the 3-2-1 count (0s to 1m)
# sound = %t            # Ring the terminal bell for cues
# record = %t           # Store finished and abandoned matches
# log-level = %q       # debug, info, warn or error
`,
		defaultDuration,
		match.DefaultLeadIn.String(),
		defaultSound,
		defaultRecord,
		logging.DefaultLevel,
	)
}

func buildConfig(duration string, leadIn time.Duration, sound, record bool, logLevel string) (model.Config, error) {
	seconds, err := timefmt.ParseClock(duration)
	if err != nil {
		return model.Config{}, fmt.Errorf("invalid --duration %q: %w", duration, err)
	}
	cfg := model.Config{
		DurationSeconds: seconds,
		LeadIn:          leadIn,
		Sound:           sound,
		Record:          record,
		LogLevel:        logLevel,
	}
	if err := validateConfig(cfg); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

func validateConfig(cfg model.Config) error {
	if cfg.DurationSeconds < timefmt.MinSeconds || cfg.DurationSeconds > timefmt.MaxSeconds {
		return fmt.Errorf("--duration must be between 0:01 and 59:59")
	}
	if cfg.LeadIn < 0 || cfg.LeadIn > maxLeadIn {
		return fmt.Errorf("--lead-in must be between 0s and %s", maxLeadIn)
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.LogLevel))); err != nil {
		return fmt.Errorf("--log-level %q is not a known level", cfg.LogLevel)
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
