// Package main provides the CLI entrypoint for wordcram.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/wordcram/internal/config"
	"github.com/verte-zerg/wordcram/internal/model"
	"github.com/verte-zerg/wordcram/internal/progress"
	"github.com/verte-zerg/wordcram/internal/session"
	"github.com/verte-zerg/wordcram/internal/stats"
	"github.com/verte-zerg/wordcram/internal/statsui"
	"github.com/verte-zerg/wordcram/internal/store"
	"github.com/verte-zerg/wordcram/internal/tui"
	"github.com/verte-zerg/wordcram/internal/wordlist"
)

const (
	defaultCount          = 20
	defaultMaxProficiency = 50
	defaultStatsTop       = 10
	defaultCurveWindow    = 3
	progressSource        = "progress"
)

var (
	dataFile    string
	historyFile string

	practiceCount          int
	practiceMaxProficiency int
	practiceShuffle        bool
	practiceNoHistory      bool

	statsPlain bool
	statsLimit int
	statsTop   int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "wordcram [FILE]",
		Short:         "Terminal vocabulary flashcards",
		Long:          "Practice vocabulary from FILE (term:translation lines, .csv or .xlsx),\nor from stored progress when FILE is omitted.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.PersistentFlags().StringVarP(&dataFile, "data-file", "d", config.DefaultDataPath(), "progress file")
	rootCmd.PersistentFlags().StringVar(&historyFile, "history-file", config.DefaultHistoryPath(), "review history database")
	rootCmd.Flags().IntVarP(&practiceCount, "count", "c", defaultCount, "words per session when practicing stored progress")
	rootCmd.Flags().IntVarP(&practiceMaxProficiency, "max-proficiency", "m", defaultMaxProficiency, "only practice stored words below this proficiency")
	rootCmd.Flags().BoolVar(&practiceShuffle, "shuffle", false, "shuffle the order of each round")
	rootCmd.Flags().BoolVar(&practiceNoHistory, "no-history", false, "do not record reviews in the history database")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newStatsCmd())

	return rootCmd
}

func runPracticeCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := loadFileConfig()
	if err != nil {
		return err
	}
	cfg, err := resolvePracticeConfig(cmd, args, fileCfg)
	if err != nil {
		return err
	}

	words, source := loadWordList(cfg.WordListPath)
	st := loadProgress(cfg.DataPath)

	ctx := context.Background()
	var recorder session.Recorder
	var sessionLog *store.SessionLog
	if !cfg.NoHistory {
		history, err := store.Open(cfg.HistoryPath)
		if err != nil {
			logErrf("failed to open history db, reviews will not be recorded: %v\n", err)
		} else {
			defer func() {
				if cerr := history.Close(); cerr != nil {
					logErrf("failed to close history db: %v\n", cerr)
				}
			}()
			sessionLog, err = history.BeginSession(ctx, source, time.Now())
			if err != nil {
				logErrf("%v\n", err)
			} else {
				recorder = &historyRecorder{log: sessionLog}
			}
		}
	}

	engine := session.New(st, words, session.Options{
		Count:          cfg.Count,
		MaxProficiency: cfg.MaxProficiency,
		Shuffle:        cfg.Shuffle,
	}, func(s *progress.Store) error {
		return progress.Save(s, cfg.DataPath)
	}, recorder)
	defer finishHistory(sessionLog, engine)
	if err := engine.Start(); err != nil {
		return err
	}

	if engine.Done() {
		logErrln("No words to practice. Pass a word list or lower the proficiency filter.")
		return nil
	}

	ui := tui.NewModel(engine, sessionTitle(source))
	program := tea.NewProgram(ui, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		if qerr := engine.Quit(); qerr != nil {
			logErrf("%v\n", qerr)
		}
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return ui.Err()
}

func resolvePracticeConfig(cmd *cobra.Command, args []string, fileCfg config.FileConfig) (model.Config, error) {
	applyStringConfig(cmd, "data-file", &dataFile, fileCfg.Practice.DataFile)
	applyStringConfig(cmd, "data-file", &dataFile, config.EnvString(config.EnvDataFile))
	applyStringConfig(cmd, "history-file", &historyFile, fileCfg.Practice.HistoryFile)
	applyStringConfig(cmd, "history-file", &historyFile, config.EnvString(config.EnvHistoryFile))
	applyIntConfig(cmd, "count", &practiceCount, fileCfg.Practice.Count)
	applyIntConfig(cmd, "max-proficiency", &practiceMaxProficiency, fileCfg.Practice.MaxProficiency)
	applyBoolConfig(cmd, "shuffle", &practiceShuffle, fileCfg.Practice.Shuffle)
	applyBoolConfig(cmd, "no-history", &practiceNoHistory, fileCfg.Practice.NoHistory)

	cfg := model.Config{
		DataPath:       dataFile,
		HistoryPath:    historyFile,
		Count:          practiceCount,
		MaxProficiency: practiceMaxProficiency,
		Shuffle:        practiceShuffle,
		NoHistory:      practiceNoHistory,
	}
	if len(args) > 0 {
		cfg.WordListPath = args[0]
	}
	if err := validateConfig(cfg); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

func validateConfig(cfg model.Config) error {
	if strings.TrimSpace(cfg.DataPath) == "" {
		return fmt.Errorf("--data-file must not be empty")
	}
	if cfg.Count <= 0 {
		return fmt.Errorf("--count must be > 0")
	}
	if !cfg.NoHistory && strings.TrimSpace(cfg.HistoryPath) == "" {
		return fmt.Errorf("--history-file must not be empty")
	}
	return nil
}

func loadFileConfig() (config.FileConfig, error) {
	if err := config.LoadDotEnv(); err != nil {
		logErrf("failed to load .env: %v\n", err)
	}
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return config.FileConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	return fileCfg, nil
}

// loadWordList returns the words of path and the session source name. An
// empty result makes the engine practice stored progress instead.
func loadWordList(path string) (map[string]model.Word, string) {
	if path == "" {
		return nil, progressSource
	}
	words, err := wordlist.LoadWords(path)
	if err != nil {
		logErrf("failed to load word list, practicing stored progress: %v\n", err)
		return nil, progressSource
	}
	if len(words) == 0 {
		logErrf("no term:translation pairs in %s, practicing stored progress\n", path)
		return nil, progressSource
	}
	return words, filepath.Base(path)
}

func loadProgress(path string) *progress.Store {
	st, err := progress.Load(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		logErrf("failed to load progress from %s, starting empty: %v\n", path, err)
	}
	return st
}

func sessionTitle(source string) string {
	if source == progressSource {
		return "Stored progress"
	}
	return source
}

// historyRecorder forwards confirmed ratings to the history database.
// Failures are logged and never stop the session.
type historyRecorder struct {
	log    *store.SessionLog
	failed bool
}

func (r *historyRecorder) RecordReview(review model.Review) {
	if r.failed {
		return
	}
	if err := r.log.Append(review); err != nil {
		r.failed = true
		logErrf("%v; further reviews will not be recorded\n", err)
	}
}

func finishHistory(log *store.SessionLog, engine *session.Engine) {
	if log == nil {
		return
	}
	if err := log.Finish(engine.Round(), time.Now()); err != nil {
		logErrf("%v\n", err)
	}
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
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show learning progress and review history",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print a plain text report instead of the TUI")
	cmd.Flags().IntVar(&statsLimit, "limit", 0, "limit to the last N sessions (0 for all)")
	cmd.Flags().IntVar(&statsTop, "top", defaultStatsTop, "number of words in word tables")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadFileConfig()
	if err != nil {
		return err
	}
	applyStringConfig(cmd, "data-file", &dataFile, fileCfg.Practice.DataFile)
	applyStringConfig(cmd, "data-file", &dataFile, config.EnvString(config.EnvDataFile))
	applyStringConfig(cmd, "history-file", &historyFile, fileCfg.Practice.HistoryFile)
	applyStringConfig(cmd, "history-file", &historyFile, config.EnvString(config.EnvHistoryFile))
	if statsLimit < 0 {
		return fmt.Errorf("--limit must be >= 0")
	}

	cfg := model.StatsConfig{
		DataPath:    dataFile,
		HistoryPath: historyFile,
		Limit:       statsLimit,
		Top:         statsTop,
	}
	st := loadProgress(cfg.DataPath)

	var history *store.Store
	if _, err := os.Stat(cfg.HistoryPath); err == nil {
		history, err = store.Open(cfg.HistoryPath)
		if err != nil {
			return fmt.Errorf("failed to open history db: %w", err)
		}
		defer func() {
			if cerr := history.Close(); cerr != nil {
				logErrf("failed to close history db: %v\n", cerr)
			}
		}()
	}

	if statsPlain {
		report, err := stats.BuildReport(context.Background(), st, history, cfg)
		if err != nil {
			return fmt.Errorf("failed to build report: %w", err)
		}
		if err := stats.RenderReport(cmd.OutOrStdout(), report, defaultCurveWindow, 0); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}

	program := tea.NewProgram(statsui.NewModel(st, history, cfg), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
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

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
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

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# wordcram configuration
# Uncomment a value to enable it. Environment variables (%s, %s)
# override these values; CLI flags override both.

[practice]
# data-file = %q
# history-file = %q
# count = %d                # Words per session drawn from stored progress
# max-proficiency = %d      # Only practice stored words below this value
# shuffle = false
# no-history = false
`,
		config.EnvDataFile,
		config.EnvHistoryFile,
		config.DefaultDataPath(),
		config.DefaultHistoryPath(),
		defaultCount,
		defaultMaxProficiency,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
