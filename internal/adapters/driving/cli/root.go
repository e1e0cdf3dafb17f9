// Package cli provides the cobra command tree for pathok.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/user"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/pathok-dev/pathok/internal/core/ports/driving"
	"github.com/pathok-dev/pathok/internal/logger"
)

// annotationNeedsAI marks commands that need the embedding and generation services.
// Other commands skip the provider pings at startup.
const annotationNeedsAI = "pathok/needs-ai"

// logLevelEnv selects the log level when --verbose is not given.
const logLevelEnv = "PATHOK_LOG_LEVEL"

// version is set at build time via ldflags.
var version = "dev"

// QuotaReporter reports a user's daily question usage.
type QuotaReporter interface {
	Used(ctx context.Context, key string) (int, error)
	Remaining(ctx context.Context, key string) (int, error)
}

// Options is passed to the Bootstrap function.
type Options struct {
	// ConfigDir overrides ~/.pathok when set.
	ConfigDir string

	// NeedsAI is true when the command retrieves or generates.
	NeedsAI bool
}

// Services holds the driving ports the commands use.
type Services struct {
	Search   driving.SearchService
	Answer   driving.AnswerService
	Corpus   driving.CorpusService
	Settings driving.SettingsService
	Quota    QuotaReporter

	// KeywordOnly is true when no embedding service is available.
	KeywordOnly bool

	// Warnings are non-fatal startup issues shown to the user.
	Warnings []string

	// Close releases resources. May be nil.
	Close func()
}

// Bootstrap builds the services for a command invocation.
type Bootstrap func(ctx context.Context, opts Options) (*Services, error)

var (
	configDir string
	verbose   bool
	userID    string

	bootstrap       Bootstrap
	searchService   driving.SearchService
	answerService   driving.AnswerService
	corpusService   driving.CorpusService
	settingsService driving.SettingsService
	quotaReporter   QuotaReporter
	keywordOnly     bool
	startupWarnings []string
	closeServices   func()
)

var rootCmd = &cobra.Command{
	Use:   "pathok",
	Short: "Ask questions about your school textbooks",
	Long: `pathok answers questions from Bangla and English school textbooks.

It finds the most relevant textbook passages for a question and asks a
language model to answer using only those passages, with citations.`,
	SilenceUsage:      true,
	PersistentPreRunE: prepare,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.pathok)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print debug logs to stderr")
	rootCmd.PersistentFlags().StringVar(&userID, "user", "", "user identity for rate limits and quota (default: this machine's user)")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetBootstrap sets the function that builds services before a command runs.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// SetServices installs services directly, bypassing Bootstrap.
func SetServices(s *Services) {
	if s == nil {
		s = &Services{}
	}
	searchService = s.Search
	answerService = s.Answer
	corpusService = s.Corpus
	settingsService = s.Settings
	quotaReporter = s.Quota
	keywordOnly = s.KeywordOnly
	startupWarnings = s.Warnings
	closeServices = s.Close
}

// Execute runs the root command and releases services afterwards.
func Execute(ctx context.Context) error {
	defer release()
	return rootCmd.ExecuteContext(ctx)
}

func prepare(cmd *cobra.Command, _ []string) error {
	loadEnv(configDir)
	applyLogLevel(cmd)

	if bootstrap == nil {
		return nil
	}

	opts := Options{
		ConfigDir: configDir,
		NeedsAI:   cmd.Annotations[annotationNeedsAI] == "true",
	}
	services, err := bootstrap(cmd.Context(), opts)
	if err != nil {
		return fmt.Errorf("start pathok: %w", err)
	}
	SetServices(services)

	for _, w := range startupWarnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", w)
	}
	return nil
}

func release() {
	if closeServices != nil {
		closeServices()
		closeServices = nil
	}
}

// loadEnv reads .env files from the config directory and the working directory.
// Variables already set in the environment win.
func loadEnv(dir string) {
	files := []string{".env"}
	if dir != "" {
		files = append([]string{filepath.Join(dir, ".env")}, files...)
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			logger.Warn("load %s: %v", f, err)
		}
	}
}

// currentUser returns the --user flag, or a stable identity derived from the
// local account so that quota survives between invocations.
func currentUser() string {
	if userID != "" {
		return userID
	}
	name := "unknown"
	if u, err := user.Current(); err == nil {
		name = u.Username
	}
	host, _ := os.Hostname() //nolint:errcheck // Empty host still yields a stable id.
	return "local-" + uuid.NewSHA1(uuid.NameSpaceOID, []byte(name+"@"+host)).String()
}

func requireAI(cmd *cobra.Command) {
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations[annotationNeedsAI] = "true"
}

// applyLogLevel honours --verbose first, then PATHOK_LOG_LEVEL.
func applyLogLevel(cmd *cobra.Command) {
	if verbose {
		logger.SetVerbose(true)
		return
	}
	raw := os.Getenv(logLevelEnv)
	if raw == "" {
		logger.SetVerbose(false)
		return
	}
	level, err := logger.ParseLevel(raw)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s: %v\n", logLevelEnv, err)
	}
	logger.SetLevel(level)
}
