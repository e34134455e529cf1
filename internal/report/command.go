package report

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"tour-analytics/internal/config"
	"tour-analytics/internal/observability"
	"tour-analytics/internal/services"
	"tour-analytics/internal/upstream"
)

type options struct {
	baseURL   string
	token     string
	tokenType string
	timeout   time.Duration
	noColor   bool
	verbose   bool
}

// SourceFactory builds the data source for one run. Tests swap it for a
// fake; the default talks to the agency API.
type SourceFactory func(session upstream.Session, baseURL string, timeout time.Duration, logger *slog.Logger) services.Source

func defaultSource(session upstream.Session, baseURL string, timeout time.Duration, logger *slog.Logger) services.Source {
	return upstream.NewClient(baseURL, timeout, session, logger)
}

// NewCommand returns the report root command. Output goes to the command's
// out stream; logs go to its err stream.
func NewCommand(newSource SourceFactory) *cobra.Command {
	if newSource == nil {
		newSource = defaultSource
	}
	opts := &options{}

	root := &cobra.Command{
		Use:   "report",
		Short: "Print tour agency analytics",
		Long: `report fetches tours, contacts, tourists and applications from the agency
API and prints the same analytics the dashboard shows.

Example usage:
  report                 # all sections
  report tours           # tour distributions and trends
  report mixed --no-color`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, newSource, Sections)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.baseURL, "base-url", config.EnvString("UPSTREAM_BASE_URL", "http://localhost:8080/api"), "agency API base URL")
	flags.StringVar(&opts.token, "token", config.EnvString("UPSTREAM_TOKEN", ""), "API access token")
	flags.StringVar(&opts.tokenType, "token-type", config.EnvString("UPSTREAM_TOKEN_TYPE", "Bearer"), "Authorization scheme")
	flags.DurationVar(&opts.timeout, "timeout", config.EnvDuration("UPSTREAM_TIMEOUT", 15*time.Second), "per-request timeout")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log upstream requests")

	for _, section := range Sections {
		root.AddCommand(&cobra.Command{
			Use:   section,
			Short: fmt.Sprintf("Print %s analytics", section),
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return run(cmd, opts, newSource, []string{section})
			},
		})
	}
	root.AddCommand(&cobra.Command{
		Use:   "all",
		Short: "Print every section",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, newSource, Sections)
		},
	})

	return root
}

func run(cmd *cobra.Command, opts *options, newSource SourceFactory, sections []string) error {
	level := "warn"
	if opts.verbose {
		level = "debug"
	}
	logger := observability.NewLoggerWithWriter(cmd.ErrOrStderr(), config.LoggerConfig{Level: level, Format: "text"})

	session := upstream.Session{Token: opts.token, TokenType: opts.tokenType}
	analytics := services.NewAnalytics(newSource(session, opts.baseURL, opts.timeout, logger), logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	snapshot, err := analytics.Snapshot(ctx)
	if err != nil {
		return err
	}

	renderer := NewRenderer(cmd.OutOrStdout(), useColors(opts, cmd.OutOrStdout()))
	for _, section := range sections {
		if err := renderer.Render(section, snapshot); err != nil {
			return err
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\nGenerated at %s\n", snapshot.GeneratedAt.Format(time.RFC3339))
	return nil
}

// useColors follows the NO_COLOR convention and only colors terminals.
func useColors(opts *options, out io.Writer) bool {
	if opts.noColor {
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}
