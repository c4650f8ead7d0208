package cli

import (
	"fmt"

	"github.com/jakoblorz/go-ideasync/internal/config"
	"github.com/jakoblorz/go-ideasync/internal/filesystem"
	"github.com/jakoblorz/go-ideasync/internal/logging"
	"github.com/jakoblorz/go-ideasync/internal/reconcile"
	"github.com/jakoblorz/go-ideasync/internal/report"
	"github.com/jakoblorz/go-ideasync/internal/workspace"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const configFlag = "config"

func addPersistentFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.String(config.KeyRoot, "", "Project root (default: nearest directory with composer.json)")
	flags.String(configFlag, "", "Config file (default: .ideasync.yaml in the project root, working or home directory)")
	flags.Bool(config.KeyDryRun, false, "Report what would change without writing .idea files")
	flags.String(config.KeyFormat, string(report.FormatText), "Output format: text, json or yaml")
	flags.BoolP(config.KeyVerbose, "v", false, "Also print debug notices")
	flags.BoolP(config.KeyQuiet, "q", false, "Only print errors")
	flags.String(config.KeyLogLevel, "", "Log level: debug, info, warn, error (default warn)")
	flags.String(config.KeyLogFormat, "", "Log format: auto, console, json (default auto)")
	flags.String(config.KeyLogFile, "", "Write logs to a rotated file instead of stderr")
}

// session bundles what a command needs once flags, environment and config
// file have been resolved.
type session struct {
	settings *config.Config
	logger   zerolog.Logger
	printer  *report.Printer
}

func newSession(cmd *cobra.Command, fs filesystem.FileSystem, loaderOpts []config.Option) (*session, error) {
	findRoot := func(root string) (string, error) {
		var opts []workspace.Option
		if root != "" {
			opts = append(opts, workspace.WithRoot(root))
		}
		return workspace.New(fs, opts...).FindRoot()
	}
	opts := append([]config.Option{config.WithProjectRoot(findRoot)}, loaderOpts...)

	loader := config.NewLoader(opts...)
	if err := loader.BindFlags(cmd); err != nil {
		return nil, err
	}

	configFile, _ := cmd.Flags().GetString(configFlag)
	settings, err := loader.Load(configFile)
	if err != nil {
		return nil, err
	}

	format, err := report.ParseFormat(settings.Format)
	if err != nil {
		return nil, err
	}

	logCfg := logging.DefaultConfig()
	if settings.LogLevel != "" {
		logCfg.Level = settings.LogLevel
	}
	if settings.LogFormat != "" {
		logCfg.Format = settings.LogFormat
	}
	if settings.LogFile != "" {
		logCfg.Output = settings.LogFile
	}
	logger := logging.New(logCfg)

	if settings.ConfigFile != "" {
		logger.Debug().Str("file", settings.ConfigFile).Msg("config loaded")
	}

	return &session{
		settings: settings,
		logger:   logger,
		printer: report.NewPrinter(cmd.OutOrStdout(), format,
			report.Verbose(settings.Verbose),
			report.Quiet(settings.Quiet)),
	}, nil
}

func (s *session) runner(fs filesystem.FileSystem) *reconcile.Runner {
	return reconcile.NewRunner(fs, s.logger, reconcile.Options{
		Root:            s.settings.Root,
		DryRun:          s.settings.DryRun,
		DiscoveryIgnore: s.settings.DiscoveryIgnore,
	})
}

// print reports the notices of a pass. In dry-run mode each document that
// would have been written gets its own notice.
func (s *session) print(pass *reconcile.Pass) error {
	notices := pass.Notices
	if s.settings.DryRun {
		for _, doc := range pass.Written() {
			notices = append(notices, report.Notice{
				Severity: report.SeverityInfo,
				Message:  fmt.Sprintf(`Dry run: "%s" was not written.`, doc),
				Document: doc,
			})
		}
	}
	return s.printer.Print(notices)
}
