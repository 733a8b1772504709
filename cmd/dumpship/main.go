package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/dumpship/internal/adapters/compress"
	"github.com/bft-labs/dumpship/internal/app"
	"github.com/bft-labs/dumpship/internal/cliconfig"
	"github.com/bft-labs/dumpship/internal/ports"
	"github.com/bft-labs/dumpship/internal/watch"
	"github.com/bft-labs/dumpship/pkg/log"
	"github.com/bft-labs/dumpship/pkg/state"
	"github.com/bft-labs/dumpship/pkg/upload"
)

const helpDescription = `
Upload crash dumps and their metadata to a crash collector.

Every upload is a single multipart/form-data POST: form parameters first,
ordered by name, then the dump files, gzip-compressed by default.

  - "dumpship" sends the given files once and prints the server response.
  - "dumpship watch" ships every dump that appears in a directory.

Configure via file ($HOME/.dumpship/config.toml or .yaml), DUMPSHIP_*
environment variables, or flags. Flags win over the environment, which wins
over the file.
`

var exampleUsage = strings.TrimSpace(`
  dumpship --url https://crash.example.com/submit --param prod=MyCppGame --param ver=1.0.0 crash.dmp
  dumpship --url https://crash.example.com/submit --file upload_file_minidump=crash.dmp --file log=app.log
  dumpship watch --dir /var/crash --delete
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string
	var showProgress bool

	root := &cobra.Command{
		Use:          "dumpship [files...]",
		Short:        "Upload crash dumps to a crash collector",
		Long:         strings.TrimSpace(helpDescription),
		Example:      exampleUsage,
		Version:      fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := loadConfig(cmd, &cfg, cfgPath)
			if err != nil {
				return err
			}
			cfg.Files = append(cfg.Files, args...)
			if len(cfg.Files) == 0 {
				return errors.New("no files to upload")
			}
			var opts []upload.Option
			if showProgress {
				opts = append(opts, upload.WithProgressBar(&progressBar{}))
			}
			return runSend(cmd.Context(), cfg, logger, opts...)
		},
	}

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Ship every dump that appears in a directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := loadConfig(cmd, &cfg, cfgPath)
			if err != nil {
				return err
			}
			if cfg.WatchDir == "" {
				return errors.New("dir is required")
			}
			return runWatch(cmd.Context(), cfg, logger)
		},
	}
	root.AddCommand(watchCmd)

	// Flags shared by both commands
	pf := root.PersistentFlags()
	pf.StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.dumpship/config.toml)")
	pf.StringVar(&cfg.URL, "url", cfg.URL, "collector URL")
	pf.StringToStringVar(&cfg.Params, "param", cfg.Params, "form parameter name=value (repeatable)")
	pf.StringArrayVar(&cfg.Files, "file", cfg.Files, "attachment field=path, or a bare path sent as --field-name (repeatable)")
	pf.StringVar(&cfg.FieldName, "field-name", cfg.FieldName, "form field for bare paths and watched dumps")
	pf.DurationVar(&cfg.HTTPTimeout, "timeout", cfg.HTTPTimeout, "HTTP timeout")
	pf.StringVar(&cfg.Compression, "compression", cfg.Compression, `body compression: "gzip" or "none"`)
	pf.StringVar(&cfg.HeaderSet, "header-set", cfg.HeaderSet, `content-type header lines: "legacy" or "multipart"`)
	pf.StringVar(&cfg.StateDir, "state-dir", cfg.StateDir, "directory for receipts.json (default: $HOME/.dumpship)")
	pf.BoolVar(&cfg.DeleteAfterUpload, "delete", cfg.DeleteAfterUpload, "remove files once the collector accepts them")
	pf.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")

	root.Flags().StringVar(&cfg.MinidumpID, "minidump-id", cfg.MinidumpID, "attachment name without .dmp (default: random UUID)")
	root.Flags().BoolVar(&showProgress, "progress", false, "show upload progress on stderr")

	watchCmd.Flags().StringVar(&cfg.WatchDir, "dir", cfg.WatchDir, "directory to watch")
	watchCmd.Flags().StringVar(&cfg.Pattern, "pattern", cfg.Pattern, "file name pattern of dumps")
	watchCmd.Flags().DurationVar(&cfg.DebounceDelay, "debounce", cfg.DebounceDelay, "quiet period after the last write before a dump is shipped")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		fallback, _ := cliconfig.Logger("error")
		fallback.Error().Err(err).Msg("dumpship")
		stop()
		os.Exit(1)
	}
}

// loadConfig layers file, environment and flags into cfg, validates it and
// returns the configured logger.
func loadConfig(cmd *cobra.Command, cfg *cliconfig.Config, cfgPath string) (zerolog.Logger, error) {
	cfgFile := cfgPath
	if cfgFile == "" {
		cfgFile = cliconfig.DefaultConfigPath()
	}

	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

	if cfgFile != "" && cliconfig.FileExists(cfgFile) {
		fc, err := cliconfig.LoadFileConfig(cfgFile)
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("load config: %w", err)
		}
		if err := cliconfig.ApplyFileConfig(cfg, fc, changed); err != nil {
			return zerolog.Nop(), err
		}
	}

	// DUMPSHIP_* override the file but not explicitly set flags
	if err := cliconfig.ApplyEnvConfig(cfg, changed); err != nil {
		return zerolog.Nop(), err
	}

	if err := cfg.Validate(); err != nil {
		return zerolog.Nop(), err
	}

	logger, err := cliconfig.Logger(cfg.LogLevel)
	if err != nil {
		return zerolog.Nop(), err
	}
	logger.Debug().Interface("config", cfg).Msg("configuration")
	return logger, nil
}

// newShipper wires the upload client stack from cfg.
func newShipper(cfg cliconfig.Config, logger zerolog.Logger, opts ...upload.Option) (*app.Shipper, error) {
	compressor, err := compress.ByName(cfg.Compression)
	if err != nil {
		return nil, err
	}
	headerSet, err := upload.ParseHeaderSet(cfg.HeaderSet)
	if err != nil {
		return nil, err
	}
	attachments, err := cfg.Attachments()
	if err != nil {
		return nil, err
	}

	extra := make([]app.Attachment, 0, len(attachments))
	for _, a := range attachments {
		extra = append(extra, app.Attachment{FieldName: a.FieldName, Path: a.Path})
	}

	var repo ports.ReceiptRepository
	if cfg.StateDir != "" {
		repo = state.NewFileRepository(cfg.StateDir)
	}

	base := []upload.Option{
		upload.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
		upload.WithCompressor(compressor),
		upload.WithHeaderSet(headerSet),
	}
	shipper := app.NewShipper(app.ShipperConfig{
		URL:               cfg.URL,
		MinidumpID:        cfg.MinidumpID,
		Params:            cfg.Params,
		FieldName:         cfg.FieldName,
		Extra:             extra,
		DeleteAfterUpload: cfg.DeleteAfterUpload,
	}, repo, log.NewZerologAdapterWithLogger(logger), append(base, opts...)...)
	return shipper, nil
}

func runSend(ctx context.Context, cfg cliconfig.Config, logger zerolog.Logger, opts ...upload.Option) error {
	shipper, err := newShipper(cfg, logger, opts...)
	if err != nil {
		return err
	}

	attachments, _ := cfg.Attachments()
	files := make([]app.Attachment, 0, len(attachments))
	for _, a := range attachments {
		files = append(files, app.Attachment{FieldName: a.FieldName, Path: a.Path})
	}

	resp, err := shipper.Ship(ctx, files)
	if err != nil {
		return fmt.Errorf("upload (code %d): %w", resp.Code, err)
	}
	fmt.Println(resp.Body)
	return nil
}

func runWatch(ctx context.Context, cfg cliconfig.Config, logger zerolog.Logger) error {
	// In watch mode --file entries are extras sent along with every dump.
	shipper, err := newShipper(cfg, logger)
	if err != nil {
		return err
	}
	if err := shipper.Load(ctx); err != nil {
		return err
	}

	w := watch.New(watch.Config{
		Dir:           cfg.WatchDir,
		Pattern:       cfg.Pattern,
		DebounceDelay: cfg.DebounceDelay,
		Skip:          shipper.Uploaded,
	}, shipper.ShipDump, log.NewZerologAdapterWithLogger(logger))

	err = w.Run(ctx)
	if errors.Is(err, context.Canceled) {
		logger.Info().Msg("received signal, stopping")
		return nil
	}
	return err
}
