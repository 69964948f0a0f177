package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/msto63/sexpad/internal/scratchpad/service"
	"github.com/msto63/sexpad/internal/scratchpad/store"
	"github.com/msto63/sexpad/pkg/core/cache"
	"github.com/msto63/sexpad/pkg/core/config"
	"github.com/msto63/sexpad/pkg/core/logging"
)

var (
	cfgFile   string
	verbose   bool
	logFormat string

	appConfig *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "sexpad",
	Short: "sexpad - S-expression scratchpad",
	Long: `sexpad reads S-expressions: lists in (), [] or {}, numbers, symbols,
double-quoted strings and ; comments. It prints them back in canonical
form, shows the parsed tree and reports errors with line and column.

Surfaces:
  parse, fmt, tokens  - read files or stdin
  tui                 - terminal scratchpad
  serve               - HTTP/WebSocket and gRPC API
  history             - stored submissions`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute runs the root command
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		printError(rootCmd.ErrOrStderr(), err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $SEXPAD_CONFIG or ./configs/sexpad.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: text, json, console or logfmt")
}

// setup loads the configuration and configures logging for every command
func setup(cmd *cobra.Command, args []string) error {
	var err error
	if cfgFile != "" {
		appConfig, err = config.Load(cfgFile)
	} else {
		appConfig, err = config.LoadFromEnv()
	}
	if err != nil {
		return err
	}

	level := appConfig.General.LogLevel
	if verbose {
		level = "debug"
	}
	format := appConfig.General.LogFormat
	if logFormat != "" {
		format = logFormat
	}
	logging.Configure(level, format, cmd.ErrOrStderr())
	return nil
}

func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "error: %v\n", err)
}

// readSource reads the named file, or stdin for "-" or no argument
func readSource(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	return string(data), nil
}

// openStore opens the configured submission store
func openStore() (store.Store, error) {
	return store.Open(appConfig.Store.Driver, appConfig.Store.Path)
}

// newService creates the scratchpad service; st and c may be nil
func newService(st store.Store, c *cache.Cache, name string) (*service.Service, error) {
	return service.NewService(service.Config{
		Store:           st,
		Cache:           c,
		MaxSourceLength: appConfig.Reader.MaxSourceLength,
		Logger:          logging.New(name),
	})
}

func outputName(format string) string {
	return strings.ToLower(strings.TrimSpace(format))
}
