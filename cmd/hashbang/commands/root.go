// Package commands implements the CLI for hashbang.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/hashbang/internal/build"
	"go.trai.ch/hashbang/internal/core/domain"
	"go.trai.ch/hashbang/internal/core/ports"
)

// CLI represents the command line interface for hashbang.
type CLI struct {
	app      Application
	loader   ports.ConfigLoader
	logger   ports.Logger
	rootCmd  *cobra.Command
	exitCode int

	verbosity  int
	cacheDir   string
	configFile string
	logJSON    bool
}

// Application represents the application logic interface.
type Application interface {
	Run(ctx context.Context, cfg domain.Config, args []string) (int, error)
}

// New creates a new CLI instance with the given app.
func New(a Application, loader ports.ConfigLoader, log ports.Logger) *CLI {
	c := &CLI{
		app:    a,
		loader: loader,
		logger: log,
	}

	rootCmd := &cobra.Command{
		Use:   "hashbang [flags] [FILE|-] [ARGS...]",
		Short: "Run single-file programs with a content-addressed build cache",
		Long: "hashbang compiles a single-file program on first use and caches the result.\n" +
			"Later runs of the identical file skip the compiler, including failed builds,\n" +
			"whose output and exit code are replayed. FILE defaults to standard input.",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
		RunE:          c.run,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	// Registered before the version flag, which claims -v while it is still free.
	flags := rootCmd.Flags()
	// Everything after the script path belongs to the script.
	flags.SetInterspersed(false)
	flags.CountVarP(&c.verbosity, "verbose", "v", "Stream compiler output (-v) and enable debug logs (-vv)")
	flags.StringVar(&c.cacheDir, "cache-dir", "",
		"Cache directory (default $"+domain.CacheDirEnv+" or ~/"+domain.DefaultCacheDirName+")")
	flags.StringVar(&c.configFile, "config", "", "Config file (default $"+domain.ConfigFileEnv+")")
	flags.BoolVar(&c.logJSON, "log-json", false, "Write diagnostics as JSON lines")

	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	c.rootCmd = rootCmd
	return c
}

func (c *CLI) run(cmd *cobra.Command, args []string) error {
	cfg, err := c.loader.Load(domain.ConfigOptions{
		ConfigFile: c.configFile,
		CacheDir:   c.cacheDir,
		Verbosity:  c.verbosity,
		LogJSON:    c.logJSON,
	})
	if err != nil {
		return err
	}
	c.logger.SetJSON(cfg.LogJSON)
	c.logger.SetVerbosity(cfg.Verbosity)

	code, err := c.app.Run(cmd.Context(), cfg, args)
	if err != nil {
		return err
	}
	c.exitCode = code
	return nil
}

// Execute runs the root command with the given context.
// It returns the exit code the process should mirror.
func (c *CLI) Execute(ctx context.Context) (int, error) {
	c.exitCode = domain.ExitSuccess
	c.rootCmd.SetContext(ctx)
	if err := c.rootCmd.Execute(); err != nil {
		return domain.ExitToolFailure, err
	}
	return c.exitCode, nil
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}
