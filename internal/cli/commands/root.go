package commands

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nqc-blocks/nqcblocks/internal/blocks/catalog"
	"github.com/nqc-blocks/nqcblocks/internal/blocks/loader"
	"github.com/nqc-blocks/nqcblocks/internal/blocks/nqc"
	"github.com/nqc-blocks/nqcblocks/internal/blocks/registry"
	"github.com/nqc-blocks/nqcblocks/internal/cli/config"
	"github.com/nqc-blocks/nqcblocks/internal/cli/ui"
	"github.com/nqc-blocks/nqcblocks/internal/logging"
	"github.com/nqc-blocks/nqcblocks/internal/utils"
)

var (
	// Version information - set at build time
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
	GoVersion = "unknown"
)

// reportedError is an error whose details were already written to stderr.
type reportedError struct {
	err error
}

func (e reportedError) Error() string { return e.err.Error() }
func (e reportedError) Unwrap() error { return e.err }

// app carries the state shared by every subcommand of one invocation.
type app struct {
	configPath string
	format     string
	noColor    bool
	catalogs   []string

	cfg    *config.Config
	logger *zap.Logger

	registry *registry.Registry
	catalog  *catalog.Catalog
}

// setup loads configuration and the logger. Flags set on the command line
// win over the config file.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		fmt.Fprint(cmd.ErrOrStderr(), ui.ConfigError(err.Error(), nil, a.noColor))
		return reportedError{err}
	}
	a.cfg = cfg

	if !cmd.Flags().Changed("format") {
		a.format = cfg.Output.Format
	}
	if !cmd.Flags().Changed("no-color") {
		a.noColor = cfg.Output.NoColor
	}
	if a.format != "table" && a.format != "json" {
		return fmt.Errorf("--format must be 'table' or 'json', got: %s", a.format)
	}
	if a.noColor {
		color.NoColor = true
	}

	a.logger = logging.NewOrNop(logging.Options{Level: cfg.Log.Level, Development: cfg.Log.Development})
	return nil
}

// load builds the frozen registry on first use: the standard base, the NQC
// catalog and then every configured catalog document.
func (a *app) load(cmd *cobra.Command) (*catalog.Catalog, error) {
	if a.catalog != nil {
		return a.catalog, nil
	}

	paths, err := utils.ExpandCatalogPaths(append(append([]string{}, a.cfg.Catalogs...), a.catalogs...))
	if err != nil {
		fmt.Fprint(cmd.ErrOrStderr(), ui.CatalogError(err.Error(), nil, a.noColor))
		return nil, reportedError{err}
	}
	l := loader.New(a.logger, a.cfg.Tag())
	r, err := nqc.NewRegistry(a.logger, func(r *registry.Registry) error {
		return l.LoadFiles(r, paths...)
	})
	if err != nil {
		var ve *loader.ValidationError
		if errors.As(err, &ve) {
			problems := make([]string, len(ve.Issues))
			for i, issue := range ve.Issues {
				problems[i] = issue.String()
			}
			fmt.Fprint(cmd.ErrOrStderr(), ui.CatalogError(ve.Source+": schema validation failed", problems, a.noColor))
		} else {
			fmt.Fprint(cmd.ErrOrStderr(), ui.CatalogError(err.Error(), nil, a.noColor))
		}
		return nil, reportedError{err}
	}

	a.logger.Debug("catalog loaded",
		zap.Int("constructs", r.Len()),
		zap.Strings("documents", paths))
	a.registry = r
	a.catalog = catalog.New(r)
	return a.catalog, nil
}

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "nqcblocks",
		Short: "Inspect and validate the NQC block catalog",
		Long: color.CyanString(`nqcblocks - NQC block catalog tooling

Lists the blocks available to the RCX visual editor, shows their ports and
fields, checks that the catalog is consistent and validates connections
between blocks.

Extra catalog documents (YAML) can be layered on top of the built-in NQC
catalog with --catalog or the catalogs key of nqcblocks.yaml.`),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "Config file (default: nearest nqcblocks.yaml in this or a parent directory)")
	flags.StringVar(&a.format, "format", "table", "Output format: json or table")
	flags.BoolVar(&a.noColor, "no-color", false, "Disable colored output")
	flags.StringArrayVar(&a.catalogs, "catalog", nil, "Extra catalog document or directory to load (repeatable)")

	rootCmd.AddCommand(NewVersionCommand())
	rootCmd.AddCommand(newListCommand(a))
	rootCmd.AddCommand(newShowCommand(a))
	rootCmd.AddCommand(newCheckCommand(a))
	rootCmd.AddCommand(newCompatCommand(a))
	rootCmd.AddCommand(newConnectCommand(a))
	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display the nqcblocks version, Git commit, build date, and Go version",
		Run: func(cmd *cobra.Command, args []string) {
			// Set GoVersion to actual runtime if not set at build time
			goVer := GoVersion
			if goVer == "unknown" {
				goVer = runtime.Version()
			}

			out := cmd.OutOrStdout()
			titleColor := color.New(color.FgCyan, color.Bold)
			valueColor := color.New(color.FgWhite)

			for _, row := range [][2]string{
				{"nqcblocks version: ", Version},
				{"Git commit: ", GitCommit},
				{"Build date: ", BuildDate},
				{"Go version: ", goVer},
			} {
				titleColor.Fprint(out, row[0])
				valueColor.Fprintln(out, row[1])
			}
		},
	}
}

// Execute runs the root command
func Execute() error {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		var reported reportedError
		if !errors.As(err, &reported) {
			errorColor := color.New(color.FgRed, color.Bold)
			errorColor.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		}
		return err
	}
	return nil
}
