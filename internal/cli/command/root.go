package command

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/webfront/internal/cli/connection"
	"github.com/yndnr/webfront/internal/cli/output"
	"github.com/yndnr/webfront/internal/infra/buildinfo"
	"github.com/yndnr/webfront/internal/infra/tlsroots"
	"github.com/yndnr/webfront/internal/telemetry/logger"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "webfront-cli",
		Usage:   "Inspect webfront build configuration and shutdown behaviour",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			BuildCommand(),
			SignalsCommand(),
			StatusCommand(),
			VersionCommand(),
		},
		Before: func(c *cli.Context) error {
			if _, err := output.ParseFormat(c.String("output")); err != nil {
				return cli.Exit(err.Error(), 2)
			}
			return nil
		},
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "server",
			Aliases: []string{"s"},
			Usage:   "webfront-server address (e.g., localhost:8080)",
			EnvVars: []string{"WEBFRONT_SERVER"},
			Value:   "localhost:8080",
		},
		&cli.StringFlag{
			Name:    "ca-file",
			Usage:   "PEM file with extra CA certificates trusted for https servers",
			EnvVars: []string{"WEBFRONT_CA_FILE"},
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Server configuration file used by offline commands",
			EnvVars: []string{"WEBFRONT_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
			Value:   "table",
		},
		&cli.BoolFlag{
			Name:    "wide",
			Aliases: []string{"w"},
			Usage:   "Show wide output (more columns)",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"V"},
			Usage:   "Log configuration loading to stderr",
		},
	}
}

// remoteFlag switches an offline command to query the server.
func remoteFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:    "remote",
		Aliases: []string{"r"},
		Usage:   "Ask the running server instead of reading local configuration",
	}
}

// GlobalFlags defines flags available to all commands.
type GlobalFlags struct {
	Server     string
	CAFile     string
	ConfigFile string
	Output     output.Format
	Wide       bool
	Verbose    bool
}

// ParseGlobalFlags extracts global flags from context. An invalid output
// format falls back to the table.
func ParseGlobalFlags(c *cli.Context) *GlobalFlags {
	format, err := output.ParseFormat(c.String("output"))
	if err != nil {
		format = output.FormatTable
	}
	return &GlobalFlags{
		Server:     c.String("server"),
		CAFile:     c.String("ca-file"),
		ConfigFile: c.String("config"),
		Output:     format,
		Wide:       c.Bool("wide"),
		Verbose:    c.Bool("verbose"),
	}
}

// Client returns an HTTP client for the configured server.
func Client(c *cli.Context) (*connection.HTTPClient, error) {
	flags := ParseGlobalFlags(c)
	tlsConfig, err := tlsroots.LoadClientConfig(flags.CAFile)
	if err != nil {
		return nil, err
	}
	return connection.NewHTTPClient(flags.Server, connection.WithTLSConfig(tlsConfig)), nil
}

// requestContext bounds one command's server round trips.
func requestContext(c *cli.Context) (context.Context, context.CancelFunc) {
	parent := c.Context
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, connection.DefaultTimeout)
}

// render prints data in the selected output format.
func render(c *cli.Context, data any) error {
	flags := ParseGlobalFlags(c)
	return output.NewFormatter(flags.Output, flags.Wide).Format(stdout(c), data)
}

func stdout(c *cli.Context) io.Writer {
	if c.App != nil && c.App.Writer != nil {
		return c.App.Writer
	}
	return os.Stdout
}

func stderr(c *cli.Context) io.Writer {
	if c.App != nil && c.App.ErrWriter != nil {
		return c.App.ErrWriter
	}
	return os.Stderr
}

// commandLogger returns a text logger on stderr. It is quiet unless
// --verbose is set.
func commandLogger(c *cli.Context) logger.Logger {
	level := "warn"
	if ParseGlobalFlags(c).Verbose {
		level = "debug"
	}
	log, err := logger.New(logger.Config{Level: level, Format: "text", Output: stderr(c)})
	if err != nil {
		return logger.Default()
	}
	return log
}

// PrintError prints an error message to stderr.
func PrintError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}
