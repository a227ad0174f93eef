package command

import (
	"fmt"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/webfront/internal/cli/output"
	"github.com/yndnr/webfront/internal/core/domain"
	"github.com/yndnr/webfront/internal/core/service"
	"github.com/yndnr/webfront/internal/server/config"
)

// BuildCommand returns the build subcommand group.
func BuildCommand() *cli.Command {
	nodeEnv := &cli.StringFlag{
		Name:  "node-env",
		Usage: "Node environment to build for (overrides NODE_ENV and the config file)",
	}

	return &cli.Command{
		Name:  "build",
		Usage: "Show the front-end build configuration",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Summarize the build configuration",
				Flags:  []cli.Flag{nodeEnv, remoteFlag()},
				Action: buildShow,
			},
			{
				Name:   "next",
				Usage:  "Print the framework configuration",
				Flags:  []cli.Flag{nodeEnv, remoteFlag()},
				Action: buildNext,
			},
			{
				Name:   "postcss",
				Usage:  "Print the ordered CSS plugin pipeline",
				Flags:  []cli.Flag{nodeEnv, remoteFlag()},
				Action: buildPostCSS,
			},
		},
	}
}

// buildSummary matches the server's GET /build body.
type buildSummary struct {
	NodeEnv    string    `json:"node_env" yaml:"node_env"`
	Production bool      `json:"production" yaml:"production"`
	LoadedAt   time.Time `json:"loaded_at" yaml:"loaded_at" table:"wide"`
	AppDir     bool      `json:"app_dir" yaml:"app_dir"`
	Plugins    []string  `json:"plugins" yaml:"plugins"`
}

// nextView prints the framework configuration as dotted keys in a table.
type nextView struct {
	domain.NextConfig `yaml:",inline"`
}

func (v nextView) Table(bool) *output.Table {
	t := &output.Table{Headers: []string{"KEY", "VALUE"}}
	t.AddRow("experimental.appDir", fmt.Sprintf("%t", v.Experimental.AppDir))
	return t
}

// pipelineView prints one plugin per row in a table and keeps the
// pipeline's own ordered JSON and YAML shape otherwise.
type pipelineView struct {
	domain.Pipeline
}

func (v pipelineView) Table(wide bool) *output.Table {
	t := &output.Table{Headers: []string{"#", "PLUGIN"}}
	if wide {
		t.Headers = append(t.Headers, "OPTIONS")
	}
	for i, p := range v.Plugins {
		row := []string{fmt.Sprintf("%d", i+1), p.Name}
		if wide {
			row = append(row, optionsString(p.Options))
		}
		t.AddRow(row...)
	}
	return t
}

func optionsString(opts map[string]any) string {
	if len(opts) == 0 {
		return "-"
	}
	var buf strings.Builder
	if err := (&output.JSONFormatter{}).Format(&buf, opts); err != nil {
		return fmt.Sprintf("{%d keys}", len(opts))
	}
	return strings.Join(strings.Fields(buf.String()), "")
}

// localSnapshot loads the configuration the server would load and builds a
// snapshot from it, honoring --node-env.
func localSnapshot(c *cli.Context) (*service.BuildSnapshot, error) {
	flags := ParseGlobalFlags(c)
	log := commandLogger(c)

	cfg, err := config.Load(flags.ConfigFile)
	if err != nil {
		return nil, err
	}
	log.Debug("configuration loaded", "file", flags.ConfigFile, "config", config.Sanitize(cfg))

	section := cfg.Build.Section()
	if c.IsSet("node-env") {
		section.NodeEnv = c.String("node-env")
	}

	svc := service.NewBuildConfigService(nil, log)
	if err := svc.Reload(section); err != nil {
		return nil, err
	}
	return svc.Snapshot()
}

func buildShow(c *cli.Context) error {
	if c.Bool("remote") {
		var summary buildSummary
		if err := getData(c, "/build", &summary); err != nil {
			return err
		}
		return render(c, summary)
	}

	snap, err := localSnapshot(c)
	if err != nil {
		return err
	}
	return render(c, buildSummary{
		NodeEnv:    snap.NodeEnv,
		Production: snap.Production(),
		LoadedAt:   snap.LoadedAt,
		AppDir:     snap.Next.Experimental.AppDir,
		Plugins:    snap.PostCSS.Names(),
	})
}

func buildNext(c *cli.Context) error {
	if c.Bool("remote") {
		var next domain.NextConfig
		if err := getData(c, "/build/next", &next); err != nil {
			return err
		}
		return render(c, nextView{next})
	}

	snap, err := localSnapshot(c)
	if err != nil {
		return err
	}
	return render(c, nextView{snap.Next})
}

func buildPostCSS(c *cli.Context) error {
	if c.Bool("remote") {
		var pipeline domain.Pipeline
		if err := getData(c, "/build/postcss", &pipeline); err != nil {
			return err
		}
		return render(c, pipelineView{pipeline})
	}

	snap, err := localSnapshot(c)
	if err != nil {
		return err
	}
	return render(c, pipelineView{snap.PostCSS})
}

func getData(c *cli.Context, path string, target any) error {
	client, err := Client(c)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	return client.GetData(ctx, path, target)
}
