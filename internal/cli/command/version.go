package command

import (
	"github.com/urfave/cli/v2"

	"github.com/yndnr/webfront/internal/infra/buildinfo"
)

// VersionCommand returns the version command.
func VersionCommand() *cli.Command {
	return &cli.Command{
		Name:   "version",
		Usage:  "Print build information, with --remote for the server as well",
		Flags:  []cli.Flag{remoteFlag()},
		Action: showVersion,
	}
}

type versionRow struct {
	Component string `json:"component" yaml:"component"`
	Version   string `json:"version" yaml:"version"`
	Commit    string `json:"commit" yaml:"commit"`
	BuildTime string `json:"build_time" yaml:"build_time" table:"wide"`
	GoVersion string `json:"go_version" yaml:"go_version" table:"wide"`
	Platform  string `json:"platform" yaml:"platform" table:"wide"`
}

func newVersionRow(component string, info buildinfo.Info) versionRow {
	return versionRow{
		Component: component,
		Version:   info.Version,
		Commit:    info.Commit,
		BuildTime: info.BuildTime,
		GoVersion: info.GoVersion,
		Platform:  info.Platform,
	}
}

func showVersion(c *cli.Context) error {
	rows := []versionRow{newVersionRow("webfront-cli", buildinfo.Get())}

	if c.Bool("remote") {
		var info buildinfo.Info
		if err := getData(c, "/admin/v1/version", &info); err != nil {
			return err
		}
		rows = append(rows, newVersionRow("webfront-server", info))
	}
	return render(c, rows)
}
