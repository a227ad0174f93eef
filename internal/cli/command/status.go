package command

import (
	"errors"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/webfront/internal/core/domain"
	"github.com/yndnr/webfront/internal/infra/buildinfo"
)

// StatusCommand returns the status command.
func StatusCommand() *cli.Command {
	return &cli.Command{
		Name:   "status",
		Usage:  "Show liveness, readiness and version of a running server",
		Action: serverStatus,
	}
}

type probeBody struct {
	Status string `json:"status"`
}

type statusView struct {
	Server  string `json:"server" yaml:"server"`
	Health  string `json:"health" yaml:"health"`
	Ready   string `json:"ready" yaml:"ready"`
	Reason  string `json:"reason,omitempty" yaml:"reason,omitempty"`
	Version string `json:"version" yaml:"version"`
	Commit  string `json:"commit" yaml:"commit" table:"wide"`
}

// serverStatus fails only when the server cannot be reached. A server that
// is up but not ready, for instance inside its shutdown grace period, is
// reported with the reason.
func serverStatus(c *cli.Context) error {
	client, err := Client(c)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	view := statusView{Server: client.BaseURL()}

	var health probeBody
	if err := client.GetData(ctx, "/health", &health); err != nil {
		return err
	}
	view.Health = health.Status

	var ready probeBody
	err = client.GetData(ctx, "/ready", &ready)
	var derr *domain.DomainError
	switch {
	case err == nil:
		view.Ready = ready.Status
	case errors.As(err, &derr):
		view.Ready = "not ready"
		view.Reason = derr.Message
	default:
		return err
	}

	var info buildinfo.Info
	if err := client.GetData(ctx, "/admin/v1/version", &info); err != nil {
		return err
	}
	view.Version = info.Version
	view.Commit = info.Commit

	return render(c, view)
}
