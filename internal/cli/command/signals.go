package command

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/webfront/internal/cli/output"
	"github.com/yndnr/webfront/internal/infra/shutdown"
)

// SignalsCommand returns the signals command.
func SignalsCommand() *cli.Command {
	return &cli.Command{
		Name:   "signals",
		Usage:  "List the termination signals the server intercepts",
		Flags:  []cli.Flag{remoteFlag()},
		Action: signalsList,
	}
}

type signalInfo struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

// signalsView matches the server's GET /admin/v1/signals body.
type signalsView struct {
	Signals       []signalInfo `json:"signals" yaml:"signals"`
	PendingExits  int          `json:"pending_exits" yaml:"pending_exits"`
	ShuttingDown  bool         `json:"shutting_down" yaml:"shutting_down"`
	GracePeriodMS int64        `json:"grace_period_ms" yaml:"grace_period_ms"`
	ExitCode      int          `json:"exit_code" yaml:"exit_code"`
}

func (v signalsView) Table(wide bool) *output.Table {
	t := &output.Table{Headers: []string{"SIGNAL", "DESCRIPTION", "GRACE", "EXIT"}}
	grace := (time.Duration(v.GracePeriodMS) * time.Millisecond).String()
	for _, s := range v.Signals {
		t.AddRow(s.Name, s.Description, grace, fmt.Sprintf("%d", v.ExitCode))
	}
	if wide {
		t.Headers = append(t.Headers, "PENDING")
		for i := range t.Rows {
			t.Rows[i] = append(t.Rows[i], fmt.Sprintf("%d", v.PendingExits))
		}
	}
	return t
}

// localSignals describes what a server on this platform would subscribe.
func localSignals() signalsView {
	view := signalsView{
		Signals:       []signalInfo{},
		GracePeriodMS: shutdown.GracePeriod.Milliseconds(),
		ExitCode:      shutdown.ExitCode,
	}
	for _, name := range shutdown.Supported() {
		sig, _ := shutdown.Lookup(name)
		view.Signals = append(view.Signals, signalInfo{Name: name, Description: sig.String()})
	}
	return view
}

func signalsList(c *cli.Context) error {
	if !c.Bool("remote") {
		return render(c, localSignals())
	}

	var view signalsView
	if err := getData(c, "/admin/v1/signals", &view); err != nil {
		return err
	}
	return render(c, view)
}
