package command

import (
	"net/http"
	"strings"
	"testing"

	"github.com/yndnr/webfront/internal/infra/buildinfo"
)

func TestVersion_Local(t *testing.T) {
	out, err := runApp(t, "version")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want header and one row:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[1], "webfront-cli") || !strings.Contains(lines[1], buildinfo.Version) {
		t.Errorf("row = %q", lines[1])
	}
}

func TestVersion_Remote(t *testing.T) {
	server := newMockServer(t)
	server.handle("/admin/v1/version", func(w http.ResponseWriter, r *http.Request) {
		dataResponse(w, buildinfo.Info{Version: "9.9.9", Commit: "feed", Platform: "linux/amd64"})
	})

	out, err := runApp(t, "--server", server.URL, "-o", "yaml", "version", "--remote")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(out, "component: webfront-server") || !strings.Contains(out, "version: 9.9.9") {
		t.Errorf("output missing server row:\n%s", out)
	}
	if !strings.Contains(out, "platform: linux/amd64") {
		t.Errorf("yaml output dropped wide-only field:\n%s", out)
	}
}
