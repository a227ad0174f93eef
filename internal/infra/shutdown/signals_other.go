//go:build !unix && !windows

package shutdown

import "os"

var platformSignals = map[string]os.Signal{
	"SIGINT": os.Interrupt,
}
