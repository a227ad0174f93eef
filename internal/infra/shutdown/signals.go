package shutdown

import "os"

// SignalNames is the fixed termination signal set, in registration order.
var SignalNames = []string{
	"SIGHUP",
	"SIGINT",
	"SIGQUIT",
	"SIGILL",
	"SIGTRAP",
	"SIGABRT",
	"SIGBUS",
	"SIGFPE",
	"SIGUSR1",
	"SIGSEGV",
	"SIGUSR2",
	"SIGTERM",
}

// Lookup returns the platform signal for a name from SignalNames.
func Lookup(name string) (os.Signal, bool) {
	sig, ok := platformSignals[name]
	return sig, ok
}

// Supported returns the names from SignalNames available on this platform,
// keeping registration order.
func Supported() []string {
	names := make([]string, 0, len(SignalNames))
	for _, name := range SignalNames {
		if _, ok := platformSignals[name]; ok {
			names = append(names, name)
		}
	}
	return names
}

// NameOf is the reverse of Lookup.
func NameOf(sig os.Signal) (string, bool) {
	for _, name := range SignalNames {
		if s, ok := platformSignals[name]; ok && s == sig {
			return name, true
		}
	}
	return "", false
}
