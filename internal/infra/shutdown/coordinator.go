package shutdown

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/yndnr/webfront/internal/telemetry/logger"
)

const (
	// GracePeriod is the fixed delay between a termination signal and exit.
	GracePeriod = 400 * time.Millisecond

	// ExitCode is used for every exit, whatever the signal was.
	ExitCode = 0

	// FinalMessage is logged immediately before the delayed exit.
	FinalMessage = "Message"
)

// ErrAlreadyRegistered is returned by Register after the first call.
var ErrAlreadyRegistered = errors.New("shutdown: signal handlers already registered")

// ReceivedMessage is the diagnostic logged when a signal arrives. The
// stray quote-comma-quote is part of the established output format and
// log consumers match on it.
func ReceivedMessage(name string) string {
	return fmt.Sprintf(`Received %s: ", "cleaning up`, name)
}

// Fallback selects what happens besides the delayed exit.
type Fallback string

const (
	// FallbackNone relies entirely on the delayed exit.
	FallbackNone Fallback = "none"
	// FallbackImmediate exits as soon as the signal arrives; no timer is armed
	// and cleanup hooks do not run.
	FallbackImmediate Fallback = "immediate"
	// FallbackWatchdog arms a second timer that forces the exit if the
	// delayed exit has not ended the process by then.
	FallbackWatchdog Fallback = "watchdog"
)

// ParseFallback parses a fallback name; the empty string means FallbackNone.
func ParseFallback(s string) (Fallback, error) {
	switch f := Fallback(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FallbackNone, nil
	case FallbackNone, FallbackImmediate, FallbackWatchdog:
		return f, nil
	default:
		return "", fmt.Errorf("shutdown: unknown fallback %q", s)
	}
}

// SignalSubscription binds one named signal to its callback.
type SignalSubscription struct {
	Name     string
	Signal   os.Signal
	Callback func(name string)
}

// Observer is notified about coordinator activity.
type Observer interface {
	SignalReceived(name string)
	ExitScheduled()
	ExitFired()
	ExitCanceled()
}

// Hook is a cleanup callback run once when the first signal arrives.
type Hook func(ctx context.Context) error

// Coordinator owns the signal subscriptions and the pending exit timers.
type Coordinator struct {
	grace         time.Duration
	fallback      Fallback
	hardExitAfter time.Duration
	log           logger.Logger
	observer      Observer
	console       io.Writer
	consoleMu     sync.Mutex

	exit       func(code int)
	forceExit  func(code int)
	notify     func(c chan<- os.Signal, sig ...os.Signal)
	stopNotify func(c chan<- os.Signal)

	mu         sync.Mutex
	registered bool
	subs       []SignalSubscription
	sigCh      chan os.Signal
	timers     map[uint64]*time.Timer
	nextTimer  uint64
	watchdog   *time.Timer
	hooks      []Hook
	triggered  bool

	done     chan struct{}
	stopped  chan struct{}
	stopOnce sync.Once
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the logger used for the diagnostics.
func WithLogger(l logger.Logger) Option {
	return func(c *Coordinator) {
		c.log = l
	}
}

// WithObserver attaches an Observer, typically the metrics registry.
func WithObserver(o Observer) Option {
	return func(c *Coordinator) {
		c.observer = o
	}
}

// WithConsole also writes the two diagnostics to w as plain lines, byte for
// byte. Log handlers quote and escape the message field; w does not.
func WithConsole(w io.Writer) Option {
	return func(c *Coordinator) {
		c.console = w
	}
}

// WithExitFunc replaces os.Exit for the delayed and immediate exits.
func WithExitFunc(exit func(code int)) Option {
	return func(c *Coordinator) {
		c.exit = exit
	}
}

// WithFallback selects the fallback. hardExitAfter is only used by
// FallbackWatchdog and is measured from the first signal.
func WithFallback(f Fallback, hardExitAfter time.Duration) Option {
	return func(c *Coordinator) {
		c.fallback = f
		c.hardExitAfter = hardExitAfter
	}
}

// New creates a Coordinator. Nothing is subscribed until Register.
func New(opts ...Option) *Coordinator {
	c := &Coordinator{
		grace:      GracePeriod,
		fallback:   FallbackNone,
		log:        logger.Default(),
		exit:       os.Exit,
		forceExit:  os.Exit,
		notify:     signal.Notify,
		stopNotify: signal.Stop,
		timers:     make(map[uint64]*time.Timer),
		done:       make(chan struct{}),
		stopped:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logger.Default()
	}
	c.log = c.log.With("component", "shutdown")
	return c
}

// Register subscribes every supported termination signal to Terminate.
// Only the first call has an effect; later calls return ErrAlreadyRegistered.
func (c *Coordinator) Register() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.registered {
		return ErrAlreadyRegistered
	}

	names := Supported()
	sigs := make([]os.Signal, 0, len(names))
	c.subs = make([]SignalSubscription, 0, len(names))
	for _, name := range names {
		sig, _ := Lookup(name)
		c.subs = append(c.subs, SignalSubscription{
			Name:     name,
			Signal:   sig,
			Callback: c.Terminate,
		})
		sigs = append(sigs, sig)
	}

	c.sigCh = make(chan os.Signal, len(sigs))
	c.notify(c.sigCh, sigs...)
	c.registered = true

	subs := make([]SignalSubscription, len(c.subs))
	copy(subs, c.subs)
	go c.dispatch(c.sigCh, subs)

	c.log.Debug("signal handlers registered", "signals", names)
	return nil
}

func (c *Coordinator) dispatch(ch <-chan os.Signal, subs []SignalSubscription) {
	for {
		select {
		case sig := <-ch:
			for _, sub := range subs {
				if sub.Signal == sig {
					sub.Callback(sub.Name)
					break
				}
			}
		case <-c.stopped:
			return
		}
	}
}

// Terminate handles one termination signal. It logs the received
// diagnostic, arms a one-shot exit timer and returns without waiting.
func (c *Coordinator) Terminate(name string) {
	eventID := ulid.Make().String()
	c.log.Info(ReceivedMessage(name), "signal", name, "event_id", eventID)
	c.writeConsole(ReceivedMessage(name))
	if c.observer != nil {
		c.observer.SignalReceived(name)
	}

	c.mu.Lock()
	first := !c.triggered
	if first {
		c.triggered = true
		close(c.done)
	}

	if c.fallback == FallbackImmediate {
		c.mu.Unlock()
		c.exit(ExitCode)
		return
	}

	id := c.nextTimer
	c.nextTimer++
	c.timers[id] = time.AfterFunc(c.grace, func() {
		c.fire(id, eventID)
	})

	if first && c.fallback == FallbackWatchdog && c.hardExitAfter > 0 {
		c.watchdog = time.AfterFunc(c.hardExitAfter, c.hardExit)
	}

	var hooks []Hook
	if first {
		hooks = make([]Hook, len(c.hooks))
		copy(hooks, c.hooks)
	}
	c.mu.Unlock()

	if c.observer != nil {
		c.observer.ExitScheduled()
	}
	if first && len(hooks) > 0 {
		go c.runHooks(hooks)
	}
}

func (c *Coordinator) fire(id uint64, eventID string) {
	c.mu.Lock()
	if _, ok := c.timers[id]; !ok {
		c.mu.Unlock()
		return
	}
	delete(c.timers, id)
	c.mu.Unlock()

	if c.observer != nil {
		c.observer.ExitFired()
	}
	c.log.Info(FinalMessage, "event_id", eventID)
	c.writeConsole(FinalMessage)
	c.exit(ExitCode)
}

func (c *Coordinator) writeConsole(msg string) {
	if c.console == nil {
		return
	}
	c.consoleMu.Lock()
	defer c.consoleMu.Unlock()
	fmt.Fprintln(c.console, msg)
}

func (c *Coordinator) hardExit() {
	c.log.Error("delayed exit did not end the process, forcing exit",
		"hard_exit_after", c.hardExitAfter)
	c.forceExit(ExitCode)
}

// runHooks runs hooks in reverse registration order, bounded by the grace
// period. The exit timer does not wait for them.
func (c *Coordinator) runHooks(hooks []Hook) {
	ctx, cancel := context.WithTimeout(context.Background(), c.grace)
	defer cancel()

	for i := len(hooks) - 1; i >= 0; i-- {
		if err := hooks[i](ctx); err != nil {
			c.log.Warn("cleanup hook failed", "hook", i, "error", err)
		}
	}
	c.log.Debug("cleanup hooks finished", "count", len(hooks))
}

// OnShutdown registers a cleanup hook. Hooks run once, in reverse order of
// registration, when the first signal arrives.
func (c *Coordinator) OnShutdown(hook Hook) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hooks = append(c.hooks, hook)
}

// Subscriptions returns a copy of the subscription table.
func (c *Coordinator) Subscriptions() []SignalSubscription {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]SignalSubscription, len(c.subs))
	copy(out, c.subs)
	return out
}

// Pending returns the number of armed exit timers that have not fired.
func (c *Coordinator) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}

// ShuttingDown reports whether a termination signal has been handled.
func (c *Coordinator) ShuttingDown() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// Done is closed when the first termination signal is handled.
func (c *Coordinator) Done() <-chan struct{} {
	return c.done
}

// Stop unsubscribes from the OS, disarms every pending exit timer and the
// watchdog, and returns how many exit timers it disarmed. A stopped
// Coordinator cannot be registered again.
func (c *Coordinator) Stop() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopOnce.Do(func() {
		if c.registered {
			c.stopNotify(c.sigCh)
		}
		c.registered = true
		close(c.stopped)
	})

	canceled := 0
	for id, t := range c.timers {
		if t.Stop() {
			canceled++
			if c.observer != nil {
				c.observer.ExitCanceled()
			}
		}
		delete(c.timers, id)
	}
	if c.watchdog != nil {
		c.watchdog.Stop()
		c.watchdog = nil
	}
	return canceled
}
