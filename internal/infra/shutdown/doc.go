// Package shutdown intercepts termination signals and exits the process
// after a fixed grace period.
//
// A Coordinator subscribes once to the fixed signal set (HUP, INT, QUIT,
// ILL, TRAP, ABRT, BUS, FPE, USR1, SEGV, USR2, TERM; platforms lacking a
// signal skip it). Each delivery logs
//
//	Received SIGTERM: ", "cleaning up
//
// and arms a one-shot timer that logs "Message" and exits with status 0
// after GracePeriod. Repeated signals arm independent timers; none cancels
// another, so the earliest one wins.
//
// The diagnostics are the message field of structured log records, so JSON
// and text handlers print the quotes escaped. WithConsole writes the same
// two lines unescaped to a plain writer.
//
// Usage:
//
//	c := shutdown.New(shutdown.WithLogger(log))
//	c.OnShutdown(srv.Shutdown)
//	if err := c.Register(); err != nil {
//		return err
//	}
//	<-c.Done()
package shutdown
