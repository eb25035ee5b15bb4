package interpreter

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/chrlskrt/bisayaplusplus/pkg/ast"
)

// ErrSessionDone is returned by Provide once the program has finished.
var ErrSessionDone = errors.New("interpreter: session finished")

// SessionOptions configures Start.
type SessionOptions struct {
	// Logger receives lifecycle records; nil discards them.
	Logger *slog.Logger
	Stop   *StopSignal
}

// Session runs one program on a dedicated goroutine. Printed fragments are
// handed over one at a time through Output; the program does not continue
// past a print until the host has received the fragment. Input requests are
// announced on Input and answered with Provide.
type Session struct {
	id       string
	logger   *slog.Logger
	stop     *StopSignal
	interp   *Interpreter
	output   chan string
	requests chan struct{}
	replies  chan inputReply
	done     chan struct{}
	group    *errgroup.Group
}

// Start launches statements on a new goroutine. Cancelling ctx abandons any
// pending hand-off and ends the run with ctx's error.
func Start(ctx context.Context, statements []ast.Statement, opts SessionOptions) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	stop := opts.Stop
	if stop == nil {
		stop = &StopSignal{}
	}
	s := &Session{
		id:       uuid.NewString(),
		stop:     stop,
		output:   make(chan string),
		requests: make(chan struct{}),
		replies:  make(chan inputReply),
		done:     make(chan struct{}),
	}
	s.logger = logger.With("run_id", s.id)
	s.interp = New(Options{
		Output: sessionSink{s},
		Input:  sessionInput{s},
		Stop:   stop,
	})

	g, gctx := errgroup.WithContext(ctx)
	s.group = g
	s.logger.Debug("session started", "statements", len(statements))
	g.Go(func() error {
		defer close(s.done)
		defer close(s.output)
		err := s.interp.Run(gctx, statements)
		s.logger.Debug("session finished", "stopped", s.interp.Stopped(), "error", err)
		return err
	})
	return s
}

// ID identifies the run in log records.
func (s *Session) ID() string { return s.id }

// Output yields printed fragments in program order. It is closed when the
// run ends.
func (s *Session) Output() <-chan string { return s.output }

// Input receives a value each time the program waits for a line.
func (s *Session) Input() <-chan struct{} { return s.requests }

// Done is closed when the run ends.
func (s *Session) Done() <-chan struct{} { return s.done }

// Provide answers a pending input request.
func (s *Session) Provide(ctx context.Context, line string) error {
	return s.reply(ctx, inputReply{line: line})
}

// ProvideError answers a pending input request with a failure. The program
// ends with a RuntimeError that wraps err and names the DAWAT line.
func (s *Session) ProvideError(ctx context.Context, err error) error {
	return s.reply(ctx, inputReply{err: err})
}

func (s *Session) reply(ctx context.Context, r inputReply) error {
	select {
	case s.replies <- r:
		return nil
	case <-s.done:
		return ErrSessionDone
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop asks the program to end at its next loop iteration.
func (s *Session) Stop() {
	s.logger.Debug("stop requested")
	s.stop.Stop()
}

// Stopped reports whether the run ended because of Stop. Only meaningful
// after Wait returns.
func (s *Session) Stopped() bool {
	<-s.done
	return s.interp.Stopped()
}

// Wait blocks until the run ends and returns its error.
func (s *Session) Wait() error {
	return s.group.Wait()
}

type sessionSink struct{ s *Session }

func (k sessionSink) Emit(ctx context.Context, text string) error {
	select {
	case k.s.output <- text:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type inputReply struct {
	line string
	err  error
}

type sessionInput struct{ s *Session }

func (in sessionInput) ReadLine(ctx context.Context) (string, error) {
	select {
	case in.s.requests <- struct{}{}:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	in.s.logger.Debug("waiting for input")
	select {
	case r := <-in.s.replies:
		return r.line, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
