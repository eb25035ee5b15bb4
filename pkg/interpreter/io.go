package interpreter

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"sync/atomic"
)

// OutputSink receives rendered text in program order. Emit must not return
// until the fragment has been accepted.
type OutputSink interface {
	Emit(ctx context.Context, text string) error
}

// InputSource delivers one raw line per call, blocking until it is available.
type InputSource interface {
	ReadLine(ctx context.Context) (string, error)
}

// ErrNoInput is returned by input sources that have nothing left to deliver.
var ErrNoInput = errors.New("no input available")

// StopSignal is an idempotent stop request shared between goroutines.
type StopSignal struct {
	flag atomic.Bool
}

func (s *StopSignal) Stop() { s.flag.Store(true) }

func (s *StopSignal) Stopped() bool { return s.flag.Load() }

// WriterSink writes every fragment to an io.Writer.
type WriterSink struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

func (s *WriterSink) Emit(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := io.WriteString(s.w, text)
	return err
}

// RecordingSink keeps every fragment in memory.
type RecordingSink struct {
	mu        sync.Mutex
	fragments []string
}

func (s *RecordingSink) Emit(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	s.fragments = append(s.fragments, text)
	s.mu.Unlock()
	return nil
}

// Fragments returns a copy of the recorded fragments.
func (s *RecordingSink) Fragments() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.fragments...)
}

// String joins the recorded fragments.
func (s *RecordingSink) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return strings.Join(s.fragments, "")
}

type discardSink struct{}

func (discardSink) Emit(ctx context.Context, _ string) error { return ctx.Err() }

// LinesInput replays a fixed list of lines.
type LinesInput struct {
	mu    sync.Mutex
	lines []string
}

func NewLinesInput(lines ...string) *LinesInput {
	return &LinesInput{lines: append([]string(nil), lines...)}
}

func (in *LinesInput) ReadLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	in.mu.Lock()
	defer in.mu.Unlock()
	if len(in.lines) == 0 {
		return "", ErrNoInput
	}
	line := in.lines[0]
	in.lines = in.lines[1:]
	return line, nil
}

// Remaining reports how many lines have not been consumed.
func (in *LinesInput) Remaining() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	return len(in.lines)
}

// ReaderInput reads newline-terminated lines from an io.Reader.
type ReaderInput struct {
	mu sync.Mutex
	r  *bufio.Reader
}

func NewReaderInput(r io.Reader) *ReaderInput {
	return &ReaderInput{r: bufio.NewReader(r)}
}

func (in *ReaderInput) ReadLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	in.mu.Lock()
	defer in.mu.Unlock()
	line, err := in.r.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r"), nil
		}
		if errors.Is(err, io.EOF) {
			return "", ErrNoInput
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

type noInput struct{}

func (noInput) ReadLine(context.Context) (string, error) { return "", ErrNoInput }
