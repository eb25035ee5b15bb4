package interpreter

import (
	"context"
	"errors"

	"github.com/chrlskrt/bisayaplusplus/pkg/ast"
	"github.com/chrlskrt/bisayaplusplus/pkg/runtime"
)

// Options wires an Interpreter to its collaborators. Nil fields fall back to
// a discarding sink, an empty input source and a private stop signal.
type Options struct {
	Output OutputSink
	Input  InputSource
	Stop   *StopSignal
}

// Interpreter executes one program against a fresh root environment.
type Interpreter struct {
	output  OutputSink
	input   InputSource
	stop    *StopSignal
	global  *runtime.Environment
	ran     bool
	stopped bool
}

// ErrAlreadyRun is returned when Run is invoked a second time.
var ErrAlreadyRun = errors.New("interpreter: Run already called; create a new Interpreter")

func New(opts Options) *Interpreter {
	i := &Interpreter{
		output: opts.Output,
		input:  opts.Input,
		stop:   opts.Stop,
		global: runtime.NewEnvironment(nil),
	}
	if i.output == nil {
		i.output = discardSink{}
	}
	if i.input == nil {
		i.input = noInput{}
	}
	if i.stop == nil {
		i.stop = &StopSignal{}
	}
	return i
}

// GlobalEnvironment returns the root environment of the run.
func (i *Interpreter) GlobalEnvironment() *runtime.Environment {
	return i.global
}

// Stopped reports whether the last run ended because of a stop request.
func (i *Interpreter) Stopped() bool {
	return i.stopped
}

// Run executes statements in order and returns the first error raised.
// A stop request ends the run without error.
func (i *Interpreter) Run(ctx context.Context, statements []ast.Statement) error {
	if i.ran {
		return ErrAlreadyRun
	}
	i.ran = true
	for _, stmt := range statements {
		if err := i.execute(ctx, stmt, i.global); err != nil {
			if _, ok := err.(stopSignal); ok {
				i.stopped = true
				return nil
			}
			return err
		}
	}
	return nil
}

func (i *Interpreter) checkStop() error {
	if i.stop.Stopped() {
		return stopSignal{}
	}
	return nil
}
