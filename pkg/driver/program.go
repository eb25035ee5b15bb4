package driver

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"github.com/chrlskrt/bisayaplusplus/pkg/ast"
	"github.com/chrlskrt/bisayaplusplus/pkg/interpreter"
	"github.com/chrlskrt/bisayaplusplus/pkg/lexer"
	"github.com/chrlskrt/bisayaplusplus/pkg/parser"
	"github.com/chrlskrt/bisayaplusplus/pkg/token"
)

// SourceExt is the conventional extension for program files.
const SourceExt = ".bpp"

var byteOrderMark = []byte{0xEF, 0xBB, 0xBF}

// Source is one program text ready for scanning.
type Source struct {
	Path string
	Text string
}

// LoadSource reads a program file. The text must be UTF-8; a leading byte
// order mark is dropped and the result is NFC-normalized so composed and
// decomposed spellings of the same identifier scan identically.
func LoadSource(path string) (*Source, error) {
	if path == "" {
		return nil, fmt.Errorf("source: empty path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("source: resolve %s: %w", path, err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("source: read %s: %w", abs, err)
	}
	return decodeSource(abs, data)
}

// ReadSource reads a program from r; name is used in diagnostics only.
func ReadSource(name string, r io.Reader) (*Source, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("source: read %s: %w", name, err)
	}
	return decodeSource(name, data)
}

// NewSource wraps in-memory text.
func NewSource(name, text string) *Source {
	return &Source{Path: name, Text: norm.NFC.String(text)}
}

func decodeSource(name string, data []byte) (*Source, error) {
	data = bytes.TrimPrefix(data, byteOrderMark)
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("source: %s is not valid UTF-8", name)
	}
	return &Source{Path: name, Text: norm.NFC.String(string(data))}, nil
}

// Program is a scanned and parsed source.
type Program struct {
	Source     *Source
	Tokens     []token.Token
	Statements []ast.Statement
}

// Tokenize runs only the lexer.
func Tokenize(src *Source) ([]token.Token, error) {
	return lexer.Scan(src.Text)
}

// Compile scans and parses src. Errors are returned unwrapped so that
// Describe can classify them.
func Compile(src *Source) (*Program, error) {
	tokens, err := lexer.Scan(src.Text)
	if err != nil {
		return nil, err
	}
	stmts, err := parser.Parse(tokens)
	if err != nil {
		return nil, err
	}
	return &Program{Source: src, Tokens: tokens, Statements: stmts}, nil
}

// RunOptions wires a program run to its host.
type RunOptions struct {
	Output interpreter.OutputSink
	Input  interpreter.InputSource
	Stop   *interpreter.StopSignal
	Logger *slog.Logger
}

// RunResult summarises a finished run.
type RunResult struct {
	ID       string
	Stopped  bool
	Duration time.Duration
}

// Run executes prog on the calling goroutine.
func Run(ctx context.Context, prog *Program, opts RunOptions) (*RunResult, error) {
	if prog == nil {
		return nil, fmt.Errorf("driver: nil program")
	}
	logger := opts.Logger
	if logger == nil {
		logger = discardLogger()
	}
	result := &RunResult{ID: uuid.NewString()}
	logger = logger.With("run_id", result.ID, "source", prog.Source.Path)
	logger.Debug("run started", "statements", len(prog.Statements))

	interp := interpreter.New(interpreter.Options{
		Output: opts.Output,
		Input:  opts.Input,
		Stop:   opts.Stop,
	})
	start := time.Now()
	err := interp.Run(ctx, prog.Statements)
	result.Duration = time.Since(start)
	result.Stopped = interp.Stopped()
	if err != nil {
		logger.Debug("run failed", "error", err, "duration", result.Duration)
		return result, err
	}
	logger.Debug("run finished", "stopped", result.Stopped, "duration", result.Duration)
	return result, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
