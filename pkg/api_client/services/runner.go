package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// SpawnResult is what a finished analyzer process produced.
type SpawnResult struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

// Spawner starts the analyzer. It returns an error only when the process
// could not be started, was stopped through ctx, or its stdin source failed
// (wrapped in ErrInputUnreadable); a non-zero exit is not an error.
type Spawner interface {
	Spawn(ctx context.Context, args []string, stdin io.Reader) (SpawnResult, error)
}

// ExecSpawner runs the analyzer as a child process. Arguments are passed as
// an argv vector, never through a shell.
type ExecSpawner struct {
	// WaitDelay bounds how long Wait blocks on I/O after the process is killed,
	// and how long the stdin writer may lag behind the exited process.
	WaitDelay time.Duration
}

// sourceReader remembers the first read error of the stdin source, so a
// failing client body is told apart from a process that stopped reading.
type sourceReader struct {
	r   io.Reader
	err error
}

func (s *sourceReader) Read(p []byte) (int, error) {
	n, err := s.r.Read(p)
	if err != nil && err != io.EOF && s.err == nil {
		s.err = err
	}
	return n, err
}

func (s ExecSpawner) Spawn(ctx context.Context, args []string, stdin io.Reader) (SpawnResult, error) {
	if len(args) == 0 {
		return SpawnResult{}, fmt.Errorf("%w: empty command", ErrSpawnFailure)
	}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.WaitDelay = s.WaitDelay
	if cmd.WaitDelay == 0 {
		cmd.WaitDelay = 5 * time.Second
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	var in io.WriteCloser
	if stdin != nil {
		var err error
		if in, err = cmd.StdinPipe(); err != nil {
			return SpawnResult{}, fmt.Errorf("%w: %v", ErrSpawnFailure, err)
		}
	}

	if err := cmd.Start(); err != nil {
		return SpawnResult{}, fmt.Errorf("%w: %v", ErrSpawnFailure, err)
	}

	// The payload is written from its own goroutine while stdout is drained,
	// otherwise both pipes can fill up and block each other. Errors on the
	// process side of the pipe are left to the exit code.
	src := &sourceReader{r: stdin}
	var writer errgroup.Group
	if in != nil {
		writer.Go(func() error {
			// Write errors mean the process stopped reading; its exit code decides.
			_, _ = io.Copy(in, src)
			_ = in.Close()
			if src.err != nil {
				return fmt.Errorf("%w: %w", ErrInputUnreadable, src.err)
			}
			return nil
		})
	}
	written := make(chan error, 1)
	go func() { written <- writer.Wait() }()

	waitErr := cmd.Wait()

	// A stalled source must not hold the job past its deadline or much past
	// the process exit.
	var writeErr error
	select {
	case writeErr = <-written:
	case <-ctx.Done():
	case <-time.After(cmd.WaitDelay):
		writeErr = fmt.Errorf("%w: input still being read after the analyzer exited", ErrInputUnreadable)
	}

	res := SpawnResult{ExitCode: cmd.ProcessState.ExitCode(), Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return res, ctxErr
	}
	if writeErr != nil {
		return res, writeErr
	}
	if waitErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			return res, fmt.Errorf("wait for analyzer: %w", waitErr)
		}
	}
	return res, nil
}

// ExitCodes are the reserved analyzer exit codes.
type ExitCodes struct {
	MalformedInput int
	NoData         int
}

// JobRunner builds analyzer invocations and classifies their outcome.
type JobRunner struct {
	spawner Spawner
	command []string
	timeout time.Duration
	codes   ExitCodes
	logger  zerolog.Logger
}

// NewJobRunner returns a runner for command (program plus leading arguments).
// A zero timeout disables the wall-clock limit.
func NewJobRunner(spawner Spawner, command []string, timeout time.Duration, codes ExitCodes, logger zerolog.Logger) *JobRunner {
	return &JobRunner{
		spawner: spawner,
		command: command,
		timeout: timeout,
		codes:   codes,
		logger:  logger.With().Str("component", "runner").Logger(),
	}
}

// JobResult is a successful analyzer run.
type JobResult struct {
	ID     string
	Output []byte
}

// RunTool lints a single, already validated, tool identifier. The identifier
// follows "--" so one starting with '-' is never parsed as an option.
func (r *JobRunner) RunTool(ctx context.Context, tool string) (JobResult, error) {
	args := r.args("--no-color", "--", tool)
	return r.run(ctx, args, nil, r.logger.With().Str("tool", tool).Logger())
}

// RunJSON lints a tool document streamed to the analyzer's stdin.
func (r *JobRunner) RunJSON(ctx context.Context, body io.Reader, biotoolsFormat bool) (JobResult, error) {
	flags := []string{"--json"}
	if biotoolsFormat {
		flags = append(flags, "--biotools-format")
	}
	flags = append(flags, "--no-color")
	return r.run(ctx, r.args(flags...), body, r.logger.With().Str("mode", "json").Logger())
}

func (r *JobRunner) args(extra ...string) []string {
	args := make([]string, 0, len(r.command)+len(extra))
	args = append(args, r.command...)
	return append(args, extra...)
}

func (r *JobRunner) run(ctx context.Context, args []string, stdin io.Reader, logger zerolog.Logger) (JobResult, error) {
	id := uuid.NewString()
	logger = logger.With().Str("job", id).Logger()

	// A client that goes away must not kill a running analyzer.
	ctx = context.WithoutCancel(ctx)
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	start := time.Now()
	res, err := r.spawner.Spawn(ctx, args, stdin)
	elapsed := time.Since(start)

	fail := func(kind error, cause error) (JobResult, error) {
		ev := logger.Error().
			Int("exit_code", res.ExitCode).
			Dur("duration", elapsed).
			Bytes("stdout", res.Stdout).
			Bytes("stderr", res.Stderr)
		if cause != nil {
			ev = ev.AnErr("cause", cause)
		}
		ev.Msg(kind.Error())
		switch {
		case cause == nil:
			return JobResult{ID: id}, fmt.Errorf("%w (exit code %d)", kind, res.ExitCode)
		case errors.Is(cause, kind):
			return JobResult{ID: id}, cause
		default:
			return JobResult{ID: id}, fmt.Errorf("%w: %v", kind, cause)
		}
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fail(ErrAnalyzerTimeout, err)
	case errors.Is(err, ErrSpawnFailure):
		return fail(ErrSpawnFailure, err)
	case errors.Is(err, ErrInputUnreadable):
		return fail(ErrInputUnreadable, err)
	case err != nil:
		return fail(ErrAnalyzerFailed, err)
	case res.ExitCode == 0:
		logger.Info().Dur("duration", elapsed).Msg("analyzer finished")
		return JobResult{ID: id, Output: res.Stdout}, nil
	case res.ExitCode == r.codes.MalformedInput:
		return fail(ErrAnalyzerMalformedInput, nil)
	case res.ExitCode == r.codes.NoData:
		return fail(ErrAnalyzerNoData, nil)
	default:
		return fail(ErrAnalyzerFailed, nil)
	}
}
