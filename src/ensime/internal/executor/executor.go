// Package executor wraps the execution of "os/exec".Cmd's to allow adding
// logs to each exec and to make callers easy to test.
package executor

import (
	"bytes"
	"os/exec"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module provides a module to inject using fx.
var Module = fx.Options(
	fx.Provide(func(logger *zap.SugaredLogger) Executor {
		return New(WithLogger(logger))
	}),
)

// Executor runs external commands with captured output.
type Executor interface {
	// Run executes the Cmd, overriding its Stdout/Stderr to return their content.
	Run(cmd *exec.Cmd) (stdout string, stderr string, exitCode int, err error)
}

type executorImpl struct {
	logger *zap.SugaredLogger
	// execFunc may be overridden to skip real execution in tests.
	execFunc func(cmd *exec.Cmd) error
}

// Option customizes an Executor.
type Option func(*executorImpl)

// WithLogger overrides the default noop logger.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(e *executorImpl) {
		e.logger = logger
	}
}

// WithExecFunc provides customized exec behavior.
func WithExecFunc(execFunc func(cmd *exec.Cmd) error) Option {
	return func(e *executorImpl) {
		e.execFunc = execFunc
	}
}

// New creates an Executor that runs commands via cmd.Run by default.
func New(opts ...Option) Executor {
	e := &executorImpl{
		logger:   zap.NewNop().Sugar(),
		execFunc: func(cmd *exec.Cmd) error { return cmd.Run() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *executorImpl) Run(cmd *exec.Cmd) (string, string, int, error) {
	e.logger.Infow("Exec", "Path", cmd.Path, "Args", cmd.Args[1:])

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := e.execFunc(cmd)

	exitCode := 0
	if cmd.ProcessState != nil {
		exitCode = cmd.ProcessState.ExitCode()
	} else if err != nil {
		exitCode = -1
	}
	return stdout.String(), stderr.String(), exitCode, err
}
