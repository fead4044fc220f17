// Copyright (c) 2025 MinimalADB
// Licensed under the MIT License. See LICENSE file in the project root for details.

package adb

import (
	"bytes"
	"context"

	"github.com/pterm/pterm"
)

// Runner executes adb commands to completion. Each call spawns exactly one
// process; calls may run concurrently and share only the registry.
type Runner struct {
	registry *Registry
	logger   *pterm.Logger
}

// NewRunner creates a Runner. A nil registry gets a private one and a nil
// logger disables logging.
func NewRunner(registry *Registry, logger *pterm.Logger) *Runner {
	if registry == nil {
		registry = NewRegistry()
	}
	return &Runner{registry: registry, logger: orDiscard(logger)}
}

// Run starts req and waits for it to exit.
//
// Exit code 0 yields the captured output. A non-zero exit yields an
// *ExitError whose message is stderr (or stdout when stderr is empty). A
// process that cannot be started yields a *SpawnError right away. There is no
// timeout; cancelling ctx kills the process.
func (r *Runner) Run(ctx context.Context, req Request) (Result, error) {
	var stdout, stderr bytes.Buffer
	r.logger.Debug("running adb", r.logger.Args("path", req.Path, "args", req.Args))

	p, err := spawn(ctx, r.registry, req, &stdout, &stderr)
	if err != nil {
		r.logger.Warn("adb failed to start", r.logger.Args("path", req.Path, "error", err))
		return Result{}, err
	}
	code, err := p.wait()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	switch {
	case err == nil:
		r.logger.Debug("adb finished", r.logger.Args("args", req.Args, "code", code))
		return res, nil
	case isExitStatus(err):
		r.logger.Debug("adb exited with failure", r.logger.Args("args", req.Args, "code", code))
		return res, &ExitError{Code: code, Stdout: res.Stdout, Stderr: res.Stderr}
	default:
		r.logger.Warn("adb execution failed", r.logger.Args("args", req.Args, "error", err))
		return res, &SpawnError{Path: req.Path, Err: err}
	}
}

// Registry exposes the registry the runner records its processes in.
func (r *Runner) Registry() *Registry { return r.registry }

func orDiscard(logger *pterm.Logger) *pterm.Logger {
	if logger != nil {
		return logger
	}
	return pterm.DefaultLogger.WithLevel(pterm.LogLevelDisabled)
}
