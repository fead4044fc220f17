// Copyright (c) 2025 MinimalADB
// Licensed under the MIT License. See LICENSE file in the project root for details.

package adb

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
)

// process is one spawned, registered child.
type process struct {
	cmd *exec.Cmd
	id  uint64
	reg *Registry
}

func spawn(ctx context.Context, reg *Registry, req Request, stdout, stderr io.Writer) (*process, error) {
	if req.Path == "" {
		return nil, &SpawnError{Path: req.Path, Err: exec.ErrNotFound}
	}
	cmd := exec.CommandContext(ctx, req.Path, req.Args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	if err := cmd.Start(); err != nil {
		return nil, &SpawnError{Path: req.Path, Err: err}
	}
	return &process{cmd: cmd, id: reg.Add(cmd.Process), reg: reg}, nil
}

// wait reaps the process and reports its exit code. A nil error or an
// *exec.ExitError means the process ran to an exit status; anything else is
// an execution-level failure.
func (p *process) wait() (int, error) {
	err := p.cmd.Wait()
	p.reg.Remove(p.id)
	return exitCodeFrom(err, p.cmd.ProcessState), err
}

func exitCodeFrom(waitErr error, state *os.ProcessState) int {
	if state != nil {
		return state.ExitCode()
	}
	if waitErr == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) && exitErr.ProcessState != nil {
		return exitErr.ProcessState.ExitCode()
	}
	return -1
}

func isExitStatus(err error) bool {
	var exitErr *exec.ExitError
	return errors.As(err, &exitErr)
}
