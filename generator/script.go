package generator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/sagarc03/eir"
)

// pipeGrace bounds how long output is drained after the script exits or is
// killed, for children that keep stdout open.
const pipeGrace = time.Second

// Script runs a resource through the shell and returns its standard output.
// The exit status is not inspected.
type Script struct {
	Shell   string
	Timeout time.Duration
}

func (s *Script) Generate(ctx context.Context, path eir.RequestPath) (eir.Body, error) {
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	var out bytes.Buffer

	// "$0" keeps the path out of shell parsing.
	cmd := exec.CommandContext(ctx, s.Shell, "-c", `exec "$0"`, path.Absolute())
	cmd.Stdout = &out
	cmd.WaitDelay = pipeGrace

	err := cmd.Run()
	if err == nil || errors.Is(err, exec.ErrWaitDelay) {
		return eir.Body{Data: out.Bytes(), Text: true}, nil
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return eir.Body{}, fmt.Errorf("run script %s: %w", path.Relative(), err)
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return eir.Body{}, fmt.Errorf("run script %s: %w", path.Relative(), ctxErr)
	}

	return eir.Body{Data: out.Bytes(), Text: true}, nil
}
