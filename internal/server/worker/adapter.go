// Package worker runs the external plan-generation process. The contract
// with the worker is deliberately narrow: it reads one JSON document from
// standard input, and on success exits 0 having written one JSON document
// with a "plan" field to standard output. Anything on standard error is
// advisory and only ever reaches the server log.
package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"fitplan/internal/logging"
	"fitplan/internal/server/models"
)

var (
	// ErrWorkerFailed means the process exited nonzero.
	ErrWorkerFailed = errors.New("worker failed")

	// ErrWorkerOutputInvalid means the process exited 0 but its output was
	// not a JSON document with a non-empty plan field.
	ErrWorkerOutputInvalid = errors.New("worker output invalid")

	// ErrWorkerTimeout means the process overran its deadline and was killed.
	ErrWorkerTimeout = errors.New("worker timed out")
)

// pipeReclaimDelay bounds how long Wait keeps the output pipes open after
// the worker has been killed. A descendant the worker left behind inherits
// the pipe write ends and would otherwise hold the reads open until it
// exits on its own.
const pipeReclaimDelay = time.Second

// Adapter spawns one fresh worker process per call. No pooling: every
// invocation is isolated and stateless.
type Adapter struct {
	command []string
	timeout time.Duration
	logger  logging.Logger
}

func NewAdapter(command []string, timeout time.Duration, logger logging.Logger) (*Adapter, error) {
	if len(command) == 0 {
		return nil, errors.New("worker command is empty")
	}
	if timeout <= 0 {
		return nil, errors.New("worker timeout must be positive")
	}
	return &Adapter{command: command, timeout: timeout, logger: logger}, nil
}

// workerOutput is the document the worker writes to stdout on success.
type workerOutput struct {
	Plan string `json:"plan"`
}

// GeneratePlan serializes input, streams it to a fresh worker process, and
// collects the plan from the worker's stdout.
//
// The stdin write and the two output reads are left to os/exec, which copies
// them concurrently, so a worker that emits substantial output before
// consuming its input cannot deadlock on full pipe buffers. Stdin is closed
// at reader EOF, which a stream-based parser in the worker sees as
// end-of-input. WaitDelay keeps a killed worker's orphaned descendants from
// pinning the call past the deadline: without it, Wait blocks on the output
// pipes until every inherited write end is gone.
func (a *Adapter) GeneratePlan(ctx context.Context, input *models.PlanInput) (string, error) {

	payload, err := json.Marshal(input)
	if err != nil {
		return "", fmt.Errorf("encoding worker payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	var outBuf, errBuf bytes.Buffer

	cmd := exec.CommandContext(ctx, a.command[0], a.command[1:]...)
	cmd.Stdin = bytes.NewReader(payload)
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf
	cmd.WaitDelay = pipeReclaimDelay

	start := time.Now()
	waitErr := cmd.Run()
	elapsed := time.Since(start)

	switch {
	case ctx.Err() == context.DeadlineExceeded:
		a.logger.Error(ctx, "worker killed on deadline",
			"timeout", a.timeout.String(), "stderr", errBuf.String())
		return "", ErrWorkerTimeout

	case ctx.Err() != nil:
		return "", ctx.Err()

	case waitErr != nil:
		a.logger.Error(ctx, "worker exited with failure",
			"error", waitErr.Error(), "stderr", errBuf.String(), "duration", elapsed.String())
		return "", fmt.Errorf("%w: %v", ErrWorkerFailed, waitErr)
	}

	var out workerOutput
	if err := json.Unmarshal(outBuf.Bytes(), &out); err != nil {
		a.logger.Error(ctx, "worker output is not valid JSON",
			"error", err.Error(), "stderr", errBuf.String())
		return "", fmt.Errorf("%w: %v", ErrWorkerOutputInvalid, err)
	}
	if out.Plan == "" {
		a.logger.Error(ctx, "worker output lacks a plan field", "stderr", errBuf.String())
		return "", fmt.Errorf("%w: missing plan field", ErrWorkerOutputInvalid)
	}

	a.logger.Info(ctx, "worker finished", "duration", elapsed.String())
	return out.Plan, nil
}
