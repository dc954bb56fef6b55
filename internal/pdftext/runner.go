package pdftext

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"time"
)

// ErrBinaryMissing means the configured pdftotext binary is not on PATH.
var ErrBinaryMissing = errors.New("pdftotext binary not found")

// Runner lets us stub external commands in tests.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

type execRunner struct {
	logger *slog.Logger
}

const stderrLogCap = 4 << 10

func (r execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	if _, err := exec.LookPath(name); err != nil {
		r.logger.Error("pdftext.exec.missing", "bin", name, "err", err)
		return nil, nil, fmt.Errorf("%w: %s", ErrBinaryMissing, name)
	}

	start := time.Now()
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout, cmd.Stderr = &stdout, &stderr
	err := cmd.Run()

	attrs := []any{"bin", name, "args", args, "elapsed_ms", time.Since(start).Milliseconds()}
	switch {
	case ctx.Err() != nil:
		r.logger.Warn("pdftext.exec.canceled", append(attrs, "err", ctx.Err())...)
		return nil, stderr.Bytes(), ctx.Err()
	case err != nil:
		msg := stderr.String()
		if len(msg) > stderrLogCap {
			msg = msg[:stderrLogCap] + "...(truncated)"
		}
		r.logger.Error("pdftext.exec.failed", append(attrs, "err", err, "stderr", msg)...)
	default:
		r.logger.Debug("pdftext.exec.ok", append(attrs, "stdout_bytes", stdout.Len())...)
	}
	return stdout.Bytes(), stderr.Bytes(), err
}
