package layouts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/trolleyman/hagias-monitor-service/pkg/types"
)

// Applier pushes a layout to the display subsystem.
type Applier interface {
	Apply(ctx context.Context, l types.Layout) error
}

const defaultApplyTimeout = 15 * time.Second

// ExecApplier runs an external command to apply a layout. The command gets
// the layout id as its last argument and the full layout JSON on stdin,
// so the tool can use whichever it prefers. A non-zero exit surfaces
// stderr as the failure detail.
type ExecApplier struct {
	// Command is the program plus fixed arguments, whitespace-separated.
	Command string
	// Timeout bounds one apply run; zero means the package default.
	Timeout time.Duration
}

func (a *ExecApplier) Apply(ctx context.Context, l types.Layout) error {
	argv := strings.Fields(a.Command)
	if len(argv) == 0 {
		return ErrApplierUnavailable("no apply command configured")
	}
	timeout := a.Timeout
	if timeout <= 0 {
		timeout = defaultApplyTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	payload, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("encode layout %s: %w", l.ID, err)
	}

	cmd := exec.CommandContext(ctx, argv[0], append(argv[1:], l.ID)...)
	cmd.Stdin = bytes.NewReader(payload)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("apply %s timed out after %s", l.ID, timeout)
		}
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			return fmt.Errorf("apply %s: %w", l.ID, err)
		}
		return fmt.Errorf("apply %s: %s", l.ID, detail)
	}
	return nil
}

// StubApplier records apply calls and returns a fixed error. It backs
// tests and platforms without a display-switch tool.
type StubApplier struct {
	Err error

	mu      sync.Mutex
	applied []string
}

func (a *StubApplier) Apply(ctx context.Context, l types.Layout) error {
	a.mu.Lock()
	a.applied = append(a.applied, l.ID)
	a.mu.Unlock()
	return a.Err
}

// Applied returns the layout ids passed to Apply, in order.
func (a *StubApplier) Applied() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, len(a.applied))
	copy(out, a.applied)
	return out
}
