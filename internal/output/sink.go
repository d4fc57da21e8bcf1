package output

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Sink delivers a finished transcript to one destination.
type Sink interface {
	// Name identifies the sink in logs.
	Name() string
	// Deliver hands text to the destination. Implementations should honor
	// ctx cancellation; the caller treats failures as non-fatal.
	Deliver(ctx context.Context, text string) error
}

// runTool executes an external helper, feeding stdin when non-empty.
// stderr is folded into the returned error because these desktop tools
// report everything there.
func runTool(ctx context.Context, stdin string, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}
