package diagnostics

import (
	"fmt"
	"io"
	"sync"

	"github.com/plaimi/q/internal/ports"
)

// Tracer prints "category - question - answer" lines when verbose output is
// enabled, so an operator can follow the quiz from the console.
type Tracer struct {
	enabled bool

	mu  sync.Mutex
	out io.Writer
}

func NewTracer(cfg ports.BotConfig, out io.Writer) *Tracer {
	return &Tracer{
		enabled: cfg.Verbose,
		out:     out,
	}
}

func (t *Tracer) Enabled() bool {
	return t.enabled
}

func (t *Tracer) Question(category, question, answer string) {
	if !t.enabled || t.out == nil {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	_, _ = fmt.Fprintf(t.out, "%s - %s - %s\n", category, question, answer)
}

var _ ports.Tracer = (*Tracer)(nil)
