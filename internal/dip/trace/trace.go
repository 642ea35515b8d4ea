package trace

import (
	"log"
	"sync"

	"github.com/reimagineddocs/dip-backend/internal/dip/domain"
)

// Stages of the pipeline that emit diagnostic events.
const (
	StageParsed    = "parsed"
	StageMapped    = "mapped"
	StagePersisted = "persisted"
)

// Event is one observational trace point from the suggestion pipeline.
type Event struct {
	Kind  domain.SuggestionKind
	Stage string
	Count int
	Note  string
}

// Tracer receives pipeline events. Implementations must be safe for
// concurrent use; the orchestrator emits from parallel kind-batches.
type Tracer interface {
	Emit(Event)
}

type nopTracer struct{}

func (nopTracer) Emit(Event) {}

// Nop returns a tracer that discards everything.
func Nop() Tracer { return nopTracer{} }

type logTracer struct {
	debug bool
}

// NewLogTracer returns the default log-backed tracer. When debug is false
// only persisted-stage events are written.
func NewLogTracer(debug bool) Tracer { return &logTracer{debug: debug} }

func (t *logTracer) Emit(e Event) {
	if !t.debug && e.Stage != StagePersisted {
		return
	}
	if e.Note != "" {
		log.Printf("[dip] kind=%s stage=%s count=%d note=%s", e.Kind, e.Stage, e.Count, e.Note)
		return
	}
	log.Printf("[dip] kind=%s stage=%s count=%d", e.Kind, e.Stage, e.Count)
}

// Capture records events in memory for tests.
type Capture struct {
	mu     sync.Mutex
	events []Event
}

func (c *Capture) Emit(e Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
}

// Events returns a copy of everything emitted so far.
func (c *Capture) Events() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Event, len(c.events))
	copy(out, c.events)
	return out
}
