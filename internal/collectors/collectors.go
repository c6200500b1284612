// internal/collectors/collectors.go
package collectors

import (
	"sync"

	"github.com/ArowuTest/entropy-backend/internal/fortuna"
)

// Initial stirring: how many platform random words are fed when the
// collectors start, each credited a single conservative bit.
const initWords = 48

// Collectors translates host-environment events into entropy submissions
// with the fixed source tags and bit credits the generator's accounting
// expects. The collectors gather nothing themselves; the host (HTTP
// handlers, boot code) pushes events into them.
type Collectors struct {
	mu      sync.Mutex
	gen     *fortuna.Generator
	started bool
}

func New(gen *fortuna.Generator) *Collectors {
	return &Collectors{gen: gen}
}

// Start begins accepting events and stirs in the initial platform
// randomness. It is idempotent; a second call is a no-op.
func (c *Collectors) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started {
		return nil
	}
	c.started = true
	for i := 0; i < initWords; i++ {
		w, err := fortuna.PlatformRandomWord()
		if err != nil {
			return err
		}
		if err := c.submit(fortuna.Word(w), 1, "init"); err != nil {
			return err
		}
	}
	return nil
}

// Stop detaches the collectors; subsequent events are dropped. Idempotent,
// and a no-op when the collectors were never started.
func (c *Collectors) Stop() {
	c.mu.Lock()
	c.started = false
	c.mu.Unlock()
}

// Started reports whether the collectors currently accept events.
func (c *Collectors) Started() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.started
}

// PointerMove folds one pointer-movement sample in, credited two bits.
func (c *Collectors) PointerMove(x, y uint32) error {
	return c.Submit(fortuna.Words{x, y}, 2, "mouse")
}

// Keystroke folds one key event in, credited a single bit.
func (c *Collectors) Keystroke(code uint32) error {
	return c.Submit(fortuna.Word(code), 1, "keyboard")
}

// Accelerometer folds one reading in, credited three bits. A reading with
// no values (sensor present but silent) is folded as an empty string so
// the event itself still perturbs the pool.
func (c *Collectors) Accelerometer(values []uint32) error {
	if len(values) == 0 {
		return c.Submit(fortuna.Text(""), 3, "accelerometer")
	}
	return c.Submit(fortuna.Words(values), 3, "accelerometer")
}

// LoadBlob replays a persisted seed blob with zero claimed entropy: a
// compromised store must never inflate the accounted strength.
func (c *Collectors) LoadBlob(blob string) error {
	return c.Submit(fortuna.Text(blob), 0, "loadpool")
}

// Location folds a host-provided location/context string in, uncredited.
func (c *Collectors) Location(s string) error {
	return c.Submit(fortuna.Text(s), 0, "location")
}

// Cookie folds a host-provided cookie string in, uncredited.
func (c *Collectors) Cookie(s string) error {
	return c.Submit(fortuna.Text(s), 0, "cookie")
}

// Submit routes an arbitrary submission through the collectors. Events
// arriving while the collectors are stopped are dropped. When a submission
// leaves the generator demanding a reseed that the output path cannot
// perform itself (REQUIRES_RESEED while not yet ready), the pools are
// folded into the working key here.
func (c *Collectors) Submit(data fortuna.Datum, estimatedBits int, source string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.started {
		return nil
	}
	return c.submit(data, estimatedBits, source)
}

func (c *Collectors) submit(data fortuna.Datum, estimatedBits int, source string) error {
	if err := c.gen.AddEntropy(data, estimatedBits, source); err != nil {
		return err
	}
	st, err := c.gen.IsReady()
	if err != nil {
		return err
	}
	if st&fortuna.RequiresReseed != 0 && st&fortuna.Ready == 0 {
		return c.gen.Reseed()
	}
	return nil
}
