package game

import (
	"io"

	"github.com/google/uuid"
)

// EntityID is a weak handle to anything registered with the world. Holders
// resolve it through SpatialQuery.Locate; they never own the entity.
type EntityID uuid.UUID

// NoEntity is the zero handle.
var NoEntity = EntityID(uuid.Nil)

func (id EntityID) String() string { return uuid.UUID(id).String() }

// Short returns the first eight hex digits, enough for log lines.
func (id EntityID) Short() string { return id.String()[:8] }

// newEntityID draws a random v4 handle from r. Seeded sims pass their RNG so
// runs are reproducible; a nil reader falls back to crypto/rand.
func newEntityID(r io.Reader) EntityID {
	if r == nil {
		return EntityID(uuid.New())
	}
	id, err := uuid.NewRandomFromReader(r)
	if err != nil {
		return EntityID(uuid.New())
	}
	return EntityID(id)
}

// LayerMask selects which collision layers a query sees.
type LayerMask uint

const (
	LayerDefault LayerMask = 1 << iota // walls, floor clutter
	LayerHidable                       // obstacles an agent may hide behind
	LayerPlayer                        // the seeker
	LayerAgent                         // hiders
)

// LayerAll matches every layer.
const LayerAll = LayerDefault | LayerHidable | LayerPlayer | LayerAgent

// Has reports whether any bit of l is set in m.
func (m LayerMask) Has(l LayerMask) bool { return m&l != 0 }

func (m LayerMask) String() string {
	if m == 0 {
		return "none"
	}
	names := []struct {
		l LayerMask
		n string
	}{
		{LayerDefault, "default"},
		{LayerHidable, "hidable"},
		{LayerPlayer, "player"},
		{LayerAgent, "agent"},
	}
	out := ""
	for _, e := range names {
		if m.Has(e.l) {
			if out != "" {
				out += "|"
			}
			out += e.n
		}
	}
	return out
}
