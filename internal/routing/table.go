// Package routing implements the routing table: its data model, the
// Bellman-Ford style relaxation rule with split-horizon/poisoned-reverse
// support (poisoning itself happens at encode time, in internal/wire),
// and the age-out/garbage-collection rules that detect neighbor failure.
package routing

import (
	"sort"
	"time"
)

// State is the lifecycle state of a RouteEntry.
type State int

const (
	Active State = iota
	ExpiredGarbage
)

func (s State) String() string {
	if s == Active {
		return "active"
	}
	return "expired-garbage"
}

const (
	// Infinity denotes an unreachable destination.
	Infinity = 16
	minValidMetric = 1
)

// RouteEntry is one known destination.
type RouteEntry struct {
	DestinationID uint16
	NextHopID     uint16
	Metric        uint16
	LearnedFromID uint16
	LastUpdated   time.Time
	State         State
}

// Neighbor is a statically configured direct peer.
type Neighbor struct {
	Port       int
	LinkMetric uint16
	RouterID   uint16
}

// Update is a decoded advertisement applied to the table via Relax.
// It mirrors wire.DecodedUpdate without importing internal/wire, keeping
// the routing table independent of the byte-level codec.
type Update struct {
	SenderID uint16
	Routes   []UpdateRoute
}

// UpdateRoute is one advertised destination from an Update.
type UpdateRoute struct {
	DestinationID uint16
	Metric        uint16
}

// RelaxResult reports what Relax did.
type RelaxResult struct {
	Changed   bool
	Withdrawn []uint16
}

// Table is the in-memory routing table, keyed by destination ID.
type Table struct {
	selfID  uint16
	entries map[uint16]*RouteEntry
}

// New creates an empty table for the given router ID.
func New(selfID uint16) *Table {
	return &Table{selfID: selfID, entries: make(map[uint16]*RouteEntry)}
}

// Seed populates the table with one Active entry per neighbor, per the
// startup lifecycle: destination = neighbor, next hop = neighbor,
// metric = link metric, learned-from = self.
func (t *Table) Seed(neighbors []Neighbor, now time.Time) {
	for _, n := range neighbors {
		t.entries[n.RouterID] = &RouteEntry{
			DestinationID: n.RouterID,
			NextHopID:     n.RouterID,
			Metric:        n.LinkMetric,
			LearnedFromID: t.selfID,
			LastUpdated:   now,
			State:         Active,
		}
	}
}

// Get returns the current entry for a destination, if any.
func (t *Table) Get(destinationID uint16) (RouteEntry, bool) {
	e, ok := t.entries[destinationID]
	if !ok {
		return RouteEntry{}, false
	}
	return *e, true
}

// Routes returns a snapshot of all entries, sorted by destination ID for
// deterministic iteration (observed by tests and internal/diag, never by
// peers on the wire).
func (t *Table) Routes() []RouteEntry {
	out := make([]RouteEntry, 0, len(t.entries))
	for _, e := range t.entries {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DestinationID < out[j].DestinationID })
	return out
}

// Len reports the current number of entries, Active and ExpiredGarbage.
func (t *Table) Len() int {
	return len(t.entries)
}

// Relax applies a received Update against the table. C is the metric of
// the existing Active route to the sender; if the sender is not a known,
// reachable (metric < Infinity) destination, the update is discarded
// wholesale, per the "do not adopt routes via an unreachable learned-from"
// rule. An ExpiredGarbage entry that takes a finite metric from an update
// becomes Active again.
func (t *Table) Relax(u Update, now time.Time) RelaxResult {
	sender, ok := t.entries[u.SenderID]
	if !ok || sender.State != Active || sender.Metric >= Infinity {
		return RelaxResult{}
	}
	c := sender.Metric

	result := RelaxResult{}

	for _, a := range u.Routes {
		if a.DestinationID == t.selfID {
			continue
		}

		offered := a.Metric + c
		if offered > Infinity {
			offered = Infinity
		}

		e, exists := t.entries[a.DestinationID]
		if !exists {
			t.entries[a.DestinationID] = &RouteEntry{
				DestinationID: a.DestinationID,
				NextHopID:     u.SenderID,
				Metric:        offered,
				LearnedFromID: u.SenderID,
				LastUpdated:   now,
				State:         Active,
			}
			result.Changed = true
			continue
		}

		if e.LearnedFromID == u.SenderID {
			e.Metric = offered
			e.LastUpdated = now
			result.Changed = true
			if offered >= Infinity {
				if e.State != ExpiredGarbage {
					e.State = ExpiredGarbage
					result.Withdrawn = append(result.Withdrawn, a.DestinationID)
				}
			} else {
				e.State = Active
			}
			continue
		}

		if offered < e.Metric {
			e.NextHopID = u.SenderID
			e.LearnedFromID = u.SenderID
			e.Metric = offered
			e.LastUpdated = now
			e.State = Active
			result.Changed = true
		}
	}

	return result
}

// Tick ages the table: Active routes not refreshed within timeout (and not
// directly seeded, i.e. learned from someone other than self) transition
// to ExpiredGarbage advertising metric Infinity; ExpiredGarbage routes
// past a further timeout are deleted. It returns the destinations that
// transitioned to ExpiredGarbage this call.
func (t *Table) Tick(now time.Time, timeout time.Duration) []uint16 {
	var withdrawn []uint16

	for dest, e := range t.entries {
		switch e.State {
		case Active:
			if e.LearnedFromID != t.selfID && now.Sub(e.LastUpdated) > timeout {
				e.State = ExpiredGarbage
				e.Metric = Infinity
				e.LastUpdated = now
				withdrawn = append(withdrawn, dest)
			}
		case ExpiredGarbage:
			if now.Sub(e.LastUpdated) > timeout {
				delete(t.entries, dest)
			}
		}
	}

	return withdrawn
}

// SnapshotFor produces the entry list used to build an outbound packet to
// recipientID. Both Active and ExpiredGarbage routes are included (the
// latter always advertise Infinity); poisoned reverse is applied by the
// codec, not here, per the component design.
func (t *Table) SnapshotFor(recipientID uint16) []RouteEntry {
	_ = recipientID // poisoning happens in internal/wire.Encode
	return t.Routes()
}
