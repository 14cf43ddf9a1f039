// Package supersede provides a "latest issued wins" guard for asynchronous
// work whose completions may arrive out of order.
//
// Typical usage:
//
//	ticket := guard.Issue()
//	result, err := slowCall(ctx)
//	mu.Lock()
//	defer mu.Unlock()
//	if !ticket.Current() {
//	    // A newer operation was issued meanwhile; drop this result.
//	    return
//	}
//	// Apply result.
//
// Cancellation is cooperative: superseded work keeps running, only its
// effect is suppressed when it checks its ticket.
package supersede

import "sync/atomic"

// Guard hands out monotonically increasing tickets. The zero value is ready
// to use and safe for concurrent use.
type Guard struct {
	seq atomic.Uint64
}

// Ticket identifies one issued operation.
type Ticket struct {
	guard *Guard
	n     uint64
}

// Issue starts a new operation, superseding every ticket issued before it.
func (g *Guard) Issue() Ticket {
	return Ticket{guard: g, n: g.seq.Add(1)}
}

// Invalidate supersedes all outstanding tickets without starting a new operation.
func (g *Guard) Invalidate() {
	g.seq.Add(1)
}

// Latest returns the sequence number of the most recent ticket.
func (g *Guard) Latest() uint64 {
	return g.seq.Load()
}

// Current reports whether no newer ticket has been issued since t.
// The zero Ticket is never current.
func (t Ticket) Current() bool {
	return t.guard != nil && t.guard.seq.Load() == t.n
}

// Seq returns the ticket's sequence number.
func (t Ticket) Seq() uint64 {
	return t.n
}
