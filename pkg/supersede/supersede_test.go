package supersede

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuard_LatestTicketIsCurrent(t *testing.T) {
	var g Guard

	first := g.Issue()
	assert.True(t, first.Current())

	second := g.Issue()
	assert.False(t, first.Current(), "first ticket must be superseded")
	assert.True(t, second.Current())
	assert.Greater(t, second.Seq(), first.Seq())
	assert.Equal(t, second.Seq(), g.Latest())
}

func TestGuard_Invalidate(t *testing.T) {
	var g Guard

	ticket := g.Issue()
	g.Invalidate()

	assert.False(t, ticket.Current())
}

func TestTicket_ZeroValueNeverCurrent(t *testing.T) {
	var ticket Ticket
	assert.False(t, ticket.Current())
}

func TestGuard_ConcurrentIssue(t *testing.T) {
	var g Guard
	const n = 100

	tickets := make([]Ticket, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			tickets[idx] = g.Issue()
		}(i)
	}
	wg.Wait()

	current := 0
	seen := make(map[uint64]bool, n)
	for _, ticket := range tickets {
		require.False(t, seen[ticket.Seq()], "sequence numbers must be unique")
		seen[ticket.Seq()] = true
		if ticket.Current() {
			current++
		}
	}

	assert.Equal(t, 1, current, "exactly one ticket may be current")
	assert.Equal(t, uint64(n), g.Latest())
}
