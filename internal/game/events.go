package game

// Event types pushed to subscribers.
const (
	EventState    = "state"
	EventMatch    = "match"
	EventFinished = "finished"
	EventRestart  = "restart"
	EventTick     = "tick"
)

// Event is a state change published to subscribers.
type Event struct {
	Type  string   `json:"type"`
	Match *Match   `json:"match,omitempty"`
	State Snapshot `json:"state"`
}

// subscriberBuffer bounds how far a slow subscriber may lag before it is
// dropped.
const subscriberBuffer = 16

// Subscribe returns a channel of events and a cancel func. The channel is
// closed on cancel, on Close, or when the subscriber falls too far behind.
func (g *Game) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	g.mu.Lock()
	g.subs[ch] = struct{}{}
	g.mu.Unlock()

	return ch, func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		if _, ok := g.subs[ch]; ok {
			delete(g.subs, ch)
			close(ch)
		}
	}
}

func (g *Game) publishLocked(ev Event) {
	for ch := range g.subs {
		select {
		case ch <- ev:
		default:
			delete(g.subs, ch)
			close(ch)
		}
	}
}
