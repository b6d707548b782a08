package hub

import (
	"testing"

	"github.com/kapu/maze-duel-go/pkg/dueldto"
)

func newClient(id string, queue int) *Client {
	return &Client{ID: id, Out: make(chan dueldto.Envelope, queue)}
}

func TestBroadcastSessionReachesMembersOnly(t *testing.T) {
	h := New()
	a := newClient("a", 4)
	b := newClient("b", 4)
	c := newClient("c", 4)
	for _, cl := range []*Client{a, b, c} {
		h.Register(cl)
	}
	h.Subscribe("g1", a)
	h.Subscribe("g1", b)

	h.BroadcastSession("g1", dueldto.Envelope{Event: "session-update"})

	if len(a.Out) != 1 || len(b.Out) != 1 {
		t.Fatalf("members missed the frame: a=%d b=%d", len(a.Out), len(b.Out))
	}
	if len(c.Out) != 0 {
		t.Fatalf("non-member received a session frame")
	}

	h.BroadcastAll(dueldto.Envelope{Event: "sessions-list"})
	if len(c.Out) != 1 {
		t.Fatalf("lobby broadcast missed a client")
	}
}

func TestUnregisterDropsSubscriptions(t *testing.T) {
	h := New()
	a := newClient("a", 4)
	h.Register(a)
	h.Subscribe("g1", a)
	h.Unregister(a)

	h.BroadcastSession("g1", dueldto.Envelope{Event: "session-update"})
	if len(a.Out) != 0 {
		t.Fatalf("unregistered client still receives frames")
	}
}

func TestOverflowKicksClient(t *testing.T) {
	h := New()
	kicked := false
	a := newClient("a", 1)
	a.Kick = func() { kicked = true }
	h.Register(a)
	h.Subscribe("g1", a)

	h.BroadcastSession("g1", dueldto.Envelope{Event: "session-update"})
	h.BroadcastSession("g1", dueldto.Envelope{Event: "session-update"})
	if !kicked {
		t.Fatalf("client with a full queue was not kicked")
	}
}
