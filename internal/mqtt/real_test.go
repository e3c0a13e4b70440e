package mqtt

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sweeney/banana-cart/internal/logic"
)

type fakeLink struct {
	open bool
	sent []bufferedMsg
	err  error
}

func (l *fakeLink) isOpen() bool { return l.open }

func (l *fakeLink) send(msg bufferedMsg) error {
	if l.err != nil {
		return l.err
	}
	l.sent = append(l.sent, msg)
	return nil
}

func newLinkedPublisher(open bool) (*RealPublisher, *fakeLink) {
	link := &fakeLink{open: open}
	p := newPublisher(link.isOpen, link.send)
	p.now = func() time.Time { return time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC) }
	return p, link
}

func TestRealPublisherSendsWhenConnected(t *testing.T) {
	p, link := newLinkedPublisher(true)

	if err := p.Publish(logic.Inspection{ID: "a", Verdict: logic.VerdictGood}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := p.PublishSystem(SystemEvent{Event: "STARTUP", Retained: true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(link.sent) != 2 {
		t.Fatalf("expected 2 sent, got %d", len(link.sent))
	}
	if link.sent[0].topic != Topic || link.sent[0].qos != 0 || link.sent[0].retained {
		t.Errorf("inspection message: %+v", link.sent[0])
	}
	if link.sent[1].topic != TopicSystem || link.sent[1].qos != 1 || !link.sent[1].retained {
		t.Errorf("system message: %+v", link.sent[1])
	}
	if p.Buffered() != 0 {
		t.Errorf("expected empty buffer, got %d", p.Buffered())
	}
}

func TestRealPublisherBuffersWhileOffline(t *testing.T) {
	p, link := newLinkedPublisher(false)

	for _, id := range []string{"a", "b", "c"} {
		if err := p.Publish(logic.Inspection{ID: id}); err != nil {
			t.Fatalf("offline publish should not fail: %v", err)
		}
	}
	if len(link.sent) != 0 {
		t.Fatalf("expected nothing sent while offline, got %d", len(link.sent))
	}
	if p.Buffered() != 3 {
		t.Errorf("Buffered: got %d, want 3", p.Buffered())
	}
	if p.IsConnected() {
		t.Error("expected IsConnected=false")
	}
}

func TestRealPublisherFirstConnectReplaysWithoutAnnouncement(t *testing.T) {
	p, link := newLinkedPublisher(false)
	p.Publish(logic.Inspection{ID: "early"})

	link.open = true
	p.onConnect()

	if len(link.sent) != 1 {
		t.Fatalf("expected 1 replayed message, got %d", len(link.sent))
	}
	var got Payload
	json.Unmarshal(link.sent[0].payload, &got)
	if got.Inspection.ID != "early" {
		t.Errorf("replayed id: got %q", got.Inspection.ID)
	}
}

func TestRealPublisherReconnectAnnouncesAndReplays(t *testing.T) {
	p, link := newLinkedPublisher(true)
	p.onConnect() // initial connection

	link.open = false
	p.Publish(logic.Inspection{ID: "x"})
	p.Publish(logic.Inspection{ID: "y"})

	link.open = true
	p.onConnect()

	if len(link.sent) != 3 {
		t.Fatalf("expected RECONNECTED + 2 replays, got %d", len(link.sent))
	}
	if link.sent[0].topic != TopicSystem {
		t.Fatalf("first message should be system event, got %s", link.sent[0].topic)
	}
	var sys SystemPayload
	if err := json.Unmarshal(link.sent[0].payload, &sys); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if sys.System.Event != "RECONNECTED" {
		t.Errorf("event: got %q, want RECONNECTED", sys.System.Event)
	}
	if sys.System.Timestamp != "2026-01-01T12:00:00Z" {
		t.Errorf("timestamp: got %q", sys.System.Timestamp)
	}
	if link.sent[1].topic != Topic || link.sent[2].topic != Topic {
		t.Error("replayed messages should follow in order")
	}
	if p.Buffered() != 0 {
		t.Errorf("buffer should be empty after replay, got %d", p.Buffered())
	}
}

func TestRealPublisherSendError(t *testing.T) {
	p, link := newLinkedPublisher(true)
	link.err = errors.New("broker gone")

	if err := p.Publish(logic.Inspection{}); err == nil {
		t.Error("expected error")
	}
	if err := p.PublishSystem(SystemEvent{Event: "HEARTBEAT"}); err == nil {
		t.Error("expected error")
	}
}

func TestRealPublisherCloseWithoutClient(t *testing.T) {
	p, _ := newLinkedPublisher(true)
	if err := p.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
