package mailer

import (
	"errors"
	"sort"
	"sync"
	"testing"

	"backend/internal/config"
)

// newCapturingMailer wires the worker to an in-memory sink instead of
// SMTP. sendErr fails each message n times before succeeding.
func newCapturingMailer(failures int) (*Mailer, *capture) {
	sink := &capture{remainingFailures: failures}
	m := &Mailer{
		cfg:   config.Config{AdminEmail: "admin@kashit.com"},
		queue: make(chan Message, 256),
	}
	m.send = sink.send
	m.wg.Add(1)
	go m.run()
	return m, sink
}

type capture struct {
	mu                sync.Mutex
	sent              []Message
	attempts          int
	remainingFailures int
}

func (c *capture) send(msg Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.attempts++
	if c.remainingFailures > 0 {
		c.remainingFailures--
		return errors.New("smtp down")
	}
	c.sent = append(c.sent, msg)
	return nil
}

func TestWorkerRetriesOnce(t *testing.T) {
	m, sink := newCapturingMailer(1)
	m.Enqueue(Message{To: "user@example.com", Subject: "s", Body: "b"})
	m.Close()

	if sink.attempts != 2 {
		t.Fatalf("attempts = %d, want 2 (one failure, one retry)", sink.attempts)
	}
	if len(sink.sent) != 1 {
		t.Fatalf("delivered = %d, want 1", len(sink.sent))
	}
}

func TestWorkerGivesUpAfterRetry(t *testing.T) {
	m, sink := newCapturingMailer(2)
	m.Enqueue(Message{To: "user@example.com", Subject: "s", Body: "b"})
	m.Close()

	if sink.attempts != 2 {
		t.Fatalf("attempts = %d, want exactly 2", sink.attempts)
	}
	if len(sink.sent) != 0 {
		t.Fatalf("delivered = %d, want 0 after permanent failure", len(sink.sent))
	}
}

func TestEnqueueSkipsEmptyRecipient(t *testing.T) {
	m, sink := newCapturingMailer(0)
	m.Enqueue(Message{To: "  ", Subject: "s", Body: "b"})
	m.Close()

	if len(sink.sent) != 0 {
		t.Fatalf("delivered = %d, want 0 for blank recipient", len(sink.sent))
	}
}

func TestOrderNotificationsFanOutToDistinctVendors(t *testing.T) {
	m, sink := newCapturingMailer(0)

	m.SendOrderNotifications(7, "buyer@example.com", 1000, 900, []OrderLine{
		{ProductName: "Almonds", Quantity: 2, Price: 400, VendorEmail: "v1@example.com"},
		{ProductName: "Walnuts", Quantity: 1, Price: 200, VendorEmail: "v1@example.com"},
		{ProductName: "Saffron", Quantity: 1, Price: 400, VendorEmail: "v2@example.com"},
		{ProductName: "House Brand", Quantity: 1, Price: 100},
	})
	m.Close()

	recipients := make([]string, 0, len(sink.sent))
	for _, msg := range sink.sent {
		recipients = append(recipients, msg.To)
	}
	sort.Strings(recipients)

	want := []string{"admin@kashit.com", "v1@example.com", "v2@example.com"}
	if len(recipients) != len(want) {
		t.Fatalf("recipients = %v, want one mail per distinct vendor plus admin", recipients)
	}
	for i := range want {
		if recipients[i] != want[i] {
			t.Fatalf("recipients = %v, want %v", recipients, want)
		}
	}
}
