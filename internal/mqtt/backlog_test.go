package mqtt

import (
	"fmt"
	"testing"
)

func TestBacklogFIFO(t *testing.T) {
	b := newBacklog(8)

	for i := 0; i < 3; i++ {
		b.add(outMsg{topic: fmt.Sprintf("t%d", i)})
	}
	if b.size() != 3 {
		t.Fatalf("size: got %d, want 3", b.size())
	}

	msgs := b.drain()
	if len(msgs) != 3 {
		t.Fatalf("drained %d messages, want 3", len(msgs))
	}
	for i, m := range msgs {
		if want := fmt.Sprintf("t%d", i); m.topic != want {
			t.Errorf("message %d: topic %q, want %q", i, m.topic, want)
		}
	}

	if b.size() != 0 {
		t.Errorf("size after drain: got %d, want 0", b.size())
	}
}

func TestBacklogDropsOldestWhenFull(t *testing.T) {
	b := newBacklog(4)

	for i := 0; i < 6; i++ {
		b.add(outMsg{topic: fmt.Sprintf("t%d", i)})
	}

	msgs := b.drain()
	if len(msgs) != 4 {
		t.Fatalf("drained %d messages, want 4", len(msgs))
	}
	// t0 and t1 were dropped.
	for i, m := range msgs {
		if want := fmt.Sprintf("t%d", i+2); m.topic != want {
			t.Errorf("message %d: topic %q, want %q", i, m.topic, want)
		}
	}
}

func TestBacklogDrainEmpty(t *testing.T) {
	b := newBacklog(4)
	if msgs := b.drain(); msgs != nil {
		t.Errorf("drain of empty backlog: got %v, want nil", msgs)
	}
}

func TestBacklogPreservesMessageFields(t *testing.T) {
	b := newBacklog(4)
	b.add(outMsg{topic: "t", payload: []byte("p"), qos: 1, retained: true})

	m := b.drain()[0]
	if m.topic != "t" || string(m.payload) != "p" || m.qos != 1 || !m.retained {
		t.Errorf("message fields lost: %+v", m)
	}
}
