package mqtt

import (
	"log"
	"sync"
)

// outMsg is a serialized MQTT message held for replay after reconnection.
type outMsg struct {
	topic    string
	payload  []byte
	qos      byte
	retained bool
}

// backlog is a bounded FIFO of messages produced while the broker is
// unreachable. When full, the oldest message is dropped. Safe for concurrent
// use: the publish path and paho's connect callback run on different
// goroutines.
type backlog struct {
	mu      sync.Mutex
	max     int
	msgs    []outMsg
	dropped bool // a drop happened since the last drain
}

func newBacklog(max int) *backlog {
	return &backlog{max: max}
}

func (b *backlog) add(m outMsg) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.msgs) == b.max {
		if !b.dropped {
			log.Printf("mqtt: backlog full (%d messages), dropping oldest", b.max)
			b.dropped = true
		}
		copy(b.msgs, b.msgs[1:])
		b.msgs = b.msgs[:len(b.msgs)-1]
	}
	b.msgs = append(b.msgs, m)
}

// drain removes and returns all held messages, oldest first.
func (b *backlog) drain() []outMsg {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := b.msgs
	b.msgs = nil
	b.dropped = false
	return out
}

func (b *backlog) size() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.msgs)
}
