package mqtt

import (
	"fmt"
	"log"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

// backlogCapacity bounds the offline replay queue. A full day of back-to-back
// 100-second measurements is under a thousand messages.
const backlogCapacity = 256

// RealPublisher publishes to an actual MQTT broker. While the broker is
// unreachable, messages are held in a bounded backlog and replayed on
// reconnect — a measurement result is not lost just because the lab network
// flapped during the run.
type RealPublisher struct {
	client  paho.Client
	pending *backlog
}

// NewRealPublisher creates a publisher for the given broker. The connection
// is established in the background with automatic retry, so the rig starts
// measuring even if the broker is down.
func NewRealPublisher(broker string) *RealPublisher {
	p := &RealPublisher{pending: newBacklog(backlogCapacity)}

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID("flow-rig").
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetOnConnectHandler(func(paho.Client) {
			p.replay()
		})

	p.client = paho.NewClient(opts)
	p.client.Connect()
	return p
}

// replay flushes the backlog after a (re)connect.
func (p *RealPublisher) replay() {
	msgs := p.pending.drain()
	if len(msgs) == 0 {
		return
	}
	log.Printf("mqtt: connected, replaying %d buffered messages", len(msgs))
	for _, m := range msgs {
		token := p.client.Publish(m.topic, m.qos, m.retained, m.payload)
		if !token.WaitTimeout(5*time.Second) || token.Error() != nil {
			// Connection dropped again mid-replay; requeue and give up.
			p.pending.add(m)
		}
	}
}

// publish sends one message, buffering it if the broker is unreachable.
func (p *RealPublisher) publish(topic string, qos byte, retained bool, payload []byte) error {
	if !p.client.IsConnected() {
		p.pending.add(outMsg{topic: topic, payload: payload, qos: qos, retained: retained})
		return nil
	}

	token := p.client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

// PublishMeasurement sends a measurement result.
func (p *RealPublisher) PublishMeasurement(m Measurement) error {
	payload, err := FormatMeasurementPayload(m)
	if err != nil {
		return fmt.Errorf("format measurement payload: %w", err)
	}

	// QoS 1 (at-least-once) — a measurement result is the rig's whole output.
	return p.publish(TopicMeasurements, 1, false, payload)
}

// PublishSystem sends a system lifecycle event.
func (p *RealPublisher) PublishSystem(event SystemEvent) error {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}

	return p.publish(TopicSystem, 1, event.Retained, payload)
}

// IsConnected reports whether the broker connection is up.
func (p *RealPublisher) IsConnected() bool {
	return p.client.IsConnected()
}

// Close disconnects from the broker.
func (p *RealPublisher) Close() error {
	if n := p.pending.size(); n > 0 {
		log.Printf("mqtt: discarding %d unsent messages on close", n)
	}
	p.client.Disconnect(1000) // 1 second timeout
	return nil
}
