package vipose

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// MQTTSource caches the last pose published by the external pipeline on
// an MQTT topic, last-write-wins. Next fails until the first message
// arrives.
type MQTTSource struct {
	mu   sync.Mutex
	last Pose
	have bool
}

// NewMQTTSource subscribes to the pose topic on an existing client.
func NewMQTTSource(client mqtt.Client, topic string) (*MQTTSource, error) {
	s := &MQTTSource{}
	token := client.Subscribe(topic, 0, func(_ mqtt.Client, msg mqtt.Message) {
		s.onMessage(msg.Payload())
	})
	token.Wait()
	if token.Error() != nil {
		return nil, token.Error()
	}
	log.Printf("vipose: subscribed to %s", topic)
	return s, nil
}

func (s *MQTTSource) onMessage(payload []byte) {
	var p Pose
	if err := json.Unmarshal(payload, &p); err != nil {
		log.Printf("vipose: pose unmarshal error: %v", err)
		return
	}
	s.mu.Lock()
	s.last = p
	s.have = true
	s.mu.Unlock()
}

// Next returns the latest cached pose.
func (s *MQTTSource) Next() (Pose, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.have {
		return Pose{}, fmt.Errorf("no pose received yet")
	}
	return s.last, nil
}
