package sensorfeed

import (
	"encoding/json"
	"log"
	"strconv"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/inertial_tracker/internal/imu"
)

// MQTTFeed subscribes to accelerometer and gyroscope sample topics and
// dispatches decoded samples. The producer tags samples at read time; a
// payload without a timestamp is tagged on arrival instead.
type MQTTFeed struct {
	client    mqtt.Client
	d         *dispatcher
	rateTopic string
}

// NewMQTTFeed connects to the broker and subscribes both sample topics.
func NewMQTTFeed(broker, clientID, accelTopic, gyroTopic, rateTopic string) (*MQTTFeed, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	log.Printf("feed: connected to MQTT broker at %s", broker)

	f := &MQTTFeed{client: client, d: newDispatcher(), rateTopic: rateTopic}

	subscribe := func(topic string, k Kind) error {
		token := client.Subscribe(topic, 0, func(_ mqtt.Client, msg mqtt.Message) {
			var s imu.Sample
			if err := json.Unmarshal(msg.Payload(), &s); err != nil {
				log.Printf("feed: %s unmarshal error: %v", topic, err)
				return
			}
			if s.T.IsZero() {
				s.T = time.Now()
			}
			f.d.dispatch(k, s)
		})
		token.Wait()
		return token.Error()
	}

	if err := subscribe(accelTopic, KindAccel); err != nil {
		client.Disconnect(250)
		return nil, err
	}
	if err := subscribe(gyroTopic, KindGyro); err != nil {
		client.Disconnect(250)
		return nil, err
	}
	log.Printf("feed: subscribed to %s and %s", accelTopic, gyroTopic)

	return f, nil
}

// SetUpdateInterval publishes the requested sampling period in
// milliseconds, retained, so producers pick it up even after a restart.
func (f *MQTTFeed) SetUpdateInterval(d time.Duration) error {
	payload := strconv.Itoa(int(d.Milliseconds()))
	token := f.client.Publish(f.rateTopic, 0, true, payload)
	token.Wait()
	return token.Error()
}

// AddListener attaches a listener for one sensor kind.
func (f *MQTTFeed) AddListener(k Kind, fn Listener) Handle {
	return f.d.add(k, fn)
}

// Remove detaches a listener.
func (f *MQTTFeed) Remove(h Handle) {
	f.d.remove(h)
}

// Close disconnects from the broker.
func (f *MQTTFeed) Close() error {
	f.client.Disconnect(250)
	return nil
}
