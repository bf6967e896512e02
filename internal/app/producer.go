package app

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/inertial_tracker/internal/config"
	"github.com/relabs-tech/inertial_tracker/internal/imu"
	"github.com/relabs-tech/inertial_tracker/internal/sensorfeed"
)

// RunIMUProducer reads samples from a serial IMU or the simulator and
// publishes them to the accel/gyro topics. The retained rate topic is
// honored so consumers can request the update interval.
func RunIMUProducer() error {
	cfg := config.Get()

	var feed sensorfeed.Feed
	switch cfg.ProducerSource {
	case "sim":
		profile, err := loadProfile(cfg)
		if err != nil {
			return err
		}
		log.Println("producer: using simulated IMU")
		feed = sensorfeed.NewSimFeed(profile)
	case "serial":
		var err error
		feed, err = sensorfeed.NewSerialFeed(cfg.SerialPort, uint(cfg.SerialBaudRate))
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown producer source %q", cfg.ProducerSource)
	}
	defer feed.Close()

	if err := feed.SetUpdateInterval(time.Duration(cfg.SensorInterval) * time.Millisecond); err != nil {
		log.Printf("producer: set update interval: %v", err)
	}

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDProducer)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	defer client.Disconnect(250)
	log.Printf("producer: connected to MQTT broker at %s", cfg.MQTTBroker)

	publish := func(topic string) sensorfeed.Listener {
		return func(s imu.Sample) {
			payload, err := json.Marshal(s)
			if err != nil {
				log.Printf("producer: sample marshal error: %v", err)
				return
			}
			if token := client.Publish(topic, 0, true, payload); token.Wait() && token.Error() != nil {
				log.Printf("producer: publish error (%s): %v", topic, token.Error())
			}
		}
	}

	accelHandle := feed.AddListener(sensorfeed.KindAccel, publish(cfg.TopicAccel))
	gyroHandle := feed.AddListener(sensorfeed.KindGyro, publish(cfg.TopicGyro))

	// Consumers request the sampling period on the retained rate topic.
	token := client.Subscribe(cfg.TopicRate, 0, func(_ mqtt.Client, msg mqtt.Message) {
		ms, err := strconv.Atoi(string(msg.Payload()))
		if err != nil || ms <= 0 {
			log.Printf("producer: bad rate request %q", msg.Payload())
			return
		}
		if err := feed.SetUpdateInterval(time.Duration(ms) * time.Millisecond); err != nil {
			log.Printf("producer: set update interval: %v", err)
			return
		}
		log.Printf("producer: update interval set to %dms", ms)
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	log.Printf("producer: publishing to %s and %s", cfg.TopicAccel, cfg.TopicGyro)

	// Wait for Ctrl+C
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("producer: shutting down")
	feed.Remove(accelHandle)
	feed.Remove(gyroHandle)
	return nil
}
