// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text


package app

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/inertial_tracker/internal/config"
	"github.com/relabs-tech/inertial_tracker/internal/motion"
	"github.com/relabs-tech/inertial_tracker/internal/reckon"
	"github.com/relabs-tech/inertial_tracker/internal/sensorfeed"
	"github.com/relabs-tech/inertial_tracker/internal/vipose"
)

// RunTracker runs the estimator daemon: sensor feed in, dead-reckoning
// estimate out over MQTT and HTTP, with the optional vision trajectory
// polled next to it.
func RunTracker() error {
	cfg := config.Get()

	tracker := reckon.NewTracker(reckon.DefaultConfig())

	feed, err := buildFeed(cfg)
	if err != nil {
		return fmt.Errorf("build sensor feed: %w", err)
	}

	accelHandle := feed.AddListener(sensorfeed.KindAccel, tracker.OnAccel)
	gyroHandle := feed.AddListener(sensorfeed.KindGyro, tracker.OnGyro)
	if err := feed.SetUpdateInterval(time.Duration(cfg.SensorInterval) * time.Millisecond); err != nil {
		log.Printf("tracker: set update interval: %v", err)
	}

	// Estimate fan-out and command fan-in share one client.
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDTracker)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("tracker: connected to MQTT broker at %s", cfg.MQTTBroker)

	token := client.Subscribe(cfg.TopicCommand, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var cmd commandRequest
		if err := json.Unmarshal(msg.Payload(), &cmd); err != nil {
			log.Printf("tracker: command unmarshal error: %v", err)
			return
		}
		if err := applyCommand(tracker, cmd.Action); err != nil {
			log.Printf("tracker: %v", err)
			return
		}
		log.Printf("tracker: applied command %q", cmd.Action)
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	log.Printf("tracker: subscribed to %s", cfg.TopicCommand)

	vision := &vipose.Track{}
	stop := make(chan struct{})

	visionSrc, err := buildVisionSource(cfg, client)
	if err != nil {
		return fmt.Errorf("build vision source: %w", err)
	}
	if visionSrc != nil {
		go pollVision(visionSrc, vision, time.Duration(cfg.VisionPollInterval)*time.Millisecond, stop)
	}

	go publishEstimates(client, cfg.TopicEstimate, tracker, time.Duration(cfg.PublishInterval)*time.Millisecond, stop)

	ws := newWebServer(tracker, vision, time.Duration(cfg.PublishInterval)*time.Millisecond)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.WebServerPort),
		Handler: ws.routes(),
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("tracker: web server: %v", err)
		}
	}()
	log.Printf("tracker: web server listening on :%d", cfg.WebServerPort)

	// Wait for Ctrl+C
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("tracker: shutting down")
	close(stop)
	feed.Remove(accelHandle)
	feed.Remove(gyroHandle)
	if err := feed.Close(); err != nil {
		log.Printf("tracker: feed close: %v", err)
	}
	server.Close()
	client.Disconnect(250)
	return nil
}

// buildFeed selects the sensor feed per configuration.
func buildFeed(cfg *config.Config) (sensorfeed.Feed, error) {
	switch cfg.FeedSource {
	case "sim":
		profile, err := loadProfile(cfg)
		if err != nil {
			return nil, err
		}
		log.Println("tracker: using simulated sensor feed")
		return sensorfeed.NewSimFeed(profile), nil
	case "serial":
		return sensorfeed.NewSerialFeed(cfg.SerialPort, uint(cfg.SerialBaudRate))
	case "mqtt":
		return sensorfeed.NewMQTTFeed(cfg.MQTTBroker, cfg.MQTTClientIDTracker+"-feed",
			cfg.TopicAccel, cfg.TopicGyro, cfg.TopicRate)
	}
	return nil, fmt.Errorf("unknown feed source %q", cfg.FeedSource)
}

func loadProfile(cfg *config.Config) (motion.Profile, error) {
	if cfg.SimProfilePath == "" {
		return motion.DefaultProfile(), nil
	}
	return motion.LoadProfile(cfg.SimProfilePath)
}

func buildVisionSource(cfg *config.Config, client mqtt.Client) (vipose.Source, error) {
	switch cfg.VisionSource {
	case "off":
		return nil, nil
	case "mock":
		log.Println("tracker: using mock vision pose source")
		return vipose.NewMockSource(), nil
	case "mqtt":
		return vipose.NewMQTTSource(client, cfg.TopicVisionPose)
	}
	return nil, fmt.Errorf("unknown vision source %q", cfg.VisionSource)
}

// pollVision samples the external pose source on its own ticker. A poll
// error is ignored: the previous pose stands and the vision trajectory
// simply does not grow that tick.
func pollVision(src vipose.Source, track *vipose.Track, interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			pose, err := src.Next()
			if err != nil {
				continue
			}
			track.Observe(pose)
		}
	}
}

// publishEstimates republishes the session snapshot at a fixed
// interval, retained so late subscribers get the current state.
func publishEstimates(client mqtt.Client, topic string, tracker *reckon.Tracker, interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			payload, err := json.Marshal(tracker.Snapshot())
			if err != nil {
				log.Printf("tracker: estimate marshal error: %v", err)
				continue
			}
			if token := client.Publish(topic, 0, true, payload); token.Wait() && token.Error() != nil {
				log.Printf("tracker: estimate publish error: %v", token.Error())
			}
		}
	}
}
