package app

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/inertial_tracker/internal/config"
	"github.com/relabs-tech/inertial_tracker/internal/reckon"
)

// RunConsole subscribes to the estimate topic and prints a live
// readout. Commands typed on stdin (start/stop/reset/calibrate) are
// forwarded to the command topic.
func RunConsole() error {
	cfg := config.Get()

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDConsole)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("console: connected to MQTT broker at %s", cfg.MQTTBroker)

	token := client.Subscribe(cfg.TopicEstimate, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var snap reckon.Snapshot
		if err := json.Unmarshal(msg.Payload(), &snap); err != nil {
			log.Printf("console: estimate unmarshal error: %v", err)
			return
		}

		fmt.Printf(
			"[EST ] %-8s  x=%7.3f y=%7.3f  v=(%6.3f, %6.3f)  hdg=%6.3f  dist=%7.3fm  pts=%d\n",
			snap.State, snap.X, snap.Y, snap.VX, snap.VY, snap.Heading, snap.Distance, len(snap.Path),
		)
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	log.Printf("console: subscribed to %s", cfg.TopicEstimate)
	fmt.Println("commands: start | stop | reset | calibrate")

	// Forward operator commands typed on stdin.
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			action := strings.TrimSpace(strings.ToLower(scanner.Text()))
			if action == "" {
				continue
			}
			switch action {
			case "start", "stop", "reset", "calibrate":
				payload, err := json.Marshal(commandRequest{Action: action})
				if err != nil {
					log.Printf("console: command marshal error: %v", err)
					continue
				}
				if token := client.Publish(cfg.TopicCommand, 0, false, payload); token.Wait() && token.Error() != nil {
					log.Printf("console: command publish error: %v", token.Error())
					continue
				}
				log.Printf("console: sent %q", action)
			default:
				fmt.Println("commands: start | stop | reset | calibrate")
			}
		}
	}()

	// Wait for Ctrl+C
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("console: shutting down")
	client.Disconnect(250)
	return nil
}
