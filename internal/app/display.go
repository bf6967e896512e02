package app

import (
	"encoding/json"
	"fmt"
	"image"
	"log"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/inertial_tracker/internal/config"
	"github.com/relabs-tech/inertial_tracker/internal/reckon"
)

// RunDisplay drives an SSD1306 OLED HUD with the live estimate.
func RunDisplay() error {
	cfg := config.Get()

	// Initialize periph
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("failed to initialize periph: %w", err)
	}

	bus, err := i2creg.Open("")
	if err != nil {
		return fmt.Errorf("failed to open I2C bus: %w", err)
	}
	defer bus.Close()

	dev, err := ssd1306.NewI2C(bus, &ssd1306.DefaultOpts)
	if err != nil {
		return fmt.Errorf("failed to initialize display: %w", err)
	}
	log.Println("display: initialized")

	if err := showSplash(dev); err != nil {
		log.Printf("display: error showing splash: %v", err)
	}

	var (
		mu       sync.RWMutex
		lastSnap reckon.Snapshot
		haveSnap bool
	)

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDDisplay)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	defer client.Disconnect(250)
	log.Printf("display: connected to MQTT broker at %s", cfg.MQTTBroker)

	token := client.Subscribe(cfg.TopicEstimate, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var snap reckon.Snapshot
		if err := json.Unmarshal(msg.Payload(), &snap); err != nil {
			log.Printf("display: estimate unmarshal error: %v", err)
			return
		}
		mu.Lock()
		lastSnap = snap
		haveSnap = true
		mu.Unlock()
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	log.Printf("display: subscribed to %s", cfg.TopicEstimate)

	ticker := time.NewTicker(time.Duration(cfg.DisplayUpdateInterval) * time.Millisecond)
	defer ticker.Stop()

	log.Println("display: starting update loop")

	for range ticker.C {
		mu.RLock()
		snap := lastSnap
		have := haveSnap
		mu.RUnlock()

		if err := updateEstimateDisplay(dev, snap, have); err != nil {
			log.Printf("display: error updating display: %v", err)
		}
	}

	return nil
}

func newDrawer(img *image1bit.VerticalLSB) *font.Drawer {
	return &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{image1bit.On},
		Face: basicfont.Face7x13,
	}
}

func blankImage() *image1bit.VerticalLSB {
	img := image1bit.NewVerticalLSB(image.Rect(0, 0, 128, 64))
	for i := range img.Pix {
		img.Pix[i] = 0
	}
	return img
}

func updateEstimateDisplay(dev *ssd1306.Dev, snap reckon.Snapshot, haveData bool) error {
	return dev.Draw(dev.Bounds(), renderEstimate(snap, haveData), image.Point{})
}

func renderEstimate(snap reckon.Snapshot, haveData bool) *image1bit.VerticalLSB {
	img := blankImage()
	drawer := newDrawer(img)

	if !haveData {
		drawer.Dot = fixed.P(0, 26)
		drawer.DrawBytes([]byte("Tracker"))
		drawer.Dot = fixed.P(0, 39)
		drawer.DrawBytes([]byte("Waiting..."))
	} else {
		drawer.Dot = fixed.P(0, 13)
		drawer.DrawBytes([]byte(fmt.Sprintf("ST %s", snap.State)))

		drawer.Dot = fixed.P(0, 26)
		drawer.DrawBytes([]byte(fmt.Sprintf("X %6.2f Y %6.2f", snap.X, snap.Y)))

		drawer.Dot = fixed.P(0, 39)
		drawer.DrawBytes([]byte(fmt.Sprintf("H %6.2f rad", snap.Heading)))

		drawer.Dot = fixed.P(0, 52)
		drawer.DrawBytes([]byte(fmt.Sprintf("D %7.2f m", snap.Distance)))
	}

	return img
}

func showSplash(dev *ssd1306.Dev) error {
	return dev.Draw(dev.Bounds(), renderSplash(), image.Point{})
}

func renderSplash() *image1bit.VerticalLSB {
	img := blankImage()
	drawer := newDrawer(img)

	drawer.Dot = fixed.P(10, 26)
	drawer.DrawBytes([]byte("Inertial"))

	drawer.Dot = fixed.P(10, 43)
	drawer.DrawBytes([]byte("Tracker"))

	return img
}
