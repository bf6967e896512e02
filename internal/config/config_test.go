package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tracker_config.txt")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

const minimalConfig = `# minimal tracker config
MQTT_BROKER=tcp://localhost:1883
SENSOR_INTERVAL=50
WEB_SERVER_PORT=8080
`

func TestLoadMinimalConfigAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.MQTTBroker != "tcp://localhost:1883" {
		t.Errorf("MQTTBroker = %q", cfg.MQTTBroker)
	}
	if cfg.SensorInterval != 50 {
		t.Errorf("SensorInterval = %d, want 50", cfg.SensorInterval)
	}
	if cfg.FeedSource != "sim" {
		t.Errorf("FeedSource default = %q, want sim", cfg.FeedSource)
	}
	if cfg.TopicAccel != "tracker/imu/accel" {
		t.Errorf("TopicAccel default = %q", cfg.TopicAccel)
	}
	if cfg.PublishInterval != 200 {
		t.Errorf("PublishInterval default = %d, want 200", cfg.PublishInterval)
	}
	if cfg.VisionSource != "off" {
		t.Errorf("VisionSource default = %q, want off", cfg.VisionSource)
	}
	if cfg.DisplayUpdateInterval != 500 {
		t.Errorf("DisplayUpdateInterval default = %d, want 500", cfg.DisplayUpdateInterval)
	}
}

func TestLoadFullConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
MQTT_BROKER=tcp://broker:1883
MQTT_CLIENT_ID_TRACKER=trk
TOPIC_ACCEL=custom/accel
TOPIC_GYRO=custom/gyro
FEED_SOURCE=serial
PRODUCER_SOURCE=serial
SERIAL_PORT=/dev/ttyUSB0
SERIAL_BAUD_RATE=115200
SENSOR_INTERVAL=20
PUBLISH_INTERVAL=100
WEB_SERVER_PORT=9090
VISION_SOURCE=mock
VISION_POLL_INTERVAL=250
DISPLAY_UPDATE_INTERVAL=300
`))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.FeedSource != "serial" || cfg.SerialPort != "/dev/ttyUSB0" || cfg.SerialBaudRate != 115200 {
		t.Errorf("serial config = %q %q %d", cfg.FeedSource, cfg.SerialPort, cfg.SerialBaudRate)
	}
	if cfg.DisplayUpdateInterval != 300 {
		t.Errorf("DisplayUpdateInterval = %d, want 300", cfg.DisplayUpdateInterval)
	}
	if cfg.VisionSource != "mock" || cfg.VisionPollInterval != 250 {
		t.Errorf("vision config = %q %d", cfg.VisionSource, cfg.VisionPollInterval)
	}
}

func TestLoadRejectsUnknownKey(t *testing.T) {
	_, err := Load(writeConfig(t, minimalConfig+"NO_SUCH_KEY=1\n"))
	if err == nil || !strings.Contains(err.Error(), "unknown config key") {
		t.Errorf("Load() error = %v, want unknown key error", err)
	}
}

func TestLoadRejectsMalformedLine(t *testing.T) {
	_, err := Load(writeConfig(t, "MQTT_BROKER tcp://localhost:1883\n"))
	if err == nil {
		t.Error("Load() succeeded on malformed line, want error")
	}
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"missing broker", "SENSOR_INTERVAL=50\nWEB_SERVER_PORT=8080\n", "MQTT_BROKER"},
		{"missing interval", "MQTT_BROKER=tcp://x:1883\nWEB_SERVER_PORT=8080\n", "SENSOR_INTERVAL"},
		{"missing web port", "MQTT_BROKER=tcp://x:1883\nSENSOR_INTERVAL=50\n", "WEB_SERVER_PORT"},
		{"bad feed source", minimalConfig + "FEED_SOURCE=carrier-pigeon\n", "FEED_SOURCE"},
		{"bad vision source", minimalConfig + "VISION_SOURCE=lidar\n", "VISION_SOURCE"},
		{"serial without port", minimalConfig + "FEED_SOURCE=serial\n", "SERIAL_PORT"},
		{"serial without baud", minimalConfig + "FEED_SOURCE=serial\nSERIAL_PORT=/dev/ttyS0\n", "SERIAL_BAUD_RATE"},
		{"negative sensor interval", "MQTT_BROKER=tcp://x:1883\nSENSOR_INTERVAL=-50\nWEB_SERVER_PORT=8080\n", "SENSOR_INTERVAL"},
		{"negative publish interval", minimalConfig + "PUBLISH_INTERVAL=-1\n", "PUBLISH_INTERVAL"},
		{"negative vision poll interval", minimalConfig + "VISION_POLL_INTERVAL=-250\n", "VISION_POLL_INTERVAL"},
		{"negative display interval", minimalConfig + "DISPLAY_UPDATE_INTERVAL=-300\n", "DISPLAY_UPDATE_INTERVAL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %v, want mention of %s", err, tt.wantErr)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Error("Load() succeeded on missing file, want error")
	}
}
