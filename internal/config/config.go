package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
)

// Config holds all application configuration values.
type Config struct {
	// MQTT
	MQTTBroker           string
	MQTTClientIDTracker  string
	MQTTClientIDProducer string
	MQTTClientIDConsole  string
	MQTTClientIDDisplay  string

	// Topics
	TopicAccel      string
	TopicGyro       string
	TopicRate       string
	TopicEstimate   string
	TopicCommand    string
	TopicVisionPose string

	// Sensor feed
	// FeedSource selects where the tracker reads samples from:
	// "sim", "serial", or "mqtt".
	FeedSource string
	// ProducerSource selects what the producer binary reads:
	// "sim" or "serial".
	ProducerSource string
	SerialPort     string
	SerialBaudRate int
	SimProfilePath string

	// Timing
	SensorInterval  int // milliseconds
	PublishInterval int // milliseconds

	// Web Server
	WebServerPort int

	// Vision pose collaborator: "off", "mock", or "mqtt".
	VisionSource       string
	VisionPollInterval int // milliseconds

	// Display
	DisplayUpdateInterval int // milliseconds
}

// Package-level unexported variables for singleton pattern:
//   - globalConfig: unexported so other packages cannot access it directly.
//   - configOnce: ensures InitGlobal() only runs once, even if called multiple times.
//   - configMu: RWMutex protects concurrent access. Write lock for initialization,
//     read lock for Get() allows multiple concurrent readers.
//
// External code must use InitGlobal() to set and Get() to read.
var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Load reads the configuration file and returns a Config struct.
func Load(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	cfg := &Config{}
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=VALUE
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid config line %d: %q", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if err := cfg.setValue(key, value); err != nil {
			return nil, fmt.Errorf("config line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	switch key {
	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID_TRACKER":
		c.MQTTClientIDTracker = value
	case "MQTT_CLIENT_ID_PRODUCER":
		c.MQTTClientIDProducer = value
	case "MQTT_CLIENT_ID_CONSOLE":
		c.MQTTClientIDConsole = value
	case "MQTT_CLIENT_ID_DISPLAY":
		c.MQTTClientIDDisplay = value

	// Topics
	case "TOPIC_ACCEL":
		c.TopicAccel = value
	case "TOPIC_GYRO":
		c.TopicGyro = value
	case "TOPIC_RATE":
		c.TopicRate = value
	case "TOPIC_ESTIMATE":
		c.TopicEstimate = value
	case "TOPIC_COMMAND":
		c.TopicCommand = value
	case "TOPIC_VISION_POSE":
		c.TopicVisionPose = value

	// Sensor feed
	case "FEED_SOURCE":
		c.FeedSource = value
	case "PRODUCER_SOURCE":
		c.ProducerSource = value
	case "SERIAL_PORT":
		c.SerialPort = value
	case "SERIAL_BAUD_RATE":
		rate, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid SERIAL_BAUD_RATE %q: %w", value, err)
		}
		c.SerialBaudRate = rate
	case "SIM_PROFILE_PATH":
		c.SimProfilePath = value

	// Timing
	case "SENSOR_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid SENSOR_INTERVAL %q: %w", value, err)
		}
		c.SensorInterval = interval
	case "PUBLISH_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid PUBLISH_INTERVAL %q: %w", value, err)
		}
		c.PublishInterval = interval

	// Web Server
	case "WEB_SERVER_PORT":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid WEB_SERVER_PORT %q: %w", value, err)
		}
		c.WebServerPort = port

	// Vision
	case "VISION_SOURCE":
		c.VisionSource = value
	case "VISION_POLL_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid VISION_POLL_INTERVAL %q: %w", value, err)
		}
		c.VisionPollInterval = interval

	// Display
	case "DISPLAY_UPDATE_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid DISPLAY_UPDATE_INTERVAL %q: %w", value, err)
		}
		c.DisplayUpdateInterval = interval

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return nil
}

// applyDefaults fills optional fields so a minimal config file works.
func (c *Config) applyDefaults() {
	def := func(field *string, value string) {
		if *field == "" {
			*field = value
		}
	}
	def(&c.MQTTClientIDTracker, "inertial-tracker")
	def(&c.MQTTClientIDProducer, "inertial-tracker-producer")
	def(&c.MQTTClientIDConsole, "inertial-tracker-console")
	def(&c.MQTTClientIDDisplay, "inertial-tracker-display")

	def(&c.TopicAccel, "tracker/imu/accel")
	def(&c.TopicGyro, "tracker/imu/gyro")
	def(&c.TopicRate, "tracker/imu/rate")
	def(&c.TopicEstimate, "tracker/estimate")
	def(&c.TopicCommand, "tracker/command")
	def(&c.TopicVisionPose, "tracker/vision/pose")

	def(&c.FeedSource, "sim")
	def(&c.ProducerSource, "sim")
	def(&c.VisionSource, "off")

	if c.PublishInterval == 0 {
		c.PublishInterval = 200
	}
	if c.VisionPollInterval == 0 {
		c.VisionPollInterval = 500
	}
	if c.DisplayUpdateInterval == 0 {
		c.DisplayUpdateInterval = 500
	}
}

// validate checks that all required fields are set and consistent.
func (c *Config) validate() error {
	if c.MQTTBroker == "" {
		return fmt.Errorf("MQTT_BROKER is required")
	}
	if c.SensorInterval == 0 {
		return fmt.Errorf("SENSOR_INTERVAL is required")
	}
	if c.WebServerPort == 0 {
		return fmt.Errorf("WEB_SERVER_PORT is required")
	}

	// Intervals drive time.Ticker periods, which panic on non-positive
	// durations.
	if c.SensorInterval < 0 {
		return fmt.Errorf("SENSOR_INTERVAL must be positive, got %d", c.SensorInterval)
	}
	if c.PublishInterval < 0 {
		return fmt.Errorf("PUBLISH_INTERVAL must be positive, got %d", c.PublishInterval)
	}
	if c.VisionPollInterval < 0 {
		return fmt.Errorf("VISION_POLL_INTERVAL must be positive, got %d", c.VisionPollInterval)
	}
	if c.DisplayUpdateInterval < 0 {
		return fmt.Errorf("DISPLAY_UPDATE_INTERVAL must be positive, got %d", c.DisplayUpdateInterval)
	}

	switch c.FeedSource {
	case "sim", "serial", "mqtt":
	default:
		return fmt.Errorf("FEED_SOURCE must be sim, serial, or mqtt, got %q", c.FeedSource)
	}
	switch c.ProducerSource {
	case "sim", "serial":
	default:
		return fmt.Errorf("PRODUCER_SOURCE must be sim or serial, got %q", c.ProducerSource)
	}
	if c.FeedSource == "serial" || c.ProducerSource == "serial" {
		if c.SerialPort == "" {
			return fmt.Errorf("SERIAL_PORT is required for serial sources")
		}
		if c.SerialBaudRate == 0 {
			return fmt.Errorf("SERIAL_BAUD_RATE is required for serial sources")
		}
	}

	switch c.VisionSource {
	case "off", "mock", "mqtt":
	default:
		return fmt.Errorf("VISION_SOURCE must be off, mock, or mqtt, got %q", c.VisionSource)
	}

	return nil
}

// InitGlobal initializes the global configuration from file.
// Uses sync.Once to ensure this only runs once, even if called multiple times.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance.
// InitGlobal must be called first, or this will return nil.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
