package app

import (
	"fmt"

	"github.com/relabs-tech/inertial_tracker/internal/reckon"
)

// commandRequest is the operator command envelope shared by the HTTP,
// WebSocket, and MQTT control surfaces.
type commandRequest struct {
	Action string `json:"action"` // start, stop, reset, calibrate
}

func applyCommand(tr *reckon.Tracker, action string) error {
	switch action {
	case "start":
		tr.Start()
	case "stop":
		tr.Stop()
	case "reset":
		tr.Reset()
	case "calibrate":
		tr.Calibrate()
	default:
		return fmt.Errorf("unknown command %q", action)
	}
	return nil
}
