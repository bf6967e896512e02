package sensorfeed

import (
	"math"
	"strings"
	"testing"

	"github.com/relabs-tech/inertial_tracker/internal/imu"
)

func TestParseSentenceFixtures(t *testing.T) {
	tests := []struct {
		line    string
		kind    Kind
		x, y, z float64
	}{
		{"$PIMACC,1.000000,-2.000000,9.810000*09", KindAccel, 1, -2, 9.81},
		{"$PIMACC,0.200000,-0.100000,9.800000*08", KindAccel, 0.2, -0.1, 9.8},
		{"$PIMGYR,0.000000,0.000000,0.500000*2F", KindGyro, 0, 0, 0.5},
	}

	for _, tt := range tests {
		kind, s, ok := ParseSentence(tt.line)
		if !ok {
			t.Errorf("ParseSentence(%q) not ok", tt.line)
			continue
		}
		if kind != tt.kind {
			t.Errorf("ParseSentence(%q) kind = %v, want %v", tt.line, kind, tt.kind)
		}
		if math.Abs(s.X-tt.x) > 1e-9 || math.Abs(s.Y-tt.y) > 1e-9 || math.Abs(s.Z-tt.z) > 1e-9 {
			t.Errorf("ParseSentence(%q) = (%v, %v, %v), want (%v, %v, %v)",
				tt.line, s.X, s.Y, s.Z, tt.x, tt.y, tt.z)
		}
	}
}

func TestParseSentenceRejectsGarbage(t *testing.T) {
	lines := []string{
		"",
		"not a sentence",
		"$PIMACC,1.0,2.0,3.0*FF",  // bad checksum
		"$GPRMC,081836,A,3751.65,S,14507.36,E,000.0,360.0,130998,011.3,E*62", // wrong type
	}
	for _, line := range lines {
		if _, _, ok := ParseSentence(line); ok {
			t.Errorf("ParseSentence(%q) ok, want rejected", line)
		}
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	samples := []struct {
		kind Kind
		s    imu.Sample
	}{
		{KindAccel, imu.Sample{X: 0.123456, Y: -9.81, Z: 3.5}},
		{KindGyro, imu.Sample{X: 0, Y: 0, Z: -2.718281}},
	}

	for _, tt := range samples {
		line := FormatSample(tt.kind, tt.s)
		if !strings.HasSuffix(line, "\r\n") {
			t.Errorf("FormatSample(%v) = %q, want CRLF terminator", tt.kind, line)
		}

		kind, got, ok := ParseSentence(strings.TrimSpace(line))
		if !ok {
			t.Fatalf("round trip failed for %q", line)
		}
		if kind != tt.kind {
			t.Errorf("round trip kind = %v, want %v", kind, tt.kind)
		}
		if math.Abs(got.X-tt.s.X) > 1e-6 || math.Abs(got.Y-tt.s.Y) > 1e-6 || math.Abs(got.Z-tt.s.Z) > 1e-6 {
			t.Errorf("round trip = (%v, %v, %v), want (%v, %v, %v)",
				got.X, got.Y, got.Z, tt.s.X, tt.s.Y, tt.s.Z)
		}
	}
}

func TestFormatRate(t *testing.T) {
	got := FormatRate(50)
	want := "$PIMRAT,50*3A\r\n"
	if got != want {
		t.Errorf("FormatRate(50) = %q, want %q", got, want)
	}
}
