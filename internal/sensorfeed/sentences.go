package sensorfeed

import (
	"fmt"

	nmea "github.com/adrianmo/go-nmea"

	"github.com/relabs-tech/inertial_tracker/internal/imu"
)

// Serial IMUs speak NMEA-style proprietary sentences:
//
//	$PIMACC,<ax>,<ay>,<az>*hh   accelerometer, m/s^2
//	$PIMGYR,<gx>,<gy>,<gz>*hh   gyroscope, rad/s
//	$PIMRAT,<ms>*hh             requested sample interval (host -> device)

const (
	typeAccel = "IMACC"
	typeGyro  = "IMGYR"
)

type accelSentence struct {
	nmea.BaseSentence
	X, Y, Z float64
}

type gyroSentence struct {
	nmea.BaseSentence
	X, Y, Z float64
}

func init() {
	nmea.MustRegisterParser(typeAccel, func(s nmea.BaseSentence) (nmea.Sentence, error) {
		p := nmea.NewParser(s)
		return accelSentence{
			BaseSentence: s,
			X:            p.Float64(0, "ax"),
			Y:            p.Float64(1, "ay"),
			Z:            p.Float64(2, "az"),
		}, p.Err()
	})
	nmea.MustRegisterParser(typeGyro, func(s nmea.BaseSentence) (nmea.Sentence, error) {
		p := nmea.NewParser(s)
		return gyroSentence{
			BaseSentence: s,
			X:            p.Float64(0, "gx"),
			Y:            p.Float64(1, "gy"),
			Z:            p.Float64(2, "gz"),
		}, p.Err()
	})
}

// ParseSentence decodes one sentence into a sample. The sample carries
// no timestamp; the caller tags it on arrival.
func ParseSentence(line string) (Kind, imu.Sample, bool) {
	sentence, err := nmea.Parse(line)
	if err != nil {
		return 0, imu.Sample{}, false
	}
	switch v := sentence.(type) {
	case accelSentence:
		return KindAccel, imu.Sample{X: v.X, Y: v.Y, Z: v.Z}, true
	case gyroSentence:
		return KindGyro, imu.Sample{X: v.X, Y: v.Y, Z: v.Z}, true
	}
	return 0, imu.Sample{}, false
}

// FormatSample renders a sample as a checksummed sentence, terminated
// with CRLF.
func FormatSample(k Kind, s imu.Sample) string {
	typ := typeAccel
	if k == KindGyro {
		typ = typeGyro
	}
	return wrapSentence(fmt.Sprintf("P%s,%.6f,%.6f,%.6f", typ, s.X, s.Y, s.Z))
}

// FormatRate renders the sample-interval request sentence.
func FormatRate(ms int) string {
	return wrapSentence(fmt.Sprintf("PIMRAT,%d", ms))
}

func wrapSentence(body string) string {
	return fmt.Sprintf("$%s*%02X\r\n", body, nmeaChecksum(body))
}

// nmeaChecksum XORs all bytes between '$' and '*'.
func nmeaChecksum(body string) byte {
	var cs byte
	for i := 0; i < len(body); i++ {
		cs ^= body[i]
	}
	return cs
}
