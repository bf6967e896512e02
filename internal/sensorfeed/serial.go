package sensorfeed

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	serial "github.com/jacobsa/go-serial/serial"
)

// SerialFeed reads $PIMACC/$PIMGYR sentences from a serial IMU and
// dispatches samples tagged with the arrival time. Sentences that fail
// to parse are skipped; partial lines are normal on a noisy port.
type SerialFeed struct {
	d    *dispatcher
	port io.ReadWriteCloser

	writeMu sync.Mutex
	closed  atomic.Bool

	closeOnce sync.Once
	closeErr  error
}

// NewSerialFeed opens the port and starts the read loop.
func NewSerialFeed(portName string, baudRate uint) (*SerialFeed, error) {
	opts := serial.OpenOptions{
		PortName:        portName,
		BaudRate:        baudRate,
		DataBits:        8,
		StopBits:        1,
		MinimumReadSize: 1,
		ParityMode:      serial.PARITY_NONE,
	}
	port, err := serial.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", portName, err)
	}
	log.Printf("feed: serial port opened on %s at %d baud", portName, baudRate)

	f := &SerialFeed{d: newDispatcher(), port: port}
	go f.readLoop()
	return f, nil
}

func (f *SerialFeed) readLoop() {
	reader := bufio.NewReader(f.port)
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			if !f.closed.Load() {
				log.Printf("feed: serial read error: %v", err)
			}
			return
		}

		line = strings.TrimSpace(line)
		if line == "" || !strings.HasPrefix(line, "$") {
			continue
		}

		kind, sample, ok := ParseSentence(line)
		if !ok {
			continue
		}
		sample.T = time.Now()
		f.d.dispatch(kind, sample)
	}
}

// SetUpdateInterval writes a $PIMRAT sentence asking the device for the
// given sampling period.
func (f *SerialFeed) SetUpdateInterval(d time.Duration) error {
	f.writeMu.Lock()
	defer f.writeMu.Unlock()
	if _, err := io.WriteString(f.port, FormatRate(int(d.Milliseconds()))); err != nil {
		return fmt.Errorf("write rate sentence: %w", err)
	}
	return nil
}

// AddListener attaches a listener for one sensor kind.
func (f *SerialFeed) AddListener(k Kind, fn Listener) Handle {
	return f.d.add(k, fn)
}

// Remove detaches a listener.
func (f *SerialFeed) Remove(h Handle) {
	f.d.remove(h)
}

// Close closes the port, which unblocks the read loop.
func (f *SerialFeed) Close() error {
	f.closeOnce.Do(func() {
		f.closed.Store(true)
		f.closeErr = f.port.Close()
	})
	return f.closeErr
}
