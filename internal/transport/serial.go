package transport

import (
	"fmt"
	"sync"
	"time"

	"go.bug.st/serial"

	"github.com/fonny-io/fonny/internal/errors"
	"github.com/fonny-io/fonny/internal/framing"
	"github.com/fonny-io/fonny/internal/logging"
)

// Serial default connect parameters, matching the usual wiring of a
// Raspberry Pi Pico running a FORTH image.
const (
	DefaultSerialPath  = "/dev/ttyACM0"
	DefaultBaudRate    = 115200
	DefaultReadTimeout = time.Second
)

// Serial is the serial-port implementation of Port.
type Serial struct {
	path        string
	baudRate    int
	readTimeout time.Duration
	handler     CharacterHandler
	log         *logging.Logger

	mu   sync.Mutex
	port serial.Port
	done chan struct{}
	wg   sync.WaitGroup
}

// NewSerial creates a serial transport for the given device path.
// The handler receives every decoded character; it may be nil, in which
// case received bytes are discarded.
func NewSerial(path string, baudRate int, readTimeout time.Duration, handler CharacterHandler, log *logging.Logger) *Serial {
	if path == "" {
		path = DefaultSerialPath
	}
	if baudRate <= 0 {
		baudRate = DefaultBaudRate
	}
	if readTimeout <= 0 {
		readTimeout = DefaultReadTimeout
	}
	if log == nil {
		log = logging.NopLogger()
	}
	return &Serial{
		path:        path,
		baudRate:    baudRate,
		readTimeout: readTimeout,
		handler:     handler,
		log:         log.WithComponent("transport").WithPort(path),
	}
}

// Connect opens the serial port and starts the reader goroutine.
func (s *Serial) Connect() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.port != nil {
		return errors.NewTransportError("connect", s.path, errors.ErrAlreadyConnected)
	}

	port, err := serial.Open(s.path, &serial.Mode{BaudRate: s.baudRate})
	if err != nil {
		return errors.NewTransportError("connect", s.path, err)
	}

	// A read timeout keeps the reader goroutine responsive to Disconnect.
	if err := port.SetReadTimeout(s.readTimeout); err != nil {
		port.Close()
		return errors.NewTransportError("connect", s.path, fmt.Errorf("set read timeout: %w", err))
	}

	s.port = port
	s.done = make(chan struct{})
	s.wg.Add(1)
	go s.readLoop(port, s.done)

	s.log.Info("serial port opened", "baud_rate", s.baudRate)
	return nil
}

// Disconnect closes the port and waits for the reader goroutine to
// exit. Calling it while already disconnected is a no-op.
func (s *Serial) Disconnect() error {
	s.mu.Lock()
	if s.port == nil {
		s.mu.Unlock()
		return nil
	}
	port := s.port
	done := s.done
	s.port = nil
	s.done = nil
	s.mu.Unlock()

	close(done)
	err := port.Close()
	s.wg.Wait()

	s.log.Info("serial port closed")
	if err != nil {
		return errors.NewTransportError("disconnect", s.path, err)
	}
	return nil
}

// Send writes text to the serial port.
func (s *Serial) Send(text string) error {
	s.mu.Lock()
	port := s.port
	s.mu.Unlock()

	if port == nil {
		return errors.NewTransportError("send", s.path, errors.ErrNotConnected)
	}

	if _, err := port.Write([]byte(text)); err != nil {
		return errors.NewTransportError("send", s.path, err)
	}
	return nil
}

// Connected reports whether the port is open.
func (s *Serial) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.port != nil
}

// readLoop pulls bytes off the port, decodes them leniently, and pushes
// each character into the handler. It exits when the port is closed.
func (s *Serial) readLoop(port serial.Port, done chan struct{}) {
	defer s.wg.Done()

	decoder := framing.NewDecoder()
	buf := make([]byte, 256)

	for {
		select {
		case <-done:
			return
		default:
		}

		n, err := port.Read(buf)
		if err != nil {
			select {
			case <-done:
				// Expected: Disconnect closed the port under us.
			default:
				s.log.Error("serial read failed", "error", err.Error())
			}
			return
		}
		if n == 0 {
			// Read timeout; loop so the done channel gets checked.
			continue
		}

		s.deliver(decoder.Decode(buf[:n]))
	}
}

// deliver hands decoded characters to the handler, if one is set.
func (s *Serial) deliver(runes []rune) {
	if s.handler == nil {
		return
	}
	for _, r := range runes {
		s.handler.HandleChar(r)
	}
}
