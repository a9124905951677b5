package sim

import (
	"fmt"
	"math"
	"sync"

	"github.com/bft-labs/robocore/pkg/typeconv"
)

// Servo register map.
const (
	ServoRegPosition = 0x00 // unsigned 16-bit, full range maps to [0, 1]
	servoRegSize     = 0x02
)

const servoScale = math.MaxUint16

// Servo is a positional servo. Position moves instantly to the command.
type Servo struct {
	mu     sync.Mutex
	port   string
	regs   *registerFile
	closed bool
}

// NewServo creates a servo at position zero.
func NewServo(name, port string, opts ...Option) *Servo {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Servo{
		port: port,
		regs: newRegisterFile(name, servoRegSize, cfg.order),
	}
}

// DeviceName returns the configured name.
func (s *Servo) DeviceName() string { return s.regs.device }

// ConnectionInfo describes the simulated port.
func (s *Servo) ConnectionInfo() string {
	return fmt.Sprintf("sim servo on port %s (%s)", s.port, s.regs.order)
}

// ByteOrder returns the register byte order.
func (s *Servo) ByteOrder() typeconv.ByteOrder { return s.regs.order }

// Close rejects further access.
func (s *Servo) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// SetPosition commands a position, clipped to [0, 1].
func (s *Servo) SetPosition(p float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	raw := uint16(math.Round(clamp(p, 0, 1) * servoScale))
	s.regs.putInt16(ServoRegPosition, int16(raw))
	return nil
}

// Position returns the current position in [0, 1].
func (s *Servo) Position() (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrClosed
	}
	return float64(s.regs.getUint16(ServoRegPosition)) / servoScale, nil
}

// ReadRegister returns n bytes starting at addr.
func (s *Servo) ReadRegister(addr, n int) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	return s.regs.read(addr, n)
}

// WriteRegister writes b at addr.
func (s *Servo) WriteRegister(addr int, b []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	return s.regs.write(addr, b)
}
