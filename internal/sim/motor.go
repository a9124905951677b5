package sim

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/bft-labs/robocore/pkg/typeconv"
)

// Motor register map.
const (
	MotorRegPower    = 0x00 // int16, power * PowerScale
	MotorRegPosition = 0x02 // int32, encoder ticks
	MotorRegVelocity = 0x06 // int16, ticks per second
	motorRegSize     = 0x08
)

const (
	// PowerScale maps power in [-1, 1] onto the int16 power register.
	PowerScale = math.MaxInt16

	// DefaultTicksPerSecond is the encoder rate at full power.
	DefaultTicksPerSecond = 2240.0
)

// Motor is a DC motor with a quadrature encoder. The encoder advances with
// wall time in proportion to the commanded power.
type Motor struct {
	mu     sync.Mutex
	port   string
	regs   *registerFile
	tps    float64
	now    func() time.Time
	last   time.Time
	frac   float64
	closed bool
}

// NewMotor creates a stopped motor at encoder position zero.
func NewMotor(name, port string, opts ...Option) *Motor {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Motor{
		port: port,
		regs: newRegisterFile(name, motorRegSize, cfg.order),
		tps:  cfg.ticksPerSecond,
		now:  cfg.now,
		last: cfg.now(),
	}
}

// DeviceName returns the configured name.
func (m *Motor) DeviceName() string { return m.regs.device }

// ConnectionInfo describes the simulated port.
func (m *Motor) ConnectionInfo() string {
	return fmt.Sprintf("sim motor on port %s (%s)", m.port, m.regs.order)
}

// ByteOrder returns the register byte order.
func (m *Motor) ByteOrder() typeconv.ByteOrder { return m.regs.order }

// Close stops the motor and rejects further access.
func (m *Motor) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.advance()
	m.regs.putInt16(MotorRegPower, 0)
	m.regs.putInt16(MotorRegVelocity, 0)
	m.closed = true
	return nil
}

// SetPower commands power, clipped to [-1, 1].
func (m *Motor) SetPower(p float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.advance()
	m.regs.putInt16(MotorRegPower, int16(math.Round(clamp(p, -1, 1)*PowerScale)))
	m.updateVelocity()
	return nil
}

// Power returns the commanded power.
func (m *Motor) Power() (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return 0, ErrClosed
	}
	return float64(m.regs.getInt16(MotorRegPower)) / PowerScale, nil
}

// Position returns the encoder position in ticks.
func (m *Motor) Position() (int32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return 0, ErrClosed
	}
	m.advance()
	return m.regs.getInt32(MotorRegPosition), nil
}

// ResetEncoder sets the encoder position to zero.
func (m *Motor) ResetEncoder() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.advance()
	m.regs.putInt32(MotorRegPosition, 0)
	m.frac = 0
	return nil
}

// ReadRegister returns n bytes starting at addr.
func (m *Motor) ReadRegister(addr, n int) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrClosed
	}
	m.advance()
	return m.regs.read(addr, n)
}

// WriteRegister writes b at addr. Only the power register is writable.
func (m *Motor) WriteRegister(addr int, b []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	if err := m.regs.bounds(addr, len(b)); err != nil {
		return err
	}
	if addr != MotorRegPower || len(b) != 2 {
		return &RegisterError{Device: m.regs.device, Addr: addr, Len: len(b), Err: ErrReadOnly}
	}
	m.advance()
	if err := m.regs.write(addr, b); err != nil {
		return err
	}
	m.updateVelocity()
	return nil
}

// advance integrates encoder ticks for the time since the last call.
func (m *Motor) advance() {
	now := m.now()
	dt := now.Sub(m.last).Seconds()
	m.last = now
	if dt <= 0 {
		return
	}

	power := float64(m.regs.getInt16(MotorRegPower)) / PowerScale
	ticks := power*m.tps*dt + m.frac
	whole := math.Trunc(ticks)
	m.frac = ticks - whole
	m.regs.putInt32(MotorRegPosition, m.regs.getInt32(MotorRegPosition)+int32(whole))
}

func (m *Motor) updateVelocity() {
	power := float64(m.regs.getInt16(MotorRegPower)) / PowerScale
	v := clamp(math.Round(power*m.tps), math.MinInt16, math.MaxInt16)
	m.regs.putInt16(MotorRegVelocity, int16(v))
}
