package sim

import (
	"fmt"
	"math"
	"sync"

	"github.com/bft-labs/robocore/pkg/typeconv"
)

// Voltage sensor register map.
const (
	VoltageRegMillivolts = 0x00 // unsigned 16-bit
	voltageRegSize       = 0x02
)

// DefaultMillivolts is a fully charged 12V battery.
const DefaultMillivolts = 13200

// VoltageSensor reports the battery voltage.
type VoltageSensor struct {
	mu     sync.Mutex
	port   string
	regs   *registerFile
	closed bool
}

// NewVoltageSensor creates a sensor reading DefaultMillivolts unless
// WithMillivolts is given.
func NewVoltageSensor(name, port string, opts ...Option) *VoltageSensor {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	v := &VoltageSensor{
		port: port,
		regs: newRegisterFile(name, voltageRegSize, cfg.order),
	}
	v.regs.putInt16(VoltageRegMillivolts, int16(uint16(cfg.millivolts)))
	return v
}

// DeviceName returns the configured name.
func (v *VoltageSensor) DeviceName() string { return v.regs.device }

// ConnectionInfo describes the simulated port.
func (v *VoltageSensor) ConnectionInfo() string {
	return fmt.Sprintf("sim voltage sensor on port %s (%s)", v.port, v.regs.order)
}

// ByteOrder returns the register byte order.
func (v *VoltageSensor) ByteOrder() typeconv.ByteOrder { return v.regs.order }

// Close rejects further access.
func (v *VoltageSensor) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.closed = true
	return nil
}

// Voltage returns the reading in volts.
func (v *VoltageSensor) Voltage() (float64, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return 0, ErrClosed
	}
	return float64(v.regs.getUint16(VoltageRegMillivolts)) / 1000, nil
}

// SetMillivolts changes the simulated reading, clipped to [0, 65535].
func (v *VoltageSensor) SetMillivolts(mv int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if mv < 0 {
		mv = 0
	}
	if mv > math.MaxUint16 {
		mv = math.MaxUint16
	}
	v.regs.putInt16(VoltageRegMillivolts, int16(uint16(mv)))
}

// ReadRegister returns n bytes starting at addr.
func (v *VoltageSensor) ReadRegister(addr, n int) ([]byte, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return nil, ErrClosed
	}
	return v.regs.read(addr, n)
}

// WriteRegister always fails: the sensor has no writable registers.
func (v *VoltageSensor) WriteRegister(addr int, b []byte) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return ErrClosed
	}
	if err := v.regs.bounds(addr, len(b)); err != nil {
		return err
	}
	return &RegisterError{Device: v.regs.device, Addr: addr, Len: len(b), Err: ErrReadOnly}
}
