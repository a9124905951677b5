// Package sim provides simulated devices for running op modes without a
// robot. Each device keeps its state in a small register file encoded with
// typeconv, the same way a hub exposes it over the wire.
package sim

import (
	"time"

	"github.com/bft-labs/robocore/pkg/opmode"
	"github.com/bft-labs/robocore/pkg/typeconv"
)

// RegisterDevice is a device whose state can be read and written as raw
// register bytes.
type RegisterDevice interface {
	opmode.Device
	ReadRegister(addr, n int) ([]byte, error)
	WriteRegister(addr int, b []byte) error
	ByteOrder() typeconv.ByteOrder
}

// Option configures a simulated device.
type Option func(*config)

type config struct {
	order          typeconv.ByteOrder
	now            func() time.Time
	ticksPerSecond float64
	millivolts     int
}

func defaultConfig() config {
	return config{
		order:          typeconv.DefaultByteOrder,
		now:            time.Now,
		ticksPerSecond: DefaultTicksPerSecond,
		millivolts:     DefaultMillivolts,
	}
}

// WithByteOrder sets the register byte order. Default big-endian.
func WithByteOrder(order typeconv.ByteOrder) Option {
	return func(c *config) {
		c.order = order
	}
}

// WithNow replaces the time source used to integrate motor motion.
func WithNow(now func() time.Time) Option {
	return func(c *config) {
		c.now = now
	}
}

// WithTicksPerSecond sets the encoder rate of a motor at full power.
func WithTicksPerSecond(tps float64) Option {
	return func(c *config) {
		c.ticksPerSecond = tps
	}
}

// WithMillivolts sets the initial reading of a voltage sensor.
func WithMillivolts(mv int) Option {
	return func(c *config) {
		c.millivolts = mv
	}
}

type registerFile struct {
	device string
	order  typeconv.ByteOrder
	data   []byte
}

func newRegisterFile(device string, size int, order typeconv.ByteOrder) *registerFile {
	return &registerFile{device: device, order: order, data: make([]byte, size)}
}

func (r *registerFile) bounds(addr, n int) error {
	if addr < 0 || n <= 0 || addr+n > len(r.data) {
		return &RegisterError{Device: r.device, Addr: addr, Len: n, Err: ErrBadRegister}
	}
	return nil
}

func (r *registerFile) read(addr, n int) ([]byte, error) {
	if err := r.bounds(addr, n); err != nil {
		return nil, err
	}
	return append([]byte(nil), r.data[addr:addr+n]...), nil
}

func (r *registerFile) write(addr int, b []byte) error {
	if err := r.bounds(addr, len(b)); err != nil {
		return err
	}
	copy(r.data[addr:], b)
	return nil
}

// Fixed-address accessors. The addresses are package constants inside the
// file, so a decode failure is a programming error.

func (r *registerFile) getInt16(addr int) int16 {
	v, err := typeconv.BytesToInt16At(r.data, addr, r.order)
	if err != nil {
		panic(err)
	}
	return v
}

func (r *registerFile) getUint16(addr int) int {
	v, err := typeconv.BytesToUnsignedShortAt(r.data, addr, r.order)
	if err != nil {
		panic(err)
	}
	return v
}

func (r *registerFile) getInt32(addr int) int32 {
	v, err := typeconv.BytesToInt32At(r.data, addr, r.order)
	if err != nil {
		panic(err)
	}
	return v
}

func (r *registerFile) putInt16(addr int, v int16) {
	copy(r.data[addr:], typeconv.Int16ToBytes(v, r.order))
}

func (r *registerFile) putInt32(addr int, v int32) {
	copy(r.data[addr:], typeconv.Int32ToBytes(v, r.order))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
