package opmode

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Device is a named hardware handle.
type Device interface {
	DeviceName() string
	ConnectionInfo() string
	Close() error
}

// HardwareMap looks up devices by name. The controller never adds or removes
// entries.
type HardwareMap interface {
	Get(name string) (Device, bool)
	Names() []string
}

// Lookup fetches a device and asserts its type.
func Lookup[T Device](hw HardwareMap, name string) (T, error) {
	var zero T
	if hw == nil {
		return zero, fmt.Errorf("%w: %q", ErrDeviceNotFound, name)
	}
	d, ok := hw.Get(name)
	if !ok {
		return zero, fmt.Errorf("%w: %q", ErrDeviceNotFound, name)
	}
	t, ok := d.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %q is %T", ErrDeviceType, name, d)
	}
	return t, nil
}

// DeviceMap is an in-memory HardwareMap safe for concurrent use.
type DeviceMap struct {
	mu      sync.RWMutex
	devices map[string]Device
}

// NewDeviceMap creates an empty DeviceMap.
func NewDeviceMap() *DeviceMap {
	return &DeviceMap{devices: make(map[string]Device)}
}

// Put adds d under its DeviceName.
func (m *DeviceMap) Put(d Device) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	name := d.DeviceName()
	if _, exists := m.devices[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateDevice, name)
	}
	m.devices[name] = d
	return nil
}

// Get returns the device registered under name.
func (m *DeviceMap) Get(name string) (Device, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.devices[name]
	return d, ok
}

// Names returns the registered device names in sorted order.
func (m *DeviceMap) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.devices))
	for name := range m.devices {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Close closes every device and empties the map.
func (m *DeviceMap) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var errs []error
	for name, d := range m.devices {
		if err := d.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", name, err))
		}
	}
	m.devices = make(map[string]Device)
	return errors.Join(errs...)
}
