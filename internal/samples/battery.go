package samples

import (
	"strings"

	"github.com/bft-labs/robocore/internal/sim"
	"github.com/bft-labs/robocore/pkg/log"
	"github.com/bft-labs/robocore/pkg/opmode"
	"github.com/bft-labs/robocore/pkg/typeconv"
)

// DefaultWarnVolts is the voltage below which BatteryMonitor warns.
const DefaultWarnVolts = 11.5

// BatteryMonitor lists the configured hardware and reports the battery
// voltage every loop, warning once when it drops below WarnBelow.
type BatteryMonitor struct {
	opmode.Base

	WarnBelow float64

	sensor *sim.VoltageSensor
	warned bool
}

func (m *BatteryMonitor) Init(c *opmode.Context) error {
	var err error
	if m.sensor, err = opmode.Lookup[*sim.VoltageSensor](c.Hardware, Battery); err != nil {
		return err
	}
	c.Telemetry.AddData("devices", strings.Join(c.Hardware.Names(), ","))
	return nil
}

func (m *BatteryMonitor) Loop(c *opmode.Context) error {
	b, err := m.sensor.ReadRegister(sim.VoltageRegMillivolts, 2)
	if err != nil {
		return err
	}
	mv, err := typeconv.BytesToUnsignedShortAt(b, 0, m.sensor.ByteOrder())
	if err != nil {
		return err
	}
	volts := float64(mv) / 1000

	c.Telemetry.AddData("raw", b)
	c.Telemetry.AddData("volts", volts)
	if volts < m.WarnBelow && !m.warned {
		m.warned = true
		c.Logger.Warn("battery low",
			log.Float64("volts", volts),
			log.Float64("threshold", m.WarnBelow),
		)
	}
	return nil
}

func (m *BatteryMonitor) Stop(c *opmode.Context) error {
	return nil
}

// Warned reports whether the low battery warning fired.
func (m *BatteryMonitor) Warned() bool {
	return m.warned
}
