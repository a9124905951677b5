package samples

import "github.com/bft-labs/robocore/pkg/opmode"

// Idle reports its status and elapsed time and touches no hardware.
type Idle struct {
	opmode.Base
	loops int
}

func (m *Idle) Init(c *opmode.Context) error {
	c.Telemetry.AddData("status", "initialized")
	return nil
}

func (m *Idle) Loop(c *opmode.Context) error {
	m.loops++
	c.Telemetry.AddData("status", "running")
	c.Telemetry.AddData("time", c.Time)
	c.Telemetry.AddData("loops", m.loops)
	return nil
}

func (m *Idle) Stop(c *opmode.Context) error {
	c.Logger.Info("idle stopped")
	return nil
}
