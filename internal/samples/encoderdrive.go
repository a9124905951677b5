package samples

import (
	"github.com/bft-labs/robocore/internal/sim"
	"github.com/bft-labs/robocore/pkg/log"
	"github.com/bft-labs/robocore/pkg/opmode"
	"github.com/bft-labs/robocore/pkg/typeconv"
)

const (
	DefaultTargetTicks = 2000
	DefaultDrivePower  = 0.5
)

// EncoderDrive drives both motors forward until the left encoder reaches
// TargetTicks. Positions are read from the raw motor registers.
type EncoderDrive struct {
	opmode.Base

	TargetTicks int32
	Power       float64

	left, right *sim.Motor
	done        bool
}

func (m *EncoderDrive) Init(c *opmode.Context) error {
	var err error
	if m.left, err = opmode.Lookup[*sim.Motor](c.Hardware, LeftDrive); err != nil {
		return err
	}
	if m.right, err = opmode.Lookup[*sim.Motor](c.Hardware, RightDrive); err != nil {
		return err
	}
	if err := m.left.ResetEncoder(); err != nil {
		return err
	}
	if err := m.right.ResetEncoder(); err != nil {
		return err
	}
	c.Telemetry.AddData("target", m.TargetTicks)
	return nil
}

func (m *EncoderDrive) InitLoop(c *opmode.Context) error {
	c.Telemetry.AddData("status", "waiting for start")
	return nil
}

func (m *EncoderDrive) Start(c *opmode.Context) error {
	if err := m.left.SetPower(m.Power); err != nil {
		return err
	}
	return m.right.SetPower(m.Power)
}

func (m *EncoderDrive) Loop(c *opmode.Context) error {
	pos, err := readPosition(m.left)
	if err != nil {
		return err
	}
	c.Telemetry.AddData("position", pos)

	if m.done {
		c.Telemetry.AddData("status", "done")
		return nil
	}
	if pos >= m.TargetTicks {
		m.done = true
		c.Logger.Info("target reached",
			log.Int64("position", int64(pos)),
			log.Float64("time", c.Time),
		)
		c.Telemetry.AddData("status", "done")
		return stopMotors(m.left, m.right)
	}
	c.Telemetry.AddData("status", "driving")
	return nil
}

func (m *EncoderDrive) Stop(c *opmode.Context) error {
	return stopMotors(m.left, m.right)
}

// Done reports whether the target was reached.
func (m *EncoderDrive) Done() bool {
	return m.done
}

func readPosition(motor *sim.Motor) (int32, error) {
	b, err := motor.ReadRegister(sim.MotorRegPosition, 4)
	if err != nil {
		return 0, err
	}
	return typeconv.BytesToInt32(b, motor.ByteOrder())
}
