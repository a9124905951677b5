package hwconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bft-labs/robocore/internal/sim"
	"github.com/bft-labs/robocore/pkg/opmode"
	"github.com/bft-labs/robocore/pkg/typeconv"
)

const robotTOML = `
byte_order = "little"

[[device]]
name = "left_drive"
type = "motor"
port = "0"
ticks_per_second = 1120.0

[[device]]
name = "right_drive"
type = "motor"
port = "1"
byte_order = "big"

[[device]]
name = "battery"
type = "voltage_sensor"
port = "i2c0"
millivolts = 12500
`

func TestParse(t *testing.T) {
	f, err := Parse([]byte(robotTOML))
	require.NoError(t, err)
	require.Len(t, f.Devices, 3)
	assert.Equal(t, "little", f.ByteOrder)
	assert.Equal(t, DeviceSpec{Name: "left_drive", Type: TypeMotor, Port: "0", TicksPerSecond: 1120}, f.Devices[0])
}

func TestBuild(t *testing.T) {
	f, err := Parse([]byte(robotTOML))
	require.NoError(t, err)

	hw, err := f.Build()
	require.NoError(t, err)
	defer hw.Close()

	assert.Equal(t, []string{"battery", "left_drive", "right_drive"}, hw.Names())

	left, err := opmode.Lookup[*sim.Motor](hw, "left_drive")
	require.NoError(t, err)
	assert.Equal(t, typeconv.LittleEndian, left.ByteOrder())

	right, err := opmode.Lookup[*sim.Motor](hw, "right_drive")
	require.NoError(t, err)
	assert.Equal(t, typeconv.BigEndian, right.ByteOrder())

	battery, err := opmode.Lookup[*sim.VoltageSensor](hw, "battery")
	require.NoError(t, err)
	v, err := battery.Voltage()
	require.NoError(t, err)
	assert.Equal(t, 12.5, v)
}

func TestDefault(t *testing.T) {
	hw, err := Default().Build()
	require.NoError(t, err)
	defer hw.Close()

	_, err = opmode.Lookup[*sim.Motor](hw, "left_drive")
	assert.NoError(t, err)
	_, err = opmode.Lookup[*sim.Servo](hw, "claw")
	assert.NoError(t, err)
}

func TestParse_Invalid(t *testing.T) {
	tests := map[string]string{
		"bad toml":         `[[device]] name =`,
		"missing name":     "[[device]]\ntype = \"motor\"\n",
		"unknown type":     "[[device]]\nname = \"x\"\ntype = \"lidar\"\n",
		"bad order":        "byte_order = \"middle\"\n",
		"bad device order": "[[device]]\nname = \"x\"\ntype = \"servo\"\nbyte_order = \"pdp\"\n",
		"duplicate": `
[[device]]
name = "arm"
type = "motor"

[[device]]
name = "arm"
type = "servo"
`,
		"negative rating": "[[device]]\nname = \"m\"\ntype = \"motor\"\nticks_per_second = -1.0\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "robot.toml")
	require.NoError(t, os.WriteFile(path, []byte(robotTOML), 0o644))

	f, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, f.Devices, 3)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
