package opmode

// Telemetry accumulates key/value lines for the driver display. Update
// flushes the pending lines; the owner decides whether it also clears them.
type Telemetry interface {
	AddData(key string, value interface{})
	Update() error
}
