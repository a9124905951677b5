package opmode

import (
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/bft-labs/robocore/pkg/log"
)

// mockEmitter tracks state change events for testing.
type mockEmitter struct {
	mu     sync.Mutex
	events []stateChangeEvent
}

type stateChangeEvent struct {
	previous State
	current  State
	reason   string
}

func (m *mockEmitter) OnStateChange(previous, current State, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, stateChangeEvent{previous, current, reason})
}

func (m *mockEmitter) Events() []stateChangeEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]stateChangeEvent{}, m.events...)
}

// countingTelemetry counts flushes.
type countingTelemetry struct {
	data    map[string]interface{}
	updates int
	err     error
}

func (t *countingTelemetry) AddData(key string, value interface{}) {
	if t.data == nil {
		t.data = make(map[string]interface{})
	}
	t.data[key] = value
}

func (t *countingTelemetry) Update() error {
	t.updates++
	return t.err
}

// fakeClock advances only when told to.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// scriptedMode records hook calls and fails on request.
type scriptedMode struct {
	calls []string
	times []float64

	failInit     error
	failInitLoop error
	failStart    error
	failStop     error
	failLoopAt   int // 1-based loop call that fails, 0 = never
	panicLoopAt  int
}

func (m *scriptedMode) Init(c *Context) error {
	m.calls = append(m.calls, "init")
	return m.failInit
}

func (m *scriptedMode) InitLoop(c *Context) error {
	m.calls = append(m.calls, "init_loop")
	c.Telemetry.AddData("status", "waiting")
	return m.failInitLoop
}

func (m *scriptedMode) Start(c *Context) error {
	m.calls = append(m.calls, "start")
	return m.failStart
}

func (m *scriptedMode) Loop(c *Context) error {
	m.calls = append(m.calls, "loop")
	m.times = append(m.times, c.Time)
	n := m.count("loop")
	if m.panicLoopAt == n {
		panic("motor controller disconnected")
	}
	if m.failLoopAt == n {
		return errors.New("sensor read failed")
	}
	return nil
}

func (m *scriptedMode) Stop(c *Context) error {
	m.calls = append(m.calls, "stop")
	return m.failStop
}

func (m *scriptedMode) count(hook string) int {
	n := 0
	for _, c := range m.calls {
		if c == hook {
			n++
		}
	}
	return n
}

// minimalMode implements only the mandatory hooks.
type minimalMode struct {
	Base
	loops int
}

func (m *minimalMode) Init(*Context) error { return nil }
func (m *minimalMode) Loop(*Context) error { m.loops++; return nil }
func (m *minimalMode) Stop(*Context) error { return nil }

func newTestController(t *testing.T, mode OpMode, opts ...Option) (*Controller, *countingTelemetry) {
	t.Helper()
	tel := &countingTelemetry{}
	c, err := NewController(mode, &Context{Telemetry: tel, Hardware: NewDeviceMap()}, opts...)
	if err != nil {
		t.Fatalf("NewController() error = %v", err)
	}
	return c, tel
}

func TestNewController(t *testing.T) {
	c, _ := newTestController(t, &scriptedMode{})

	if c.State() != StateCreated {
		t.Errorf("initial state = %v, want StateCreated", c.State())
	}
	if c.Context().Logger == nil {
		t.Error("context logger not filled in")
	}
}

func TestNewController_Validation(t *testing.T) {
	if _, err := NewController(nil, &Context{Telemetry: &countingTelemetry{}}); !errors.Is(err, ErrNilOpMode) {
		t.Errorf("nil mode error = %v, want ErrNilOpMode", err)
	}
	if _, err := NewController(&scriptedMode{}, nil); !errors.Is(err, ErrNilContext) {
		t.Errorf("nil context error = %v, want ErrNilContext", err)
	}
	if _, err := NewController(&scriptedMode{}, &Context{}); !errors.Is(err, ErrNilContext) {
		t.Errorf("missing telemetry error = %v, want ErrNilContext", err)
	}
}

func TestNewController_ResetsTime(t *testing.T) {
	octx := &Context{Telemetry: &countingTelemetry{}, Time: 12.5}
	if _, err := NewController(&scriptedMode{}, octx); err != nil {
		t.Fatalf("NewController() error = %v", err)
	}
	if octx.Time != 0 {
		t.Errorf("Time = %v, want 0", octx.Time)
	}
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateCreated, "Created"},
		{StateInitializing, "Initializing"},
		{StateInitPolling, "InitPolling"},
		{StateRunning, "Running"},
		{StateStopped, "Stopped"},
		{State(99), "Unknown"},
	}

	for _, tt := range tests {
		got := tt.state.String()
		if got != tt.want {
			t.Errorf("State(%d).String() = %s, want %s", tt.state, got, tt.want)
		}
	}
}

func TestController_FullSession(t *testing.T) {
	mode := &scriptedMode{}
	emitter := &mockEmitter{}
	c, tel := newTestController(t, mode, WithEventEmitter(emitter), WithLogger(log.NewNoopLogger()))

	steps := []func() error{c.Init, c.InitLoop, c.InitLoop, c.Start, c.Loop, c.Loop, c.Loop, c.Stop}
	for i, step := range steps {
		if err := step(); err != nil {
			t.Fatalf("step %d error = %v", i, err)
		}
	}

	want := []string{"init", "init_loop", "init_loop", "start", "loop", "loop", "loop", "stop"}
	if !reflect.DeepEqual(mode.calls, want) {
		t.Errorf("calls = %v, want %v", mode.calls, want)
	}
	if tel.updates != 5 {
		t.Errorf("flushes = %d, want 5", tel.updates)
	}
	if c.InitLoopCount() != 2 || c.LoopCount() != 3 {
		t.Errorf("counts = %d/%d, want 2/3", c.InitLoopCount(), c.LoopCount())
	}
	if c.State() != StateStopped {
		t.Errorf("state = %v, want StateStopped", c.State())
	}

	wantEvents := []stateChangeEvent{
		{StateCreated, StateInitializing, "init"},
		{StateInitializing, StateInitPolling, "init_loop"},
		{StateInitPolling, StateRunning, "start"},
		{StateRunning, StateStopped, "stop requested"},
	}
	if got := emitter.Events(); !reflect.DeepEqual(got, wantEvents) {
		t.Errorf("events = %v, want %v", got, wantEvents)
	}
}

func TestController_StartWithoutInitLoop(t *testing.T) {
	mode := &scriptedMode{}
	c, tel := newTestController(t, mode)

	for _, step := range []func() error{c.Init, c.Start, c.Loop, c.Stop} {
		if err := step(); err != nil {
			t.Fatalf("error = %v", err)
		}
	}
	if tel.updates != 1 {
		t.Errorf("flushes = %d, want 1", tel.updates)
	}
}

func TestController_DefaultHooks(t *testing.T) {
	mode := &minimalMode{}
	c, _ := newTestController(t, mode)

	for _, step := range []func() error{c.Init, c.InitLoop, c.Start, c.Loop, c.Stop} {
		if err := step(); err != nil {
			t.Fatalf("error = %v", err)
		}
	}
	if mode.loops != 1 {
		t.Errorf("loops = %d, want 1", mode.loops)
	}
}

func TestController_InvalidTransitions(t *testing.T) {
	tests := []struct {
		name  string
		setup []string
		op    string
	}{
		{"init_loop before init", nil, "init_loop"},
		{"start before init", nil, "start"},
		{"loop before start", []string{"init"}, "loop"},
		{"loop during init polling", []string{"init", "init_loop"}, "loop"},
		{"stop before start", []string{"init"}, "stop"},
		{"init twice", []string{"init"}, "init"},
		{"start twice", []string{"init", "start"}, "start"},
		{"init_loop after start", []string{"init", "start"}, "init_loop"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mode := &scriptedMode{}
			c, tel := newTestController(t, mode)
			ops := map[string]func() error{
				"init": c.Init, "init_loop": c.InitLoop, "start": c.Start, "loop": c.Loop, "stop": c.Stop,
			}
			for _, s := range tt.setup {
				if err := ops[s](); err != nil {
					t.Fatalf("setup %s error = %v", s, err)
				}
			}
			before := len(mode.calls)
			flushes := tel.updates
			state := c.State()

			err := ops[tt.op]()
			if !errors.Is(err, ErrInvalidTransition) {
				t.Fatalf("error = %v, want ErrInvalidTransition", err)
			}
			var terr *TransitionError
			if !errors.As(err, &terr) || terr.From != state {
				t.Errorf("TransitionError = %+v, want From %v", terr, state)
			}
			if len(mode.calls) != before {
				t.Errorf("hook invoked on invalid transition: %v", mode.calls[before:])
			}
			if tel.updates != flushes {
				t.Error("telemetry flushed on invalid transition")
			}
			if c.State() != state {
				t.Errorf("state changed to %v", c.State())
			}
		})
	}
}

func TestController_InitFailureAbortsWithoutStop(t *testing.T) {
	mode := &scriptedMode{failInit: errors.New("imu missing")}
	c, tel := newTestController(t, mode)

	err := c.Init()
	var herr *HookError
	if !errors.As(err, &herr) || herr.Hook != HookInit {
		t.Fatalf("error = %v, want HookError for init", err)
	}
	if c.State() != StateStopped {
		t.Errorf("state = %v, want StateStopped", c.State())
	}
	if mode.count("stop") != 0 {
		t.Error("stop invoked after init failure")
	}
	if tel.updates != 0 {
		t.Errorf("flushes = %d, want 0", tel.updates)
	}
	if err := c.InitLoop(); !errors.Is(err, ErrSessionEnded) {
		t.Errorf("InitLoop after abort error = %v, want ErrSessionEnded", err)
	}
}

func TestController_InitLoopFailureFlushesAndAborts(t *testing.T) {
	mode := &scriptedMode{failInitLoop: errors.New("not calibrated")}
	c, tel := newTestController(t, mode)

	if err := c.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if err := c.InitLoop(); err == nil {
		t.Fatal("InitLoop() expected error")
	}
	if tel.updates != 1 {
		t.Errorf("flushes = %d, want 1", tel.updates)
	}
	if c.State() != StateStopped || mode.count("stop") != 0 {
		t.Errorf("state = %v, stops = %d", c.State(), mode.count("stop"))
	}
}

func TestController_StartFailureAbortsWithoutStop(t *testing.T) {
	mode := &scriptedMode{failStart: errors.New("arm blocked")}
	c, _ := newTestController(t, mode)

	if err := c.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if err := c.Start(); err == nil {
		t.Fatal("Start() expected error")
	}
	if c.State() != StateStopped || mode.count("stop") != 0 {
		t.Errorf("state = %v, stops = %d", c.State(), mode.count("stop"))
	}
}

func TestController_LoopFailureStopsOnce(t *testing.T) {
	mode := &scriptedMode{failLoopAt: 3}
	c, tel := newTestController(t, mode)

	for _, step := range []func() error{c.Init, c.InitLoop, c.Start, c.Loop, c.Loop} {
		if err := step(); err != nil {
			t.Fatalf("error = %v", err)
		}
	}

	err := c.Loop()
	var herr *HookError
	if !errors.As(err, &herr) || herr.Hook != HookLoop {
		t.Fatalf("Loop() error = %v, want HookError for loop", err)
	}
	if c.State() != StateStopped {
		t.Errorf("state = %v, want StateStopped", c.State())
	}
	if got := mode.count("stop"); got != 1 {
		t.Errorf("stop calls = %d, want 1", got)
	}
	if tel.updates != mode.count("init_loop")+mode.count("loop") {
		t.Errorf("flushes = %d, want %d", tel.updates, mode.count("init_loop")+mode.count("loop"))
	}

	if err := c.Stop(); !errors.Is(err, ErrSessionEnded) {
		t.Errorf("Stop() after forced stop error = %v, want ErrSessionEnded", err)
	}
	if err := c.Loop(); !errors.Is(err, ErrSessionEnded) {
		t.Errorf("Loop() after forced stop error = %v, want ErrSessionEnded", err)
	}
	if got := mode.count("stop"); got != 1 {
		t.Errorf("stop calls = %d, want 1", got)
	}
}

func TestController_LoopPanicRecovered(t *testing.T) {
	mode := &scriptedMode{panicLoopAt: 1}
	c, _ := newTestController(t, mode)

	for _, step := range []func() error{c.Init, c.Start} {
		if err := step(); err != nil {
			t.Fatalf("error = %v", err)
		}
	}

	err := c.Loop()
	var herr *HookError
	if !errors.As(err, &herr) || herr.Panic == nil {
		t.Fatalf("Loop() error = %v, want HookError with panic", err)
	}
	if mode.count("stop") != 1 || c.State() != StateStopped {
		t.Errorf("stops = %d, state = %v", mode.count("stop"), c.State())
	}
}

func TestController_LoopAndStopFailureJoined(t *testing.T) {
	stopErr := errors.New("brake release failed")
	mode := &scriptedMode{failLoopAt: 1, failStop: stopErr}
	c, _ := newTestController(t, mode)

	for _, step := range []func() error{c.Init, c.Start} {
		if err := step(); err != nil {
			t.Fatalf("error = %v", err)
		}
	}

	err := c.Loop()
	if !errors.Is(err, stopErr) {
		t.Errorf("Loop() error = %v, want it to include stop error", err)
	}
	var herr *HookError
	if !errors.As(err, &herr) || herr.Hook != HookLoop {
		t.Errorf("Loop() error = %v, want loop HookError first", err)
	}
}

func TestController_StopFailureStillStops(t *testing.T) {
	mode := &scriptedMode{failStop: errors.New("servo stuck")}
	c, _ := newTestController(t, mode)

	for _, step := range []func() error{c.Init, c.Start, c.Loop} {
		if err := step(); err != nil {
			t.Fatalf("error = %v", err)
		}
	}

	err := c.Stop()
	var herr *HookError
	if !errors.As(err, &herr) || herr.Hook != HookStop {
		t.Fatalf("Stop() error = %v, want HookError for stop", err)
	}
	if c.State() != StateStopped {
		t.Errorf("state = %v, want StateStopped", c.State())
	}
}

func TestController_FlushErrorDoesNotAbort(t *testing.T) {
	mode := &scriptedMode{}
	c, tel := newTestController(t, mode)
	tel.err = errors.New("display offline")

	for _, step := range []func() error{c.Init, c.InitLoop, c.Start, c.Loop, c.Stop} {
		if err := step(); err != nil {
			t.Fatalf("error = %v", err)
		}
	}
	if tel.updates != 2 {
		t.Errorf("flushes = %d, want 2", tel.updates)
	}
}

func TestController_Abort(t *testing.T) {
	t.Run("before running", func(t *testing.T) {
		mode := &scriptedMode{}
		c, _ := newTestController(t, mode)
		if err := c.Init(); err != nil {
			t.Fatalf("Init() error = %v", err)
		}
		if err := c.Abort("driver cancelled"); err != nil {
			t.Fatalf("Abort() error = %v", err)
		}
		if c.State() != StateStopped || mode.count("stop") != 0 {
			t.Errorf("state = %v, stops = %d", c.State(), mode.count("stop"))
		}
	})

	t.Run("while running", func(t *testing.T) {
		mode := &scriptedMode{}
		c, _ := newTestController(t, mode)
		for _, step := range []func() error{c.Init, c.Start, c.Loop} {
			if err := step(); err != nil {
				t.Fatalf("error = %v", err)
			}
		}
		if err := c.Abort("emergency stop"); err != nil {
			t.Fatalf("Abort() error = %v", err)
		}
		if err := c.Abort("again"); !errors.Is(err, ErrSessionEnded) {
			t.Errorf("second Abort() error = %v, want ErrSessionEnded", err)
		}
		if mode.count("stop") != 1 {
			t.Errorf("stops = %d, want 1", mode.count("stop"))
		}
	})

	t.Run("from created", func(t *testing.T) {
		c, _ := newTestController(t, &scriptedMode{})
		if err := c.Abort("never started"); !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("Abort() error = %v, want ErrInvalidTransition", err)
		}
	})
}

func TestController_ElapsedTime(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	mode := &scriptedMode{}
	c, _ := newTestController(t, mode, WithClock(clock))

	if err := c.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	clock.Advance(5 * time.Second)
	if err := c.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	clock.Advance(500 * time.Millisecond)
	_ = c.Loop()
	clock.Advance(500 * time.Millisecond)
	_ = c.Loop()
	clock.Advance(-2 * time.Second)
	_ = c.Loop()

	want := []float64{0.5, 1.0, 1.0}
	if !reflect.DeepEqual(mode.times, want) {
		t.Errorf("times = %v, want %v", mode.times, want)
	}
}

func TestHookError_Message(t *testing.T) {
	err := &HookError{Hook: HookLoop, Err: errors.New("boom")}
	if err.Error() != "opmode: loop: boom" {
		t.Errorf("Error() = %q", err.Error())
	}
	perr := &HookError{Hook: HookInit, Panic: "nil map"}
	if perr.Error() != "opmode: init panicked: nil map" {
		t.Errorf("Error() = %q", perr.Error())
	}
}

func TestTransitionError_Message(t *testing.T) {
	err := &TransitionError{From: StateCreated, To: StateRunning, Err: ErrInvalidTransition}
	if err.Error() != "opmode: invalid transition: Created -> Running" {
		t.Errorf("Error() = %q", err.Error())
	}
}
