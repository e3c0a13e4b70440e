package gpio

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sweeney/banana-cart/internal/logic"
)

func TestFakeMotors(t *testing.T) {
	m := NewFakeMotors()
	if m.Last() != "" {
		t.Errorf("expected no command initially, got %q", m.Last())
	}

	m.Forward()
	m.Stop()
	if len(m.Commands) != 2 {
		t.Fatalf("expected 2 commands, got %d", len(m.Commands))
	}
	if m.Commands[0] != "FORWARD" || m.Last() != "STOP" {
		t.Errorf("unexpected commands: %v", m.Commands)
	}

	m.Err = errors.New("bridge fault")
	if err := m.Forward(); err == nil {
		t.Error("expected error")
	}
	if len(m.Commands) != 2 {
		t.Errorf("failed command should not be recorded: %v", m.Commands)
	}

	m.Close()
	if !m.Closed {
		t.Error("should be closed after Close()")
	}
}

func TestFakeRangeFinderSequence(t *testing.T) {
	r := NewFakeRangeFinder(time.Millisecond, 2*time.Millisecond)
	ctx := context.Background()

	got, _ := r.Echo(ctx)
	if got != time.Millisecond {
		t.Errorf("echo 0: got %v, want 1ms", got)
	}
	got, _ = r.Echo(ctx)
	if got != 2*time.Millisecond {
		t.Errorf("echo 1: got %v, want 2ms", got)
	}
	got, _ = r.Echo(ctx)
	if got != 2*time.Millisecond {
		t.Errorf("echo 2 (repeat): got %v, want 2ms", got)
	}
}

func TestFakeRangeFinderNoEchoes(t *testing.T) {
	r := NewFakeRangeFinder()
	if _, err := r.Echo(context.Background()); err == nil {
		t.Error("expected error with no echoes")
	}
}

func TestEchoForCM(t *testing.T) {
	for _, cm := range []int64{0, 1, 4, 5, 30, 200} {
		if got := logic.DistanceCM(EchoForCM(cm)); got != cm {
			t.Errorf("DistanceCM(EchoForCM(%d)) = %d", cm, got)
		}
	}
}

func TestFakeColorSensorCycles(t *testing.T) {
	c := NewFakeColorSensor(
		logic.RGBPulse{R: 100, G: 200, B: 300},
		logic.RGBPulse{R: 400, G: 500, B: 600},
	)
	ctx := context.Background()

	var got []logic.PulseWidth
	for i := 0; i < 3; i++ {
		for _, ch := range logic.Channels {
			pw, err := c.PulseWidth(ctx, ch)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got = append(got, pw)
		}
	}

	want := []logic.PulseWidth{100, 200, 300, 400, 500, 600, 400, 500, 600}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("read %d: got %d, want %d", i, got[i], want[i])
		}
	}
	if len(c.Reads) != 9 || c.Reads[0] != logic.Red || c.Reads[2] != logic.Blue {
		t.Errorf("unexpected read order: %v", c.Reads)
	}
}

func TestFakeColorSensorError(t *testing.T) {
	c := NewFakeColorSensor(logic.RGBPulse{})
	c.ReadError = errors.New("simulated error")

	_, err := c.PulseWidth(context.Background(), logic.Red)
	if err == nil || err.Error() != "simulated error" {
		t.Errorf("unexpected error: %v", err)
	}
}
