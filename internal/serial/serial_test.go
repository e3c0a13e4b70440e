package serial

import (
	"bytes"
	"errors"
	"testing"

	"github.com/sweeney/banana-cart/internal/logic"
)

func TestFormatLine(t *testing.T) {
	in := logic.Inspection{
		GasPPM:  412,
		Color:   logic.HSV{H: 57.123, S: 0.456, V: 0.8},
		Verdict: logic.VerdictRotten,
	}
	want := "Gas PPM: 412 | H: 57.12 S: 0.46 V: 0.80 | Result: ROTTEN\r\n"
	if got := FormatLine(in); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatLineNegativePPM(t *testing.T) {
	in := logic.Inspection{GasPPM: -55, Verdict: logic.VerdictGood}
	want := "Gas PPM: -55 | H: 0.00 S: 0.00 V: 0.00 | Result: GOOD\r\n"
	if got := FormatLine(in); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestReporterWritesLines(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf)

	r.Report(logic.Inspection{GasPPM: 1, Verdict: logic.VerdictGood})
	r.Report(logic.Inspection{GasPPM: 2, Verdict: logic.VerdictRotten})

	lines := bytes.Split(bytes.TrimSuffix(buf.Bytes(), []byte("\r\n")), []byte("\r\n"))
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), buf.String())
	}
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("tx fault") }

func TestReporterError(t *testing.T) {
	r := NewReporter(failWriter{})
	if err := r.Report(logic.Inspection{}); err == nil {
		t.Error("expected error")
	}
}

func TestNilReporterWriterDiscards(t *testing.T) {
	if err := NewReporter(nil).Report(logic.Inspection{}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
