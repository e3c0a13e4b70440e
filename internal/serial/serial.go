// Package serial writes line-oriented inspection reports to a UART.
package serial

import (
	"fmt"
	"io"

	"github.com/sweeney/banana-cart/internal/logic"
)

// DefaultBaud matches the receiving terminal configuration.
const DefaultBaud = 9600

// FormatLine renders one inspection as a CRLF-terminated status line.
func FormatLine(in logic.Inspection) string {
	return fmt.Sprintf("Gas PPM: %d | H: %.2f S: %.2f V: %.2f | Result: %s\r\n",
		in.GasPPM, in.Color.H, in.Color.S, in.Color.V, in.Verdict)
}

// Reporter writes inspection lines to w.
type Reporter struct {
	w io.Writer
}

// NewReporter creates a Reporter. A nil writer discards output.
func NewReporter(w io.Writer) *Reporter {
	if w == nil {
		w = io.Discard
	}
	return &Reporter{w: w}
}

// Report writes the inspection line.
func (r *Reporter) Report(in logic.Inspection) error {
	if _, err := io.WriteString(r.w, FormatLine(in)); err != nil {
		return fmt.Errorf("write serial line: %w", err)
	}
	return nil
}
