// Package display renders cart status on a 16x2 character LCD.
package display

import "github.com/sweeney/banana-cart/internal/logic"

// Display shows a status line and a result line.
type Display interface {
	// Status writes row 0.
	Status(text string) error
	// Result writes row 1.
	Result(text string) error
	Close() error
}

// Status texts shown on row 0. Trailing spaces overwrite longer previous text.
const (
	TextReady    = "Banana Car Ready"
	TextMoving   = "Moving Forward "
	TextDetected = "Object Detected"
)

// ResultText formats row 1 for a verdict.
func ResultText(v logic.Verdict) string {
	return "Banana: " + string(v) + "   "
}
