package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sweeney/banana-cart/internal/cart"
	"github.com/sweeney/banana-cart/internal/config"
	"github.com/sweeney/banana-cart/internal/logic"
)

// calibrationSamples is the number of color readings printed by -calibrate.
const calibrationSamples = 10

// pulseReader is the part of cart.Cart used for calibration.
type pulseReader interface {
	ReadPulses(ctx context.Context) (logic.RGBPulse, error)
}

func calibrate(cfg config.Config, w io.Writer) error {
	hw, err := openColorSensor(cfg)
	if err != nil {
		return err
	}
	defer hw.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := cart.New(hw.devices, settingsFrom(cfg))
	return printCalibration(ctx, c, logic.PulseWidth(cfg.Calibration.MaxPulseWidth), calibrationSamples, w)
}

// printCalibration prints raw pulse widths, normalized intensities and HSV
// for n readings so max_pulse_width and the hue threshold can be tuned.
func printCalibration(ctx context.Context, r pulseReader, maxPW logic.PulseWidth, n int, w io.Writer) error {
	for i := 0; i < n; i++ {
		p, err := r.ReadPulses(ctx)
		if err != nil {
			return fmt.Errorf("read color: %w", err)
		}
		s := logic.NormalizeSample(p, maxPW)
		c := logic.RGBToHSV(s)
		fmt.Fprintf(w, "pulse R=%d G=%d B=%d | rgb %.0f %.0f %.0f | H: %.2f S: %.2f V: %.2f\n",
			p.R, p.G, p.B, s.R, s.G, s.B, c.H, c.S, c.V)
	}
	return nil
}
