package logic

import "testing"

func TestClassify(t *testing.T) {
	th := DefaultThresholds()
	tests := []struct {
		name string
		ppm  GasConcentration
		hue  float32
		want Verdict
	}{
		{"gas only", 401, 0, VerdictRotten},
		{"hue only, boundary inclusive", 0, 100.0, VerdictRotten},
		{"both just inside", 400, 99.9, VerdictGood},
		{"both over", 900, 240, VerdictRotten},
		{"fresh yellow", 120, 55, VerdictGood},
		{"negative ppm", -55, 10, VerdictGood},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.ppm, HSV{H: tt.hue}, th)
			if got != tt.want {
				t.Errorf("Classify(%d, h=%v): got %s, want %s", tt.ppm, tt.hue, got, tt.want)
			}
		})
	}
}

func TestClassifyIgnoresSaturationAndValue(t *testing.T) {
	th := DefaultThresholds()
	a := Classify(100, HSV{H: 50, S: 0, V: 0}, th)
	b := Classify(100, HSV{H: 50, S: 1, V: 1}, th)
	if a != b || a != VerdictGood {
		t.Errorf("got %s and %s, want GOOD for both", a, b)
	}
}

func TestClassifyCustomThresholds(t *testing.T) {
	th := Thresholds{GasPPM: 200, Hue: 80}
	if got := Classify(201, HSV{H: 10}, th); got != VerdictRotten {
		t.Errorf("got %s, want ROTTEN", got)
	}
	if got := Classify(150, HSV{H: 79.99}, th); got != VerdictGood {
		t.Errorf("got %s, want GOOD", got)
	}
}

func TestClassifyHueBoundaryFromPulses(t *testing.T) {
	th := DefaultThresholds()
	tests := []struct {
		pulse RGBPulse
		want  Verdict
	}{
		{RGBPulse{R: 6, G: 0, B: 9}, VerdictRotten},
		{RGBPulse{R: 14, G: 0, B: 21}, VerdictRotten},
		{RGBPulse{R: 4, G: 0, B: 6}, VerdictGood},
	}
	for _, tt := range tests {
		color := RGBToHSV(NormalizeSample(tt.pulse, DefaultMaxPulseWidth))
		if got := Classify(0, color, th); got != tt.want {
			t.Errorf("%+v (h=%v): got %s, want %s", tt.pulse, color.H, got, tt.want)
		}
	}
}
