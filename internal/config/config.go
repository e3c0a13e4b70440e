// Package config holds the cart's hardware and calibration settings.
// Defaults describe the reference build; an optional YAML file overrides any
// subset of them.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sweeney/banana-cart/internal/adc"
	"github.com/sweeney/banana-cart/internal/display"
	"github.com/sweeney/banana-cart/internal/gpio"
	"github.com/sweeney/banana-cart/internal/i2c"
	"github.com/sweeney/banana-cart/internal/logic"
	"github.com/sweeney/banana-cart/internal/serial"
)

// PinsConfig holds BCM line offsets.
type PinsConfig struct {
	IN1  int `yaml:"in1"`
	IN2  int `yaml:"in2"`
	IN3  int `yaml:"in3"`
	IN4  int `yaml:"in4"`
	Trig int `yaml:"trig"`
	Echo int `yaml:"echo"`
	S0   int `yaml:"s0"`
	S1   int `yaml:"s1"`
	S2   int `yaml:"s2"`
	S3   int `yaml:"s3"`
	Out  int `yaml:"out"`
}

// CalibrationConfig holds the sensor calibration constants.
type CalibrationConfig struct {
	MaxPulseWidth int           `yaml:"max_pulse_width"`
	GasZero       int           `yaml:"gas_zero"`
	GasSamples    int           `yaml:"gas_samples"`
	SampleDelay   time.Duration `yaml:"sample_delay"`
	ChannelSettle time.Duration `yaml:"channel_settle"`
	PulseTimeout  time.Duration `yaml:"pulse_timeout"`
}

// ThresholdsConfig holds the classifier boundaries.
type ThresholdsConfig struct {
	GasPPM int     `yaml:"gas_ppm"`
	Hue    float64 `yaml:"hue"`
}

// DriveConfig controls obstacle handling.
type DriveConfig struct {
	StopDistanceCM int64         `yaml:"stop_distance_cm"`
	Hold           time.Duration `yaml:"hold"`
}

// I2CConfig describes the shared I2C bus and its devices.
type I2CConfig struct {
	Bus        int     `yaml:"bus"`
	LCDAddress uint8   `yaml:"lcd_address"`
	LCDWidth   uint8   `yaml:"lcd_width"`
	LCDHeight  uint8   `yaml:"lcd_height"`
	ADCAddress uint16  `yaml:"adc_address"`
	ADCChannel int     `yaml:"adc_channel"`
	ADCVRef    float64 `yaml:"adc_vref"`
}

// SerialConfig describes the status UART. An empty device disables it.
type SerialConfig struct {
	Device string `yaml:"device"`
	Baud   int    `yaml:"baud"`
}

// MQTTConfig describes the telemetry broker.
type MQTTConfig struct {
	Broker   string `yaml:"broker"`
	ClientID string `yaml:"client_id"`
}

// KafkaConfig describes the optional Kafka sink. No brokers disables it.
type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// Config is the full daemon configuration.
type Config struct {
	Pins        PinsConfig        `yaml:"pins"`
	Calibration CalibrationConfig `yaml:"calibration"`
	Thresholds  ThresholdsConfig  `yaml:"thresholds"`
	Drive       DriveConfig       `yaml:"drive"`
	I2C         I2CConfig         `yaml:"i2c"`
	Serial      SerialConfig      `yaml:"serial"`
	MQTT        MQTTConfig        `yaml:"mqtt"`
	Kafka       KafkaConfig       `yaml:"kafka"`
}

// Default returns the reference build configuration.
func Default() Config {
	m, r, c := gpio.DefaultMotorPins, gpio.DefaultRangePins, gpio.DefaultColorPins
	return Config{
		Pins: PinsConfig{
			IN1: m.IN1, IN2: m.IN2, IN3: m.IN3, IN4: m.IN4,
			Trig: r.Trig, Echo: r.Echo,
			S0: c.S0, S1: c.S1, S2: c.S2, S3: c.S3, Out: c.Out,
		},
		Calibration: CalibrationConfig{
			MaxPulseWidth: int(logic.DefaultMaxPulseWidth),
			GasZero:       logic.DefaultGasZero,
			GasSamples:    10,
			SampleDelay:   50 * time.Millisecond,
			ChannelSettle: 50 * time.Millisecond,
			PulseTimeout:  gpio.DefaultPulseTimeout,
		},
		Thresholds: ThresholdsConfig{
			GasPPM: int(logic.DefaultThresholds().GasPPM),
			Hue:    float64(logic.DefaultThresholds().Hue),
		},
		Drive: DriveConfig{
			StopDistanceCM: logic.DefaultStopCM,
			Hold:           3 * time.Second,
		},
		I2C: I2CConfig{
			Bus:        i2c.DefaultBus,
			LCDAddress: display.DefaultAddress,
			LCDWidth:   16,
			LCDHeight:  2,
			ADCAddress: adc.DefaultAddress,
			ADCChannel: 0,
			ADCVRef:    5.0,
		},
		Serial: SerialConfig{
			Device: "/dev/serial0",
			Baud:   serial.DefaultBaud,
		},
		MQTT: MQTTConfig{
			Broker:   "tcp://192.168.1.200:1883",
			ClientID: "banana-cart",
		},
		Kafka: KafkaConfig{
			Topic: "cart.banana.inspections",
		},
	}
}

// Load reads a YAML file over the defaults. An empty path returns defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects settings the hardware or kernel cannot work with.
func (c Config) Validate() error {
	var errs []error

	if c.Calibration.MaxPulseWidth <= 0 {
		errs = append(errs, fmt.Errorf("calibration.max_pulse_width must be positive, got %d", c.Calibration.MaxPulseWidth))
	}
	if c.Calibration.GasSamples <= 0 {
		errs = append(errs, fmt.Errorf("calibration.gas_samples must be positive, got %d", c.Calibration.GasSamples))
	}
	if c.Calibration.PulseTimeout <= 0 {
		errs = append(errs, errors.New("calibration.pulse_timeout must be positive"))
	}
	if c.Calibration.SampleDelay < 0 || c.Calibration.ChannelSettle < 0 || c.Drive.Hold < 0 {
		errs = append(errs, errors.New("delays must not be negative"))
	}
	if c.I2C.ADCChannel < 0 || c.I2C.ADCChannel > 3 {
		errs = append(errs, fmt.Errorf("i2c.adc_channel must be 0-3, got %d", c.I2C.ADCChannel))
	}
	if c.I2C.ADCVRef <= 0 {
		errs = append(errs, fmt.Errorf("i2c.adc_vref must be positive, got %v", c.I2C.ADCVRef))
	}

	seen := map[int]string{}
	for _, p := range c.Pins.list() {
		if p.offset < 0 {
			errs = append(errs, fmt.Errorf("pins.%s must not be negative", p.name))
			continue
		}
		if other, ok := seen[p.offset]; ok {
			errs = append(errs, fmt.Errorf("pins.%s and pins.%s share line %d", other, p.name, p.offset))
			continue
		}
		seen[p.offset] = p.name
	}

	return errors.Join(errs...)
}

type namedPin struct {
	name   string
	offset int
}

func (p PinsConfig) list() []namedPin {
	return []namedPin{
		{"in1", p.IN1}, {"in2", p.IN2}, {"in3", p.IN3}, {"in4", p.IN4},
		{"trig", p.Trig}, {"echo", p.Echo},
		{"s0", p.S0}, {"s1", p.S1}, {"s2", p.S2}, {"s3", p.S3}, {"out", p.Out},
	}
}

// MotorPins returns the H-bridge pins.
func (c Config) MotorPins() gpio.MotorPins {
	return gpio.MotorPins{IN1: c.Pins.IN1, IN2: c.Pins.IN2, IN3: c.Pins.IN3, IN4: c.Pins.IN4}
}

// RangePins returns the ultrasonic pins.
func (c Config) RangePins() gpio.RangePins {
	return gpio.RangePins{Trig: c.Pins.Trig, Echo: c.Pins.Echo}
}

// ColorPins returns the color sensor pins.
func (c Config) ColorPins() gpio.ColorPins {
	return gpio.ColorPins{S0: c.Pins.S0, S1: c.Pins.S1, S2: c.Pins.S2, S3: c.Pins.S3, Out: c.Pins.Out}
}

// ClassifierThresholds returns the classifier thresholds.
func (c Config) ClassifierThresholds() logic.Thresholds {
	return logic.Thresholds{
		GasPPM: logic.GasConcentration(c.Thresholds.GasPPM),
		Hue:    float32(c.Thresholds.Hue),
	}
}

// LCD returns the display configuration.
func (c Config) LCD() display.LCDConfig {
	return display.LCDConfig{Address: c.I2C.LCDAddress, Width: c.I2C.LCDWidth, Height: c.I2C.LCDHeight}
}

// ADC returns the gas ADC configuration.
func (c Config) ADC() adc.Config {
	return adc.Config{Address: c.I2C.ADCAddress, Channel: c.I2C.ADCChannel, VRef: c.I2C.ADCVRef}
}
