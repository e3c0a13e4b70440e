// Command banana-cart drives the banana inspection cart: it advances until an
// obstacle is close, inspects the banana in front of it, and reports the
// verdict on the LCD, the serial link, MQTT and optionally Kafka.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sweeney/banana-cart/internal/cart"
	"github.com/sweeney/banana-cart/internal/config"
	"github.com/sweeney/banana-cart/internal/kafka"
	"github.com/sweeney/banana-cart/internal/logic"
	"github.com/sweeney/banana-cart/internal/metrics"
	"github.com/sweeney/banana-cart/internal/mqtt"
	"github.com/sweeney/banana-cart/internal/status"
	"github.com/sweeney/banana-cart/internal/web"
)

type options struct {
	poll      time.Duration
	heartbeat time.Duration
	httpAddr  string
	wsBroker  string
	calibrate bool
}

func main() {
	configPath := flag.String("config", "", "YAML config file (empty for built-in defaults)")
	poll := flag.Duration("poll", 100*time.Millisecond, "Control loop interval")
	broker := flag.String("broker", "", "MQTT broker address (overrides config)")
	heartbeat := flag.Duration("heartbeat", 15*time.Minute, "Heartbeat interval (0 to disable)")
	httpAddr := flag.String("http", ":80", "HTTP status address (empty to disable)")
	wsBroker := flag.String("ws-broker", "=broker", `MQTT websocket URL for live UI ("=broker" derives from the broker, "off" disables)`)
	calibrate := flag.Bool("calibrate", false, "Print color sensor readings and exit")

	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}
	if *broker != "" {
		cfg.MQTT.Broker = *broker
	}

	opts := options{
		poll:      *poll,
		heartbeat: *heartbeat,
		httpAddr:  *httpAddr,
		wsBroker:  resolveWSBroker(*wsBroker, cfg.MQTT.Broker),
		calibrate: *calibrate,
	}
	if err := run(cfg, opts); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(cfg config.Config, opts options) error {
	if opts.calibrate {
		return calibrate(cfg, os.Stdout)
	}

	hw, err := openHardware(cfg)
	if err != nil {
		return err
	}
	defer hw.Close()

	c := cart.New(hw.devices, settingsFrom(cfg))
	if err := c.Ready(); err != nil {
		return fmt.Errorf("ready: %w", err)
	}

	// Initialize MQTT
	publisher, err := mqtt.NewRealPublisher(cfg.MQTT.Broker, cfg.MQTT.ClientID)
	if err != nil {
		return fmt.Errorf("init mqtt: %w", err)
	}
	defer publisher.Close()

	var sinks []inspectionSink
	if len(cfg.Kafka.Brokers) > 0 {
		kp := kafka.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer kp.Close()
		sinks = append(sinks, kp)
		log.Printf("kafka sink: brokers=%v topic=%s", cfg.Kafka.Brokers, cfg.Kafka.Topic)
	}

	// Initialize status tracker (before STARTUP so snapshot is available)
	tracker := status.NewTracker(time.Now(), status.Config{
		PollMs:         opts.poll.Milliseconds(),
		HoldMs:         cfg.Drive.Hold.Milliseconds(),
		HeartbeatMs:    opts.heartbeat.Milliseconds(),
		StopDistanceCM: cfg.Drive.StopDistanceCM,
		MaxPulseWidth:  cfg.Calibration.MaxPulseWidth,
		GasThreshold:   cfg.Thresholds.GasPPM,
		HueThreshold:   cfg.Thresholds.Hue,
		Broker:         cfg.MQTT.Broker,
		HTTPAddr:       opts.httpAddr,
		WSBroker:       opts.wsBroker,
	})
	if net := readNetworkInfo(); net != nil {
		tracker.SetNetwork(net)
	}
	tracker.SetMQTTConnected(publisher.IsConnected())

	// Publish startup event with full status snapshot
	snap := tracker.Snapshot()
	startupEvent := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := publisher.PublishSystem(startupEvent); err != nil {
		log.Printf("failed to publish startup event: %v", err)
	} else {
		log.Printf("published startup event")
	}

	m := metrics.New()

	// Start HTTP status server
	if opts.httpAddr != "" {
		srv := web.New(opts.httpAddr, tracker, m.Handler(), log.Writer())
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", opts.httpAddr)
	}

	log.Printf("started: poll=%v hold=%v stop=%dcm broker=%s heartbeat=%v",
		opts.poll, cfg.Drive.Hold, cfg.Drive.StopDistanceCM, cfg.MQTT.Broker, opts.heartbeat)

	ticker := time.NewTicker(opts.poll)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	l := &loop{
		cart:       c,
		publisher:  publisher,
		mqttStatus: publisher,
		sinks:      sinks,
		tracker:    tracker,
		metrics:    m,
		hold:       cfg.Drive.Hold,
		heartbeat:  opts.heartbeat,
		now:        time.Now,
		after:      time.After,
	}
	return l.run(ticker.C, sigCh)
}

func settingsFrom(cfg config.Config) cart.Settings {
	return cart.Settings{
		MaxPulseWidth:  logic.PulseWidth(cfg.Calibration.MaxPulseWidth),
		GasZero:        cfg.Calibration.GasZero,
		GasSamples:     cfg.Calibration.GasSamples,
		SampleDelay:    cfg.Calibration.SampleDelay,
		ChannelSettle:  cfg.Calibration.ChannelSettle,
		StopDistanceCM: cfg.Drive.StopDistanceCM,
		Thresholds:     cfg.ClassifierThresholds(),
	}
}

// stepper is the part of cart.Cart the loop drives.
type stepper interface {
	Step(ctx context.Context) (cart.Outcome, error)
	Halt() error
}

// inspectionSink is a secondary destination for inspections, e.g. Kafka.
type inspectionSink interface {
	Publish(in logic.Inspection) error
}

type loop struct {
	cart       stepper
	publisher  mqtt.Publisher
	mqttStatus mqtt.ConnectionStatus
	sinks      []inspectionSink
	tracker    *status.Tracker
	metrics    *metrics.Metrics
	hold       time.Duration
	heartbeat  time.Duration
	now        func() time.Time
	after      func(time.Duration) <-chan time.Time
}

func (l *loop) run(tick <-chan time.Time, sig <-chan os.Signal) error {
	tally := logic.NewTally(l.now())

	for {
		select {
		case s := <-sig:
			l.shutdown(s)
			return nil

		case <-tick:
			out, err := l.cart.Step(context.Background())
			if err != nil {
				log.Printf("cycle error: %v", err)
				if l.tracker != nil {
					l.tracker.CycleFailed()
				}
				if l.metrics != nil {
					l.metrics.CycleFailed()
				}
				if err := l.cart.Halt(); err != nil {
					log.Printf("halt error: %v", err)
				}
				continue
			}
			if l.metrics != nil {
				l.metrics.ObserveDistance(out.DistanceCM)
			}

			if in := out.Inspection; in != nil {
				tally.Record(in.Verdict)
				log.Printf("inspection: %s gas=%dppm h=%.2f s=%.2f v=%.2f",
					in.Verdict, in.GasPPM, in.Color.H, in.Color.S, in.Color.V)
				l.publish(*in)
			}

			// Check for heartbeat
			if hbData := tally.CheckHeartbeat(l.now(), l.heartbeat); hbData != nil {
				log.Printf("heartbeat: uptime=%v good=%d rotten=%d",
					hbData.Uptime, hbData.Counts.Good, hbData.Counts.Rotten)

				hbEvent := mqtt.SystemEvent{
					Timestamp: hbData.Timestamp,
					Event:     "HEARTBEAT",
				}
				if l.tracker != nil {
					l.refreshTracker(out, tally.Counts())
					// Refresh network info for heartbeat
					if net := readNetworkInfo(); net != nil {
						l.tracker.SetNetwork(net)
					}
					hbEvent.RawPayload = status.FormatStatusEvent(l.tracker.Snapshot(), "HEARTBEAT", "")
				}
				if err := l.publisher.PublishSystem(hbEvent); err != nil {
					log.Printf("heartbeat publish error: %v", err)
				}
			}

			// Update status tracker for HTTP consumers
			if l.tracker != nil {
				l.refreshTracker(out, tally.Counts())
			}

			if out.Inspection != nil && l.hold > 0 {
				select {
				case s := <-sig:
					l.shutdown(s)
					return nil
				case <-l.after(l.hold):
				}
			}
		}
	}
}

func (l *loop) publish(in logic.Inspection) {
	if l.metrics != nil {
		l.metrics.ObserveInspection(in)
	}
	if err := l.publisher.Publish(in); err != nil {
		// Don't crash on publish failure
		log.Printf("publish error: %v", err)
	}
	for _, s := range l.sinks {
		if err := s.Publish(in); err != nil {
			log.Printf("sink publish error: %v", err)
		}
	}
}

func (l *loop) refreshTracker(out cart.Outcome, counts logic.VerdictCounts) {
	l.tracker.Update(out.Motion, out.DistanceCM, counts)
	if out.Inspection != nil {
		l.tracker.SetInspection(*out.Inspection)
	}
	if l.mqttStatus != nil {
		l.tracker.SetMQTTConnected(l.mqttStatus.IsConnected())
	}
}

func (l *loop) shutdown(s os.Signal) {
	log.Printf("received %v, shutting down", s)
	if err := l.cart.Halt(); err != nil {
		log.Printf("halt error: %v", err)
	}

	signalName := "UNKNOWN"
	if s == syscall.SIGINT {
		signalName = "SIGINT"
	} else if s == syscall.SIGTERM {
		signalName = "SIGTERM"
	}
	event := mqtt.SystemEvent{
		Timestamp: l.now(),
		Event:     "SHUTDOWN",
		Reason:    signalName,
		Retained:  true,
	}
	if l.tracker != nil {
		if l.mqttStatus != nil {
			l.tracker.SetMQTTConnected(l.mqttStatus.IsConnected())
		}
		event.RawPayload = status.FormatStatusEvent(l.tracker.Snapshot(), "SHUTDOWN", signalName)
	}
	if err := l.publisher.PublishSystem(event); err != nil {
		log.Printf("failed to publish shutdown event: %v", err)
	} else {
		log.Printf("published shutdown event")
	}
}

// pi-helper env var names (written to /run/pi-helper.env).
const (
	envNetworkType       = "NETWORK_TYPE"
	envNetworkIP         = "NETWORK_IP"
	envNetworkStatus     = "NETWORK_STATUS"
	envNetworkGateway    = "NETWORK_GATEWAY"
	envNetworkWifiStatus = "NETWORK_WIFI_STATUS"
	envNetworkWifiSSID   = "NETWORK_WIFI_SSID"
)

func readNetworkInfo() *status.NetworkInfo {
	s := os.Getenv(envNetworkStatus)
	if s == "" {
		return nil
	}
	return &status.NetworkInfo{
		Type:       os.Getenv(envNetworkType),
		IP:         os.Getenv(envNetworkIP),
		Status:     s,
		Gateway:    os.Getenv(envNetworkGateway),
		WifiStatus: os.Getenv(envNetworkWifiStatus),
		SSID:       os.Getenv(envNetworkWifiSSID),
	}
}

// resolveWSBroker converts the --ws-broker flag value into a concrete URL.
// "=broker" derives ws://host:9001 from the TCP broker address; empty disables.
func resolveWSBroker(ws, broker string) string {
	if ws == "off" {
		return ""
	}
	if ws != "=broker" {
		return ws
	}
	u, err := url.Parse(broker)
	if err != nil {
		log.Printf("ws-broker: cannot parse broker %q: %v", broker, err)
		return ""
	}
	u.Scheme = "ws"
	u.Host = u.Hostname() + ":9001"
	return u.String()
}
