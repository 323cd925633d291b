// Command flow-rig drives a flow-meter measurement rig: it opens a solenoid
// valve, counts pulses from a flow sensor over a fixed window, and reports
// the count on a 16x2 LCD, the log, and MQTT telemetry. Four buttons select
// which measurement to run.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sweeney/flow-rig/internal/config"
	"github.com/sweeney/flow-rig/internal/counter"
	"github.com/sweeney/flow-rig/internal/display"
	"github.com/sweeney/flow-rig/internal/gpio"
	"github.com/sweeney/flow-rig/internal/logic"
	"github.com/sweeney/flow-rig/internal/mqtt"
	"github.com/sweeney/flow-rig/internal/status"
	"github.com/sweeney/flow-rig/internal/valve"
	"github.com/sweeney/flow-rig/internal/web"
)

func main() {
	configPath := flag.String("config", "", "YAML config file (empty = built-in defaults)")
	poll := flag.Duration("poll", 10*time.Millisecond, "button polling interval")
	broker := flag.String("broker", "", "MQTT broker address (empty to disable telemetry)")
	httpAddr := flag.String("http", ":8080", "HTTP status address (empty to disable)")
	noDisplay := flag.Bool("no-display", false, "run without the LCD")
	printConfig := flag.Bool("print-config", false, "print the resolved configuration and exit")

	flag.Parse()

	if err := run(*configPath, *poll, *broker, *httpAddr, *noDisplay, *printConfig); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

// nopDisplay stands in when the rig runs headless.
type nopDisplay struct{}

func (nopDisplay) Write(string, int) {}

func run(configPath string, poll time.Duration, broker, httpAddr string, noDisplay, printConfig bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if printConfig {
		out, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}
		fmt.Print(string(out))
		return nil
	}

	// Pulse counter and GPIO. The edge callback must be registered before
	// anything can open the valve.
	var pulses counter.PulseCounter
	rig, err := gpio.NewRealRig(cfg.GPIOPins(), pulses.Increment)
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}
	defer rig.Close()

	// Valve forced closed at boot: no flow until a measurement asks for it.
	vlv := valve.New(rig)

	// Display: clear, backlight on. A missing panel is tolerated — the rig
	// still measures and logs.
	var disp display.Display = nopDisplay{}
	if !noDisplay {
		lcd, err := display.NewLCD(cfg.Rig.Display.I2CBus, cfg.DisplayAddr())
		if err != nil {
			log.Printf("display unavailable, continuing without: %v", err)
		} else {
			defer lcd.Close()
			disp = lcd
		}
	}

	// Telemetry is optional; the rig is standalone without a broker.
	var publisher mqtt.Publisher
	var mqttStatus mqtt.ConnectionStatus
	if broker != "" {
		real := mqtt.NewRealPublisher(broker)
		defer real.Close()
		publisher, mqttStatus = real, real
	}

	tracker := status.NewTracker(time.Now(), status.Config{
		PollMs:       poll.Milliseconds(),
		DebounceMs:   cfg.Debounce().Milliseconds(),
		DebounceMode: string(cfg.DebounceMode()),
		SplitCycles:  *cfg.Rig.SplitCycles,
		SplitPauseMs: cfg.SplitPause().Milliseconds(),
		Broker:       broker,
		HTTPAddr:     httpAddr,
	})

	// Publish startup event with full status snapshot.
	if publisher != nil {
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
	}

	// Start HTTP status server.
	if httpAddr != "" {
		srv := web.New(httpAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", httpAddr)
	}

	disp.Write("Ready", 0)
	log.Printf("started: poll=%v debounce=%v (%s) pins=%+v broker=%s",
		poll, cfg.Debounce(), cfg.DebounceMode(), cfg.GPIOPins(), broker)

	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(rig, vlv, &pulses, disp, publisher, mqttStatus, tracker, cfg, time.Now, ticker.C, sigCh)
}

// trackedValve mirrors valve actuations into the status tracker so the web
// page shows the live position during a measurement.
type trackedValve struct {
	vlv     *valve.Controller
	tracker *status.Tracker
}

func (t *trackedValve) Open() {
	t.vlv.Open()
	t.tracker.SetValve(valve.StateOpen)
}

func (t *trackedValve) Close() {
	t.vlv.Close()
	t.tracker.SetValve(valve.StateClosed)
}

func runLoop(buttons gpio.ButtonReader, vlv *valve.Controller, pulses *counter.PulseCounter, disp display.Display, publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, cfg config.Config, now logic.Clock, tick <-chan time.Time, sig <-chan os.Signal) error {
	scanner := logic.NewScanner(cfg.Debounce(), cfg.DebounceMode(), cfg.Requests())
	engine := logic.NewEngine(
		&trackedValve{vlv: vlv, tracker: tracker},
		pulses,
		disp,
		now,
		log.Printf,
		*cfg.Rig.SplitCycles,
		cfg.SplitPause(),
	)

	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			// Fail safe before anything else.
			vlv.Close()

			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			if publisher != nil {
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
				snap := tracker.Snapshot()
				event := mqtt.SystemEvent{
					Timestamp:  snap.Now,
					Event:      "SHUTDOWN",
					Reason:     signalName,
					Retained:   true,
					RawPayload: status.FormatStatusEvent(snap, "SHUTDOWN", signalName),
				}
				if err := publisher.PublishSystem(event); err != nil {
					log.Printf("failed to publish shutdown event: %v", err)
				} else {
					log.Printf("published shutdown event")
				}
			}
			return nil

		case <-tick:
			t := now()
			pressed, err := buttons.Read()
			if err != nil {
				log.Printf("gpio read error: %v", err)
				continue
			}

			requests := scanner.Scan(logic.Input{
				OneSec:     pressed.OneSec,
				ThreeSec:   pressed.ThreeSec,
				TenSec:     pressed.TenSec,
				HundredSec: pressed.HundredSec,
				Time:       t,
			})

			for _, req := range requests {
				log.Printf("button %s pressed", req.Button)

				// The run is blocking and non-preemptible: no button
				// scanning, no ticks serviced, until it completes.
				tracker.SetState(status.StateMeasuring)
				total := engine.Run(req)
				finished := now()
				// Re-arm the debounce clock to the post-measurement time so
				// a button held through the run does not fire again.
				scanner.Rearm(req.Button, finished)
				tracker.RecordResult(status.Result{
					Button:   req.Button,
					Mode:     req.Mode,
					Seconds:  req.Seconds,
					Pulses:   total,
					Finished: finished,
				})
				tracker.SetState(status.StateReady)

				if publisher != nil {
					m := mqtt.Measurement{
						Timestamp: finished,
						Button:    req.Button,
						Mode:      req.Mode,
						Seconds:   req.Seconds,
						Pulses:    total,
					}
					if err := publisher.PublishMeasurement(m); err != nil {
						log.Printf("publish error: %v", err)
						// Don't crash on publish failure
					}
				}
			}

			if mqttStatus != nil {
				tracker.SetMQTTConnected(mqttStatus.IsConnected())
			}
		}
	}
}
