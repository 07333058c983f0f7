// Command rxdemo streams a ticking counter over Server-Sent Events.
//
//	GET /events        every tick
//	GET /events/even   even ticks only
//	GET /events/total  running total of tick numbers
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kbukum/rxkit/bootstrap"
	"github.com/kbukum/rxkit/bus"
	"github.com/kbukum/rxkit/component"
	"github.com/kbukum/rxkit/config"
	"github.com/kbukum/rxkit/fn"
	"github.com/kbukum/rxkit/logger"
	"github.com/kbukum/rxkit/observability"
	"github.com/kbukum/rxkit/rx"
	"github.com/kbukum/rxkit/server"
	"github.com/kbukum/rxkit/sse"
)

const (
	serviceName     = "rxdemo"
	ticksTopic      = "ticks"
	tickInterval    = time.Second
	gracefulTimeout = 10 * time.Second
	drainInterval   = 50 * time.Millisecond
)

// Tick is the event streamed to clients.
type Tick struct {
	Seq    int   `json:"seq"`
	Square int   `json:"square"`
	At     int64 `json:"at"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", serviceName, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(serviceName)
	if err != nil {
		return err
	}
	app, err := bootstrap.NewApp(cfg, bootstrap.WithGracefulTimeout(gracefulTimeout))
	if err != nil {
		return err
	}
	log := app.Logger.WithComponent("app")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics, shutdownTelemetry, err := initTelemetry(ctx, cfg)
	if err != nil {
		return err
	}
	defer shutdownTelemetry()

	events := bus.New(serviceName, bus.Options{
		Metrics: metrics,
		Diagnostics: func(err error) {
			log.Warn("Subject diagnostic", logger.ErrorFields("deliver", err))
		},
	})
	ticks, err := bus.Topic[int](events, ticksTopic)
	if err != nil {
		return err
	}

	scheduler, err := rx.SchedulerFor(cfg.Rx.Scheduler)
	if err != nil {
		return err
	}

	all := rx.ReceiveOn(rx.Map(ticks.Publisher(), newTick), scheduler)
	even := rx.Filter(all, fn.Compose(seqOf, isEven))
	total := rx.Scan(ticks.Publisher(), 0, func(acc, n int) int { return acc + n })

	hub := sse.NewHub()
	srv := server.New(cfg.Server, app.Logger)
	srv.ApplyMiddleware()
	srv.RegisterDefaultEndpoints(cfg.Name, app.Components.HealthAll)

	streamOpts := func(topic string) []sse.Option {
		return []sse.Option{sse.WithHub(hub), sse.WithMetrics(metrics), sse.WithTopic(topic)}
	}
	engine := srv.GinEngine()
	engine.GET("/events", sse.Handler(all, cfg.SSE, streamOpts(ticksTopic)...))
	engine.GET("/events/even", sse.Handler(even, cfg.SSE, streamOpts(ticksTopic+".even")...))
	engine.GET("/events/total", sse.Handler(total, cfg.SSE, streamOpts(ticksTopic+".total")...))

	comps := append([]component.Component{server.NewComponent(srv)}, streamComponents(hub, events, scheduler)...)
	for _, c := range comps {
		if err := app.RegisterComponent(c); err != nil {
			return err
		}
	}

	app.OnReady(func(context.Context) error {
		go produce(ctx, log, ticks, cfg.Rx.DefaultBuffer)
		return nil
	})
	return app.Run(ctx)
}

// produce feeds a ticker into the subject until ctx is done.
func produce(ctx context.Context, log *logger.Logger, s *rx.Subject[int], buffer int) {
	ch := make(chan int, buffer)
	go func() {
		defer close(ch)
		ticker := time.NewTicker(tickInterval)
		defer ticker.Stop()
		for n := 1; ; n++ {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				select {
				case ch <- n:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	if err := rx.Pump(ctx, s, ch); err != nil {
		log.Debug("Producer stopped", logger.Fields("reason", err.Error()))
	}
}

// streamComponents lists the stream side of the app in registration order.
// Components stop in reverse: the bus finishes every topic, a deferred
// scheduler delivers the queued completions, then the hub closes what is left.
func streamComponents(hub *sse.Hub, events *bus.Bus, scheduler rx.Scheduler) []component.Component {
	comps := []component.Component{sse.NewComponent(hub, "/events")}
	if d, ok := scheduler.(*rx.Deferred); ok {
		comps = append(comps, newDrainer(d, drainInterval))
	}
	return append(comps, events)
}

func newTick(n int) Tick {
	return Tick{Seq: n, Square: n * n, At: time.Now().Unix()}
}

func seqOf(t Tick) int { return t.Seq }

func isEven(n int) bool { return n%2 == 0 }

func initTelemetry(ctx context.Context, cfg *config.Config) (*observability.Metrics, func(), error) {
	var shutdowns []func(context.Context) error
	shutdown := func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		for _, f := range shutdowns {
			if err := f(sctx); err != nil {
				logger.Warn("Telemetry shutdown failed", logger.ErrorFields("shutdown", err))
			}
		}
	}

	var metrics *observability.Metrics
	if cfg.Observability.MetricsEnabled {
		mp, err := observability.InitMeter(ctx, cfg.MeterConfig())
		if err != nil {
			return nil, shutdown, fmt.Errorf("init meter: %w", err)
		}
		shutdowns = append(shutdowns, mp.Shutdown)
		metrics, err = observability.NewMetrics(observability.Meter(serviceName))
		if err != nil {
			shutdown()
			return nil, func() {}, fmt.Errorf("create metrics: %w", err)
		}
	}
	if cfg.Observability.TracingEnabled {
		tp, err := observability.InitTracer(ctx, cfg.TracerConfig())
		if err != nil {
			shutdown()
			return nil, func() {}, fmt.Errorf("init tracer: %w", err)
		}
		shutdowns = append(shutdowns, tp.Shutdown)
	}
	return metrics, shutdown, nil
}
