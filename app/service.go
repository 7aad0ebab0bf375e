package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/powerplan/api/optimize"
	"github.com/kilianp07/powerplan/api/runs"
	"github.com/kilianp07/powerplan/config"
	"github.com/kilianp07/powerplan/core/events"
	"github.com/kilianp07/powerplan/core/locale"
	coremetrics "github.com/kilianp07/powerplan/core/metrics"
	"github.com/kilianp07/powerplan/core/model"
	coremon "github.com/kilianp07/powerplan/core/monitoring"
	coremqtt "github.com/kilianp07/powerplan/core/mqtt"
	"github.com/kilianp07/powerplan/core/runlog"
	"github.com/kilianp07/powerplan/core/scheduler"
	"github.com/kilianp07/powerplan/infra/dataset"
	"github.com/kilianp07/powerplan/infra/logger"
	"github.com/kilianp07/powerplan/infra/metrics"
	"github.com/kilianp07/powerplan/infra/monitoring"
	"github.com/kilianp07/powerplan/infra/mqtt"
	"github.com/kilianp07/powerplan/internal/eventbus"
	"github.com/kilianp07/powerplan/pkg/export"
)

// Service wires the optimizer to run history, metrics, MQTT and HTTP.
type Service struct {
	cfg        *config.Config
	opt        *scheduler.Optimizer
	appliances locale.Table
	days       locale.Table
	sink       coremetrics.Sink
	store      runlog.Store
	pub        coremqtt.Publisher
	bus        *eventbus.Bus[events.Event]
	collector  <-chan struct{}
	log        logger.Logger
}

// New loads the dataset named in cfg and creates a Service.
func New(ctx context.Context, cfg *config.Config) (*Service, error) {
	if err := cfg.Dataset.Validate(); err != nil {
		return nil, err
	}
	records, err := dataset.Load(ctx, cfg.Dataset)
	if err != nil {
		return nil, err
	}
	return NewWithRecords(cfg, records)
}

// NewWithRecords creates a Service over records already in memory.
func NewWithRecords(cfg *config.Config, records []model.ConsumptionRecord) (*Service, error) {
	logg := logger.New("service")
	mon, err := monitoring.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		return nil, fmt.Errorf("sentry: %w", err)
	}
	coremon.Init(mon)

	opt, err := scheduler.New(records, cfg.Scheduler, logger.New("scheduler"))
	if err != nil {
		return nil, fmt.Errorf("optimizer: %w", err)
	}
	sink, err := coremetrics.NewSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}
	store, err := runlog.NewStore(cfg.RunLog)
	if err != nil {
		return nil, fmt.Errorf("run log: %w", err)
	}
	var pub coremqtt.Publisher = coremqtt.NopPublisher{}
	if cfg.MQTT.Enabled() {
		p, err := mqtt.NewPublisher(cfg.MQTT)
		if err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("mqtt publisher: %w", err)
		}
		pub = p
	}
	apps, days := cfg.Locale.Tables()
	bus := eventbus.NewWithBuffer[events.Event](64)
	svc := &Service{
		cfg:        cfg,
		opt:        opt,
		appliances: apps,
		days:       days,
		sink:       sink,
		store:      store,
		pub:        pub,
		bus:        bus,
		log:        logg,
	}
	svc.collector = metrics.StartEventCollector(context.Background(), bus, sink)
	logg.Infof("service ready: %d consumption rows, rate %.2f", len(records), opt.Config().RatePerKWh)
	return svc, nil
}

// Translate maps localized names in req to dataset identifiers. Days that
// are still not canonical after translation are logged.
func (s *Service) Translate(req model.Request) model.Request {
	req.PriorityAppliances = s.appliances.TranslateAll(req.PriorityAppliances)
	req.ScheduledAppliances = s.appliances.TranslateAll(req.ScheduledAppliances)
	req.AdditionalAppliances = s.appliances.TranslateAll(req.AdditionalAppliances)
	req.ScheduledDays = s.days.TranslateAll(req.ScheduledDays)
	for _, d := range req.ScheduledDays {
		if !model.IsWeekday(d) {
			s.log.Warnf("unknown day %q, no consumption rows will match", d)
		}
	}
	return req
}

// Optimize translates and optimizes req, then records and publishes the
// outcome. Recording and publishing failures are logged, not returned.
func (s *Service) Optimize(ctx context.Context, req model.Request) (export.Report, error) {
	if err := ctx.Err(); err != nil {
		return export.Report{}, err
	}
	runID := uuid.NewString()
	start := time.Now()
	req = s.Translate(req)

	res, err := s.opt.Optimize(req)
	if err != nil {
		s.reject(ctx, runID, start, req, err)
		return export.Report{}, err
	}
	dur := time.Since(start)
	rep := export.NewReport(runID, s.opt.Config().RatePerKWh, req.Budget, res)

	s.bus.Publish(events.RunCompleted{Run: coremetrics.RunEvent{
		RunID:    runID,
		Time:     start,
		Duration: dur,
		Request:  req,
		Result:   res,
		Status:   rep.Status,
	}})
	s.recordIndexStats()
	if err := s.store.Append(ctx, runlog.Record{
		RunID:      runID,
		Timestamp:  start,
		DurationMS: float64(dur.Microseconds()) / 1000,
		Request:    req,
		Result:     &res,
		Status:     rep.Status,
	}); err != nil {
		s.log.Errorf("run log append %s: %v", runID, err)
		coremon.CaptureException(err, map[string]string{"module": "runlog", "run_id": runID})
	}
	if err := s.pub.PublishPlan(ctx, coremqtt.Plan{RunID: runID, GeneratedAt: start, Result: res, Status: rep.Status}); err != nil {
		s.log.Errorf("publish plan %s: %v", runID, err)
	}
	if rep.Status.OverBudget {
		s.log.Warnf("run %s exceeds budget by %.2f", runID, rep.Status.Overrun)
	}
	s.log.Infof("run %s done in %s: total cost %.2f", runID, dur, res.TotalCost)
	return rep, nil
}

func (s *Service) reject(ctx context.Context, runID string, at time.Time, req model.Request, err error) {
	s.log.Warnf("run %s rejected: %v", runID, err)
	s.bus.Publish(events.RunRejected{RunID: runID, Err: err, At: at})
	if !scheduler.IsInvalidInput(err) {
		coremon.CaptureException(err, map[string]string{"module": "scheduler", "run_id": runID})
	}
	if aerr := s.store.Append(ctx, runlog.Record{RunID: runID, Timestamp: at, Request: req, Error: err.Error()}); aerr != nil {
		s.log.Errorf("run log append %s: %v", runID, aerr)
	}
}

func (s *Service) recordIndexStats() {
	rec, ok := s.sink.(coremetrics.IndexStatsRecorder)
	if !ok {
		return
	}
	ix := s.opt.Index()
	if err := rec.RecordIndexStats(coremetrics.IndexStats{CachedKeys: ix.Len(), Scans: ix.Scans(), Records: ix.Records()}); err != nil {
		s.log.Warnf("index stats: %v", err)
	}
}

// Runs queries the run history.
func (s *Service) Runs(ctx context.Context, q runlog.Query) ([]runlog.Record, error) {
	return s.store.Query(ctx, q)
}

// Handler returns the HTTP API.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/api/optimize", optimize.NewHandler(s, s.cfg.API.Token))
	mux.Handle("/api/runs", runs.NewHandler(s.store, s.cfg.API.Token))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	timeout := time.Duration(s.cfg.API.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		return mux
	}
	return http.TimeoutHandler(mux, timeout, "request timed out")
}

// Run serves the HTTP API, and Prometheus metrics when configured, until
// the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	if s.cfg.Metrics.HasSink("prometheus") {
		coremon.Go(func() {
			if err := metrics.StartPromServer(ctx, s.cfg.Metrics.PrometheusAddr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		})
	}
	srv := &http.Server{Addr: s.cfg.API.Addr, Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}
	coremon.Go(func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Errorf("http shutdown: %v", err)
		}
	})
	s.log.Infof("listening on %s", s.cfg.API.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close flushes pending metrics and releases resources held by the service.
func (s *Service) Close() error {
	s.bus.Close()
	<-s.collector
	s.pub.Close()
	if c, ok := s.sink.(interface{ Close() }); ok {
		c.Close()
	}
	coremon.Flush(2 * time.Second)
	return s.store.Close()
}
