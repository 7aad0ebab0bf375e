package metrics

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/powerplan/core/metrics"
	"github.com/kilianp07/powerplan/core/model"
	"github.com/kilianp07/powerplan/infra/logger"
)

// InfluxSink writes optimization runs to an InfluxDB instance using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback pings the InfluxDB instance and returns a
// NopSink if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.Sink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// Close releases the underlying client.
func (s *InfluxSink) Close() { s.client.Close() }

// RecordRun writes one optimization_run point followed by one tier_usage
// point per weekday and tier with planned energy.
func (s *InfluxSink) RecordRun(ev coremetrics.RunEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("optimization_run").
		AddTag("run_id", ev.RunID).
		AddTag("over_budget", strconv.FormatBool(ev.Status.OverBudget)).
		AddField("priority_cost", round3(ev.Result.PriorityCost)).
		AddField("scheduled_cost", round3(ev.Result.ScheduledCost)).
		AddField("additional_cost", round3(ev.Result.AdditionalCost)).
		AddField("total_cost", round3(ev.Result.TotalCost)).
		AddField("budget", round3(ev.Status.Budget)).
		AddField("duration_ms", round3(ev.Duration.Seconds()*1000)).
		SetTime(ev.Time)
	if err := s.writeAPI.WritePoint(ctx, p); err != nil {
		return err
	}
	for _, tp := range tierPoints(ev) {
		if err := s.writeAPI.WritePoint(ctx, tp); err != nil {
			return err
		}
	}
	return nil
}

// RecordRejection records a request that failed validation.
func (s *InfluxSink) RecordRejection(ev coremetrics.RejectedRunEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("optimization_rejected").
		AddTag("run_id", ev.RunID).
		AddField("reason", ev.Reason).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

func tierPoints(ev coremetrics.RunEvent) []*write.Point {
	var out []*write.Point
	add := func(day, tier string, kwh float64, slots int) {
		out = append(out, write.NewPointWithMeasurement("tier_usage").
			AddTag("run_id", ev.RunID).
			AddTag("day", day).
			AddTag("tier", tier).
			AddField("energy_kwh", round3(kwh)).
			AddField("slots", slots).
			SetTime(ev.Time))
	}
	for _, day := range model.Weekdays {
		if p, ok := ev.Result.Priority[day]; ok && len(p.Hours) > 0 {
			add(day, TierPriority, p.TotalKWh, len(p.Hours))
		}
		if s := ev.Result.Scheduled[day]; len(s) > 0 {
			add(day, TierScheduled, model.SlotEnergy(s), len(s))
		}
		if s := ev.Result.Additional[day]; len(s) > 0 {
			add(day, TierAdditional, model.SlotEnergy(s), len(s))
		}
	}
	return out
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
