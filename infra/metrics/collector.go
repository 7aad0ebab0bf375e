package metrics

import (
	"context"

	"github.com/kilianp07/powerplan/core/events"
	coremetrics "github.com/kilianp07/powerplan/core/metrics"
	"github.com/kilianp07/powerplan/infra/logger"
	"github.com/kilianp07/powerplan/internal/eventbus"
)

// StartEventCollector subscribes to the event bus and records metrics for events.
// It stops when the context is canceled or the bus is closed. The returned
// channel is closed once the collector has exited.
func StartEventCollector(ctx context.Context, bus eventbus.EventBus[events.Event], sink coremetrics.Sink) <-chan struct{} {
	done := make(chan struct{})
	if bus == nil || sink == nil {
		close(done)
		return done
	}
	log := logger.New("metrics-collector")
	sub := bus.Subscribe()
	go func() {
		defer close(done)
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				switch e := ev.(type) {
				case events.RunCompleted:
					if err := sink.RecordRun(e.Run); err != nil {
						log.Warnf("record run %s: %v", e.Run.RunID, err)
					}
				case events.RunRejected:
					if r, ok := sink.(coremetrics.RejectionRecorder); ok {
						reason := ""
						if e.Err != nil {
							reason = e.Err.Error()
						}
						if err := r.RecordRejection(coremetrics.RejectedRunEvent{RunID: e.RunID, Reason: reason, Time: e.At}); err != nil {
							log.Warnf("record rejection %s: %v", e.RunID, err)
						}
					}
				}
			}
		}
	}()
	return done
}
