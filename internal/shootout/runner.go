package shootout

import (
	"context"
	"errors"
	"io"
	"log"
	"time"

	"shootout/internal/kismet"
	"shootout/internal/metrics"
	"shootout/internal/model"
	"shootout/internal/registry"
)

// ErrInvalidState is returned when the runner reaches a state it does not
// recognize. Not reachable under correct operation.
var ErrInvalidState = errors.New("state error")

// Client is the slice of the Kismet API the runner consumes.
type Client interface {
	Datasources(ctx context.Context) ([]kismet.Datasource, error)
	SetChannel(ctx context.Context, uuid string, channel int) (string, error)
}

// state tracks which phase of the shootout a run is in. Syncing means we
// are capturing a packet-count baseline after tuning, Collecting means we
// are counting frames against that baseline.
type state int

const (
	stateSyncing state = iota
	stateCollecting
)

// Runner drives the shootout loop: one snapshot fetch, update, and report
// per interval.
type Runner struct {
	Client      Client
	Registry    *registry.Registry
	Channel     int
	SyncOnStart bool          // tune channels and capture a baseline before collecting
	Interval    time.Duration // time between iterations
	Out         io.Writer     // report destination
	MetricsPath string        // optional CSV sample log
	Iterations  int           // stop after this many iterations; 0 means run until ctx is done
}

// Run executes the shootout until ctx is cancelled or the iteration bound
// is reached. A Syncing pass, when enabled, consumes the first iteration
// and produces no report. Remote errors are not retried; the first one
// ends the run.
func (r *Runner) Run(ctx context.Context) error {
	st := stateCollecting
	if r.SyncOnStart {
		if err := r.tune(ctx); err != nil {
			return err
		}
		st = stateSyncing
	}

	iterations := 0
	for {
		snapshot, err := r.Client.Datasources(ctx)
		if err != nil {
			return err
		}

		switch st {
		case stateSyncing:
			r.sync(snapshot)
			st = stateCollecting
		case stateCollecting:
			if err := r.collect(snapshot); err != nil {
				return err
			}
		default:
			return ErrInvalidState
		}

		iterations++
		if r.Iterations > 0 && iterations >= r.Iterations {
			return nil
		}
		if err := r.wait(ctx); err != nil {
			return err
		}
	}
}

// tune asks the server to retune every registered source. Acknowledgements
// are opaque and only logged.
func (r *Runner) tune(ctx context.Context) error {
	log.Printf("tuning data sources to channel %d", r.Channel)
	for _, rec := range r.Registry.Records() {
		ack, err := r.Client.SetChannel(ctx, rec.UUID, r.Channel)
		if err != nil {
			return err
		}
		log.Printf("set channel source=%s uuid=%s channel=%d ack=%q", rec.Name, rec.UUID, r.Channel, ack)
	}
	return nil
}

// sync captures each record's packet-count baseline so pre-existing
// history on already-running sources does not skew the comparison. Runs
// exactly once per shootout.
func (r *Runner) sync(snapshot []kismet.Datasource) {
	byUUID := indexSnapshot(snapshot)
	for _, rec := range r.Registry.Records() {
		if ds, ok := byUUID[rec.UUID]; ok {
			rec.Offset = ds.NumPackets
		}
	}
}

// collect updates every record's adjusted count and reports it relative to
// the best-performing source.
func (r *Runner) collect(snapshot []kismet.Datasource) error {
	byUUID := indexSnapshot(snapshot)

	var maxCount int64
	for _, rec := range r.Registry.Records() {
		ds, ok := byUUID[rec.UUID]
		if !ok {
			// Source dropped out of the snapshot; keep its last count.
			if rec.Count > maxCount {
				maxCount = rec.Count
			}
			continue
		}
		count := ds.NumPackets - rec.Offset
		if count < 0 {
			// Remote counter moved backwards (datasource restart).
			count = 0
		}
		rec.Count = count
		if count > maxCount {
			maxCount = count
		}
	}

	if maxCount == 0 {
		maxCount = 1
	}

	now := time.Now().UTC()
	samples := make([]model.Sample, 0, r.Registry.Len())
	for _, rec := range r.Registry.Records() {
		fraction := float64(rec.Count) / float64(maxCount)
		Report(r.Out, rec.Name, rec.Count, fraction)
		samples = append(samples, model.Sample{
			Timestamp: now,
			Source:    rec.Name,
			Count:     rec.Count,
			Fraction:  fraction,
		})
	}

	if r.MetricsPath != "" {
		if err := metrics.AppendCSV(r.MetricsPath, samples); err != nil {
			log.Printf("append metrics failed: %v", err)
		}
	}
	return nil
}

func (r *Runner) wait(ctx context.Context) error {
	if r.Interval <= 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			return nil
		}
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(r.Interval):
		return nil
	}
}

func indexSnapshot(snapshot []kismet.Datasource) map[string]kismet.Datasource {
	byUUID := make(map[string]kismet.Datasource, len(snapshot))
	for _, ds := range snapshot {
		byUUID[ds.UUID] = ds
	}
	return byUUID
}
