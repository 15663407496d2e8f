// Package scheduler drives the single-threaded cooperative event loop
// that ties the routing table, the codec and the transport together:
// periodic advertisements with jitter, per-route expiry, and
// decode-driven triggered updates. It generalizes the teacher's
// per-node time.Ticker loop (one goroutine multiplexing a ticker and a
// non-blocking channel receive) to a router process multiplexing a
// ticker against many listening sockets.
package scheduler

import (
	"context"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/kprusa/ripd/internal/metrics"
	"github.com/kprusa/ripd/internal/routing"
	"github.com/kprusa/ripd/internal/transport"
	"github.com/kprusa/ripd/internal/wire"
)

// Clock abstracts time.Now so convergence and expiry tests can drive the
// scheduler without real wall-clock sleeps.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Neighbor is a statically configured peer, shared with internal/routing.
type Neighbor = routing.Neighbor

// Config bundles the static parameters a Scheduler needs for one router.
type Config struct {
	SelfID           uint16
	Neighbors        []Neighbor
	InputPorts       []int
	PeriodicInterval time.Duration
	ExpiryInterval   time.Duration
	PollInterval     time.Duration // defaults to min(PeriodicInterval/10, 100ms)
	Clock            Clock         // defaults to realClock
	Logger           *zap.Logger   // defaults to zap.NewNop()
	Metrics          *metrics.Registry
}

// Scheduler runs the event loop described in the component design: full
// periodic advertisements with jitter, aging/garbage-collection via
// Table.Tick, and triggered updates emitted immediately after any
// table-changing event, all driven from a single goroutine.
type Scheduler struct {
	cfg       Config
	table     *routing.Table
	transport transport.Transport
	clock     Clock
	log       *zap.Logger
	metrics   *metrics.Registry

	nextPeriodic time.Time
	rejects      uint64
}

// New constructs a Scheduler, seeding its routing table from cfg.Neighbors.
func New(cfg Config, tr transport.Transport) *Scheduler {
	if cfg.Clock == nil {
		cfg.Clock = realClock{}
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.New()
	}
	if cfg.PollInterval == 0 {
		cfg.PollInterval = pollInterval(cfg.PeriodicInterval)
	}

	now := cfg.Clock.Now()
	table := routing.New(cfg.SelfID)
	table.Seed(cfg.Neighbors, now)

	s := &Scheduler{
		cfg:       cfg,
		table:     table,
		transport: tr,
		clock:     cfg.Clock,
		log:       cfg.Logger,
		metrics:   cfg.Metrics,
	}
	s.nextPeriodic = now.Add(s.jitter())
	return s
}

func pollInterval(periodic time.Duration) time.Duration {
	d := periodic / 10
	if d > 100*time.Millisecond {
		d = 100 * time.Millisecond
	}
	if d <= 0 {
		d = 10 * time.Millisecond
	}
	return d
}

// jitter returns T_p * U(0.8, 1.2), preserving the source formula
// "periodic * U(8,12)/10" so convergence-time tests pin the expected
// range.
func (s *Scheduler) jitter() time.Duration {
	u := 0.8 + 0.4*rand.Float64()
	return time.Duration(float64(s.cfg.PeriodicInterval) * u)
}

// Table exposes the live routing table for diagnostics and tests.
func (s *Scheduler) Table() *routing.Table {
	return s.table
}

// Run blocks, driving the event loop until ctx is canceled.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Step()
		}
	}
}

// Step runs exactly one iteration of the event loop: periodic
// advertisement if due, aging tick, then one round of socket polling.
// Exported so tests can drive deterministic iterations without a real
// ticker.
func (s *Scheduler) Step() {
	now := s.clock.Now()

	if !now.Before(s.nextPeriodic) {
		s.advertiseAll()
		s.metrics.PeriodicAdverts.Inc()
		s.nextPeriodic = now.Add(s.jitter())
	}

	sizeBefore := s.table.Len()
	withdrawn := s.table.Tick(now, s.cfg.ExpiryInterval)
	if collected := sizeBefore - s.table.Len(); collected > 0 {
		s.metrics.RoutesCollected.Add(float64(collected))
	}
	if len(withdrawn) > 0 {
		s.metrics.RoutesExpired.Add(float64(len(withdrawn)))
		s.log.Info("routes expired", zap.Any("destinations", withdrawn))
		s.advertiseAll()
		s.metrics.TriggeredAdverts.Inc()
	}

	for _, dgram := range s.transport.Poll() {
		s.handleDatagram(now, dgram)
	}

	s.metrics.TableSize.Set(float64(s.table.Len()))
}

func (s *Scheduler) handleDatagram(now time.Time, dgram transport.Datagram) {
	decoded, err := wire.Decode(dgram.Payload, s.cfg.SelfID)
	if err != nil {
		s.countRejection(err)
		return
	}
	s.metrics.PacketsReceived.Inc()

	update := routing.Update{SenderID: decoded.SenderID, Routes: make([]routing.UpdateRoute, len(decoded.Routes))}
	for i, r := range decoded.Routes {
		update.Routes[i] = routing.UpdateRoute{DestinationID: uint16(r.DestinationID), Metric: r.Metric}
	}

	result := s.table.Relax(update, now)
	if result.Changed {
		s.log.Debug("table changed by relax", zap.Uint16("sender", decoded.SenderID))
		s.advertiseAll()
		s.metrics.TriggeredAdverts.Inc()
	}
}

func (s *Scheduler) countRejection(err error) {
	s.rejects++
	reason := metrics.ReasonTruncated
	if rej, ok := err.(*wire.RejectError); ok {
		reason = metrics.RejectReason(rej.Reason)
	}
	s.metrics.Reject(reason)
	s.log.Debug("packet rejected", zap.String("reason", string(reason)))
}

// Rejects reports the total number of packets rejected since startup.
func (s *Scheduler) Rejects() uint64 {
	return s.rejects
}

func (s *Scheduler) advertiseAll() {
	for _, n := range s.cfg.Neighbors {
		snapshot := s.table.SnapshotFor(n.RouterID)
		routes := make([]wire.Route, 0, len(snapshot))
		for _, e := range snapshot {
			routes = append(routes, wire.Route{
				DestinationID: uint8(e.DestinationID),
				NextHopID:     e.NextHopID,
				Metric:        e.Metric,
				LearnedFromID: uint8(e.LearnedFromID),
			})
		}

		direct, _ := s.table.Get(n.RouterID)
		buf, err := wire.Encode(s.cfg.SelfID, n.RouterID, direct.Metric, routes)
		if err != nil {
			s.log.Error("encode failed", zap.Error(err))
			continue
		}

		if err := s.transport.Send(n.Port, buf); err != nil {
			s.metrics.SendFailures.Inc()
			s.log.Debug("send failed", zap.Int("port", n.Port), zap.Error(err))
			continue
		}
		s.metrics.PacketsSent.Inc()
	}
}
