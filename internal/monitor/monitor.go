package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/niposch/wake-on-lan-web/internal/config"
	md "github.com/niposch/wake-on-lan-web/internal/models"
	metrics "github.com/niposch/wake-on-lan-web/internal/observability/metrics/prometheus"
	"github.com/niposch/wake-on-lan-web/internal/probe"
	"github.com/opentracing/opentracing-go"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const devicePattern = "device*"

type DeviceRepo interface {
	ListProbeTargets(ctx context.Context) ([]*md.Device, error)
	UpdateDeviceReachability(
		ctx context.Context,
		id uuid.UUID,
		isOnline bool,
		lastSeen *time.Time,
	) error
	AppendDeviceEvent(ctx context.Context, e *md.DeviceEvent) error
	DeleteExpiredRefreshTokens(ctx context.Context) (int64, error)
}

type Prober interface {
	Probe(ctx context.Context, ip string, timeout time.Duration) (probe.Result, error)
}

type Notifier interface {
	NotifyDeviceOffline(d *md.Device)
}

type CacheInvalidator interface {
	InvalidateKeysByPattern(ctx context.Context, pattern string)
}

// Monitor is the periodic reachability prober. It is the only writer of
// the cached is_online flag and last_seen_at timestamp; command handlers
// never touch them.
type Monitor struct {
	repo     DeviceRepo
	prober   Prober
	notifier Notifier
	cache    CacheInvalidator

	interval     time.Duration
	probeTimeout time.Duration
	concurrency  int

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func New(
	conf config.MonitorConfig,
	repo DeviceRepo,
	prober Prober,
	notifier Notifier,
	cache CacheInvalidator,
) *Monitor {
	concurrency := conf.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	return &Monitor{
		repo:         repo,
		prober:       prober,
		notifier:     notifier,
		cache:        cache,
		interval:     conf.Interval,
		probeTimeout: conf.ProbeTimeout,
		concurrency:  concurrency,
	}
}

// Start launches the probe loop in its own goroutine. The first cycle
// runs immediately, then once per interval until Stop or the parent
// context ends.
func (m *Monitor) Start(ctx context.Context) {
	ctx, m.cancel = context.WithCancel(ctx)

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()

		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()

		zap.L().Info(
			"Device monitor started",
			zap.Duration("interval", m.interval),
			zap.Int("concurrency", m.concurrency),
		)

		m.run(ctx)

		for {
			select {
			case <-ticker.C:
				m.run(ctx)
			case <-ctx.Done():
				zap.L().Info("Device monitor stopped")
				return
			}
		}
	}()
}

// Stop cancels the loop and waits for an in-flight cycle to drain.
func (m *Monitor) Stop() {
	if m.cancel != nil {
		m.cancel()
	}
	m.wg.Wait()
}

// run executes one probe cycle: snapshot the probe targets, fan out with
// bounded concurrency, reconcile each outcome. A failed snapshot aborts
// the cycle; the next tick starts from scratch.
func (m *Monitor) run(ctx context.Context) {
	const op = "monitor.run"

	span, ctx := opentracing.StartSpanFromContext(ctx, op)
	defer span.Finish()

	devices, err := m.repo.ListProbeTargets(ctx)
	if err != nil {
		zap.L().Error(
			"failed to fetch probe targets, skipping cycle",
			zap.String("op", op),
			zap.Error(err),
		)

		return
	}

	g := errgroup.Group{}
	g.SetLimit(m.concurrency)

	for _, d := range devices {
		d := d
		g.Go(
			func() error {
				m.probeOne(ctx, d)
				return nil
			},
		)
	}

	_ = g.Wait()

	if n, err := m.repo.DeleteExpiredRefreshTokens(ctx); err == nil && n > 0 {
		zap.L().Debug("purged expired refresh tokens", zap.Int64("count", n))
	}
}

// probeOne probes a single device and reconciles the outcome. Failures
// are isolated: one device's probe or write error never affects the
// rest of the cycle.
func (m *Monitor) probeOne(ctx context.Context, d *md.Device) {
	const op = "monitor.probeOne"

	start := time.Now()
	res, err := m.prober.Probe(ctx, *d.IP, m.probeTimeout)
	if err != nil {
		metrics.ObserveProbe(time.Since(start), "error")
		zap.L().Warn(
			"probe failed",
			zap.String("op", op),
			zap.String("device", d.Name),
			zap.Error(err),
		)

		return
	}

	outcome := "offline"
	if res.Reachable {
		outcome = "online"
	}
	metrics.ObserveProbe(time.Since(start), outcome)

	now := time.Now()

	if res.Reachable == d.IsOnline {
		// Stable state: no event. Keep last_seen_at fresh while online.
		if res.Reachable {
			if err = m.repo.UpdateDeviceReachability(ctx, d.ID, true, &now); err != nil {
				zap.L().Error(
					"failed to refresh last seen",
					zap.String("op", op),
					zap.String("device", d.Name),
					zap.Error(err),
				)
			}
		}

		return
	}

	lastSeen := d.LastSeenAt
	if res.Reachable {
		lastSeen = &now
	}

	if err = m.repo.UpdateDeviceReachability(ctx, d.ID, res.Reachable, lastSeen); err != nil {
		zap.L().Error(
			"failed to update reachability",
			zap.String("op", op),
			zap.String("device", d.Name),
			zap.Error(err),
		)

		return
	}

	kind, detail := md.EventProbeOffline, "device stopped responding to probes"
	if res.Reachable {
		kind = md.EventProbeOnline
		detail = fmt.Sprintf("device came online, latency %s", res.Latency.Round(time.Millisecond))
	}

	err = m.repo.AppendDeviceEvent(
		ctx, &md.DeviceEvent{
			DeviceID: d.ID,
			Kind:     kind,
			Detail:   detail,
		},
	)
	if err != nil {
		zap.L().Error(
			"failed to append probe event",
			zap.String("op", op),
			zap.String("device", d.Name),
			zap.Error(err),
		)
	}

	zap.L().Info(
		"device reachability changed",
		zap.String("device", d.Name),
		zap.String("kind", string(kind)),
	)

	if m.cache != nil {
		m.cache.InvalidateKeysByPattern(ctx, devicePattern)
	}

	if !res.Reachable && m.notifier != nil {
		m.notifier.NotifyDeviceOffline(d)
	}
}
