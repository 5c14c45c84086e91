package monitor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/niposch/wake-on-lan-web/internal/config"
	md "github.com/niposch/wake-on-lan-web/internal/models"
	"github.com/niposch/wake-on-lan-web/internal/probe"
	"github.com/stretchr/testify/assert"
)

type reachabilityUpdate struct {
	id       uuid.UUID
	isOnline bool
	lastSeen *time.Time
}

type fakeRepo struct {
	mu      sync.Mutex
	targets []*md.Device
	listErr error

	updates []reachabilityUpdate
	events  []*md.DeviceEvent
	purges  int
}

func (f *fakeRepo) ListProbeTargets(context.Context) ([]*md.Device, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.targets, nil
}

func (f *fakeRepo) UpdateDeviceReachability(
	_ context.Context, id uuid.UUID, isOnline bool, lastSeen *time.Time,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, reachabilityUpdate{id: id, isOnline: isOnline, lastSeen: lastSeen})
	return nil
}

func (f *fakeRepo) AppendDeviceEvent(_ context.Context, e *md.DeviceEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, e)
	return nil
}

func (f *fakeRepo) DeleteExpiredRefreshTokens(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.purges++
	return 0, nil
}

type fakeProber struct {
	mu       sync.Mutex
	fn       func(ip string) (probe.Result, error)
	calls    int
	inFlight int
	maxSeen  int
}

func (f *fakeProber) Probe(_ context.Context, ip string, _ time.Duration) (probe.Result, error) {
	f.mu.Lock()
	f.calls++
	f.inFlight++
	if f.inFlight > f.maxSeen {
		f.maxSeen = f.inFlight
	}
	fn := f.fn
	f.mu.Unlock()

	res, err := fn(ip)

	f.mu.Lock()
	f.inFlight--
	f.mu.Unlock()

	return res, err
}

type fakeNotifier struct {
	mu      sync.Mutex
	offline []*md.Device
}

func (f *fakeNotifier) NotifyDeviceOffline(d *md.Device) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.offline = append(f.offline, d)
}

type fakeCache struct {
	mu       sync.Mutex
	patterns []string
}

func (f *fakeCache) InvalidateKeysByPattern(_ context.Context, pattern string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.patterns = append(f.patterns, pattern)
}

func strPtr(s string) *string { return &s }

func testDevice(name, ip string, isOnline bool) *md.Device {
	return &md.Device{
		ID:       uuid.New(),
		Name:     name,
		MAC:      "AA:BB:CC:DD:EE:FF",
		IP:       strPtr(ip),
		IsOnline: isOnline,
	}
}

func testConf(concurrency int) config.MonitorConfig {
	return config.MonitorConfig{
		Interval:     time.Hour,
		ProbeTimeout: time.Second,
		Concurrency:  concurrency,
	}
}

func TestMonitor_OnlineTransition(t *testing.T) {
	d := testDevice("nas", "192.168.1.10", false)
	repo := &fakeRepo{targets: []*md.Device{d}}
	prober := &fakeProber{
		fn: func(string) (probe.Result, error) {
			return probe.Result{Reachable: true, Latency: 3 * time.Millisecond}, nil
		},
	}
	notifier := &fakeNotifier{}
	cache := &fakeCache{}

	m := New(testConf(4), repo, prober, notifier, cache)
	m.run(context.Background())

	assert.Len(t, repo.updates, 1)
	assert.True(t, repo.updates[0].isOnline)
	assert.NotNil(t, repo.updates[0].lastSeen)

	assert.Len(t, repo.events, 1)
	assert.Equal(t, md.EventProbeOnline, repo.events[0].Kind)
	assert.Equal(t, d.ID, repo.events[0].DeviceID)

	assert.Equal(t, []string{"device*"}, cache.patterns)
	assert.Empty(t, notifier.offline)
	assert.Equal(t, 1, repo.purges)
}

func TestMonitor_OfflineTransitionNotifies(t *testing.T) {
	d := testDevice("desktop", "192.168.1.20", true)
	repo := &fakeRepo{targets: []*md.Device{d}}
	prober := &fakeProber{
		fn: func(string) (probe.Result, error) {
			return probe.Result{Reachable: false}, nil
		},
	}
	notifier := &fakeNotifier{}

	m := New(testConf(4), repo, prober, notifier, &fakeCache{})
	m.run(context.Background())

	assert.Len(t, repo.updates, 1)
	assert.False(t, repo.updates[0].isOnline)

	assert.Len(t, repo.events, 1)
	assert.Equal(t, md.EventProbeOffline, repo.events[0].Kind)

	assert.Len(t, notifier.offline, 1)
	assert.Equal(t, d.ID, notifier.offline[0].ID)
}

func TestMonitor_StableStateEmitsNoEvent(t *testing.T) {
	tests := []struct {
		name        string
		isOnline    bool
		reachable   bool
		wantUpdates int
	}{
		{name: "OnlineStaysOnline", isOnline: true, reachable: true, wantUpdates: 1},
		{name: "OfflineStaysOffline", isOnline: false, reachable: false, wantUpdates: 0},
	}

	for _, tt := range tests {
		t.Run(
			tt.name, func(t *testing.T) {
				repo := &fakeRepo{targets: []*md.Device{testDevice("nas", "192.168.1.10", tt.isOnline)}}
				prober := &fakeProber{
					fn: func(string) (probe.Result, error) {
						return probe.Result{Reachable: tt.reachable}, nil
					},
				}
				cache := &fakeCache{}

				m := New(testConf(4), repo, prober, &fakeNotifier{}, cache)
				m.run(context.Background())

				// Online devices still get their last_seen_at refreshed.
				assert.Len(t, repo.updates, tt.wantUpdates)
				assert.Empty(t, repo.events)
				assert.Empty(t, cache.patterns)
			},
		)
	}
}

func TestMonitor_SnapshotFailureAbortsCycle(t *testing.T) {
	repo := &fakeRepo{listErr: errors.New("db down")}
	prober := &fakeProber{
		fn: func(string) (probe.Result, error) {
			return probe.Result{Reachable: true}, nil
		},
	}

	m := New(testConf(4), repo, prober, &fakeNotifier{}, &fakeCache{})
	m.run(context.Background())

	assert.Zero(t, prober.calls)
	assert.Empty(t, repo.updates)
	assert.Empty(t, repo.events)
	assert.Zero(t, repo.purges)
}

func TestMonitor_ProbeErrorSkipsDevice(t *testing.T) {
	broken := testDevice("broken", "192.168.1.30", false)
	healthy := testDevice("healthy", "192.168.1.31", false)
	repo := &fakeRepo{targets: []*md.Device{broken, healthy}}
	prober := &fakeProber{
		fn: func(ip string) (probe.Result, error) {
			if ip == "192.168.1.30" {
				return probe.Result{}, errors.New("socket error")
			}
			return probe.Result{Reachable: true}, nil
		},
	}

	m := New(testConf(1), repo, prober, &fakeNotifier{}, &fakeCache{})
	m.run(context.Background())

	assert.Len(t, repo.updates, 1)
	assert.Equal(t, healthy.ID, repo.updates[0].id)
	assert.Len(t, repo.events, 1)
	assert.Equal(t, healthy.ID, repo.events[0].DeviceID)
}

func TestMonitor_BoundedConcurrency(t *testing.T) {
	const concurrency = 8

	devices := make([]*md.Device, 0, 50)
	for i := 0; i < 50; i++ {
		devices = append(devices, testDevice("d", "192.168.1.10", false))
	}

	repo := &fakeRepo{targets: devices}
	prober := &fakeProber{
		fn: func(string) (probe.Result, error) {
			time.Sleep(5 * time.Millisecond)
			return probe.Result{Reachable: false}, nil
		},
	}

	m := New(testConf(concurrency), repo, prober, &fakeNotifier{}, &fakeCache{})
	m.run(context.Background())

	assert.Equal(t, 50, prober.calls)
	assert.LessOrEqual(t, prober.maxSeen, concurrency)
}

func TestMonitor_StartStop(t *testing.T) {
	repo := &fakeRepo{targets: []*md.Device{testDevice("nas", "192.168.1.10", false)}}
	prober := &fakeProber{
		fn: func(string) (probe.Result, error) {
			return probe.Result{Reachable: false}, nil
		},
	}

	conf := testConf(4)
	conf.Interval = 10 * time.Millisecond

	m := New(conf, repo, prober, &fakeNotifier{}, &fakeCache{})
	m.Start(context.Background())

	assert.Eventually(
		t, func() bool {
			prober.mu.Lock()
			defer prober.mu.Unlock()
			return prober.calls >= 2
		}, 2*time.Second, 5*time.Millisecond,
	)

	done := make(chan struct{})
	go func() {
		m.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return")
	}
}
