package sensors

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/morosanmihail/HA-LondonTfL/pkg/config"
	"github.com/morosanmihail/HA-LondonTfL/pkg/departures"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
	"golang.org/x/exp/slices"
)

type registration struct {
	Sensor       *departures.Sensor
	ScanInterval time.Duration
}

// Manager plays the part of the host: it owns every sensor and ticks each at its own scan interval
type Manager struct {
	registrations []registration

	snapshotsMutex sync.RWMutex
	snapshots      map[string]departures.Snapshot
}

// SensorFactory builds the sensor for a configured stop
type SensorFactory func(config departures.StopConfig) *departures.Sensor

func NewManager(stops []config.Stop, newSensor SensorFactory) (*Manager, error) {
	manager := &Manager{
		snapshots: map[string]departures.Snapshot{},
	}

	var seen []string

	for _, stop := range stops {
		interval, err := stop.Interval()
		if err != nil {
			return nil, err
		}

		sensor := newSensor(stop.StopConfig)

		if slices.Contains(seen, sensor.UniqueID()) {
			return nil, fmt.Errorf("stop %s is configured more than once", sensor.UniqueID())
		}
		seen = append(seen, sensor.UniqueID())

		log.Info().
			Str("stop", sensor.UniqueID()).
			Str("mode", sensor.Fetcher.Mode.ModeID).
			Str("line", stop.Line).
			Str("station", stop.Station).
			Dur("interval", interval).
			Msg("Registered sensor")

		manager.registrations = append(manager.registrations, registration{
			Sensor:       sensor,
			ScanInterval: interval,
		})
	}

	return manager, nil
}

// Run updates every sensor once straight away and then on its interval until ctx is cancelled
func (m *Manager) Run(ctx context.Context) error {
	log.Info().Int("sensors", len(m.registrations)).Msg("Starting sensors")

	p := pool.New().WithContext(ctx)

	for _, registration := range m.registrations {
		registration := registration
		p.Go(func(ctx context.Context) error {
			m.runSensor(ctx, registration)
			return nil
		})
	}

	return p.Wait()
}

func (m *Manager) runSensor(ctx context.Context, registration registration) {
	for {
		startTime := time.Now()

		m.update(ctx, registration.Sensor)

		executionDuration := time.Since(startTime)
		waitTime := registration.ScanInterval - executionDuration
		if waitTime < 0 {
			waitTime = 0
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(waitTime):
		}
	}
}

// UpdateAll runs a single cycle for every sensor concurrently
func (m *Manager) UpdateAll(ctx context.Context) {
	p := pool.New()

	for _, registration := range m.registrations {
		registration := registration
		p.Go(func() {
			m.update(ctx, registration.Sensor)
		})
	}

	p.Wait()
}

func (m *Manager) update(ctx context.Context, sensor *departures.Sensor) {
	// Failures are already published as the sensor state
	sensor.Update(ctx)

	snapshot, err := sensor.Snapshot()
	if err != nil {
		log.Error().Err(err).Str("stop", sensor.UniqueID()).Msg("Failed to snapshot sensor")
		return
	}

	m.snapshotsMutex.Lock()
	m.snapshots[snapshot.ID] = snapshot
	m.snapshotsMutex.Unlock()
}

// Snapshots returns the latest snapshot of every sensor that has completed a cycle, ordered by id
func (m *Manager) Snapshots() []departures.Snapshot {
	m.snapshotsMutex.RLock()
	defer m.snapshotsMutex.RUnlock()

	snapshots := make([]departures.Snapshot, 0, len(m.snapshots))
	for _, snapshot := range m.snapshots {
		snapshots = append(snapshots, snapshot)
	}

	slices.SortFunc(snapshots, func(a, b departures.Snapshot) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		default:
			return 0
		}
	})

	return snapshots
}

func (m *Manager) Snapshot(id string) (departures.Snapshot, bool) {
	m.snapshotsMutex.RLock()
	defer m.snapshotsMutex.RUnlock()

	snapshot, exists := m.snapshots[id]

	return snapshot, exists
}
