// Package telemetry produces the cosmetic bandwidth and data-source readout
// shown while a project is being generated. Nothing here affects the
// project tree or the terminal log.
package telemetry

import (
	"fmt"
	"math/rand"
	"sync"
	"time"
)

const (
	// DefaultInterval is how often the readout changes while active
	DefaultInterval = 400 * time.Millisecond

	IdleSpeed  = "0.0 kb/s"
	IdleStream = "IDLE"
)

// Streams are the fake data sources cycled through while active
var Streams = []string{"ai.google.dev", "cdn.esm.sh", "npm.registry", "github.com", "m3rlin.neural"}

// Reading is one snapshot of the simulated telemetry
type Reading struct {
	Speed  string `json:"speed"`
	Stream string `json:"stream"`
}

// IdleReading is the value shown whenever the monitor is stopped
func IdleReading() Reading {
	return Reading{Speed: IdleSpeed, Stream: IdleStream}
}

// Monitor refreshes a Reading on a ticker between Start and Stop
type Monitor struct {
	interval time.Duration
	onTick   func(Reading)

	mu         sync.Mutex
	reading    Reading
	rng        *rand.Rand
	generation uint64
	running    bool
	stop       chan struct{}
	done       chan struct{}
}

// NewMonitor creates an idle monitor. onTick, if not nil, is called with
// each new reading from the ticker goroutine.
func NewMonitor(interval time.Duration, onTick func(Reading)) *Monitor {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Monitor{
		interval: interval,
		onTick:   onTick,
		reading:  IdleReading(),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Start begins refreshing the reading. Calling Start while running is a no-op.
func (m *Monitor) Start() {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return
	}
	m.running = true
	m.generation++
	generation := m.generation
	m.stop = make(chan struct{})
	m.done = make(chan struct{})
	stop, done := m.stop, m.done
	m.mu.Unlock()

	go func() {
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()
		defer close(done)

		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				m.tick(generation)
			}
		}
	}()
}

func (m *Monitor) tick(generation uint64) {
	m.mu.Lock()
	if generation != m.generation || !m.running {
		m.mu.Unlock()
		return
	}
	m.reading = Reading{
		Speed:  fmt.Sprintf("%.1f kb/s", m.rng.Float64()*950+200),
		Stream: Streams[m.rng.Intn(len(Streams))],
	}
	reading := m.reading
	onTick := m.onTick
	m.mu.Unlock()

	if onTick != nil {
		onTick(reading)
	}
}

// Stop halts the ticker and resets the reading to its idle values
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	m.generation++
	m.reading = IdleReading()
	stop, done := m.stop, m.done
	m.mu.Unlock()

	close(stop)
	<-done
}

// Reading returns the current readout
func (m *Monitor) Reading() Reading {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reading
}

// Running reports whether the ticker is active
func (m *Monitor) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}
