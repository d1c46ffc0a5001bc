// Package battery implements the AXP20x battery charger and fuel gauge:
// attach-time hardware configuration, a periodic health/charge poller, the
// charge-current arbitrator, the power-supply property accessor, and the
// battery interrupt handlers.
package battery

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sunxi-power/axp20x/pkg/powersupply"
	"github.com/sunxi-power/axp20x/pkg/regmap"
)

// SupplyName is the power-supply name this driver registers under.
const SupplyName = "axp20x-batt"

// DefaultPollInterval is the period of the health monitor.
const DefaultPollInterval = 60 * time.Second

// Power is one battery-charger device instance.
//
// health, percent and chargeUserMax are the only fields that mutate after
// a successful Attach; mu guards them and serializes every multi-register
// read-decide-write sequence (arbitration, polling). mu is never held
// across a change notification.
type Power struct {
	rm  regmap.Regmap
	hub *powersupply.Hub
	log *logrus.Entry

	mu            sync.Mutex
	health        powersupply.Health
	percent       int
	chargeUserMax int // µA

	// Immutable after Attach.
	capacityDesign int // µAh, 0 when no battery is configured
	tbattMin       int // TS threshold in µV, 0 when sensing is disabled
	tbattMax       int

	// Interrupt lines bound by BindLines. Written once before the
	// monitor starts, read-only afterwards.
	lines map[string]irqLine

	pollInterval time.Duration
	stop         chan struct{}
	done         chan struct{}
}

// Attach validates params, programs the charger hardware and returns a
// ready device. It fails with a wrapped powersupply.ErrNoDevice when no
// battery is configured and none is physically present, or with a
// configuration error for malformed params; in both cases nothing is
// published. hub may be nil.
func Attach(rm regmap.Regmap, params Params, hub *powersupply.Hub) (*Power, error) {
	p := &Power{
		rm:           rm,
		hub:          hub,
		log:          logrus.WithField("supply", SupplyName),
		health:       powersupply.HealthUnknown,
		pollInterval: DefaultPollInterval,
	}

	if err := p.configure(params); err != nil {
		return nil, err
	}

	// Seed the health/percent snapshot before anyone can query it.
	p.Poll()

	return p, nil
}

// Name implements powersupply.Supply.
func (p *Power) Name() string { return SupplyName }

// SetPollInterval overrides the monitor period. Call before Start.
func (p *Power) SetPollInterval(d time.Duration) {
	if d > 0 {
		p.pollInterval = d
	}
}

// Start launches the periodic monitor. It must not be called twice
// without an intervening Stop.
func (p *Power) Start() {
	p.stop = make(chan struct{})
	p.done = make(chan struct{})

	go func() {
		defer close(p.done)

		ticker := time.NewTicker(p.pollInterval)
		defer ticker.Stop()

		p.log.Debug("battery monitor started")
		for {
			select {
			case <-ticker.C:
				p.Poll()
			case <-p.stop:
				p.log.Debug("battery monitor stopped")
				return
			}
		}
	}()
}

// Stop cancels the periodic monitor and waits for any in-flight poll
// cycle to finish, so no register access happens after it returns. Used
// on shutdown and suspend.
func (p *Power) Stop() {
	if p.stop == nil {
		return
	}
	close(p.stop)
	<-p.done
	p.stop = nil
	p.done = nil
}

// Snapshot returns the last observed health and state of charge.
func (p *Power) Snapshot() (powersupply.Health, int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.health, p.percent
}

// notifyChanged broadcasts a change notification. Callers must not hold mu.
func (p *Power) notifyChanged() {
	p.hub.Changed(SupplyName)
}
