package battery

import (
	"github.com/sirupsen/logrus"

	"github.com/sunxi-power/axp20x/pkg/axp20x"
	"github.com/sunxi-power/axp20x/pkg/powersupply"
)

// deadBatteryMicrovolts is the floor below which a present battery is
// classified dead.
const deadBatteryMicrovolts = 2000000

// Poll re-reads the health-relevant registers and refreshes the cached
// health and state-of-charge snapshot, broadcasting a change notification
// only when the visible snapshot actually changed. A register read
// failure aborts the cycle without touching the snapshot; the next period
// retries.
func (p *Power) Poll() {
	p.mu.Lock()

	health := powersupply.HealthUnknown
	percent := 0

	opMode, err := p.rm.Read(axp20x.RegPowerOpMode)
	if err != nil {
		p.mu.Unlock()
		p.log.Debugf("poll aborted: %v", err)
		return
	}

	if opMode&axp20x.OpModeBattPresent != 0 {
		uvRaw, err := p.rm.ReadVariableWidth(axp20x.RegBattVoltageADCHigh, 12)
		if err != nil {
			p.mu.Unlock()
			p.log.Debugf("poll aborted: %v", err)
			return
		}
		if int(uvRaw)*axp20x.ScaleBattVoltage < deadBatteryMicrovolts {
			health = powersupply.HealthDead
		}

		fg, err := p.rm.Read(axp20x.RegFuelGauge)
		if err != nil {
			p.mu.Unlock()
			p.log.Debugf("poll aborted: %v", err)
			return
		}
		percent = int(fg & axp20x.FuelGaugePercentMask)

		if p.tbattMin != 0 || p.tbattMax != 0 {
			// Temperature excursions override a dead classification.
			ts, err := p.rm.ReadVariableWidth(axp20x.RegTSInputADCHigh, 12)
			if err != nil {
				p.mu.Unlock()
				p.log.Debugf("poll aborted: %v", err)
				return
			}
			if int(ts)*axp20x.ScaleTSVoltage < p.tbattMin {
				health = powersupply.HealthCold
			} else if int(ts)*axp20x.ScaleTSVoltage > p.tbattMax {
				health = powersupply.HealthOverheat
			}
		}
	}

	changed := p.health != health || p.percent != percent
	if changed {
		p.log.WithFields(logrus.Fields{
			"health":  health,
			"percent": percent,
		}).Debug("battery state changed")
		p.health = health
		p.percent = percent
	}
	p.mu.Unlock()

	if changed {
		p.notifyChanged()
	}
}
