package battery

import (
	"github.com/sunxi-power/axp20x/pkg/axp20x"
)

// maxChargeCurrentLocked computes the instantaneous hardware ceiling on
// charge current in µA from the available external power source. Callers
// hold mu.
//
// AC gets a 0.5C policy (half the rated capacity); VBUS is bounded by its
// input current limit selector; on battery alone charging is forbidden.
func (p *Power) maxChargeCurrentLocked() (int, error) {
	status, err := p.rm.Read(axp20x.RegPowerInputStatus)
	if err != nil {
		return 0, err
	}

	switch {
	case status&axp20x.InputACPresent != 0 && status&axp20x.InputACAvailable != 0:
		// AC available - unrestricted power.
		return p.capacityDesign / 2, nil

	case status&axp20x.InputVBUSPresent != 0 && status&axp20x.InputVBUSAvailable != 0:
		vbus, err := p.rm.Read(axp20x.RegVBUSIPSOutMgmt)
		if err != nil {
			return 0, err
		}
		switch axp20x.VBUSCurrentLimitFromBits(vbus) {
		case axp20x.VBUSLimit100mA:
			// Too weak to charge on top of the system load.
			return 0, nil
		case axp20x.VBUSLimit500mA:
			return 300000, nil
		case axp20x.VBUSLimit900mA:
			return 600000, nil
		case axp20x.VBUSLimitNone:
			return p.capacityDesign / 2, nil
		}
		return 0, nil

	default:
		// On battery.
		return 0, nil
	}
}

// reconfigureLocked recomputes the allowed charge current and commits it
// to the charger registers. Callers hold mu. The returned bool reports
// whether the decision point was reached (and a notification is owed);
// a read failure before that leaves the hardware untouched.
func (p *Power) reconfigureLocked() (bool, error) {
	max, err := p.maxChargeCurrentLocked()
	if err != nil {
		return false, err
	}

	if max == 0 {
		err = p.rm.UpdateBits(axp20x.RegPowerOpMode, axp20x.OpModeCharging, 0)
		return true, err
	}

	if p.chargeUserMax < max {
		max = p.chargeUserMax
	}
	code := axp20x.ChargeCurrentEncode(max)
	p.log.Debugf("charge ceiling %d µA, target code %#x", max, code)

	if err := p.rm.UpdateBits(axp20x.RegChargeCtrl1,
		axp20x.ChargeCtrl1CurrentMask, code); err != nil {
		return true, err
	}
	err = p.rm.UpdateBits(axp20x.RegPowerOpMode,
		axp20x.OpModeCharging, axp20x.OpModeCharging)
	return true, err
}

// Reconfigure re-arbitrates the charge current against the currently
// available external power and the user ceiling, and commits the result.
// Call it whenever input power may have changed; it is serialized against
// the poller and concurrent property writes. A register read failure
// before the decision propagates with no writes and no notification.
func (p *Power) Reconfigure() error {
	p.mu.Lock()
	committed, err := p.reconfigureLocked()
	p.mu.Unlock()

	if committed {
		p.notifyChanged()
	}
	return err
}

// ChargeUserMax returns the configured user ceiling in µA.
func (p *Power) ChargeUserMax() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.chargeUserMax
}
