package battery

import (
	"github.com/sunxi-power/axp20x/pkg/axp20x"
	"github.com/sunxi-power/axp20x/pkg/powersupply"
)

// dischargeFloorMicroamps: below this discharge current the battery is
// considered idle (full or simply not charging).
const dischargeFloorMicroamps = 2000

// Properties implements powersupply.Supply. The temperature properties
// are only published when a temperature sensor was configured.
func (p *Power) Properties() []powersupply.Property {
	props := []powersupply.Property{
		powersupply.PropPresent,
		powersupply.PropOnline,
		powersupply.PropStatus,
		powersupply.PropVoltageNow,
		powersupply.PropCurrentNow,
		powersupply.PropCurrentMax,
		powersupply.PropHealth,
		powersupply.PropTechnology,
		powersupply.PropVoltageMaxDesign,
		powersupply.PropVoltageMinDesign,
		powersupply.PropChargeFullDesign,
		powersupply.PropCapacity,
	}
	if p.tbattMin != 0 || p.tbattMax != 0 {
		props = append(props,
			powersupply.PropTemp,
			powersupply.PropTempAlertMin,
			powersupply.PropTempAlertMax,
		)
	}
	return props
}

// PropertyIsWriteable implements powersupply.Supply.
func (p *Power) PropertyIsWriteable(prop powersupply.Property) bool {
	switch prop {
	case powersupply.PropVoltageMinDesign,
		powersupply.PropVoltageMaxDesign,
		powersupply.PropCurrentMax,
		powersupply.PropStatus:
		return true
	}
	return false
}

// GetProperty implements powersupply.Supply. Units are µV, µA, µAh and
// percent; PropTemp and the alert thresholds are in the TS sensor's raw
// voltage domain.
func (p *Power) GetProperty(prop powersupply.Property) (int, error) {
	switch prop {
	case powersupply.PropCurrentMax:
		reg, err := p.rm.Read(axp20x.RegChargeCtrl1)
		if err != nil {
			return 0, err
		}
		return axp20x.ChargeCurrentDecode(reg), nil

	case powersupply.PropVoltageMaxDesign:
		reg, err := p.rm.Read(axp20x.RegChargeCtrl1)
		if err != nil {
			return 0, err
		}
		return axp20x.ChargeVoltageFromBits(reg).Microvolts(), nil

	case powersupply.PropVoltageMinDesign:
		reg, err := p.rm.Read(axp20x.RegAPSWarnL2)
		if err != nil {
			return 0, err
		}
		return axp20x.APSWarnDecode(reg), nil

	case powersupply.PropTechnology:
		return int(powersupply.TechnologyLiIon), nil

	case powersupply.PropPresent, powersupply.PropOnline:
		reg, err := p.rm.Read(axp20x.RegPowerOpMode)
		if err != nil {
			return 0, err
		}
		if reg&axp20x.OpModeBattPresent != 0 {
			return 1, nil
		}
		return 0, nil

	case powersupply.PropStatus:
		return p.getStatus()

	case powersupply.PropCurrentNow:
		return p.getCurrentNow()

	case powersupply.PropHealth:
		p.mu.Lock()
		defer p.mu.Unlock()
		return int(p.health), nil

	case powersupply.PropVoltageNow:
		raw, err := p.rm.ReadVariableWidth(axp20x.RegBattVoltageADCHigh, 12)
		if err != nil {
			return 0, err
		}
		return int(raw) * axp20x.ScaleBattVoltage, nil

	case powersupply.PropChargeFullDesign:
		return p.capacityDesign, nil

	case powersupply.PropCapacity:
		reg, err := p.rm.Read(axp20x.RegFuelGauge)
		if err != nil {
			return 0, err
		}
		return int(reg & axp20x.FuelGaugePercentMask), nil

	case powersupply.PropTemp:
		raw, err := p.rm.ReadVariableWidth(axp20x.RegTSInputADCHigh, 12)
		if err != nil {
			return 0, err
		}
		return int(raw) * axp20x.ScaleTSVoltage, nil

	case powersupply.PropTempAlertMin:
		return p.tbattMin, nil

	case powersupply.PropTempAlertMax:
		return p.tbattMax, nil
	}

	return 0, powersupply.ErrUnsupported
}

// getStatus derives PropStatus from the charging bit and, when idle, the
// discharge current and state of charge.
func (p *Power) getStatus() (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	status, err := p.rm.Read(axp20x.RegPowerInputStatus)
	if err != nil {
		return 0, err
	}
	if status&axp20x.InputBattCharging != 0 {
		return int(powersupply.StatusCharging), nil
	}

	raw, err := p.rm.ReadVariableWidth(axp20x.RegBattDischrgADCHigh, 12)
	if err != nil {
		return 0, err
	}
	discharge := int(raw) * axp20x.ScaleBattCurrent

	switch {
	case discharge < dischargeFloorMicroamps && p.percent == 100:
		return int(powersupply.StatusFull), nil
	case discharge < dischargeFloorMicroamps:
		return int(powersupply.StatusNotCharging), nil
	default:
		return int(powersupply.StatusDischarging), nil
	}
}

// getCurrentNow reads the charge or discharge current, whichever is
// flowing.
func (p *Power) getCurrentNow() (int, error) {
	status, err := p.rm.Read(axp20x.RegPowerInputStatus)
	if err != nil {
		return 0, err
	}

	start := axp20x.RegBattDischrgADCHigh
	if status&axp20x.InputBattCharging != 0 {
		start = axp20x.RegBattChargeADCHigh
	}
	raw, err := p.rm.ReadVariableWidth(start, 12)
	if err != nil {
		return 0, err
	}
	return int(raw) * axp20x.ScaleBattCurrent, nil
}

// SetProperty implements powersupply.Supply.
func (p *Power) SetProperty(prop powersupply.Property, val int) error {
	switch prop {
	case powersupply.PropStatus:
		return p.setStatus(powersupply.Status(val))

	case powersupply.PropVoltageMinDesign:
		// TODO: adjust the APS warning level registers accordingly.
		return powersupply.ErrUnsupported

	case powersupply.PropVoltageMaxDesign:
		if val == 4360000 {
			// Refuse this tier, it is too much for Li-ion.
			return powersupply.ErrUnsupported
		}
		tier, ok := axp20x.ChargeVoltageFromMicrovolts(val)
		if !ok {
			return powersupply.ErrUnsupported
		}
		return p.rm.UpdateBits(axp20x.RegChargeCtrl1,
			axp20x.ChargeCtrl1VoltageMask, tier.Bits())

	case powersupply.PropCurrentMax:
		if val < axp20x.ChargeCurrentMinMicroamps ||
			val > axp20x.ChargeCurrentMaxMicroamps {
			return powersupply.ErrUnsupported
		}
		p.mu.Lock()
		p.chargeUserMax = val
		committed, err := p.reconfigureLocked()
		p.mu.Unlock()
		if committed {
			p.notifyChanged()
		}
		if err != nil {
			p.log.Errorf("charge reconfigure failed: %v", err)
		}
		return nil
	}

	return powersupply.ErrUnsupported
}

// setStatus handles writes to PropStatus. Enabling charging is refused
// with ErrBusy while the arbitrated ceiling is zero, so the charger is
// never enabled when it cannot deliver current.
func (p *Power) setStatus(status powersupply.Status) error {
	switch status {
	case powersupply.StatusCharging:
		p.mu.Lock()
		max, err := p.maxChargeCurrentLocked()
		if err != nil {
			p.mu.Unlock()
			return err
		}
		if max == 0 {
			p.mu.Unlock()
			return powersupply.ErrBusy
		}
		if err := p.rm.UpdateBits(axp20x.RegPowerOpMode,
			axp20x.OpModeCharging, axp20x.OpModeCharging); err != nil {
			p.mu.Unlock()
			return err
		}
		committed, err := p.reconfigureLocked()
		p.mu.Unlock()
		if committed {
			p.notifyChanged()
		}
		if err != nil {
			p.log.Errorf("charge reconfigure failed: %v", err)
		}
		return nil

	case powersupply.StatusNotCharging:
		return p.rm.UpdateBits(axp20x.RegPowerOpMode, axp20x.OpModeCharging, 0)
	}

	return powersupply.ErrUnsupported
}
