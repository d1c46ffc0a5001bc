// Package rtcbatt drives the AXP20x backup battery charger, the small
// cell that keeps the RTC alive. Unlike the main battery there is no
// gauge and no polling: the hardware charges at a fixed trickle rate
// toward a fixed target, both picked from a 2-bit enumeration.
package rtcbatt

import (
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/sunxi-power/axp20x/pkg/axp20x"
	"github.com/sunxi-power/axp20x/pkg/powersupply"
	"github.com/sunxi-power/axp20x/pkg/regmap"
)

// SupplyName is the power-supply name this driver registers under.
const SupplyName = "axp20x-rtc"

// Params selects the backup charge target and trickle current. Both are
// mandatory, there are no safe defaults for an unknown cell.
type Params struct {
	// VoltageMicrovolts is one of 2500000, 3000000, 3100000, 3600000.
	VoltageMicrovolts int `json:"voltageMicrovolts"`
	// CurrentMicroamps is one of 50, 100, 200, 400.
	CurrentMicroamps int `json:"currentMicroamps"`
}

// Power is the backup battery supply instance.
type Power struct {
	rm  regmap.Regmap
	hub *powersupply.Hub
	log *logrus.Entry
}

// Attach programs the backup charger and enables it. Invalid parameters
// are fatal and leave the control register unchanged.
func Attach(rm regmap.Regmap, params Params, hub *powersupply.Hub) (*Power, error) {
	p := &Power{
		rm:  rm,
		hub: hub,
		log: logrus.WithField("supply", SupplyName),
	}

	voltage, ok := axp20x.BackupVoltageFromMicrovolts(params.VoltageMicrovolts)
	if !ok {
		return nil, pkgerrors.Errorf("invalid backup battery voltage limit %d µV",
			params.VoltageMicrovolts)
	}
	current, ok := axp20x.BackupCurrentFromMicroamps(params.CurrentMicroamps)
	if !ok {
		return nil, pkgerrors.Errorf("invalid backup battery current limit %d µA",
			params.CurrentMicroamps)
	}

	err := p.rm.UpdateBits(axp20x.RegBackupChargeCtrl,
		axp20x.BackupEnable|axp20x.BackupVoltageMask|axp20x.BackupCurrentMask,
		axp20x.BackupEnable|voltage.Bits()|current.Bits())
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to program backup battery charger")
	}

	p.log.WithFields(logrus.Fields{
		"voltage": params.VoltageMicrovolts,
		"current": params.CurrentMicroamps,
	}).Debug("backup battery charging enabled")

	return p, nil
}

// Name implements powersupply.Supply.
func (p *Power) Name() string { return SupplyName }

// Properties implements powersupply.Supply.
func (p *Power) Properties() []powersupply.Property {
	return []powersupply.Property{
		powersupply.PropStatus,
		powersupply.PropConstantChargeVoltage,
		powersupply.PropConstantChargeCurrent,
	}
}

// PropertyIsWriteable implements powersupply.Supply.
func (p *Power) PropertyIsWriteable(prop powersupply.Property) bool {
	return prop == powersupply.PropStatus
}

// GetProperty implements powersupply.Supply. Everything derives from the
// single control register.
func (p *Power) GetProperty(prop powersupply.Property) (int, error) {
	reg, err := p.rm.Read(axp20x.RegBackupChargeCtrl)
	if err != nil {
		return 0, err
	}

	switch prop {
	case powersupply.PropStatus:
		if reg&axp20x.BackupEnable != 0 {
			return int(powersupply.StatusCharging), nil
		}
		return int(powersupply.StatusNotCharging), nil

	case powersupply.PropConstantChargeVoltage:
		return axp20x.BackupVoltageFromBits(reg).Microvolts(), nil

	case powersupply.PropConstantChargeCurrent:
		return axp20x.BackupCurrentFromBits(reg).Microamps(), nil
	}

	return 0, powersupply.ErrUnsupported
}

// SetProperty implements powersupply.Supply. Only the charging status
// can change at runtime; the voltage and current limits are fixed at
// attach because they depend on the installed cell.
func (p *Power) SetProperty(prop powersupply.Property, val int) error {
	if prop != powersupply.PropStatus {
		return powersupply.ErrUnsupported
	}

	var err error
	switch powersupply.Status(val) {
	case powersupply.StatusCharging:
		err = p.rm.UpdateBits(axp20x.RegBackupChargeCtrl,
			axp20x.BackupEnable, axp20x.BackupEnable)
	case powersupply.StatusNotCharging:
		err = p.rm.UpdateBits(axp20x.RegBackupChargeCtrl,
			axp20x.BackupEnable, 0)
	default:
		return powersupply.ErrUnsupported
	}
	if err != nil {
		return err
	}

	p.hub.Changed(SupplyName)
	return nil
}
