package battery

import (
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/sunxi-power/axp20x/pkg/axp20x"
	"github.com/sunxi-power/axp20x/pkg/powersupply"
)

// TempSensor describes the battery temperature sensor wired to the TS pin.
// Thresholds are TS pin voltages in µV (the sensor's own domain, the PMIC
// knows nothing about degrees).
type TempSensor struct {
	// DriveMicroamps selects the sensor drive current. Only 20, 40, 60
	// and 80 µA are representable.
	DriveMicroamps int `json:"driveMicroamps"`
	AlertMin       int `json:"alertMin"`
	AlertMax       int `json:"alertMax"`
}

// Params are the board-specific battery parameters, the flat key/value
// set a device tree would carry. Zero values mean "not specified" except
// where noted.
type Params struct {
	// OCV is the open-circuit-voltage calibration curve: exactly
	// axp20x.OCVCurveSize percentage entries, or nil to keep the
	// hardware defaults.
	OCV []int `json:"ocv,omitempty"`

	// ResistanceMilliohm is the battery internal resistance. nil means
	// the 100 mΩ default.
	ResistanceMilliohm *int `json:"resistanceMilliohm,omitempty"`

	// CapacityMilliampHours is the rated capacity. 0 means no battery
	// is configured for this board.
	CapacityMilliampHours int `json:"capacityMilliampHours,omitempty"`

	// TempSensor enables battery temperature supervision. nil routes
	// the TS pin away from the battery and disables the thresholds.
	TempSensor *TempSensor `json:"tempSensor,omitempty"`
}

const defaultResistanceMilliohm = 100

// Validate checks params without touching hardware.
func (params Params) Validate() error {
	if params.OCV != nil {
		if len(params.OCV) != axp20x.OCVCurveSize {
			return pkgerrors.Errorf("ocv curve has %d entries, want %d",
				len(params.OCV), axp20x.OCVCurveSize)
		}
		for i, v := range params.OCV {
			if v < 0 || v > 100 {
				return pkgerrors.Errorf("ocv[%d] = %d out of range 0..100", i, v)
			}
		}
	}

	if params.ResistanceMilliohm != nil && *params.ResistanceMilliohm < 0 {
		return pkgerrors.Errorf("resistance %d mΩ is negative", *params.ResistanceMilliohm)
	}

	if ts := params.TempSensor; ts != nil {
		if _, ok := axp20x.TSCurrentFromMicroamps(ts.DriveMicroamps); !ok {
			return pkgerrors.Errorf("temp sensor drive current %d µA not in {20,40,60,80}",
				ts.DriveMicroamps)
		}
	}

	return nil
}

// configure validates params and programs the charger. On success the
// derived limits (capacityDesign, chargeUserMax, tbattMin/Max) are set and
// immutable from then on. Returns powersupply.ErrNoDevice when capacity
// is unconfigured and the hardware reports no battery present.
func (p *Power) configure(params Params) error {
	if err := params.Validate(); err != nil {
		return pkgerrors.Wrap(err, "invalid battery parameters")
	}

	opMode, err := p.rm.Read(axp20x.RegPowerOpMode)
	if err != nil {
		return err
	}

	rdcMilliohm := defaultResistanceMilliohm
	if params.ResistanceMilliohm != nil {
		rdcMilliohm = *params.ResistanceMilliohm
	}
	rdc := axp20x.RDCEncode(rdcMilliohm)

	p.log.WithFields(logrus.Fields{
		"capacity":   params.CapacityMilliampHours,
		"resistance": rdcMilliohm,
		"tempSensor": params.TempSensor != nil,
	}).Debug("battery parameters")

	p.health = powersupply.HealthUnknown

	// Program the fuel gauge calibration with the gauge paused.
	_ = p.rm.UpdateBits(axp20x.RegFuelGauge, axp20x.FuelGaugeEnable, 0x00)
	_ = p.rm.UpdateBits(axp20x.RegRDCHigh, 0x80, 0x00)
	_ = p.rm.UpdateBits(axp20x.RegRDCLow, 0xff, axp20x.RDCLowByte(rdc))
	_ = p.rm.UpdateBits(axp20x.RegRDCHigh, 0x1f, axp20x.RDCHighBits(rdc))
	if params.OCV != nil {
		for i, v := range params.OCV {
			if err := p.rm.UpdateBits(axp20x.RegOCV(i), 0xff, uint8(v)); err != nil {
				p.log.Warnf("failed to store OCV[%d]: %v", i, err)
			}
		}
	}
	_ = p.rm.UpdateBits(axp20x.RegFuelGauge, axp20x.FuelGaugeEnable, axp20x.FuelGaugeEnable)

	if params.CapacityMilliampHours == 0 && opMode&axp20x.OpModeBattPresent == 0 {
		// No battery present or configured: disable the charger and the
		// battery monitor, and do not publish this supply.
		_ = p.rm.UpdateBits(axp20x.RegChargeCtrl1, axp20x.ChargeCtrl1Enable, 0x00)
		_ = p.rm.UpdateBits(axp20x.RegOffCtrl, axp20x.OffCtrlBattMonitor, 0x00)
		p.log.Info("no battery, disabling charger")
		return pkgerrors.Wrap(powersupply.ErrNoDevice, "no battery present or configured")
	}

	if ts := params.TempSensor; ts == nil {
		// Route the TS pin away from battery supervision.
		_ = p.rm.UpdateBits(axp20x.RegADCRate,
			axp20x.TSSampleMask|axp20x.TSUnrelated,
			axp20x.TSUnrelated|axp20x.TSSampleOff)
		p.tbattMin = 0
		p.tbattMax = 0
	} else {
		p.tbattMin = ts.AlertMin
		p.tbattMax = ts.AlertMax
		drive, _ := axp20x.TSCurrentFromMicroamps(ts.DriveMicroamps)
		_ = p.rm.UpdateBits(axp20x.RegADCRate,
			axp20x.TSCurrentMask|axp20x.TSSampleMask|axp20x.TSUnrelated,
			drive.Bits()|axp20x.TSSampleADC)

		threshold := uint8(ts.AlertMin / (0x10 * axp20x.ScaleTSVoltage))
		_ = p.rm.UpdateBits(axp20x.RegVHTFCharge, 0xff, threshold)
		_ = p.rm.UpdateBits(axp20x.RegVHTFDischarge, 0xff, threshold)
		threshold = uint8(ts.AlertMax / (0x10 * axp20x.ScaleTSVoltage))
		_ = p.rm.UpdateBits(axp20x.RegVLTFCharge, 0xff, threshold)
		_ = p.rm.UpdateBits(axp20x.RegVLTFDischarge, 0xff, threshold)
	}

	// Enable battery voltage/current measurement, and the TS channel
	// when temperature supervision is on.
	tsEnable := uint8(0)
	if params.TempSensor != nil {
		tsEnable = axp20x.ADCEnableTS
	}
	err = p.rm.UpdateBits(axp20x.RegADCEnable1,
		axp20x.ADCEnableBattCurrent|axp20x.ADCEnableBattVoltage|tsEnable,
		axp20x.ADCEnableBattCurrent|axp20x.ADCEnableBattVoltage|axp20x.ADCEnableTS)
	if err != nil {
		return err
	}

	p.capacityDesign = params.CapacityMilliampHours * 1000
	userMax := params.CapacityMilliampHours
	if userMax < 300 {
		userMax = 300
	}
	p.chargeUserMax = userMax * 1000

	// Prefer longer battery life over longer runtime.
	_ = p.rm.UpdateBits(axp20x.RegChargeCtrl1,
		axp20x.ChargeCtrl1VoltageMask, axp20x.ChargeVoltage4V15.Bits())

	// Low-power warning defaults: about 5% capacity, about 3.5 V.
	_ = p.rm.UpdateBits(axp20x.RegAPSWarnL1, 0xff, axp20x.APSWarnEncode(3500000))
	_ = p.rm.UpdateBits(axp20x.RegAPSWarnL2, 0xff, axp20x.APSWarnEncode(3304000))

	// Rewrite the RDC calibration with the battery monitor paused so the
	// gauge picks it up atomically, then enable the monitor.
	_ = p.rm.UpdateBits(axp20x.RegFuelGauge, 0x80, 0x80)
	_ = p.rm.UpdateBits(axp20x.RegRDCHigh, 0x80, 0x00)
	_ = p.rm.UpdateBits(axp20x.RegRDCHigh, 0x1f, axp20x.RDCHighBits(rdc))
	_ = p.rm.UpdateBits(axp20x.RegRDCLow, 0xff, axp20x.RDCLowByte(rdc))
	_ = p.rm.UpdateBits(axp20x.RegFuelGauge, 0x80, 0x00)
	_ = p.rm.UpdateBits(axp20x.RegOffCtrl,
		axp20x.OffCtrlBattMonitor, axp20x.OffCtrlBattMonitor)

	return nil
}
