// Package axp20x holds the AXP20x register map and the typed encodings for
// its multi-value bitfields. Scale factors and field layouts follow the
// AXP202/AXP209 datasheet.
package axp20x

// Register addresses.
const (
	RegPowerInputStatus uint8 = 0x00
	RegPowerOpMode      uint8 = 0x01
	RegVBUSIPSOutMgmt   uint8 = 0x30
	RegOffCtrl          uint8 = 0x32
	RegChargeCtrl1      uint8 = 0x33
	RegChargeCtrl2      uint8 = 0x34
	RegBackupChargeCtrl uint8 = 0x35

	// Battery temperature thresholds (TS pin voltage domain).
	RegVLTFCharge    uint8 = 0x38
	RegVHTFCharge    uint8 = 0x39
	RegAPSWarnL1     uint8 = 0x3a
	RegAPSWarnL2     uint8 = 0x3b
	RegVLTFDischarge uint8 = 0x3c
	RegVHTFDischarge uint8 = 0x3d

	// IRQ enable and status banks. Status bits are write-1-to-clear.
	RegIRQEnable1 uint8 = 0x40
	RegIRQEnable2 uint8 = 0x41
	RegIRQEnable3 uint8 = 0x42
	RegIRQEnable4 uint8 = 0x43
	RegIRQEnable5 uint8 = 0x44
	RegIRQStatus1 uint8 = 0x48
	RegIRQStatus2 uint8 = 0x49
	RegIRQStatus3 uint8 = 0x4a
	RegIRQStatus4 uint8 = 0x4b
	RegIRQStatus5 uint8 = 0x4c

	// ADC result registers. 12-bit results are stored high byte first,
	// low nibble in the second register.
	RegACINVoltageADCHigh  uint8 = 0x56
	RegACINCurrentADCHigh  uint8 = 0x58
	RegVBUSVoltageADCHigh  uint8 = 0x5a
	RegVBUSCurrentADCHigh  uint8 = 0x5c
	RegTSInputADCHigh      uint8 = 0x62
	RegBattPowerHigh       uint8 = 0x70 // 24-bit, three registers
	RegBattVoltageADCHigh  uint8 = 0x78
	RegBattChargeADCHigh   uint8 = 0x7a
	RegBattDischrgADCHigh  uint8 = 0x7c
	RegAPSVoltageADCHigh   uint8 = 0x7e

	RegADCEnable1 uint8 = 0x82
	RegADCEnable2 uint8 = 0x83
	RegADCRate    uint8 = 0x84

	RegFuelGauge uint8 = 0xb9
	RegRDCHigh   uint8 = 0xba
	RegRDCLow    uint8 = 0xbb

	regOCVBase uint8 = 0xc0
)

// OCVCurveSize is the number of open-circuit-voltage calibration slots.
const OCVCurveSize = 16

// RegOCV returns the register holding OCV table entry i (0..15).
func RegOCV(i int) uint8 { return regOCVBase + uint8(i) }

// Fields of IRQ bank 1 (RegIRQEnable1 / RegIRQStatus1).
const (
	IRQ1ACOvervolt   uint8 = 1 << 6
	IRQ1ACPlugin     uint8 = 1 << 5
	IRQ1ACRemoval    uint8 = 1 << 4
	IRQ1VBUSOvervolt uint8 = 1 << 3
	IRQ1VBUSPlugin   uint8 = 1 << 2
	IRQ1VBUSRemoval  uint8 = 1 << 1
	IRQ1VBUSValidLow uint8 = 1 << 0
)

// Fields of IRQ bank 2 (RegIRQEnable2 / RegIRQStatus2).
const (
	IRQ2BattPlugin    uint8 = 1 << 7
	IRQ2BattRemoval   uint8 = 1 << 6
	IRQ2BattActivate  uint8 = 1 << 5
	IRQ2BattActivated uint8 = 1 << 4
	IRQ2BattCharging  uint8 = 1 << 3
	IRQ2BattCharged   uint8 = 1 << 2
	IRQ2BattTempHigh  uint8 = 1 << 1
	IRQ2BattTempLow   uint8 = 1 << 0
)

// Fields of IRQ bank 3 (RegIRQEnable3 / RegIRQStatus3).
const (
	IRQ3ChargeCurrLow uint8 = 1 << 6
)

// Fields of IRQ bank 4 (RegIRQEnable4 / RegIRQStatus4).
const (
	IRQ4APSLowWarn uint8 = 1 << 1
	IRQ4APSLowCrit uint8 = 1 << 0
)

// Fields of RegPowerInputStatus.
const (
	InputACPresent     uint8 = 1 << 7
	InputACAvailable   uint8 = 1 << 6
	InputVBUSPresent   uint8 = 1 << 5
	InputVBUSAvailable uint8 = 1 << 4
	InputVBUSVHold     uint8 = 1 << 3
	InputBattCharging  uint8 = 1 << 2
	InputACVBUSShort   uint8 = 1 << 1
	InputACVBUSSelect  uint8 = 1 << 0
)

// Fields of RegPowerOpMode.
const (
	OpModeOverTemp      uint8 = 1 << 7
	OpModeCharging      uint8 = 1 << 6
	OpModeBattPresent   uint8 = 1 << 5
	OpModeBattActivated uint8 = 1 << 3
	OpModeChargeCurrLow uint8 = 1 << 2
)

// Fields of RegADCEnable1.
const (
	ADCEnableBattVoltage uint8 = 1 << 7
	ADCEnableBattCurrent uint8 = 1 << 6
	ADCEnableACINVoltage uint8 = 1 << 5
	ADCEnableACINCurrent uint8 = 1 << 4
	ADCEnableVBUSVoltage uint8 = 1 << 3
	ADCEnableVBUSCurrent uint8 = 1 << 2
	ADCEnableAPSVoltage  uint8 = 1 << 1
	ADCEnableTS          uint8 = 1 << 0
)

// Fields of RegADCRate.
const (
	ADCRateMask     uint8 = 3 << 6
	ADCRate25Hz     uint8 = 0 << 6
	ADCRate50Hz     uint8 = 1 << 6
	ADCRate100Hz    uint8 = 2 << 6
	ADCRate200Hz    uint8 = 3 << 6
	TSCurrentMask   uint8 = 3 << 4
	TSUnrelated     uint8 = 1 << 2 // TS pin is not a battery sensor
	TSSampleMask    uint8 = 3 << 0
	TSSampleOff     uint8 = 0 << 0
	TSSampleCharge  uint8 = 1 << 0
	TSSampleADC     uint8 = 2 << 0
	TSSampleAlways  uint8 = 3 << 0
)

// Fields of RegVBUSIPSOutMgmt.
const (
	VBUSVHoldMask      uint8 = 7 << 3
	VBUSCurrentLimMask uint8 = 3 << 0
)

// Fields of RegOffCtrl.
const (
	OffCtrlBattMonitor uint8 = 1 << 6
)

// Fields of RegChargeCtrl1.
const (
	ChargeCtrl1Enable      uint8 = 1 << 7
	ChargeCtrl1VoltageMask uint8 = 3 << 5
	ChargeCtrl1EndCurrent  uint8 = 1 << 4
	ChargeCtrl1CurrentMask uint8 = 0x0f
)

// Fields of RegBackupChargeCtrl.
const (
	BackupEnable      uint8 = 1 << 7
	BackupVoltageMask uint8 = 3 << 5
	BackupCurrentMask uint8 = 3 << 0
)

// Fields of RegFuelGauge.
const (
	FuelGaugeEnable      uint8 = 1 << 7
	FuelGaugePercentMask uint8 = 0x7f
)

// ADC scale factors, in the unit noted per constant.
const (
	ScaleBattVoltage  = 1100 // µV per LSB
	ScaleBattCurrent  = 500  // µA per LSB
	ScaleTSVoltage    = 800  // µV per LSB
	ScaleACINVoltage  = 1700 // µV per LSB
	ScaleACINCurrent  = 375  // µA per LSB, 0.375 mA steps
)

// APS (system power) warning level encoding: microvolts at code n are
// APSWarnBase + n*APSWarnStep.
const (
	APSWarnBase = 2867200
	APSWarnStep = 1400 * 4
)

// APSWarnEncode converts a warning threshold in µV to the register code.
func APSWarnEncode(uv int) uint8 {
	return uint8((uv - APSWarnBase) / APSWarnStep)
}

// APSWarnDecode converts a register code to µV.
func APSWarnDecode(code uint8) int {
	return APSWarnBase + APSWarnStep*int(code)
}
