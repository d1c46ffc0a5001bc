package axp20x

// ChargeVoltage is the 2-bit charge target voltage field of RegChargeCtrl1
// (bits 5-6).
type ChargeVoltage uint8

const (
	ChargeVoltage4V10 ChargeVoltage = 0
	ChargeVoltage4V15 ChargeVoltage = 1
	ChargeVoltage4V20 ChargeVoltage = 2
	ChargeVoltage4V36 ChargeVoltage = 3

	chargeVoltageShift = 5
)

// Bits returns the field value positioned inside RegChargeCtrl1.
func (v ChargeVoltage) Bits() uint8 { return uint8(v) << chargeVoltageShift }

// Microvolts returns the target voltage in µV.
func (v ChargeVoltage) Microvolts() int {
	switch v {
	case ChargeVoltage4V10:
		return 4100000
	case ChargeVoltage4V15:
		return 4150000
	case ChargeVoltage4V20:
		return 4200000
	case ChargeVoltage4V36:
		return 4360000
	}
	return 0
}

// ChargeVoltageFromBits decodes the field out of a RegChargeCtrl1 value.
func ChargeVoltageFromBits(reg uint8) ChargeVoltage {
	return ChargeVoltage(reg&ChargeCtrl1VoltageMask) >> chargeVoltageShift
}

// ChargeVoltageFromMicrovolts returns the tier for an exact µV value.
func ChargeVoltageFromMicrovolts(uv int) (ChargeVoltage, bool) {
	switch uv {
	case 4100000:
		return ChargeVoltage4V10, true
	case 4150000:
		return ChargeVoltage4V15, true
	case 4200000:
		return ChargeVoltage4V20, true
	case 4360000:
		return ChargeVoltage4V36, true
	}
	return 0, false
}

// Charge target current: 4-bit field of RegChargeCtrl1, one step per
// 100 mA starting at 300 mA.
const (
	ChargeCurrentMinMicroamps  = 300000
	ChargeCurrentStepMicroamps = 100000
	ChargeCurrentMaxMicroamps  = ChargeCurrentMinMicroamps +
		int(ChargeCtrl1CurrentMask)*ChargeCurrentStepMicroamps
)

// ChargeCurrentEncode converts a requested ceiling in µA to the 4-bit
// code, rounding down to the nearest step and clamping to the encodable
// range. Callers must reject values below the 300 mA floor beforehand.
func ChargeCurrentEncode(ua int) uint8 {
	if ua < ChargeCurrentMinMicroamps {
		return 0
	}
	steps := (ua - ChargeCurrentMinMicroamps) / ChargeCurrentStepMicroamps
	if steps > int(ChargeCtrl1CurrentMask) {
		steps = int(ChargeCtrl1CurrentMask)
	}
	return uint8(steps)
}

// ChargeCurrentDecode converts the 4-bit code back to µA.
func ChargeCurrentDecode(code uint8) int {
	return ChargeCurrentMinMicroamps +
		int(code&ChargeCtrl1CurrentMask)*ChargeCurrentStepMicroamps
}

// VBUSCurrentLimit is the 2-bit VBUS input current limit selector of
// RegVBUSIPSOutMgmt.
type VBUSCurrentLimit uint8

const (
	VBUSLimit900mA VBUSCurrentLimit = 0
	VBUSLimit500mA VBUSCurrentLimit = 1
	VBUSLimit100mA VBUSCurrentLimit = 2
	VBUSLimitNone  VBUSCurrentLimit = 3
)

// VBUSCurrentLimitFromBits decodes the selector out of RegVBUSIPSOutMgmt.
func VBUSCurrentLimitFromBits(reg uint8) VBUSCurrentLimit {
	return VBUSCurrentLimit(reg & VBUSCurrentLimMask)
}

func (l VBUSCurrentLimit) String() string {
	switch l {
	case VBUSLimit900mA:
		return "900mA"
	case VBUSLimit500mA:
		return "500mA"
	case VBUSLimit100mA:
		return "100mA"
	case VBUSLimitNone:
		return "unlimited"
	}
	return "invalid"
}

// TSCurrent is the 2-bit temperature sensor drive current field of
// RegADCRate (bits 4-5).
type TSCurrent uint8

const (
	TSCurrent20uA TSCurrent = 0
	TSCurrent40uA TSCurrent = 1
	TSCurrent60uA TSCurrent = 2
	TSCurrent80uA TSCurrent = 3

	tsCurrentShift = 4
)

// Bits returns the field value positioned inside RegADCRate.
func (c TSCurrent) Bits() uint8 { return uint8(c) << tsCurrentShift }

// TSCurrentFromMicroamps returns the selector for a drive current in µA.
// Only 20, 40, 60 and 80 are representable.
func TSCurrentFromMicroamps(ua int) (TSCurrent, bool) {
	switch ua {
	case 20:
		return TSCurrent20uA, true
	case 40:
		return TSCurrent40uA, true
	case 60:
		return TSCurrent60uA, true
	case 80:
		return TSCurrent80uA, true
	}
	return 0, false
}

// BackupVoltage is the 2-bit backup battery target voltage field of
// RegBackupChargeCtrl (bits 5-6).
type BackupVoltage uint8

const (
	BackupVoltage3V1 BackupVoltage = 0
	BackupVoltage3V0 BackupVoltage = 1
	BackupVoltage3V6 BackupVoltage = 2
	BackupVoltage2V5 BackupVoltage = 3

	backupVoltageShift = 5
)

// Bits returns the field value positioned inside RegBackupChargeCtrl.
func (v BackupVoltage) Bits() uint8 { return uint8(v) << backupVoltageShift }

// Microvolts returns the backup charge target in µV.
func (v BackupVoltage) Microvolts() int {
	switch v {
	case BackupVoltage2V5:
		return 2500000
	case BackupVoltage3V0:
		return 3000000
	case BackupVoltage3V1:
		return 3100000
	case BackupVoltage3V6:
		return 3600000
	}
	return 0
}

// BackupVoltageFromBits decodes the field out of RegBackupChargeCtrl.
func BackupVoltageFromBits(reg uint8) BackupVoltage {
	return BackupVoltage(reg&BackupVoltageMask) >> backupVoltageShift
}

// BackupVoltageFromMicrovolts returns the tier for an exact µV value.
func BackupVoltageFromMicrovolts(uv int) (BackupVoltage, bool) {
	switch uv {
	case 2500000:
		return BackupVoltage2V5, true
	case 3000000:
		return BackupVoltage3V0, true
	case 3100000:
		return BackupVoltage3V1, true
	case 3600000:
		return BackupVoltage3V6, true
	}
	return 0, false
}

// BackupCurrent is the 2-bit backup battery charge current field of
// RegBackupChargeCtrl (bits 0-1).
type BackupCurrent uint8

const (
	BackupCurrent50uA  BackupCurrent = 0
	BackupCurrent100uA BackupCurrent = 1
	BackupCurrent200uA BackupCurrent = 2
	BackupCurrent400uA BackupCurrent = 3
)

// Bits returns the field value positioned inside RegBackupChargeCtrl.
func (c BackupCurrent) Bits() uint8 { return uint8(c) }

// Microamps returns the backup charge current in µA.
func (c BackupCurrent) Microamps() int {
	switch c {
	case BackupCurrent50uA:
		return 50
	case BackupCurrent100uA:
		return 100
	case BackupCurrent200uA:
		return 200
	case BackupCurrent400uA:
		return 400
	}
	return 0
}

// BackupCurrentFromBits decodes the field out of RegBackupChargeCtrl.
func BackupCurrentFromBits(reg uint8) BackupCurrent {
	return BackupCurrent(reg & BackupCurrentMask)
}

// BackupCurrentFromMicroamps returns the selector for an exact µA value.
func BackupCurrentFromMicroamps(ua int) (BackupCurrent, bool) {
	switch ua {
	case 50:
		return BackupCurrent50uA, true
	case 100:
		return BackupCurrent100uA, true
	case 200:
		return BackupCurrent200uA, true
	case 400:
		return BackupCurrent400uA, true
	}
	return 0, false
}

// RDCEncode converts the battery internal resistance in mΩ to the 13-bit
// fuel gauge calibration value (1.0742 mΩ per LSB, rounded to nearest).
func RDCEncode(mohm int) uint16 {
	return uint16((mohm*10000 + 5371) / 10742)
}

// RDCLowByte returns the low 8 bits for RegRDCLow.
func RDCLowByte(rdc uint16) uint8 { return uint8(rdc & 0xff) }

// RDCHighBits returns the high 5 bits for RegRDCHigh.
func RDCHighBits(rdc uint16) uint8 { return uint8(rdc>>8) & 0x1f }
