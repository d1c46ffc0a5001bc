// Package powersupply defines the uniform property contract that every
// power supply driver in this repository exposes, together with the
// change-notification hub consumers use to learn when cached properties
// may have gone stale.
package powersupply

import "errors"

var (
	// ErrUnsupported is returned for unknown properties, non-writeable
	// properties, and values a register field cannot represent.
	ErrUnsupported = errors.New("unsupported property or value")

	// ErrBusy is returned when a request is valid but cannot currently
	// be satisfied, such as enabling charging with no usable input power.
	ErrBusy = errors.New("temporarily unavailable")

	// ErrNoDevice is returned from attach when the hardware reports no
	// battery and none is configured.
	ErrNoDevice = errors.New("no device")
)

// Property identifies one externally visible supply property. All values
// are reported in SI-derived integer units: microvolts, microamps,
// microamp-hours, percent, or tenths of a degree where noted.
type Property int

const (
	PropPresent Property = iota
	PropOnline
	PropStatus
	PropVoltageNow
	PropCurrentNow
	PropCurrentMax
	PropHealth
	PropTechnology
	PropVoltageMaxDesign
	PropVoltageMinDesign
	PropChargeFullDesign
	PropCapacity
	PropTemp
	PropTempAlertMin
	PropTempAlertMax
	PropConstantChargeVoltage
	PropConstantChargeCurrent
)

var propertyNames = map[Property]string{
	PropPresent:               "present",
	PropOnline:                "online",
	PropStatus:                "status",
	PropVoltageNow:            "voltage_now",
	PropCurrentNow:            "current_now",
	PropCurrentMax:            "current_max",
	PropHealth:                "health",
	PropTechnology:            "technology",
	PropVoltageMaxDesign:      "voltage_max_design",
	PropVoltageMinDesign:      "voltage_min_design",
	PropChargeFullDesign:      "charge_full_design",
	PropCapacity:              "capacity",
	PropTemp:                  "temp",
	PropTempAlertMin:          "temp_alert_min",
	PropTempAlertMax:          "temp_alert_max",
	PropConstantChargeVoltage: "constant_charge_voltage",
	PropConstantChargeCurrent: "constant_charge_current",
}

func (p Property) String() string {
	if s, ok := propertyNames[p]; ok {
		return s
	}
	return "unknown"
}

// PropertyByName resolves the sysfs-style property name used by the HTTP
// API back to a Property.
func PropertyByName(name string) (Property, bool) {
	for p, s := range propertyNames {
		if s == name {
			return p, true
		}
	}
	return 0, false
}

// Status is the value space of PropStatus.
type Status int

const (
	StatusUnknown Status = iota
	StatusCharging
	StatusDischarging
	StatusNotCharging
	StatusFull
)

var statusNames = [...]string{"unknown", "charging", "discharging", "not-charging", "full"}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return "unknown"
	}
	return statusNames[s]
}

// Health is the value space of PropHealth.
type Health int

const (
	HealthUnknown Health = iota
	HealthGood
	HealthDead
	HealthCold
	HealthOverheat
)

var healthNames = [...]string{"unknown", "good", "dead", "cold", "overheat"}

func (h Health) String() string {
	if h < 0 || int(h) >= len(healthNames) {
		return "unknown"
	}
	return healthNames[h]
}

// Technology is the value space of PropTechnology.
type Technology int

const (
	TechnologyUnknown Technology = iota
	TechnologyLiIon
)

func (t Technology) String() string {
	if t == TechnologyLiIon {
		return "li-ion"
	}
	return "unknown"
}

// Supply is the uniform driver contract. GetProperty and SetProperty are
// synchronous; register IO failures propagate to the caller unretried.
type Supply interface {
	Name() string
	Properties() []Property
	PropertyIsWriteable(p Property) bool
	GetProperty(p Property) (int, error)
	SetProperty(p Property, val int) error
}
