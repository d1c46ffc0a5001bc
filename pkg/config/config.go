package config

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sunxi-power/axp20x/pkg/battery"
	"github.com/sunxi-power/axp20x/pkg/rtcbatt"
)

// Config is the daemon configuration source: the I²C bus wiring, the
// board's battery parameters, and daemon behavior knobs.
type Config interface {
	// Bus names the I²C bus the PMIC sits on, e.g. "/dev/i2c-1" or "1".
	// Empty selects the first available bus.
	Bus() string
	// Address is the PMIC's 7-bit I²C address.
	Address() uint16

	// PollInterval is the battery health monitor period.
	PollInterval() time.Duration
	// IRQPollInterval is how often pending interrupt status is serviced.
	IRQPollInterval() time.Duration
	// IRQLines lists the interrupt lines wired up on this board.
	IRQLines() []string

	AllowNonRootAccess() bool

	// BatteryParams are the board's main battery parameters.
	BatteryParams() battery.Params
	// RTCParams selects backup battery charging; nil leaves the backup
	// charger register alone.
	RTCParams() *rtcbatt.Params

	// ChargeCurrentMax is a persisted user ceiling in µA, 0 when unset.
	ChargeCurrentMax() int
	SetChargeCurrentMax(int)

	// Load reads the configuration from the source.
	Load() error
	// Save saves the configuration to the source.
	Save() error

	// LogrusFields summarizes the effective configuration for logs.
	LogrusFields() logrus.Fields
}
