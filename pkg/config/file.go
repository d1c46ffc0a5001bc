package config

import (
	"encoding/json"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/sunxi-power/axp20x/pkg/acpower"
	"github.com/sunxi-power/axp20x/pkg/battery"
	"github.com/sunxi-power/axp20x/pkg/regmap"
	"github.com/sunxi-power/axp20x/pkg/rtcbatt"
	"github.com/sunxi-power/axp20x/pkg/utils/ptr"
)

var defaultFileConfig = &RawFileConfig{
	Bus:                ptr.To(""),
	Address:            ptr.To(int(regmap.DefaultI2CAddr)),
	PollSeconds:        ptr.To(60),
	IRQPollMillis:      ptr.To(500),
	AllowNonRootAccess: ptr.To(false),
	// Boards without interrupt wiring list nothing here; the poller
	// still covers health and charge level on its own.
	IRQLines: allKnownLines(),
}

var _ Config = &File{}

// File is a JSON file backed Config.
type File struct {
	c        *RawFileConfig
	mu       *sync.RWMutex
	filepath string
}

// RawFileConfig is the on-disk layout. Pointer fields distinguish "not
// set, use the default" from an explicit zero.
type RawFileConfig struct {
	Bus                *string `json:"bus,omitempty"`
	Address            *int    `json:"address,omitempty"`
	PollSeconds        *int    `json:"pollSeconds,omitempty"`
	IRQPollMillis      *int    `json:"irqPollMillis,omitempty"`
	AllowNonRootAccess *bool   `json:"allowNonRootAccess,omitempty"`

	IRQLines []string `json:"irqLines,omitempty"`

	Battery *battery.Params `json:"battery,omitempty"`
	RTC     *rtcbatt.Params `json:"rtc,omitempty"`

	ChargeCurrentMax *int `json:"chargeCurrentMax,omitempty"`
}

func allKnownLines() []string {
	return []string{
		battery.LineBattHot, battery.LineBattCold,
		battery.LineBattPlugin, battery.LineBattRemoval,
		battery.LineBattActivate, battery.LineBattActivated,
		battery.LineBattCharging, battery.LineBattCharged,
		battery.LineBattChgCurrLow,
		battery.LinePowerLowWarn, battery.LinePowerLowCrit,
		acpower.LineACPlugin, acpower.LineACRemoval, acpower.LineACOvervolt,
	}
}

// NewFile loads a file backed Config from configPath. A missing file is
// not an error, it reads as an all-defaults configuration.
func NewFile(configPath string) (*File, error) {
	f := &File{
		filepath: configPath,
		mu:       &sync.RWMutex{},
	}
	err := f.Load()
	if err != nil {
		return nil, err
	}

	return f, nil
}

// NewFileFromConfig wraps an in-memory raw config, for tests.
func NewFileFromConfig(c *RawFileConfig, configPath string) *File {
	if c == nil {
		c = defaultFileConfig
	}

	return &File{
		c:        c,
		mu:       &sync.RWMutex{},
		filepath: configPath,
	}
}

func (f *File) Bus() string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.c.Bus != nil {
		return *f.c.Bus
	}
	return *defaultFileConfig.Bus
}

func (f *File) Address() uint16 {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.c.Address != nil {
		return uint16(*f.c.Address)
	}
	return uint16(*defaultFileConfig.Address)
}

func (f *File) PollInterval() time.Duration {
	f.mu.RLock()
	defer f.mu.RUnlock()

	seconds := *defaultFileConfig.PollSeconds
	if f.c.PollSeconds != nil {
		seconds = *f.c.PollSeconds
	}
	return time.Duration(seconds) * time.Second
}

func (f *File) IRQPollInterval() time.Duration {
	f.mu.RLock()
	defer f.mu.RUnlock()

	millis := *defaultFileConfig.IRQPollMillis
	if f.c.IRQPollMillis != nil {
		millis = *f.c.IRQPollMillis
	}
	return time.Duration(millis) * time.Millisecond
}

func (f *File) IRQLines() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.c.IRQLines != nil {
		return f.c.IRQLines
	}
	return defaultFileConfig.IRQLines
}

func (f *File) AllowNonRootAccess() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.c.AllowNonRootAccess != nil {
		return *f.c.AllowNonRootAccess
	}
	return *defaultFileConfig.AllowNonRootAccess
}

func (f *File) BatteryParams() battery.Params {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.c.Battery != nil {
		return *f.c.Battery
	}
	return battery.Params{}
}

func (f *File) RTCParams() *rtcbatt.Params {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return f.c.RTC
}

func (f *File) ChargeCurrentMax() int {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.c.ChargeCurrentMax != nil {
		return *f.c.ChargeCurrentMax
	}
	return 0
}

func (f *File) SetChargeCurrentMax(ua int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.c.ChargeCurrentMax = &ua
}

func (f *File) Load() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	fp, err := os.Open(f.filepath)
	if err != nil {
		if os.IsNotExist(err) {
			// If the file does not exist, return the empty config.
			// Do not make f.c a nil.
			f.c = &RawFileConfig{}
			return nil
		}
		return pkgerrors.Wrapf(err, "failed to open file %s", f.filepath)
	}
	defer func(fp *os.File) {
		err := fp.Close()
		if err != nil {
			logrus.Warnf("failed to close file %s", f.filepath)
		}
	}(fp)

	// Since we want to tell if the file is empty, using json.Decoder will
	// not work.
	b, err := io.ReadAll(fp)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to read file %s", f.filepath)
	}

	if strings.TrimSpace(string(b)) == "" {
		// If the file is empty, return the empty config.
		// Do not make f.c a nil.
		f.c = &RawFileConfig{}
		return nil
	}

	conf := RawFileConfig{}
	err = json.Unmarshal(b, &conf)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to unmarshal config from file %s", f.filepath)
	}
	f.c = &conf

	return nil
}

func (f *File) Save() error {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.c == nil {
		return pkgerrors.New("config is nil")
	}

	fp, err := os.OpenFile(f.filepath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to open file %s", f.filepath)
	}
	defer func(fp *os.File) {
		err := fp.Close()
		if err != nil {
			logrus.Warnf("failed to close file %s", f.filepath)
		}
	}(fp)

	enc := json.NewEncoder(fp)
	enc.SetIndent("", "  ")
	err = enc.Encode(f.c)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to encode config to file %s", f.filepath)
	}

	return nil
}

// LogrusFields summarizes the effective configuration for startup logs.
func (f *File) LogrusFields() logrus.Fields {
	params := f.BatteryParams()

	return logrus.Fields{
		"bus":                f.Bus(),
		"address":            f.Address(),
		"pollInterval":       f.PollInterval(),
		"irqPollInterval":    f.IRQPollInterval(),
		"allowNonRootAccess": f.AllowNonRootAccess(),
		"batteryCapacity":    params.CapacityMilliampHours,
		"rtcCharging":        f.RTCParams() != nil,
	}
}
