package battery

import (
	"errors"
	"testing"

	"github.com/sunxi-power/axp20x/pkg/axp20x"
	"github.com/sunxi-power/axp20x/pkg/powersupply"
)

const (
	statusAC   = axp20x.InputACPresent | axp20x.InputACAvailable
	statusVBUS = axp20x.InputVBUSPresent | axp20x.InputVBUSAvailable
)

func TestReconfigureArbitration(t *testing.T) {
	tests := []struct {
		name        string
		inputStatus uint8
		vbusLimit   axp20x.VBUSCurrentLimit
		userMax     int // 0 keeps the attach-time default
		wantCode    uint8
		wantOff     bool
	}{
		{
			// 0.5C of 2000 mAh is 1 A.
			name:        "ac half capacity",
			inputStatus: statusAC,
			wantCode:    7,
		},
		{
			name:        "ac clamped by user ceiling",
			inputStatus: statusAC,
			userMax:     400000,
			wantCode:    1,
		},
		{
			name:        "vbus 500mA limit",
			inputStatus: statusVBUS,
			vbusLimit:   axp20x.VBUSLimit500mA,
			wantCode:    0, // 300 mA
		},
		{
			name:        "vbus 900mA limit",
			inputStatus: statusVBUS,
			vbusLimit:   axp20x.VBUSLimit900mA,
			wantCode:    3, // 600 mA
		},
		{
			name:        "vbus unlimited",
			inputStatus: statusVBUS,
			vbusLimit:   axp20x.VBUSLimitNone,
			wantCode:    7,
		},
		{
			name:        "vbus 100mA blocks charging",
			inputStatus: statusVBUS,
			vbusLimit:   axp20x.VBUSLimit100mA,
			wantOff:     true,
		},
		{
			name:        "battery only blocks charging",
			inputStatus: 0,
			wantOff:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, rm, ch := attachTest(t, map[uint8]uint8{
				axp20x.RegPowerOpMode: axp20x.OpModeBattPresent | axp20x.OpModeCharging,
			}, Params{CapacityMilliampHours: 2000})
			drain(ch)

			rm.Set(axp20x.RegPowerInputStatus, tt.inputStatus)
			rm.Set(axp20x.RegVBUSIPSOutMgmt, uint8(tt.vbusLimit))
			if tt.userMax != 0 {
				if err := p.SetProperty(powersupply.PropCurrentMax, tt.userMax); err != nil {
					t.Fatalf("SetProperty(current_max): %v", err)
				}
			}

			if err := p.Reconfigure(); err != nil {
				t.Fatalf("Reconfigure: %v", err)
			}

			opMode := rm.Get(axp20x.RegPowerOpMode)
			if tt.wantOff {
				if opMode&axp20x.OpModeCharging != 0 {
					t.Error("charging still enabled")
				}
				return
			}
			if opMode&axp20x.OpModeCharging == 0 {
				t.Error("charging not enabled")
			}
			if code := rm.Get(axp20x.RegChargeCtrl1) & axp20x.ChargeCtrl1CurrentMask; code != tt.wantCode {
				t.Errorf("charge current code = %d, want %d", code, tt.wantCode)
			}
			if n := drain(ch); n == 0 {
				t.Error("no change notification after reconfigure")
			}
		})
	}
}

func TestReconfigureReadFailure(t *testing.T) {
	p, rm, ch := attachTest(t, map[uint8]uint8{
		axp20x.RegPowerOpMode: axp20x.OpModeBattPresent,
	}, Params{CapacityMilliampHours: 2000})
	drain(ch)
	rm.ResetJournal()

	rm.FailOn(axp20x.RegPowerInputStatus, errors.New("bus stuck"))
	if err := p.Reconfigure(); err == nil {
		t.Fatal("Reconfigure succeeded with the status register unreadable")
	}

	if writes := rm.Journal(); len(writes) != 0 {
		t.Errorf("%d register writes after a failed status read, want 0", len(writes))
	}
	if n := drain(ch); n != 0 {
		t.Errorf("%d notifications after a failed status read, want 0", n)
	}
}

func TestAttachDefaultUserCeiling(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		want     int
	}{
		{"capacity above floor", 2000, 2000000},
		{"small capacity floors at 300mA", 150, 300000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _, _ := attachTest(t, map[uint8]uint8{
				axp20x.RegPowerOpMode: axp20x.OpModeBattPresent,
			}, Params{CapacityMilliampHours: tt.capacity})

			if got := p.ChargeUserMax(); got != tt.want {
				t.Errorf("ChargeUserMax = %d, want %d", got, tt.want)
			}
		})
	}
}
