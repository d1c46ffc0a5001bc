package rtcbatt

import (
	"errors"
	"testing"

	"github.com/sunxi-power/axp20x/pkg/axp20x"
	"github.com/sunxi-power/axp20x/pkg/powersupply"
	"github.com/sunxi-power/axp20x/pkg/regmap"
)

func TestAttachProgramsCharger(t *testing.T) {
	rm := regmap.NewMock(nil)

	p, err := Attach(rm, Params{
		VoltageMicrovolts: 3000000,
		CurrentMicroamps:  200,
	}, nil)
	if err != nil {
		t.Fatalf("Attach: %v", err)
	}

	reg := rm.Get(axp20x.RegBackupChargeCtrl)
	if reg&axp20x.BackupEnable == 0 {
		t.Error("backup charging not enabled")
	}
	if axp20x.BackupVoltageFromBits(reg) != axp20x.BackupVoltage3V0 {
		t.Errorf("voltage bits = %#02x, want 3.0V tier", reg&axp20x.BackupVoltageMask)
	}
	if axp20x.BackupCurrentFromBits(reg) != axp20x.BackupCurrent200uA {
		t.Errorf("current bits = %#02x, want 200µA tier", reg&axp20x.BackupCurrentMask)
	}

	uv, err := p.GetProperty(powersupply.PropConstantChargeVoltage)
	if err != nil || uv != 3000000 {
		t.Errorf("constant charge voltage = %d, %v", uv, err)
	}
	ua, err := p.GetProperty(powersupply.PropConstantChargeCurrent)
	if err != nil || ua != 200 {
		t.Errorf("constant charge current = %d, %v", ua, err)
	}
}

func TestAttachRejectsInvalidLimits(t *testing.T) {
	tests := []struct {
		name   string
		params Params
	}{
		{"bad voltage", Params{VoltageMicrovolts: 3300000, CurrentMicroamps: 100}},
		{"bad current", Params{VoltageMicrovolts: 3000000, CurrentMicroamps: 150}},
		{"unset", Params{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rm := regmap.NewMock(map[uint8]uint8{
				axp20x.RegBackupChargeCtrl: 0x42,
			})
			if _, err := Attach(rm, tt.params, nil); err == nil {
				t.Fatal("Attach accepted invalid limits")
			}
			if got := rm.Get(axp20x.RegBackupChargeCtrl); got != 0x42 {
				t.Errorf("control register changed to %#02x on failed attach", got)
			}
		})
	}
}

func TestStatusToggle(t *testing.T) {
	rm := regmap.NewMock(nil)
	hub := powersupply.NewHub()
	ch := hub.Subscribe()

	p, err := Attach(rm, Params{VoltageMicrovolts: 3100000, CurrentMicroamps: 50}, hub)
	if err != nil {
		t.Fatalf("Attach: %v", err)
	}

	if err := p.SetProperty(powersupply.PropStatus, int(powersupply.StatusNotCharging)); err != nil {
		t.Fatalf("SetProperty(not-charging): %v", err)
	}
	got, err := p.GetProperty(powersupply.PropStatus)
	if err != nil || powersupply.Status(got) != powersupply.StatusNotCharging {
		t.Errorf("status = %v, %v", powersupply.Status(got), err)
	}

	if err := p.SetProperty(powersupply.PropStatus, int(powersupply.StatusCharging)); err != nil {
		t.Fatalf("SetProperty(charging): %v", err)
	}
	got, _ = p.GetProperty(powersupply.PropStatus)
	if powersupply.Status(got) != powersupply.StatusCharging {
		t.Errorf("status = %v, want charging", powersupply.Status(got))
	}

	select {
	case supply := <-ch:
		if supply != SupplyName {
			t.Errorf("notification for %q, want %q", supply, SupplyName)
		}
	default:
		t.Error("no change notification after a status write")
	}

	err = p.SetProperty(powersupply.PropStatus, int(powersupply.StatusFull))
	if !errors.Is(err, powersupply.ErrUnsupported) {
		t.Errorf("SetProperty(full) = %v, want ErrUnsupported", err)
	}
	err = p.SetProperty(powersupply.PropConstantChargeCurrent, 400)
	if !errors.Is(err, powersupply.ErrUnsupported) {
		t.Errorf("SetProperty(constant_charge_current) = %v, want ErrUnsupported", err)
	}
}
