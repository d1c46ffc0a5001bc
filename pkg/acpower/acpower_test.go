package acpower

import (
	"errors"
	"testing"

	"github.com/sunxi-power/axp20x/pkg/axp20x"
	"github.com/sunxi-power/axp20x/pkg/powersupply"
	"github.com/sunxi-power/axp20x/pkg/regmap"
)

func set12(rm *regmap.Mock, start uint8, raw int) {
	rm.Set(start, uint8(raw>>4))
	rm.Set(start+1, uint8(raw&0x0f))
}

func TestAttachEnablesADC(t *testing.T) {
	rm := regmap.NewMock(nil)

	if _, err := Attach(rm, nil); err != nil {
		t.Fatalf("Attach: %v", err)
	}

	want := axp20x.ADCEnableACINCurrent | axp20x.ADCEnableACINVoltage
	if got := rm.Get(axp20x.RegADCEnable1) & want; got != want {
		t.Errorf("ADC enable bits = %#02x, want %#02x", got, want)
	}
}

func TestGetProperty(t *testing.T) {
	rm := regmap.NewMock(map[uint8]uint8{
		axp20x.RegPowerInputStatus: axp20x.InputACPresent,
	})
	set12(rm, axp20x.RegACINVoltageADCHigh, 2941) // about 5 V at 1.7 mV/LSB
	set12(rm, axp20x.RegACINCurrentADCHigh, 800)  // 300 mA at 0.375 mA/LSB

	p, err := Attach(rm, nil)
	if err != nil {
		t.Fatalf("Attach: %v", err)
	}

	tests := []struct {
		name string
		prop powersupply.Property
		want int
	}{
		{"voltage", powersupply.PropVoltageNow, 2941 * 1700},
		{"current", powersupply.PropCurrentNow, 800 * 375},
		{"present", powersupply.PropPresent, 1},
		{"online", powersupply.PropOnline, 0}, // present but not available
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.GetProperty(tt.prop)
			if err != nil {
				t.Fatalf("GetProperty(%v): %v", tt.prop, err)
			}
			if got != tt.want {
				t.Errorf("GetProperty(%v) = %d, want %d", tt.prop, got, tt.want)
			}
		})
	}

	if _, err := p.GetProperty(powersupply.PropCapacity); !errors.Is(err, powersupply.ErrUnsupported) {
		t.Errorf("GetProperty(capacity) = %v, want ErrUnsupported", err)
	}
	if err := p.SetProperty(powersupply.PropOnline, 1); !errors.Is(err, powersupply.ErrUnsupported) {
		t.Errorf("SetProperty = %v, want ErrUnsupported", err)
	}
}

func TestIRQDrivesReconfigure(t *testing.T) {
	rm := regmap.NewMock(nil)
	hub := powersupply.NewHub()
	ch := hub.Subscribe()

	p, err := Attach(rm, hub)
	if err != nil {
		t.Fatalf("Attach: %v", err)
	}
	reconfigures := 0
	p.Reconfigure = func() error {
		reconfigures++
		return nil
	}
	p.BindLines([]string{LineACPlugin, LineACRemoval, LineACOvervolt})

	rm.Set(axp20x.RegIRQStatus1, axp20x.IRQ1ACPlugin)
	p.ServiceIRQ()
	if reconfigures != 1 {
		t.Errorf("reconfigures = %d after plugin, want 1", reconfigures)
	}

	rm.Set(axp20x.RegIRQStatus1, axp20x.IRQ1ACRemoval)
	p.ServiceIRQ()
	if reconfigures != 2 {
		t.Errorf("reconfigures = %d after removal, want 2", reconfigures)
	}

	// Over voltage notifies but does not re-arbitrate.
	rm.Set(axp20x.RegIRQStatus1, axp20x.IRQ1ACOvervolt)
	p.ServiceIRQ()
	if reconfigures != 2 {
		t.Errorf("reconfigures = %d after over voltage, want 2", reconfigures)
	}

	notifications := 0
	for {
		select {
		case <-ch:
			notifications++
			continue
		default:
		}
		break
	}
	if notifications != 3 {
		t.Errorf("notifications = %d, want 3", notifications)
	}
}

func TestBindLinesSkipsMissing(t *testing.T) {
	rm := regmap.NewMock(nil)

	p, err := Attach(rm, nil)
	if err != nil {
		t.Fatalf("Attach: %v", err)
	}
	p.BindLines([]string{LineACPlugin})

	if !p.Trigger(LineACPlugin) {
		t.Error("bound line did not trigger")
	}
	if p.Trigger(LineACRemoval) {
		t.Error("unbound line triggered")
	}
	if rm.Get(axp20x.RegIRQEnable1)&axp20x.IRQ1ACRemoval != 0 {
		t.Error("unbound line enabled in hardware")
	}
}
