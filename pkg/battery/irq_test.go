package battery

import (
	"errors"
	"testing"

	"github.com/sunxi-power/axp20x/pkg/axp20x"
	"github.com/sunxi-power/axp20x/pkg/powersupply"
	"github.com/sunxi-power/axp20x/pkg/regmap"
)

var allLines = []string{
	LineBattHot, LineBattCold, LineBattPlugin, LineBattRemoval,
	LineBattActivate, LineBattActivated, LineBattCharging, LineBattCharged,
	LineBattChgCurrLow, LinePowerLowWarn, LinePowerLowCrit,
}

func TestBindLinesSkipsMissing(t *testing.T) {
	p, _, _ := attachTest(t, map[uint8]uint8{
		axp20x.RegPowerOpMode: axp20x.OpModeBattPresent,
	}, Params{CapacityMilliampHours: 2000})

	p.BindLines([]string{LineBattPlugin, LineBattRemoval})

	if !p.Trigger(LineBattPlugin) {
		t.Error("bound line did not trigger")
	}
	if p.Trigger(LineBattHot) {
		t.Error("unbound line triggered")
	}
	if p.Trigger("NO_SUCH_LINE") {
		t.Error("unknown line triggered")
	}
}

func TestBindLinesEnablesBanks(t *testing.T) {
	p, rm, _ := attachTest(t, map[uint8]uint8{
		axp20x.RegPowerOpMode: axp20x.OpModeBattPresent,
	}, Params{CapacityMilliampHours: 2000})

	p.BindLines(allLines)

	if rm.Get(axp20x.RegIRQEnable2)&axp20x.IRQ2BattPlugin == 0 {
		t.Error("battery plugin IRQ not enabled")
	}
	if rm.Get(axp20x.RegIRQEnable3)&axp20x.IRQ3ChargeCurrLow == 0 {
		t.Error("charge current low IRQ not enabled")
	}
	if rm.Get(axp20x.RegIRQEnable4)&axp20x.IRQ4APSLowCrit == 0 {
		t.Error("power low critical IRQ not enabled")
	}
}

func TestServiceIRQPlugin(t *testing.T) {
	p, rm, ch := attachTest(t, map[uint8]uint8{
		axp20x.RegPowerOpMode: axp20x.OpModeBattPresent,
	}, Params{CapacityMilliampHours: 2000})
	p.BindLines(allLines)
	drain(ch)
	rm.ResetJournal()

	rm.Set(axp20x.RegIRQStatus2, axp20x.IRQ2BattPlugin)
	p.ServiceIRQ()

	if rm.Get(axp20x.RegPowerOpMode)&axp20x.OpModeCharging == 0 {
		t.Error("plugin handler did not enable charging")
	}
	acked := false
	for _, w := range rm.Journal() {
		if w.Reg == axp20x.RegIRQStatus2 && w.Val&axp20x.IRQ2BattPlugin != 0 {
			acked = true
		}
	}
	if !acked {
		t.Error("pending plugin bit was not acknowledged")
	}
	if n := drain(ch); n == 0 {
		t.Error("no change notification from the plugin handler")
	}
}

func TestIRQHealthTransitions(t *testing.T) {
	tests := []struct {
		name string
		line string
		want powersupply.Health
	}{
		{"hot", LineBattHot, powersupply.HealthOverheat},
		{"cold", LineBattCold, powersupply.HealthCold},
		{"activated", LineBattActivated, powersupply.HealthGood},
		{"activate resets", LineBattActivate, powersupply.HealthUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, rm, ch := attachTest(t, map[uint8]uint8{
				axp20x.RegPowerOpMode: axp20x.OpModeBattPresent | axp20x.OpModeCharging,
			}, Params{CapacityMilliampHours: 2000})
			p.BindLines(allLines)
			drain(ch)

			if !p.Trigger(tt.line) {
				t.Fatalf("line %s not bound", tt.line)
			}

			health, _ := p.Snapshot()
			if health != tt.want {
				t.Errorf("health = %v, want %v", health, tt.want)
			}
			if n := drain(ch); n == 0 {
				t.Error("no change notification")
			}

			if tt.line == LineBattHot {
				if rm.Get(axp20x.RegPowerOpMode)&axp20x.OpModeCharging != 0 {
					t.Error("overheat handler did not disable charging")
				}
			}
		})
	}
}

func TestIRQRemovalDisablesCharging(t *testing.T) {
	p, rm, ch := attachTest(t, map[uint8]uint8{
		axp20x.RegPowerOpMode: axp20x.OpModeBattPresent | axp20x.OpModeCharging,
	}, Params{CapacityMilliampHours: 2000})
	p.BindLines(allLines)
	drain(ch)

	rm.Set(axp20x.RegIRQStatus2, axp20x.IRQ2BattRemoval)
	p.ServiceIRQ()

	if rm.Get(axp20x.RegPowerOpMode)&axp20x.OpModeCharging != 0 {
		t.Error("removal handler did not disable charging")
	}
}

func TestServiceIRQSwallowsWriteErrors(t *testing.T) {
	p, rm, ch := attachTest(t, map[uint8]uint8{
		axp20x.RegPowerOpMode: axp20x.OpModeBattPresent,
	}, Params{CapacityMilliampHours: 2000})
	p.BindLines(allLines)
	drain(ch)

	// The handler's register write fails, the notification still goes out.
	rm.Set(axp20x.RegIRQStatus2, axp20x.IRQ2BattPlugin)
	rm.FailOn(axp20x.RegPowerOpMode, errors.New("injected failure"))
	p.ServiceIRQ()

	if n := drain(ch); n == 0 {
		t.Error("no change notification after a failed handler write")
	}
}

var _ regmap.Regmap = (*regmap.Mock)(nil)
