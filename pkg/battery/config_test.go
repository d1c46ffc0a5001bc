package battery

import (
	"errors"
	"testing"

	"github.com/sunxi-power/axp20x/pkg/axp20x"
	"github.com/sunxi-power/axp20x/pkg/powersupply"
	"github.com/sunxi-power/axp20x/pkg/regmap"
)

func intPtr(v int) *int { return &v }

// attachTest attaches a battery device against a mocked register map and
// returns the notification channel alongside.
func attachTest(t *testing.T, prefill map[uint8]uint8, params Params) (*Power, *regmap.Mock, chan string) {
	t.Helper()

	rm := regmap.NewMock(prefill)
	hub := powersupply.NewHub()
	ch := hub.Subscribe()

	p, err := Attach(rm, params, hub)
	if err != nil {
		t.Fatalf("Attach: %v", err)
	}
	return p, rm, ch
}

// drain consumes all pending notifications and returns how many there were.
func drain(ch chan string) int {
	n := 0
	for {
		select {
		case <-ch:
			n++
		default:
			return n
		}
	}
}

func TestParamsValidate(t *testing.T) {
	shortOCV := make([]int, 10)
	badEntry := make([]int, axp20x.OCVCurveSize)
	badEntry[7] = 101

	tests := []struct {
		name    string
		params  Params
		wantErr bool
	}{
		{"empty", Params{}, false},
		{"ocv wrong length", Params{OCV: shortOCV}, true},
		{"ocv entry above 100", Params{OCV: badEntry}, true},
		{"negative resistance", Params{ResistanceMilliohm: intPtr(-1)}, true},
		{"bad ts drive current", Params{TempSensor: &TempSensor{DriveMicroamps: 30}}, true},
		{"good ts drive current", Params{TempSensor: &TempSensor{DriveMicroamps: 60}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestAttachWritesOCVInOrder(t *testing.T) {
	ocv := make([]int, axp20x.OCVCurveSize)
	for i := range ocv {
		ocv[i] = i * 6
	}

	_, rm, _ := attachTest(t, map[uint8]uint8{
		axp20x.RegPowerOpMode: axp20x.OpModeBattPresent,
	}, Params{
		OCV:                   ocv,
		CapacityMilliampHours: 1200,
	})

	var got []regmap.MockWrite
	for _, w := range rm.Journal() {
		if w.Reg >= axp20x.RegOCV(0) && w.Reg <= axp20x.RegOCV(axp20x.OCVCurveSize-1) {
			got = append(got, w)
		}
	}
	if len(got) != axp20x.OCVCurveSize {
		t.Fatalf("wrote %d OCV entries, want %d", len(got), axp20x.OCVCurveSize)
	}
	for i, w := range got {
		if w.Reg != axp20x.RegOCV(i) {
			t.Errorf("OCV write %d went to reg %#02x, want %#02x", i, w.Reg, axp20x.RegOCV(i))
		}
		if w.Val != uint8(ocv[i]) {
			t.Errorf("OCV[%d] = %d, want %d", i, w.Val, ocv[i])
		}
	}
}

func TestAttachProgramsRDCPair(t *testing.T) {
	// 300 mΩ encodes to 279 = 0x117: low byte 0x17, high bits 0x01.
	_, rm, _ := attachTest(t, map[uint8]uint8{
		axp20x.RegPowerOpMode: axp20x.OpModeBattPresent,
	}, Params{
		ResistanceMilliohm:    intPtr(300),
		CapacityMilliampHours: 1200,
	})

	if got := rm.Get(axp20x.RegRDCLow); got != 0x17 {
		t.Errorf("RDC low byte = %#02x, want 0x17", got)
	}
	high := rm.Get(axp20x.RegRDCHigh)
	if high&0x1f != 0x01 {
		t.Errorf("RDC high bits = %#02x, want 0x01", high&0x1f)
	}
	if high&0x80 != 0 {
		t.Errorf("RDC calibration latch still set: %#02x", high)
	}
	if rm.Get(axp20x.RegOffCtrl)&axp20x.OffCtrlBattMonitor == 0 {
		t.Error("battery monitor not enabled after attach")
	}
}

func TestAttachNoBattery(t *testing.T) {
	rm := regmap.NewMock(map[uint8]uint8{
		axp20x.RegChargeCtrl1: axp20x.ChargeCtrl1Enable,
		axp20x.RegOffCtrl:     axp20x.OffCtrlBattMonitor,
	})

	_, err := Attach(rm, Params{}, nil)
	if !errors.Is(err, powersupply.ErrNoDevice) {
		t.Fatalf("Attach = %v, want ErrNoDevice", err)
	}
	if rm.Get(axp20x.RegChargeCtrl1)&axp20x.ChargeCtrl1Enable != 0 {
		t.Error("charger still enabled with no battery")
	}
	if rm.Get(axp20x.RegOffCtrl)&axp20x.OffCtrlBattMonitor != 0 {
		t.Error("battery monitor still enabled with no battery")
	}
}

func TestAttachBadParamsFatal(t *testing.T) {
	rm := regmap.NewMock(nil)

	_, err := Attach(rm, Params{OCV: make([]int, 3)}, nil)
	if err == nil {
		t.Fatal("Attach accepted a malformed OCV table")
	}
	if errors.Is(err, powersupply.ErrNoDevice) {
		t.Error("malformed parameters misreported as no-device")
	}
}

func TestAttachTempSensorThresholds(t *testing.T) {
	p, rm, _ := attachTest(t, map[uint8]uint8{
		axp20x.RegPowerOpMode: axp20x.OpModeBattPresent,
	}, Params{
		CapacityMilliampHours: 1200,
		TempSensor: &TempSensor{
			DriveMicroamps: 80,
			AlertMin:       1024000, // µV, register code 80
			AlertMax:       2048000, // µV, register code 160
		},
	})

	rate := rm.Get(axp20x.RegADCRate)
	if rate&axp20x.TSCurrentMask != axp20x.TSCurrent80uA.Bits() {
		t.Errorf("TS drive current bits = %#02x, want %#02x",
			rate&axp20x.TSCurrentMask, axp20x.TSCurrent80uA.Bits())
	}
	if rate&axp20x.TSSampleMask != axp20x.TSSampleADC {
		t.Errorf("TS sample mode = %#02x, want %#02x",
			rate&axp20x.TSSampleMask, axp20x.TSSampleADC)
	}
	if rate&axp20x.TSUnrelated != 0 {
		t.Error("TS pin routed away from battery while sensor is configured")
	}

	if got := rm.Get(axp20x.RegVHTFCharge); got != 80 {
		t.Errorf("VHTF threshold = %d, want 80", got)
	}
	if got := rm.Get(axp20x.RegVLTFCharge); got != 160 {
		t.Errorf("VLTF threshold = %d, want 160", got)
	}

	min, err := p.GetProperty(powersupply.PropTempAlertMin)
	if err != nil || min != 1024000 {
		t.Errorf("temp alert min = %d, %v", min, err)
	}
}
