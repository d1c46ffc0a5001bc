package axp20x

import "testing"

func TestChargeVoltageRoundTrip(t *testing.T) {
	for _, uv := range []int{4100000, 4150000, 4200000, 4360000} {
		v, ok := ChargeVoltageFromMicrovolts(uv)
		if !ok {
			t.Fatalf("ChargeVoltageFromMicrovolts(%d) not representable", uv)
		}
		if got := ChargeVoltageFromBits(v.Bits()).Microvolts(); got != uv {
			t.Errorf("round trip %d µV = %d µV", uv, got)
		}
	}

	if _, ok := ChargeVoltageFromMicrovolts(4250000); ok {
		t.Error("ChargeVoltageFromMicrovolts(4250000) should not be representable")
	}
}

func TestChargeCurrentEncode(t *testing.T) {
	tests := []struct {
		ua   int
		code uint8
	}{
		{300000, 0x0},
		{399999, 0x0}, // rounds down to the step below
		{400000, 0x1},
		{1000000, 0x7},
		{1800000, 0xf},
		{2500000, 0xf}, // clamped, not wrapped
	}
	for _, tt := range tests {
		if got := ChargeCurrentEncode(tt.ua); got != tt.code {
			t.Errorf("ChargeCurrentEncode(%d) = %#x, want %#x", tt.ua, got, tt.code)
		}
	}

	for code := uint8(0); code <= 0xf; code++ {
		ua := ChargeCurrentDecode(code)
		if got := ChargeCurrentEncode(ua); got != code {
			t.Errorf("round trip code %#x via %d µA = %#x", code, ua, got)
		}
	}
}

func TestVBUSCurrentLimitFromBits(t *testing.T) {
	// The selector lives in the low two bits; the VHOLD field above it
	// must not leak in.
	if got := VBUSCurrentLimitFromBits(0b00101001); got != VBUSLimit500mA {
		t.Errorf("VBUSCurrentLimitFromBits() = %v, want %v", got, VBUSLimit500mA)
	}
}

func TestTSCurrentFromMicroamps(t *testing.T) {
	for ua, want := range map[int]TSCurrent{20: TSCurrent20uA, 40: TSCurrent40uA, 60: TSCurrent60uA, 80: TSCurrent80uA} {
		got, ok := TSCurrentFromMicroamps(ua)
		if !ok || got != want {
			t.Errorf("TSCurrentFromMicroamps(%d) = %v, %t", ua, got, ok)
		}
	}
	if _, ok := TSCurrentFromMicroamps(30); ok {
		t.Error("TSCurrentFromMicroamps(30) should be rejected")
	}
}

func TestBackupEncodings(t *testing.T) {
	for _, uv := range []int{2500000, 3000000, 3100000, 3600000} {
		v, ok := BackupVoltageFromMicrovolts(uv)
		if !ok {
			t.Fatalf("BackupVoltageFromMicrovolts(%d) not representable", uv)
		}
		if got := BackupVoltageFromBits(v.Bits()).Microvolts(); got != uv {
			t.Errorf("backup voltage round trip %d = %d", uv, got)
		}
	}

	for _, ua := range []int{50, 100, 200, 400} {
		c, ok := BackupCurrentFromMicroamps(ua)
		if !ok {
			t.Fatalf("BackupCurrentFromMicroamps(%d) not representable", ua)
		}
		if got := BackupCurrentFromBits(c.Bits()).Microamps(); got != ua {
			t.Errorf("backup current round trip %d = %d", ua, got)
		}
	}
}

func TestRDCEncode(t *testing.T) {
	tests := []struct {
		mohm int
		want uint16
	}{
		{100, (100*10000 + 5371) / 10742},
		{0, 0},
		{1, (10000 + 5371) / 10742},
		{3276, (3276*10000 + 5371) / 10742},
	}
	for _, tt := range tests {
		got := RDCEncode(tt.mohm)
		if got != tt.want {
			t.Errorf("RDCEncode(%d) = %d, want %d", tt.mohm, got, tt.want)
		}
		if rejoined := uint16(RDCHighBits(got))<<8 | uint16(RDCLowByte(got)); rejoined != got&0x1fff {
			t.Errorf("RDC split/join %d != %d", rejoined, got&0x1fff)
		}
	}
}

func TestAPSWarnCodec(t *testing.T) {
	// The defaults the charger programs at attach time.
	if got := APSWarnEncode(3500000); got != 113 {
		t.Errorf("APSWarnEncode(3.5V) = %d, want 113", got)
	}
	if got := APSWarnEncode(3304000); got != 78 {
		t.Errorf("APSWarnEncode(3.304V) = %d, want 78", got)
	}
	for _, code := range []uint8{0, 78, 113, 255} {
		if got := APSWarnEncode(APSWarnDecode(code)); got != code {
			t.Errorf("APS warn round trip %d = %d", code, got)
		}
	}
}
