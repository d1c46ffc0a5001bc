// Package regmap provides serialized byte-register access to the AXP20x
// PMIC. Implementations wrap a concrete bus (I²C via periph.io or a TinyGo
// machine bus) behind a small interface so the drivers and their tests do
// not care where the bytes come from.
package regmap

// Regmap is the register-access contract used by all AXP20x drivers.
//
// Every call is atomic with respect to other calls on the same Regmap:
// UpdateBits performs its read-modify-write under an internal lock.
// Sequences spanning several calls are NOT atomic; callers that need a
// consistent multi-register view must serialize themselves.
type Regmap interface {
	// Read returns the current value of a single byte register.
	Read(reg uint8) (uint8, error)
	// Write replaces the whole register.
	Write(reg uint8, val uint8) error
	// UpdateBits replaces the masked bits of the register with val,
	// leaving the other bits untouched.
	UpdateBits(reg uint8, mask uint8, val uint8) error
	// ReadVariableWidth reads a width-bit quantity spread over
	// ceil(width/8) consecutive registers, most significant byte first.
	// The low register contributes only its low width-8 bits (the AXP20x
	// ADC layout: 12-bit results are stored as 8 high bits + 4 low bits).
	ReadVariableWidth(start uint8, width uint) (uint32, error)
}

// readVariableWidth implements Regmap.ReadVariableWidth on top of Read so
// every transport shares the same decoding. The leading registers carry
// full bytes; the final register carries the remaining low bits in its
// least significant bits and is masked defensively (the unused high bits
// of AXP20x ADC low registers are undefined).
func readVariableWidth(r Regmap, start uint8, width uint) (uint32, error) {
	n := (width + 7) / 8

	var v uint32
	for i := uint(0); i < n; i++ {
		b, err := r.Read(start + uint8(i))
		if err != nil {
			return 0, err
		}
		if i == n-1 {
			rem := width - 8*(n-1)
			v = v<<rem | uint32(b)&(1<<rem-1)
		} else {
			v = v<<8 | uint32(b)
		}
	}

	return v & (1<<width - 1), nil
}
