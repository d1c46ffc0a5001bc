// Package acpower exposes the AXP20x ACIN input as a read-only mains
// supply: presence, availability and the two ACIN ADC channels. Its
// interrupt lines also drive the battery charger's re-arbitration, since
// AC appearing or vanishing changes how much current may flow.
package acpower

import (
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/sunxi-power/axp20x/pkg/axp20x"
	"github.com/sunxi-power/axp20x/pkg/powersupply"
	"github.com/sunxi-power/axp20x/pkg/regmap"
)

// SupplyName is the power-supply name this driver registers under.
const SupplyName = "axp20x-ac"

// Interrupt line names.
const (
	LineACPlugin   = "ACIN_PLUGIN"
	LineACRemoval  = "ACIN_REMOVAL"
	LineACOvervolt = "ACIN_OVER_V"
)

// Power is the AC input supply instance. Reconfigure, when set, runs on
// plug-in and removal so the battery charger can re-arbitrate.
type Power struct {
	rm  regmap.Regmap
	hub *powersupply.Hub
	log *logrus.Entry

	// Reconfigure is invoked after AC presence changed. May be nil.
	Reconfigure func() error

	lines map[string]func(p *Power)
}

// Attach enables the ACIN ADC channels and returns the supply.
func Attach(rm regmap.Regmap, hub *powersupply.Hub) (*Power, error) {
	p := &Power{
		rm:  rm,
		hub: hub,
		log: logrus.WithField("supply", SupplyName),
	}

	err := p.rm.UpdateBits(axp20x.RegADCEnable1,
		axp20x.ADCEnableACINCurrent|axp20x.ADCEnableACINVoltage,
		axp20x.ADCEnableACINCurrent|axp20x.ADCEnableACINVoltage)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to enable ACIN measurement")
	}

	return p, nil
}

// Name implements powersupply.Supply.
func (p *Power) Name() string { return SupplyName }

// Properties implements powersupply.Supply.
func (p *Power) Properties() []powersupply.Property {
	return []powersupply.Property{
		powersupply.PropPresent,
		powersupply.PropOnline,
		powersupply.PropVoltageNow,
		powersupply.PropCurrentNow,
	}
}

// PropertyIsWriteable implements powersupply.Supply. The AC input is
// purely observational.
func (p *Power) PropertyIsWriteable(powersupply.Property) bool { return false }

// GetProperty implements powersupply.Supply.
func (p *Power) GetProperty(prop powersupply.Property) (int, error) {
	switch prop {
	case powersupply.PropVoltageNow:
		raw, err := p.rm.ReadVariableWidth(axp20x.RegACINVoltageADCHigh, 12)
		if err != nil {
			return 0, err
		}
		return int(raw) * axp20x.ScaleACINVoltage, nil

	case powersupply.PropCurrentNow:
		raw, err := p.rm.ReadVariableWidth(axp20x.RegACINCurrentADCHigh, 12)
		if err != nil {
			return 0, err
		}
		return int(raw) * axp20x.ScaleACINCurrent, nil

	case powersupply.PropPresent, powersupply.PropOnline:
		input, err := p.rm.Read(axp20x.RegPowerInputStatus)
		if err != nil {
			return 0, err
		}
		bit := axp20x.InputACPresent
		if prop == powersupply.PropOnline {
			bit = axp20x.InputACAvailable
		}
		if input&bit != 0 {
			return 1, nil
		}
		return 0, nil
	}

	return 0, powersupply.ErrUnsupported
}

// SetProperty implements powersupply.Supply.
func (p *Power) SetProperty(powersupply.Property, int) error {
	return powersupply.ErrUnsupported
}

// BindLines binds handlers for the AC interrupt lines named in present
// and enables them. Missing lines are logged and skipped.
func (p *Power) BindLines(present []string) {
	handlers := map[string]func(p *Power){
		LineACPlugin:   (*Power).onPlugin,
		LineACRemoval:  (*Power).onRemoval,
		LineACOvervolt: (*Power).onOvervolt,
	}
	masks := map[string]uint8{
		LineACPlugin:   axp20x.IRQ1ACPlugin,
		LineACRemoval:  axp20x.IRQ1ACRemoval,
		LineACOvervolt: axp20x.IRQ1ACOvervolt,
	}

	have := make(map[string]bool, len(present))
	for _, name := range present {
		have[name] = true
	}

	p.lines = make(map[string]func(p *Power))
	for name, h := range handlers {
		if !have[name] {
			p.log.Warnf("no IRQ line %s, skipping", name)
			continue
		}
		p.lines[name] = h
		if err := p.rm.UpdateBits(axp20x.RegIRQEnable1, masks[name], masks[name]); err != nil {
			p.log.Errorf("failed to enable IRQ line %s: %v", name, err)
		}
	}
}

// ServiceIRQ demultiplexes pending AC interrupts, acknowledging each
// handled bit.
func (p *Power) ServiceIRQ() {
	status, err := p.rm.Read(axp20x.RegIRQStatus1)
	if err != nil {
		p.log.Errorf("failed to read IRQ status: %v", err)
		return
	}

	masks := map[string]uint8{
		LineACPlugin:   axp20x.IRQ1ACPlugin,
		LineACRemoval:  axp20x.IRQ1ACRemoval,
		LineACOvervolt: axp20x.IRQ1ACOvervolt,
	}
	for name, h := range p.lines {
		if status&masks[name] == 0 {
			continue
		}
		if err := p.rm.Write(axp20x.RegIRQStatus1, masks[name]); err != nil {
			p.log.Errorf("failed to ack IRQ line %s: %v", name, err)
		}
		h(p)
	}
}

// Trigger runs the handler bound to the named line, if any.
func (p *Power) Trigger(name string) bool {
	h, ok := p.lines[name]
	if !ok {
		return false
	}
	h(p)
	return true
}

func (p *Power) onPlugin() {
	p.log.Info("AC connected")
	p.reconfigure()
	p.hub.Changed(SupplyName)
}

func (p *Power) onRemoval() {
	p.log.Info("AC disconnected")
	p.reconfigure()
	p.hub.Changed(SupplyName)
}

func (p *Power) onOvervolt() {
	p.log.Warn("AC over voltage")
	p.hub.Changed(SupplyName)
}

func (p *Power) reconfigure() {
	if p.Reconfigure == nil {
		return
	}
	if err := p.Reconfigure(); err != nil {
		p.log.Errorf("charge reconfigure failed: %v", err)
	}
}
