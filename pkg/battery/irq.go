package battery

import (
	"github.com/sunxi-power/axp20x/pkg/axp20x"
	"github.com/sunxi-power/axp20x/pkg/powersupply"
)

// Interrupt line names, as the hardware description spells them.
const (
	LineBattHot        = "BATT_HOT"
	LineBattCold       = "BATT_COLD"
	LineBattPlugin     = "BATT_PLUGIN"
	LineBattRemoval    = "BATT_REMOVAL"
	LineBattActivate   = "BATT_ACTIVATE"
	LineBattActivated  = "BATT_ACTIVATED"
	LineBattCharging   = "BATT_CHARGING"
	LineBattCharged    = "BATT_CHARGED"
	LineBattChgCurrLow = "BATT_CHG_CURR_LOW"
	LinePowerLowWarn   = "POWER_LOW_WARN"
	LinePowerLowCrit   = "POWER_LOW_CRIT"
)

type irqLine struct {
	status uint8 // status bank register, write-1-to-clear
	mask   uint8
	handle func(p *Power)
}

// Every battery interrupt this driver reacts to. Handlers are short and
// non-blocking; register failures inside a handler are logged and
// swallowed, there is nobody to return them to.
var irqLines = map[string]irqLine{
	LineBattHot:        {axp20x.RegIRQStatus2, axp20x.IRQ2BattTempHigh, (*Power).onBattHot},
	LineBattCold:       {axp20x.RegIRQStatus2, axp20x.IRQ2BattTempLow, (*Power).onBattCold},
	LineBattPlugin:     {axp20x.RegIRQStatus2, axp20x.IRQ2BattPlugin, (*Power).onBattPlugin},
	LineBattRemoval:    {axp20x.RegIRQStatus2, axp20x.IRQ2BattRemoval, (*Power).onBattRemoval},
	LineBattActivate:   {axp20x.RegIRQStatus2, axp20x.IRQ2BattActivate, (*Power).onBattActivate},
	LineBattActivated:  {axp20x.RegIRQStatus2, axp20x.IRQ2BattActivated, (*Power).onBattActivated},
	LineBattCharging:   {axp20x.RegIRQStatus2, axp20x.IRQ2BattCharging, (*Power).onBattCharging},
	LineBattCharged:    {axp20x.RegIRQStatus2, axp20x.IRQ2BattCharged, (*Power).onBattCharged},
	LineBattChgCurrLow: {axp20x.RegIRQStatus3, axp20x.IRQ3ChargeCurrLow, (*Power).onChargeCurrLow},
	LinePowerLowWarn:   {axp20x.RegIRQStatus4, axp20x.IRQ4APSLowWarn, (*Power).onPowerLowWarn},
	LinePowerLowCrit:   {axp20x.RegIRQStatus4, axp20x.IRQ4APSLowCrit, (*Power).onPowerLowCrit},
}

// BindLines binds the handlers for the interrupt lines named in present
// and enables them in the IRQ enable banks. Lines missing from present
// are logged and skipped, never fatal.
func (p *Power) BindLines(present []string) {
	have := make(map[string]bool, len(present))
	for _, name := range present {
		have[name] = true
	}

	p.lines = make(map[string]irqLine)
	for name, ln := range irqLines {
		if !have[name] {
			p.log.Warnf("no IRQ line %s, skipping", name)
			continue
		}
		p.lines[name] = ln
		// The enable bank sits a fixed offset below the status bank.
		enable := ln.status - (axp20x.RegIRQStatus1 - axp20x.RegIRQEnable1)
		if err := p.rm.UpdateBits(enable, ln.mask, ln.mask); err != nil {
			p.log.Errorf("failed to enable IRQ line %s: %v", name, err)
		}
	}
}

// ServiceIRQ demultiplexes pending battery interrupts: for every bound
// line whose status bit is set, the bit is acknowledged and the handler
// runs. Handlers may fire in any order within one service pass.
func (p *Power) ServiceIRQ() {
	pending := map[uint8]uint8{}
	for _, reg := range []uint8{axp20x.RegIRQStatus2, axp20x.RegIRQStatus3, axp20x.RegIRQStatus4} {
		v, err := p.rm.Read(reg)
		if err != nil {
			p.log.Errorf("failed to read IRQ status %#02x: %v", reg, err)
			return
		}
		pending[reg] = v
	}

	for name, ln := range p.lines {
		if pending[ln.status]&ln.mask == 0 {
			continue
		}
		if err := p.rm.Write(ln.status, ln.mask); err != nil {
			p.log.Errorf("failed to ack IRQ line %s: %v", name, err)
		}
		ln.handle(p)
	}
}

// Trigger runs the handler bound to the named line, if any. Used by the
// daemon's IRQ poll loop and by event injection over the control socket.
func (p *Power) Trigger(name string) bool {
	ln, ok := p.lines[name]
	if !ok {
		return false
	}
	ln.handle(p)
	return true
}

func (p *Power) onBattPlugin() {
	p.mu.Lock()
	p.health = powersupply.HealthUnknown // health rechecked by the next poll
	if err := p.rm.UpdateBits(axp20x.RegPowerOpMode,
		axp20x.OpModeCharging, axp20x.OpModeCharging); err != nil {
		p.log.Errorf("plugin: failed to enable charging: %v", err)
	}
	p.mu.Unlock()
	p.log.Info("battery connected")
	p.notifyChanged()
}

func (p *Power) onBattRemoval() {
	p.mu.Lock()
	p.health = powersupply.HealthUnknown
	if err := p.rm.UpdateBits(axp20x.RegPowerOpMode,
		axp20x.OpModeCharging, 0); err != nil {
		p.log.Errorf("removal: failed to disable charging: %v", err)
	}
	p.mu.Unlock()
	p.log.Info("battery disconnected")
	p.notifyChanged()
}

func (p *Power) onBattActivate() {
	p.mu.Lock()
	p.health = powersupply.HealthUnknown
	p.mu.Unlock()
	p.log.Info("battery activation started")
	p.notifyChanged()
}

func (p *Power) onBattActivated() {
	p.mu.Lock()
	p.health = powersupply.HealthGood
	p.mu.Unlock()
	p.log.Info("battery activation completed")
	p.notifyChanged()
}

func (p *Power) onBattCharging() {
	p.log.Debug("battery charging")
	p.notifyChanged()
}

func (p *Power) onBattCharged() {
	p.log.Debug("battery charged")
	p.notifyChanged()
}

func (p *Power) onBattHot() {
	p.mu.Lock()
	p.health = powersupply.HealthOverheat
	if err := p.rm.UpdateBits(axp20x.RegPowerOpMode,
		axp20x.OpModeCharging, 0); err != nil {
		p.log.Errorf("overheat: failed to disable charging: %v", err)
	}
	p.mu.Unlock()
	p.log.Warn("battery temperature high")
	p.notifyChanged()
}

func (p *Power) onBattCold() {
	p.mu.Lock()
	p.health = powersupply.HealthCold
	p.mu.Unlock()
	p.log.Warn("battery temperature low")
	p.notifyChanged()
}

func (p *Power) onChargeCurrLow() {
	p.log.Info("external power too weak for target charging current")
	p.notifyChanged()
}

func (p *Power) onPowerLowWarn() {
	p.log.Warn("system power running out soon")
	p.notifyChanged()
}

func (p *Power) onPowerLowCrit() {
	p.log.Error("system power running out now")
	p.notifyChanged()
}
