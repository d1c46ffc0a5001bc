package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sunxi-power/axp20x/pkg/acpower"
	"github.com/sunxi-power/axp20x/pkg/battery"
	"github.com/sunxi-power/axp20x/pkg/rtcbatt"
)

// intProp reads an integer out of a decoded property map. Numbers arrive
// as float64 because the transport is JSON.
func intProp(props map[string]any, name string) (int, bool) {
	v, ok := props[name].(float64)
	return int(v), ok
}

func stringProp(props map[string]any, name string) (string, bool) {
	v, ok := props[name].(string)
	return v, ok
}

func colorStatus(status string) string {
	switch status {
	case "charging":
		return color.GreenString(status)
	case "discharging":
		return color.RedString(status)
	default:
		return status
	}
}

func printBatteryStatus(cmd *cobra.Command, props map[string]any) {
	cmd.Println(bold("Battery:"))

	if status, ok := stringProp(props, "status"); ok {
		cmd.Printf("  State: %s\n", bold("%s", colorStatus(status)))
	}
	if health, ok := stringProp(props, "health"); ok {
		h := health
		if health != "good" && health != "unknown" {
			h = color.RedString(health)
		}
		cmd.Printf("  Health: %s\n", bold("%s", h))
	}
	if pct, ok := intProp(props, "capacity"); ok {
		cmd.Printf("  Current charge: %s\n", bold("%d%%", pct))
	}
	if uv, ok := intProp(props, "voltage_now"); ok {
		cmd.Printf("  Voltage: %s\n", bold("%.3f V", float64(uv)/1e6))
	}
	if ua, ok := intProp(props, "current_now"); ok {
		// Negative means the battery is supplying the board.
		switch {
		case ua > 0:
			cmd.Printf("  Current: %s\n", color.New(color.Bold, color.FgGreen).Sprintf("%+.1f mA", float64(ua)/1e3))
		case ua < 0:
			cmd.Printf("  Current: %s\n", color.New(color.Bold, color.FgRed).Sprintf("%+.1f mA", float64(ua)/1e3))
		default:
			cmd.Printf("  Current: %s\n", bold("0.0 mA"))
		}
	}
	if mah, ok := intProp(props, "charge_full_design"); ok {
		cmd.Printf("  Design capacity: %s\n", bold("%d mAh", mah/1000))
	}
	if uv, ok := intProp(props, "voltage_max_design"); ok {
		cmd.Printf("  Charge voltage: %s\n", bold("%.2f V", float64(uv)/1e6))
	}
	if ua, ok := intProp(props, "current_max"); ok {
		cmd.Printf("  Charge current limit: %s\n", bold("%d mA", ua/1000))
	}
	if uv, ok := intProp(props, "temp"); ok {
		cmd.Printf("  Temperature sense: %s\n", bold("%.3f V", float64(uv)/1e6))
	}
}

func printACStatus(cmd *cobra.Command, props map[string]any) {
	cmd.Println(bold("AC input:"))

	if present, ok := intProp(props, "present"); ok {
		cmd.Printf("  Plugged in: %s\n", bool2Text(present != 0))
	}
	if online, ok := intProp(props, "online"); ok {
		cmd.Printf("  Usable: %s\n", bool2Text(online != 0))
	}
	if uv, ok := intProp(props, "voltage_now"); ok {
		cmd.Printf("  Voltage: %s\n", bold("%.3f V", float64(uv)/1e6))
	}
	if ua, ok := intProp(props, "current_now"); ok {
		cmd.Printf("  Current: %s\n", bold("%.1f mA", float64(ua)/1e3))
	}
}

func printRTCStatus(cmd *cobra.Command, props map[string]any) {
	cmd.Println(bold("Backup battery:"))

	if status, ok := stringProp(props, "status"); ok {
		cmd.Printf("  Charger: %s\n", bool2Text(status == "charging"))
	}
	if uv, ok := intProp(props, "constant_charge_voltage"); ok {
		cmd.Printf("  Charge voltage: %s\n", bold("%.2f V", float64(uv)/1e6))
	}
	if ua, ok := intProp(props, "constant_charge_current"); ok {
		cmd.Printf("  Charge current: %s\n", bold("%d µA", ua))
	}
}

func NewStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		GroupID: gBasic,
		Short:   "Get the current status of every power supply",
		Long:    `Get the charge, health and input state of every power supply the PMIC exposes.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			names, err := apiClient.GetSupplies()
			if err != nil {
				return fmt.Errorf("failed to list supplies: %w", err)
			}

			first := true
			for _, name := range names {
				props, err := apiClient.GetProperties(name)
				if err != nil {
					return fmt.Errorf("failed to read properties of %s: %w", name, err)
				}

				if !first {
					cmd.Println()
				}
				first = false

				switch name {
				case battery.SupplyName:
					printBatteryStatus(cmd, props)
				case acpower.SupplyName:
					printACStatus(cmd, props)
				case rtcbatt.SupplyName:
					printRTCStatus(cmd, props)
				default:
					cmd.Println(bold("%s:", name))
					for prop, val := range props {
						cmd.Printf("  %s: %v\n", prop, val)
					}
				}
			}

			return nil
		},
	}
}
