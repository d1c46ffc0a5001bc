package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sunxi-power/axp20x/pkg/battery"
	"github.com/sunxi-power/axp20x/pkg/version"
)

func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("%s %s\n", version.Version, version.GitCommit)
		},
	}
}

func NewLimitCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "limit [milliamps]",
		Short:   "Set upper charge current limit",
		GroupID: gBasic,
		Long: `Set the upper battery charge current limit.

This is a value in milliamps from 300 to 1800. The charger will never draw
more than this from the input, even when the input could supply more. The
limit survives daemon restarts.`,
		RunE: func(_ *cobra.Command, args []string) error {
			limit, err := parseIntArg(args, "limit")
			if err != nil {
				return err
			}

			ret, err := apiClient.SetIntProperty(battery.SupplyName, "current_max", limit*1000)
			if err != nil {
				return fmt.Errorf("failed to set charge current limit: %v", err)
			}

			if ret != "" {
				logrus.Infof("daemon responded: %s", ret)
			}

			logrus.Infof("successfully set charge current limit to %d mA", limit)

			return nil
		},
	}
}

func NewVoltageCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "voltage [millivolts]",
		Short:   "Set the charge target voltage",
		GroupID: gBasic,
		Long: `Set the battery charge target voltage.

Supported values are 4100, 4150 and 4200 millivolts. Lower targets extend
battery lifespan at the cost of capacity.`,
		RunE: func(_ *cobra.Command, args []string) error {
			mv, err := parseIntArg(args, "voltage")
			if err != nil {
				return err
			}

			ret, err := apiClient.SetIntProperty(battery.SupplyName, "voltage_max_design", mv*1000)
			if err != nil {
				return fmt.Errorf("failed to set charge target voltage: %v", err)
			}

			if ret != "" {
				logrus.Infof("daemon responded: %s", ret)
			}

			logrus.Infof("successfully set charge target voltage to %d mV", mv)

			return nil
		},
	}
}

func NewChargingCommand() *cobra.Command {
	return newEnableDisableCommand(
		"charging", "battery charging",
		`Control whether the battery is allowed to charge at all.

Disabling charging keeps the board powered from the input while leaving the
battery untouched. Re-enabling restores the configured charge current.`,
		func() (string, error) {
			return apiClient.SetStatus(battery.SupplyName, "charging")
		},
		func() (string, error) {
			return apiClient.SetStatus(battery.SupplyName, "not-charging")
		},
	)
}
