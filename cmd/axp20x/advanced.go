package main

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sunxi-power/axp20x/pkg/client"
)

// NewPropertyCommand exposes raw property access for scripting. The values
// are in the daemon's native units (µV, µA, percent).
func NewPropertyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "property",
		Aliases: []string{"prop"},
		Short:   "Read or write a raw supply property",
		GroupID: gAdvanced,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "get <supply> <property>",
			Short: "Read a raw supply property",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				val, err := apiClient.GetIntProperty(args[0], args[1])
				if err != nil {
					return fmt.Errorf("failed to read %s/%s: %v", args[0], args[1], err)
				}
				cmd.Println(val)
				return nil
			},
		},
		&cobra.Command{
			Use:   "set <supply> <property> <value>",
			Short: "Write a raw supply property",
			Args:  cobra.ExactArgs(3),
			RunE: func(_ *cobra.Command, args []string) error {
				val, err := parseIntArg(args[2:], "value")
				if err != nil {
					return err
				}
				ret, err := apiClient.SetIntProperty(args[0], args[1], val)
				if err != nil {
					return fmt.Errorf("failed to write %s/%s: %v", args[0], args[1], err)
				}
				if ret != "" {
					logrus.Infof("daemon responded: %s", ret)
				}
				return nil
			},
		},
	)

	return cmd
}

// NewEventsCommand tails supply change notifications, one supply name per
// line, until interrupted.
func NewEventsCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "events",
		Short:   "Watch for supply property changes",
		GroupID: gAdvanced,
		Long: `Watch for supply property changes.

Each time a supply's properties change (plug events, charge state, health),
its name is printed on a new line. Press Ctrl-C to stop.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for {
				name, err := apiClient.NextEvent()
				if errors.Is(err, client.ErrNoContent) {
					// Poll window expired with nothing to report.
					continue
				}
				if err != nil {
					return fmt.Errorf("failed to wait for events: %v", err)
				}
				cmd.Println(name)
			}
		},
	}
}
