package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/matheus3301/knock/internal/api"
	"github.com/matheus3301/knock/internal/model"
	"github.com/spf13/cobra"
)

// settingKeys maps CLI keys to their wire names.
var settingKeys = map[string]string{
	"sound":     "enableSound",
	"vibration": "enableVibration",
	"discreet":  "discretMode",
	"hour":      "notificationHour",
	"theme":     "theme",
}

func addSettings(topLevel *cobra.Command, o *rootOptions) {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change user settings",
	}

	get := &cobra.Command{
		Use:   "get",
		Short: "Show settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(func(ctx context.Context, c *api.Client) error {
				s, err := c.Settings(ctx)
				if err != nil {
					return err
				}
				o.print(s, func() { printSettings(s) })
				return nil
			})
		},
	}

	set := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one setting (sound, vibration, discreet, hour, theme)",
		Example: `
knockctl settings set discreet true
knockctl settings set hour 21
knockctl settings set hour none
`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch, err := settingPatch(args[0], args[1])
			if err != nil {
				return err
			}
			return o.run(func(ctx context.Context, c *api.Client) error {
				resp, err := c.UpdateSettings(ctx, patch)
				if err != nil {
					return err
				}
				o.print(resp, func() {
					printSettings(resp.Settings)
					if resp.Warning != "" {
						fmt.Fprintf(os.Stderr, "warning: %s\n", resp.Warning)
					}
				})
				return nil
			})
		},
	}

	cmd.AddCommand(get, set)
	topLevel.AddCommand(cmd)
}

func settingPatch(key, value string) (map[string]any, error) {
	wire, ok := settingKeys[key]
	if !ok {
		return nil, fmt.Errorf("unknown setting %q", key)
	}
	switch key {
	case "sound", "vibration", "discreet":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		return map[string]any{wire: b}, nil
	case "hour":
		if value == "none" {
			return map[string]any{wire: nil}, nil
		}
		h, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("hour: %w", err)
		}
		return map[string]any{wire: h}, nil
	default:
		theme, err := model.ParseTheme(value)
		if err != nil {
			return nil, err
		}
		return map[string]any{wire: string(theme)}, nil
	}
}

func printSettings(s model.Settings) {
	hour := "none"
	if s.NotificationHour != nil {
		hour = strconv.Itoa(*s.NotificationHour)
	}
	fmt.Printf("Sound:     %v\n", s.Sound)
	fmt.Printf("Vibration: %v\n", s.Vibration)
	fmt.Printf("Discreet:  %v\n", s.Discreet)
	fmt.Printf("Hour:      %s\n", hour)
	fmt.Printf("Theme:     %s\n", s.Theme)
}
