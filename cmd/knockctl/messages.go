package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/matheus3301/knock/internal/api"
	"github.com/matheus3301/knock/internal/model"
	"github.com/spf13/cobra"
)

func addMessages(topLevel *cobra.Command, o *rootOptions) {
	cmd := &cobra.Command{
		Use:     "messages",
		Aliases: []string{"msg"},
		Short:   "Schedule and manage outgoing knocks",
	}

	var (
		req    api.ScheduleRequest
		at     string
		in     time.Duration
		repeat string
	)
	schedule := &cobra.Command{
		Use:   "schedule <contact-id> <content>",
		Short: "Schedule a message for delivery",
		Example: `
knockctl messages schedule 3f0c... "see you tonight" --in 2h
knockctl messages schedule 3f0c... "happy birthday" --at 2026-12-24T09:00:00+01:00 --repeat yearly
`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.ContactID = args[0]
			req.Content = args[1]
			switch {
			case at != "" && in != 0:
				return fmt.Errorf("--at and --in are mutually exclusive")
			case at != "":
				t, err := time.Parse(time.RFC3339, at)
				if err != nil {
					return fmt.Errorf("invalid --at: %w", err)
				}
				req.DeliverAt = t
			case in > 0:
				req.DeliverAt = time.Now().Add(in)
			default:
				return fmt.Errorf("one of --at or --in is required")
			}
			policy, err := model.ParseRepeatPolicy(repeat)
			if err != nil {
				return err
			}
			req.Repeat = policy

			return o.run(func(ctx context.Context, c *api.Client) error {
				resp, err := c.ScheduleMessage(ctx, req)
				if err != nil {
					return err
				}
				o.print(resp, func() {
					fmt.Printf("Scheduled %s for %s\n", resp.Message.ID, resp.Message.DeliverAt.Local().Format(time.DateTime))
					if resp.Warning != "" {
						fmt.Fprintf(os.Stderr, "warning: %s\n", resp.Warning)
					}
				})
				return nil
			})
		},
	}
	schedule.Flags().StringVar(&at, "at", "", "delivery time (RFC 3339)")
	schedule.Flags().DurationVar(&in, "in", 0, "deliver after this delay")
	schedule.Flags().StringVar(&req.AvatarID, "avatar", "", "avatar id (defaults to the contact's)")
	schedule.Flags().StringVar(&repeat, "repeat", "", "repeat policy: none, daily, weekly, monthly, yearly")

	cancel := &cobra.Command{
		Use:   "cancel <id>",
		Short: "Cancel a scheduled message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(func(ctx context.Context, c *api.Client) error {
				return c.CancelMessage(ctx, args[0])
			})
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List scheduled messages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(func(ctx context.Context, c *api.Client) error {
				msgs, err := c.ListScheduled(ctx)
				if err != nil {
					return err
				}
				o.print(msgs, func() {
					if len(msgs) == 0 {
						fmt.Println("No scheduled messages.")
						return
					}
					for _, m := range msgs {
						state := "pending"
						if m.Delivered {
							state = "delivered"
						}
						fmt.Printf("%s  %s  %-9s %-7s %s\n", m.ID, m.DeliverAt.Local().Format(time.DateTime), state, m.Repeat, m.Content)
					}
				})
				return nil
			})
		},
	}

	cmd.AddCommand(schedule, cancel, list)
	topLevel.AddCommand(cmd)
}
