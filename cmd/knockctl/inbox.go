package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/matheus3301/knock/internal/api"
	"github.com/spf13/cobra"
)

func addInbox(topLevel *cobra.Command, o *rootOptions) {
	cmd := &cobra.Command{
		Use:   "inbox",
		Short: "Manage received messages",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List received messages, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(func(ctx context.Context, c *api.Client) error {
				msgs, err := c.ListReceived(ctx)
				if err != nil {
					return err
				}
				o.print(msgs, func() {
					if len(msgs) == 0 {
						fmt.Println("Inbox is empty.")
						return
					}
					for _, m := range msgs {
						mark := "●"
						if m.Read {
							mark = " "
						}
						fmt.Printf("%s %s  %s  %s\n", mark, m.ID, m.ReceivedAt.Local().Format(time.DateTime), m.Content)
					}
				})
				return nil
			})
		},
	}

	read := &cobra.Command{
		Use:   "read <id>",
		Short: "Mark a received message as read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(func(ctx context.Context, c *api.Client) error {
				return c.MarkRead(ctx, args[0])
			})
		},
	}

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a received message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(func(ctx context.Context, c *api.Client) error {
				return c.DeleteReceived(ctx, args[0])
			})
		},
	}

	cmd.AddCommand(list, read, del)
	topLevel.AddCommand(cmd)
}

func addDeliver(topLevel *cobra.Command, o *rootOptions) {
	var mode string
	cmd := &cobra.Command{
		Use:   "deliver <payload-json>",
		Short: "Hand a notification payload to the delivery handler",
		Example: `
knockctl deliver --mode tap '{"messageId":"m1","contactId":"3f0c...","content":"hi","avatarId":"cat"}'
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var payload map[string]any
			if err := json.Unmarshal([]byte(args[0]), &payload); err != nil {
				return fmt.Errorf("payload must be a JSON object: %w", err)
			}
			return o.run(func(ctx context.Context, c *api.Client) error {
				resp, err := c.Deliver(ctx, mode, payload)
				if err != nil {
					return err
				}
				o.print(resp, func() {
					if resp.Reveal == nil {
						fmt.Println("Delivered silently.")
						return
					}
					printReveal(*resp.Reveal)
				})
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&mode, "mode", "foreground", "delivery mode: foreground or tap")
	topLevel.AddCommand(cmd)
}
