package main

import (
	"context"
	"fmt"

	"github.com/matheus3301/knock/internal/api"
	"github.com/spf13/cobra"
)

func addReveal(topLevel *cobra.Command, o *rootOptions) {
	cmd := &cobra.Command{
		Use:   "reveal",
		Short: "Drive the avatar reveal",
	}

	view := func(call func(*api.Client, context.Context) (api.RevealView, error)) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			return o.run(func(ctx context.Context, c *api.Client) error {
				v, err := call(c, ctx)
				if err != nil {
					return err
				}
				o.print(v, func() { printReveal(v) })
				return nil
			})
		}
	}

	cmd.AddCommand(
		&cobra.Command{Use: "tap", Short: "Tap the avatar", Args: cobra.NoArgs, RunE: view((*api.Client).RevealTap)},
		&cobra.Command{Use: "dismiss", Short: "Dismiss the reveal", Args: cobra.NoArgs, RunE: view((*api.Client).RevealDismiss)},
		&cobra.Command{Use: "state", Short: "Show the reveal state", Args: cobra.NoArgs, RunE: view((*api.Client).RevealState)},
	)
	topLevel.AddCommand(cmd)
}

func printReveal(v api.RevealView) {
	fmt.Printf("State: %s (%d/%d taps)\n", v.State, v.Taps, v.Threshold)
	if v.AvatarID != "" {
		fmt.Printf("Avatar: %s\n", v.AvatarID)
	}
	if v.Message != nil && v.State == "REVEALED" {
		fmt.Printf("Message: %s\n", v.Message.Content)
	}
}

func addOpen(topLevel *cobra.Command, o *rootOptions) {
	topLevel.AddCommand(&cobra.Command{
		Use:   "open <url>",
		Short: "Route a deep link",
		Example: `
knockctl open knockavatar://message/5b7e...
knockctl open knockavatar://compose/3f0c...
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(func(ctx context.Context, c *api.Client) error {
				resp, err := c.OpenLink(ctx, args[0])
				if err != nil {
					return err
				}
				o.print(resp, func() {
					if resp.Destination == "" {
						fmt.Println("Link not recognized.")
						return
					}
					fmt.Printf("Destination: %s\n", resp.Destination)
					if resp.ContactID != "" {
						fmt.Printf("Contact: %s\n", resp.ContactID)
					}
					if resp.Reveal != nil {
						printReveal(*resp.Reveal)
					}
				})
				return nil
			})
		},
	})
}
