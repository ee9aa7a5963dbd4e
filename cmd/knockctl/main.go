package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/matheus3301/knock/internal/api"
	"github.com/matheus3301/knock/internal/profile"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	profile string
	json    bool
	timeout time.Duration
}

func main() {
	if err := newRoot().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRoot() *cobra.Command {
	o := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "knockctl",
		Short:         "Control the knock daemon: contacts, scheduled messages, inbox and reveal.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.PersistentFlags().StringVar(&o.profile, "profile", "", "profile name (overrides config default)")
	cmd.PersistentFlags().BoolVar(&o.json, "json", false, "output in JSON format")
	cmd.PersistentFlags().DurationVar(&o.timeout, "timeout", 10*time.Second, "request timeout")

	addStatus(cmd, o)
	addContacts(cmd, o)
	addMessages(cmd, o)
	addInbox(cmd, o)
	addDeliver(cmd, o)
	addReveal(cmd, o)
	addOpen(cmd, o)
	addSettings(cmd, o)
	addReset(cmd, o)
	addWatch(cmd, o)
	return cmd
}

// run dials the profile's daemon and calls fn with a bounded context.
func (o *rootOptions) run(fn func(ctx context.Context, c *api.Client) error) error {
	name := profile.Resolve(o.profile)
	if err := profile.ValidateName(name); err != nil {
		return err
	}
	c, err := api.Dial(profile.SocketPath(name))
	if err != nil {
		return fmt.Errorf("cannot connect to daemon for profile %q: %w", name, err)
	}
	defer func() { _ = c.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), o.timeout)
	defer cancel()
	return fn(ctx, c)
}

// print writes v as JSON when --json is set, otherwise calls human.
func (o *rootOptions) print(v any, human func()) {
	if !o.json {
		human()
		return
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "json encode error: %v\n", err)
	}
}

func addStatus(topLevel *cobra.Command, o *rootOptions) {
	topLevel.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show daemon status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(func(ctx context.Context, c *api.Client) error {
				st, err := c.Status(ctx)
				if err != nil {
					return err
				}
				o.print(st, func() {
					fmt.Printf("Profile:       %s\n", st.Profile)
					fmt.Printf("Uptime:        %s\n", time.Duration(st.UptimeMS)*time.Millisecond)
					fmt.Printf("Notifications: %s\n", st.Authorization)
					fmt.Printf("Contacts:      %d\n", st.Contacts)
					fmt.Printf("Scheduled:     %d (%d pending triggers)\n", st.Scheduled, st.PendingTriggers)
					fmt.Printf("Inbox:         %d (%d unread)\n", st.Received, st.Unread)
					fmt.Printf("Badge:         %d\n", st.Badge)
					fmt.Printf("Reveal:        %s\n", st.Reveal)
				})
				return nil
			})
		},
	})
}

func addReset(topLevel *cobra.Command, o *rootOptions) {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all contacts, messages and settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to clear all data without --yes")
			}
			return o.run(func(ctx context.Context, c *api.Client) error {
				if err := c.Reset(ctx); err != nil {
					return err
				}
				fmt.Println("All data cleared.")
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm")
	topLevel.AddCommand(cmd)
}

func addWatch(topLevel *cobra.Command, o *rootOptions) {
	var prefix string
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream daemon events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := profile.Resolve(o.profile)
			c, err := api.Dial(profile.SocketPath(name))
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			stream, err := c.WatchEvents(cmd.Context(), prefix)
			if err != nil {
				return err
			}
			for {
				evt, err := stream.Recv()
				if err != nil {
					return err
				}
				o.print(evt, func() {
					fmt.Printf("%s  %-22s %s\n", evt.OccurredAt.Format(time.TimeOnly), evt.Kind, evt.Payload)
				})
			}
		},
	}
	cmd.Flags().StringVar(&prefix, "prefix", "", "only events whose kind starts with prefix (e.g. reveal.)")
	topLevel.AddCommand(cmd)
}
