package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/matheus3301/knock/internal/api"
	"github.com/matheus3301/knock/internal/config"
	"github.com/matheus3301/knock/internal/invite"
	"github.com/matheus3301/knock/internal/profile"
	"github.com/spf13/cobra"
)

func addContacts(topLevel *cobra.Command, o *rootOptions) {
	cmd := &cobra.Command{
		Use:     "contacts",
		Aliases: []string{"contact"},
		Short:   "Manage contacts",
	}

	var req api.AddContactRequest
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a contact",
		Example: `
knockctl contacts add --name Alice --phone "06 12 34 56 78" --avatar cat
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(func(ctx context.Context, c *api.Client) error {
				contact, err := c.AddContact(ctx, req)
				if err != nil {
					return err
				}
				o.print(contact, func() {
					fmt.Printf("Added %s (%s) %s\n", contact.Name, contact.Phone, contact.ID)
				})
				return nil
			})
		},
	}
	add.Flags().StringVar(&req.Name, "name", "", "display name")
	add.Flags().StringVar(&req.Phone, "phone", "", "phone number")
	add.Flags().StringVar(&req.AvatarID, "avatar", "", "avatar id")
	_ = add.MarkFlagRequired("name")
	_ = add.MarkFlagRequired("phone")
	_ = add.MarkFlagRequired("avatar")

	list := &cobra.Command{
		Use:   "list",
		Short: "List contacts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(func(ctx context.Context, c *api.Client) error {
				contacts, err := c.ListContacts(ctx)
				if err != nil {
					return err
				}
				o.print(contacts, func() {
					if len(contacts) == 0 {
						fmt.Println("No contacts.")
						return
					}
					for _, ct := range contacts {
						mark := " "
						if ct.Validated {
							mark = "✓"
						}
						fmt.Printf("%s %-36s %-20s %-16s %s\n", mark, ct.ID, ct.Name, ct.Phone, ct.AvatarID)
					}
				})
				return nil
			})
		},
	}

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a contact and cancel its pending messages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(func(ctx context.Context, c *api.Client) error {
				return c.DeleteContact(ctx, args[0])
			})
		},
	}

	var revoke bool
	validate := &cobra.Command{
		Use:   "validate <id>",
		Short: "Mark a contact as having accepted the invitation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(func(ctx context.Context, c *api.Client) error {
				contact, err := c.ValidateContact(ctx, args[0], !revoke)
				if err != nil {
					return err
				}
				o.print(contact, func() {
					fmt.Printf("%s validated: %v\n", contact.Name, contact.Validated)
				})
				return nil
			})
		},
	}
	validate.Flags().BoolVar(&revoke, "revoke", false, "clear the validated flag instead")

	var pngPath string
	inv := &cobra.Command{
		Use:   "invite <id>",
		Short: "Show the QR code a contact scans to open the composer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid contact id: %w", err)
			}
			cfg, err := config.LoadOrDefault(profile.ConfigPath())
			if err != nil {
				return err
			}
			link := invite.Link(cfg.Links.Scheme, id)

			if pngPath != "" {
				png, err := invite.PNG(link, 512)
				if err != nil {
					return err
				}
				return os.WriteFile(pngPath, png, 0600)
			}
			qr, err := invite.Render(link)
			if err != nil {
				return err
			}
			fmt.Print(qr)
			fmt.Printf("\n  %s\n", link)
			return nil
		},
	}
	inv.Flags().StringVar(&pngPath, "png", "", "write a PNG image to this path instead")

	cmd.AddCommand(add, list, del, validate, inv)
	topLevel.AddCommand(cmd)
}
