package client

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/cloo-solutions/storefront/internal/api"
)

type contactSubmitter interface {
	Contact(ctx context.Context, req api.ContactRequest) (*api.ContactResponse, error)
}

// ContactCmd creates the contact command.
func ContactCmd() *cobra.Command {
	var req api.ContactRequest

	cmd := &cobra.Command{
		Use:   "contact",
		Short: "Send a message to the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}
			return runContact(cmd.Context(), cmd.OutOrStdout(), c, req)
		},
	}

	cmd.Flags().StringVar(&req.Name, "name", "", "Your name")
	cmd.Flags().StringVar(&req.Email, "email", "", "Your email address")
	cmd.Flags().StringVarP(&req.Message, "message", "m", "", "Message")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("message")

	return cmd
}

func runContact(ctx context.Context, w io.Writer, c contactSubmitter, req api.ContactRequest) error {
	if ctx == nil {
		ctx = context.Background()
	}
	resp, err := c.Contact(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	fmt.Fprintln(w, resp.Message)
	return nil
}
