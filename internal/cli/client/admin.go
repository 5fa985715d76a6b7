package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/cloo-solutions/storefront/internal/api"
	"github.com/cloo-solutions/storefront/internal/i18n"
)

// AdminCmd creates the admin command group. Every subcommand needs the admin token.
func AdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Catalog and content management",
		Long: `Manage products, hero content and contact messages.

Requires an admin token via --admin-token or STOREFRONT_ADMIN_TOKEN.`,
	}

	product := &cobra.Command{
		Use:   "product",
		Short: "Manage products",
	}
	product.AddCommand(adminProductCreateCmd())
	product.AddCommand(adminProductDeleteCmd())
	product.AddCommand(adminProductImageCmd())

	hero := &cobra.Command{
		Use:   "hero",
		Short: "Manage home page hero content",
	}
	hero.AddCommand(adminHeroSetCmd())

	contact := &cobra.Command{
		Use:   "contact",
		Short: "Read contact messages",
	}
	contact.AddCommand(adminContactListCmd())

	cmd.AddCommand(product, hero, contact)
	return cmd
}

func newAdminClient(cmd *cobra.Command) (*APIClient, error) {
	c, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return nil, err
	}
	if c.adminToken == "" {
		return nil, fmt.Errorf("admin token required: use --admin-token or set %s", envAdminToken)
	}
	return c, nil
}

func adminProductCreateCmd() *cobra.Command {
	var req api.CreateProductRequest
	var price string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a product",
		Long: `Create a product. The slug is derived from the name when omitted.

Examples:
  storefront admin product create --name "Oak chair" --price 799
  storefront admin product create --name "Walnut desk" --slug walnut-desk --price 1200.50`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := decimal.NewFromString(price)
			if err != nil {
				return fmt.Errorf("invalid price %q", price)
			}
			req.Price = json.Number(amount.String())

			c, err := newAdminClient(cmd)
			if err != nil {
				return err
			}
			p, err := c.CreateProduct(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("failed to create product: %w", err)
			}

			outputJSON, _ := cmd.Flags().GetBool("output")
			if outputJSON {
				return printJSON(cmd.OutOrStdout(), p)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Product created: %s (%s)\n", p.Slug, p.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Name, "name", "", "Product name")
	cmd.Flags().StringVar(&req.Slug, "slug", "", "URL slug (derived from the name when empty)")
	cmd.Flags().StringVar(&price, "price", "", "Price, e.g. 799 or 1200.50")
	cmd.Flags().StringVarP(&req.Description, "description", "d", "", "Product description")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("price")

	return cmd
}

func adminProductDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a product and its images",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newAdminClient(cmd)
			if err != nil {
				return err
			}
			if err := c.DeleteProduct(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("failed to delete product: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Product deleted: %s\n", args[0])
			return nil
		},
	}
}

func adminProductImageCmd() *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "upload-image <product-id> <file>",
		Short: "Upload a product image",
		Long:  "Uploads a JPEG, PNG, WebP or AVIF file to object storage and attaches it to the product.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newAdminClient(cmd)
			if err != nil {
				return err
			}
			var progress io.Writer
			if !quiet {
				progress = cmd.ErrOrStderr()
			}
			p, err := uploadProductImage(cmd.Context(), c, args[0], args[1], progress)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Image attached to %s (%d image(s))\n", p.Slug, len(p.ImageKeys))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Do not report upload progress")
	return cmd
}

// uploadProductImage runs the three upload steps: reserve a key, PUT the
// file to the presigned URL, then attach the key to the product.
func uploadProductImage(ctx context.Context, c *APIClient, productID, filePath string, progress io.Writer) (*api.ProductResponse, error) {
	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(filePath)))
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = contentType[:i]
	}
	if contentType == "" {
		return nil, fmt.Errorf("unknown image type for %s", filepath.Base(filePath))
	}

	upload, err := c.InitImageUpload(ctx, productID, api.InitImageUploadRequest{
		Filename:    filepath.Base(filePath),
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init upload: %w", err)
	}

	var onProgress ProgressFunc
	if progress != nil {
		last := -1
		onProgress = func(current, total int64) {
			if total <= 0 {
				return
			}
			pct := int(current * 100 / total)
			if pct != last {
				last = pct
				fmt.Fprintf(progress, "\ruploading %s: %3d%%", filepath.Base(filePath), pct)
			}
		}
	}
	if err := c.UploadFile(ctx, upload.UploadURL, filePath, contentType, onProgress); err != nil {
		return nil, fmt.Errorf("failed to upload file: %w", err)
	}
	if progress != nil {
		fmt.Fprintln(progress)
	}

	p, err := c.CompleteImageUpload(ctx, productID, upload.StorageKey)
	if err != nil {
		return nil, fmt.Errorf("failed to complete upload: %w", err)
	}
	return p, nil
}

func adminHeroSetCmd() *cobra.Command {
	var req api.UpdateHeroRequest

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Replace the hero content of a locale",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !i18n.IsSupported(req.Locale) {
				return fmt.Errorf("unsupported locale %q (supported: %v)", req.Locale, i18n.Locales())
			}
			c, err := newAdminClient(cmd)
			if err != nil {
				return err
			}
			if err := c.UpdateHero(cmd.Context(), req); err != nil {
				return fmt.Errorf("failed to update hero: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Hero updated for %s\n", req.Locale)
			return nil
		},
	}

	// --locale is a root flag for page requests, so the hero locale gets its own name.
	cmd.Flags().StringVar(&req.Locale, "for", "", "Locale the hero content applies to")
	cmd.Flags().StringVar(&req.Heading, "heading", "", "Heading")
	cmd.Flags().StringVar(&req.Subheading, "subheading", "", "Subheading")
	cmd.Flags().StringVar(&req.CTAText, "cta-text", "", "Call to action label")
	cmd.Flags().StringVar(&req.CTALink, "cta-link", "", "Call to action link")
	cmd.Flags().StringVar(&req.BackgroundImageKey, "image-key", "", "Storage key of the background image")
	_ = cmd.MarkFlagRequired("for")
	_ = cmd.MarkFlagRequired("heading")

	return cmd
}

func adminContactListCmd() *cobra.Command {
	var since time.Duration

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List contact messages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newAdminClient(cmd)
			if err != nil {
				return err
			}
			var from time.Time
			if since > 0 {
				from = time.Now().Add(-since)
			}
			msgs, err := c.ContactMessages(cmd.Context(), from)
			if err != nil {
				return fmt.Errorf("failed to list contact messages: %w", err)
			}

			outputJSON, _ := cmd.Flags().GetBool("output")
			return printContactMessages(cmd.OutOrStdout(), msgs, outputJSON)
		},
	}

	cmd.Flags().DurationVar(&since, "since", 0, "Only messages received within this window, e.g. 72h")
	return cmd
}

func printContactMessages(w io.Writer, msgs []api.ContactMessageResponse, outputJSON bool) error {
	if outputJSON {
		return printJSON(w, msgs)
	}
	if len(msgs) == 0 {
		fmt.Fprintln(w, "No messages.")
		return nil
	}
	for _, m := range msgs {
		fmt.Fprintf(w, "%s  %s <%s> [%s]\n", m.CreatedAt, m.Name, m.Email, m.Locale)
		fmt.Fprintf(w, "  %s\n", strings.ReplaceAll(m.Message, "\n", "\n  "))
	}
	return nil
}
