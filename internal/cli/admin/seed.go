package admin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/pelletier/go-toml/v2"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/cloo-solutions/storefront/internal/config"
	"github.com/cloo-solutions/storefront/internal/database"
	"github.com/cloo-solutions/storefront/internal/domain"
	"github.com/cloo-solutions/storefront/internal/i18n"
	"github.com/cloo-solutions/storefront/internal/repository"
	"github.com/cloo-solutions/storefront/internal/service"
)

// seedFile is the TOML layout accepted by the seed command.
//
//	[[products]]
//	name = "Oak chair"
//	price = "799"
//
//	[hero.en]
//	heading = "Furniture that lasts"
type seedFile struct {
	Products []seedProduct       `toml:"products"`
	Hero     map[string]seedHero `toml:"hero"`
}

type seedProduct struct {
	Name        string `toml:"name"`
	Slug        string `toml:"slug"`
	Price       string `toml:"price"`
	Description string `toml:"description"`
}

type seedHero struct {
	Heading            string `toml:"heading"`
	Subheading         string `toml:"subheading"`
	CTAText            string `toml:"cta_text"`
	CTALink            string `toml:"cta_link"`
	BackgroundImageKey string `toml:"background_image_key"`
}

type productCreator interface {
	Create(ctx context.Context, input service.CreateProductInput) (*domain.Product, error)
}

type heroUpdater interface {
	UpdateHero(ctx context.Context, input service.UpdateHeroInput) (*domain.Hero, error)
}

type seedResult struct {
	Created int
	Skipped int
	Heroes  int
}

// SeedCmd loads products and hero content from a TOML file.
func SeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed <file.toml>",
		Short: "Load products and hero content into the database",
		Long:  "Creates every product listed in the file and replaces hero content per locale. Products whose slug already exists are skipped.",
		Args:  cobra.ExactArgs(1),
		RunE:  runSeed,
	}
}

func runSeed(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open seed file: %w", err)
	}
	defer f.Close()

	seed, err := parseSeed(f)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	pool, err := database.NewPool(ctx, database.Config{URL: cfg.DatabaseURL})
	if err != nil {
		return err
	}
	defer pool.Close()

	products := service.NewProductService(repository.NewProductRepository(pool), nil, repository.NewTxRunner(pool), nil, nil)
	home := service.NewHomeService(repository.NewHeroRepository(pool), nil, nil, nil, cfg.FeaturedLimit, nil, nil)

	res, err := applySeed(ctx, seed, products, home)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d product(s), skipped %d existing, %d hero locale(s)\n", res.Created, res.Skipped, res.Heroes)
	return nil
}

func parseSeed(r io.Reader) (*seedFile, error) {
	var seed seedFile
	dec := toml.NewDecoder(r).DisallowUnknownFields()
	if err := dec.Decode(&seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	for locale := range seed.Hero {
		if !i18n.IsSupported(locale) {
			return nil, fmt.Errorf("hero locale %q is not supported (want one of %v)", locale, i18n.Locales())
		}
	}
	return &seed, nil
}

func applySeed(ctx context.Context, seed *seedFile, products productCreator, heroes heroUpdater) (seedResult, error) {
	var res seedResult
	for i, p := range seed.Products {
		price, err := decimal.NewFromString(p.Price)
		if err != nil {
			return res, fmt.Errorf("product %d (%s): invalid price %q", i+1, p.Name, p.Price)
		}
		_, err = products.Create(ctx, service.CreateProductInput{
			Name:        p.Name,
			Slug:        p.Slug,
			Price:       price,
			Description: p.Description,
		})
		if errors.Is(err, domain.ErrProductSlugTaken) {
			res.Skipped++
			continue
		}
		if err != nil {
			return res, fmt.Errorf("product %d (%s): %w", i+1, p.Name, err)
		}
		res.Created++
	}

	locales := make([]string, 0, len(seed.Hero))
	for locale := range seed.Hero {
		locales = append(locales, locale)
	}
	sort.Strings(locales)
	for _, locale := range locales {
		h := seed.Hero[locale]
		if _, err := heroes.UpdateHero(ctx, service.UpdateHeroInput{
			Locale:             locale,
			Heading:            h.Heading,
			Subheading:         h.Subheading,
			CTAText:            h.CTAText,
			CTALink:            h.CTALink,
			BackgroundImageKey: h.BackgroundImageKey,
		}); err != nil {
			return res, fmt.Errorf("hero %s: %w", locale, err)
		}
		res.Heroes++
	}
	return res, nil
}
