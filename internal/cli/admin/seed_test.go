package admin

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloo-solutions/storefront/internal/domain"
	"github.com/cloo-solutions/storefront/internal/service"
)

type fakeProducts struct {
	inputs []service.CreateProductInput
	taken  map[string]bool
	err    error
}

func (f *fakeProducts) Create(_ context.Context, input service.CreateProductInput) (*domain.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.taken[input.Slug] {
		return nil, domain.ErrProductSlugTaken
	}
	f.inputs = append(f.inputs, input)
	return &domain.Product{Name: input.Name, Slug: input.Slug, Price: input.Price}, nil
}

type fakeHeroes struct {
	inputs []service.UpdateHeroInput
}

func (f *fakeHeroes) UpdateHero(_ context.Context, input service.UpdateHeroInput) (*domain.Hero, error) {
	f.inputs = append(f.inputs, input)
	return &domain.Hero{Locale: input.Locale, Heading: input.Heading}, nil
}

func loadTestSeed(t *testing.T) *seedFile {
	t.Helper()
	f, err := os.Open("testdata/seed.toml")
	require.NoError(t, err)
	defer f.Close()

	seed, err := parseSeed(f)
	require.NoError(t, err)
	return seed
}

func TestParseSeed(t *testing.T) {
	seed := loadTestSeed(t)

	require.Len(t, seed.Products, 2)
	assert.Equal(t, "oak-chair", seed.Products[0].Slug)
	assert.Equal(t, "1200.50", seed.Products[1].Price)
	assert.Equal(t, "Meubels die blijven", seed.Hero["nl"].Heading)
	assert.Equal(t, "/en/collection", seed.Hero["en"].CTALink)
}

func TestParseSeed_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"unsupported locale", "[hero.fr]\nheading = \"Bonjour\"\n", "not supported"},
		{"unknown field", "[[products]]\nname = \"Lamp\"\ncolour = \"red\"\n", "failed to parse"},
		{"malformed", "[[products]\n", "failed to parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseSeed(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestApplySeed(t *testing.T) {
	products := &fakeProducts{}
	heroes := &fakeHeroes{}

	res, err := applySeed(context.Background(), loadTestSeed(t), products, heroes)
	require.NoError(t, err)

	assert.Equal(t, seedResult{Created: 2, Heroes: 2}, res)
	require.Len(t, products.inputs, 2)
	assert.Equal(t, "799", products.inputs[0].Price.String())
	assert.Equal(t, "1200.5", products.inputs[1].Price.String())
	require.Len(t, heroes.inputs, 2)
	assert.Equal(t, "en", heroes.inputs[0].Locale)
	assert.Equal(t, "nl", heroes.inputs[1].Locale)
}

func TestApplySeed_SkipsTakenSlugs(t *testing.T) {
	products := &fakeProducts{taken: map[string]bool{"oak-chair": true}}

	res, err := applySeed(context.Background(), loadTestSeed(t), products, &fakeHeroes{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 1, res.Skipped)
}

func TestApplySeed_InvalidPrice(t *testing.T) {
	seed := &seedFile{Products: []seedProduct{{Name: "Lamp", Price: "cheap"}}}

	_, err := applySeed(context.Background(), seed, &fakeProducts{}, &fakeHeroes{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid price")
}

func TestApplySeed_StopsOnCreateError(t *testing.T) {
	products := &fakeProducts{err: errors.New("db down")}

	res, err := applySeed(context.Background(), loadTestSeed(t), products, &fakeHeroes{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Oak chair")
	assert.Zero(t, res.Created)
}

func TestParseSteps(t *testing.T) {
	steps, err := parseSteps(nil)
	require.NoError(t, err)
	assert.Equal(t, 1, steps)

	steps, err = parseSteps([]string{"3"})
	require.NoError(t, err)
	assert.Equal(t, 3, steps)

	_, err = parseSteps([]string{"0"})
	assert.Error(t, err)
	_, err = parseSteps([]string{"x"})
	assert.Error(t, err)
}
