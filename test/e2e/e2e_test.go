//go:build e2e

package e2e

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloo-solutions/storefront/internal/api"
	"github.com/cloo-solutions/storefront/internal/domain"
)

func decode[T any](t *testing.T, resp *APIResponse) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(resp.Data, &out))
	return out
}

func search(t *testing.T, env *E2ETestEnv, q string) api.SearchResponse {
	t.Helper()
	status, body, err := env.GetRaw("/api/search?" + url.Values{"q": {q}}.Encode())
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, status, string(body))

	var out api.SearchResponse
	require.NoError(t, json.Unmarshal(body, &out))
	return out
}

func requireStatus(t *testing.T, err error, status int) {
	t.Helper()
	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr), "expected an HTTP error, got %v", err)
	assert.Equal(t, status, httpErr.Status)
}

// TestE2E_Search covers the search widget backend: substring matching,
// the minimum query length, the result cap and selection feedback.
func TestE2E_Search(t *testing.T) {
	env := SetupE2EEnv(t)
	defer env.Cleanup()

	stoolID := env.CreateProduct("Stool", "1200")
	env.CreateProduct("Oak chair", "799")
	env.CreateProduct("Storage bench", "450")

	t.Run("substring match", func(t *testing.T) {
		res := search(t, env, "sto")
		names := make([]string, len(res.Products))
		for i, p := range res.Products {
			names[i] = p.Name
		}
		assert.ElementsMatch(t, []string{"Stool", "Storage bench"}, names)
		assert.NotEmpty(t, res.SearchID)
	})

	t.Run("short query returns nothing", func(t *testing.T) {
		res := search(t, env, "s")
		assert.Empty(t, res.Products)
		assert.Empty(t, res.SearchID)
	})

	t.Run("repeated query is stable", func(t *testing.T) {
		first := search(t, env, "  STO ")
		second := search(t, env, "sto")
		require.Len(t, second.Products, len(first.Products))
		for i := range first.Products {
			assert.Equal(t, first.Products[i].ID, second.Products[i].ID)
		}
	})

	t.Run("feedback", func(t *testing.T) {
		res := search(t, env, "stool")
		require.NotEmpty(t, res.SearchID)

		_, err := env.Post("/api/search/feedback", api.SearchFeedbackRequest{SearchID: res.SearchID, SelectedID: stoolID}, "")
		require.NoError(t, err)

		var selected string
		require.NoError(t, env.Pool.QueryRow(env.Ctx, `SELECT chosen_id FROM search_logs WHERE id = $1`, res.SearchID).Scan(&selected))
		assert.Equal(t, stoolID, selected)
	})

	t.Run("results are capped", func(t *testing.T) {
		for i := 0; i < domain.MaxSearchResults+2; i++ {
			env.CreateProduct(fmt.Sprintf("Lamp %02d", i), "59")
		}
		res := search(t, env, "lamp")
		assert.Len(t, res.Products, domain.MaxSearchResults)
	})

	t.Run("writes invalidate cached results", func(t *testing.T) {
		before := search(t, env, "walnut")
		assert.Empty(t, before.Products)

		env.CreateProduct("Walnut desk", "1500")
		after := search(t, env, "walnut")
		require.Len(t, after.Products, 1)
		assert.Equal(t, "walnut-desk", after.Products[0].Slug)
	})
}

// TestE2E_CollectionFilters runs the ten product price bucket scenario.
func TestE2E_CollectionFilters(t *testing.T) {
	env := SetupE2EEnv(t)
	defer env.Cleanup()
	env.Reset()

	for i := 1; i <= 10; i++ {
		env.CreateProduct(fmt.Sprintf("Chair %02d", i), fmt.Sprint(i*100))
	}

	t.Run("bucket and sort", func(t *testing.T) {
		resp, err := env.Get("/en/collection?price=500-1000&sort=price-desc", "")
		require.NoError(t, err)
		page := decode[api.CollectionResponse](t, resp)

		var prices []string
		for _, p := range page.Products {
			prices = append(prices, p.Price.String())
		}
		assert.Equal(t, []string{"900", "800", "700", "600", "500"}, prices)
		assert.Equal(t, "500-1000", page.Price)
		assert.Equal(t, "price-desc", page.Sort)
		assert.Equal(t, "/en/collection?price=500-1000&sort=price-desc", page.Canonical)
		assert.Equal(t, "$900", page.Products[0].PriceFormatted)
	})

	t.Run("unknown values fall back to defaults", func(t *testing.T) {
		resp, err := env.Get("/en/collection?price=cheap&sort=random", "")
		require.NoError(t, err)
		page := decode[api.CollectionResponse](t, resp)

		assert.Equal(t, "any", page.Price)
		assert.Equal(t, "newest", page.Sort)
		assert.Equal(t, "/en/collection", page.Canonical)
		require.Len(t, page.Products, 10)
		assert.Equal(t, "Chair 10", page.Products[0].Name)
	})

	t.Run("dutch formatting", func(t *testing.T) {
		resp, err := env.Get("/nl/collection?price=1000-2000", "")
		require.NoError(t, err)
		page := decode[api.CollectionResponse](t, resp)

		require.Len(t, page.Products, 1)
		assert.Equal(t, "€ 1.000", page.Products[0].PriceFormatted)
	})

	t.Run("unsupported locale", func(t *testing.T) {
		_, err := env.Get("/fr/collection", "")
		requireStatus(t, err, http.StatusNotFound)
	})
}

// TestE2E_ProductAndHome covers product detail, related products and the
// home page hero with its fallback copy.
func TestE2E_ProductAndHome(t *testing.T) {
	env := SetupE2EEnv(t)
	defer env.Cleanup()

	for _, name := range []string{"Oak chair", "Walnut desk", "Linen sofa", "Brass lamp", "Wool rug"} {
		env.CreateProduct(name, "799")
	}

	t.Run("product detail", func(t *testing.T) {
		resp, err := env.Get("/en/collection/oak-chair", "")
		require.NoError(t, err)
		page := decode[api.ProductDetailResponse](t, resp)

		assert.Equal(t, "Oak chair", page.Name)
		assert.Empty(t, page.Gallery)
		require.Len(t, page.Related, 3)
		for _, r := range page.Related {
			assert.NotEqual(t, "oak-chair", r.Slug)
		}
		assert.Equal(t, "+32 3 000 00 00", page.Pickup.Phone)
	})

	t.Run("unknown product", func(t *testing.T) {
		_, err := env.Get("/en/collection/no-such-thing", "")
		requireStatus(t, err, http.StatusNotFound)
	})

	t.Run("home falls back without hero content", func(t *testing.T) {
		resp, err := env.Get("/en", "")
		require.NoError(t, err)
		home := decode[api.HomeResponse](t, resp)

		assert.True(t, home.Hero.Fallback)
		assert.NotEmpty(t, home.Hero.Heading)
		assert.True(t, home.FeaturedAvailable)
		require.Len(t, home.Featured, 4)
		assert.Equal(t, "Wool rug", home.Featured[0].Name)
	})

	t.Run("hero update is per locale", func(t *testing.T) {
		_, err := env.Put("/admin/hero", api.UpdateHeroRequest{Locale: "nl", Heading: "Meubels die blijven", CTAText: "Bekijk", CTALink: "/nl/collection"}, adminToken)
		require.NoError(t, err)

		resp, err := env.Get("/nl", "")
		require.NoError(t, err)
		nl := decode[api.HomeResponse](t, resp)
		assert.False(t, nl.Hero.Fallback)
		assert.Equal(t, "Meubels die blijven", nl.Hero.Heading)

		resp, err = env.Get("/en", "")
		require.NoError(t, err)
		assert.True(t, decode[api.HomeResponse](t, resp).Hero.Fallback)
	})

	t.Run("root redirects by accept-language", func(t *testing.T) {
		client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }}
		req, err := http.NewRequest(http.MethodGet, env.ServerURL+"/", nil)
		require.NoError(t, err)
		req.Header.Set("Accept-Language", "nl-BE,nl;q=0.9,en;q=0.5")

		resp, err := client.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, "/nl", resp.Header.Get("Location"))
	})
}

// TestE2E_ImageUpload uploads a product image through a presigned URL and
// reads it back from the product gallery.
func TestE2E_ImageUpload(t *testing.T) {
	env := SetupE2EEnv(t)
	defer env.Cleanup()

	id := env.CreateProduct("Oak chair", "799")
	content := []byte("\x89PNG\r\n\x1a\nfake image body")

	resp, err := env.Post("/admin/products/"+id+"/images", api.InitImageUploadRequest{Filename: "chair.png", ContentType: "image/png"}, adminToken)
	require.NoError(t, err)
	upload := decode[api.InitImageUploadResponse](t, resp)
	require.NotEmpty(t, upload.UploadURL)

	require.NoError(t, env.UploadFile(upload.UploadURL, content, "image/png"))

	resp, err = env.Post("/admin/products/"+id+"/images/complete", api.CompleteImageUploadRequest{StorageKey: upload.StorageKey}, adminToken)
	require.NoError(t, err)
	product := decode[api.ProductResponse](t, resp)
	assert.Equal(t, []string{upload.StorageKey}, product.ImageKeys)

	resp, err = env.Get("/en/collection/oak-chair", "")
	require.NoError(t, err)
	page := decode[api.ProductDetailResponse](t, resp)
	require.Len(t, page.Gallery, 1)

	got, err := env.DownloadFile(page.Gallery[0])
	require.NoError(t, err)
	assert.Equal(t, content, got)

	t.Run("unsupported content type", func(t *testing.T) {
		_, err := env.Post("/admin/products/"+id+"/images", api.InitImageUploadRequest{Filename: "notes.txt", ContentType: "text/plain"}, adminToken)
		requireStatus(t, err, http.StatusBadRequest)
	})

	t.Run("delete removes the product", func(t *testing.T) {
		_, err := env.Delete("/admin/products/"+id, adminToken)
		require.NoError(t, err)

		_, err = env.Get("/en/collection/oak-chair", "")
		requireStatus(t, err, http.StatusNotFound)
	})
}

// TestE2E_ContactMessages submits contact forms and pages through them as admin.
func TestE2E_ContactMessages(t *testing.T) {
	env := SetupE2EEnv(t)
	defer env.Cleanup()

	for i := 0; i < 3; i++ {
		resp, err := env.Post("/nl/contact", api.ContactRequest{Name: fmt.Sprintf("Klant %d", i), Email: "klant@example.com", Message: "Is de stoel nog beschikbaar?"}, "")
		require.NoError(t, err)
		assert.NotEmpty(t, decode[api.ContactResponse](t, resp).Message)
	}

	t.Run("validation", func(t *testing.T) {
		_, err := env.Post("/en/contact", api.ContactRequest{Name: "Ann", Email: "not-an-email", Message: "Hi"}, "")
		requireStatus(t, err, http.StatusBadRequest)
	})

	t.Run("admin requires token", func(t *testing.T) {
		_, err := env.Get("/admin/contact", "")
		requireStatus(t, err, http.StatusUnauthorized)

		_, err = env.Get("/admin/contact", "wrong-token")
		requireStatus(t, err, http.StatusUnauthorized)
	})

	t.Run("paged listing", func(t *testing.T) {
		var names []string
		path := "/admin/contact?limit=2"
		for pages := 0; pages < 5; pages++ {
			resp, err := env.Get(path, adminToken)
			require.NoError(t, err)
			page := decode[api.ContactMessagePage](t, resp)
			for _, m := range page.Items {
				names = append(names, m.Name)
				assert.Equal(t, "nl", m.Locale)
			}
			if !page.HasMore {
				break
			}
			path = "/admin/contact?" + url.Values{"limit": {"2"}, "cursor": {page.Cursor}}.Encode()
		}
		assert.Equal(t, []string{"Klant 0", "Klant 1", "Klant 2"}, names)
	})
}

// TestE2E_CLIWorkflow drives the built binaries against the running server.
func TestE2E_CLIWorkflow(t *testing.T) {
	env := SetupE2EEnv(t)
	defer env.Cleanup()
	env.BuildBinaries()

	t.Run("admin create", func(t *testing.T) {
		out, err := env.RunStorefront("admin", "product", "create", "--name", "Stool", "--price", "1200")
		require.NoError(t, err, out)
		assert.Contains(t, out, "Product created: stool")

		out, err = env.RunStorefront("admin", "product", "create", "--name", "Oak chair", "--price", "799", "-d", "Solid oak.")
		require.NoError(t, err, out)
	})

	t.Run("search", func(t *testing.T) {
		out, err := env.RunStorefront("search", "sto")
		require.NoError(t, err, out)
		assert.Contains(t, out, "Stool")
		assert.NotContains(t, out, "Oak chair")

		out, err = env.RunStorefront("--locale", "nl", "search", "stool")
		require.NoError(t, err, out)
		assert.Contains(t, out, "€ 1.200")
	})

	t.Run("search json", func(t *testing.T) {
		out, err := env.RunStorefront("--output", "search", "oak")
		require.NoError(t, err, out)

		var results []map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &results))
		require.Len(t, results, 1)
		assert.Equal(t, "Oak chair", results[0]["name"])
	})

	t.Run("collection", func(t *testing.T) {
		out, err := env.RunStorefront("collection", "--price", "500-1000", "--sort", "price-desc")
		require.NoError(t, err, out)
		assert.Contains(t, out, "Oak chair")
		assert.NotContains(t, out, "Stool")
	})

	t.Run("product", func(t *testing.T) {
		out, err := env.RunStorefront("product", "oak-chair")
		require.NoError(t, err, out)
		assert.Contains(t, out, "Solid oak.")
	})

	t.Run("contact and admin listing", func(t *testing.T) {
		out, err := env.RunStorefront("contact", "--name", "Ann", "--email", "ann@example.com", "-m", "Do you deliver?")
		require.NoError(t, err, out)

		out, err = env.RunStorefront("admin", "contact", "list")
		require.NoError(t, err, out)
		assert.Contains(t, out, "Ann <ann@example.com>")
		assert.Contains(t, out, "Do you deliver?")
	})

	t.Run("image upload", func(t *testing.T) {
		resp, err := env.Get("/en/collection/stool", "")
		require.NoError(t, err)
		id := decode[api.ProductDetailResponse](t, resp).ID

		path := filepath.Join(t.TempDir(), "stool.png")
		require.NoError(t, os.WriteFile(path, []byte("png bytes"), 0o644))

		out, err := env.RunStorefront("admin", "product", "upload-image", "-q", id, path)
		require.NoError(t, err, out)
		assert.Contains(t, out, "Image attached to stool (1 image(s))")
	})
}
