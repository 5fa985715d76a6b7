package client

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloo-solutions/storefront/internal/api"
)

func newAdminTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/upload/oak.png" {
			assert.Equal(t, "Bearer s3cret", r.Header.Get("Authorization"))
		}
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/admin/products":
			var req api.CreateProductRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "Oak chair", req.Name)
			assert.Equal(t, json.Number("1200.5"), req.Price)
			api.Success(w, http.StatusCreated, api.ProductResponse{ID: "p1", Name: req.Name, Slug: "oak-chair", Price: req.Price})
		case r.Method == http.MethodPost && r.URL.Path == "/admin/products/p1/images":
			var req api.InitImageUploadRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "oak.png", req.Filename)
			assert.Equal(t, "image/png", req.ContentType)
			api.Success(w, http.StatusOK, api.InitImageUploadResponse{StorageKey: "products/p1/k.png", UploadURL: srv.URL + "/upload/oak.png"})
		case r.Method == http.MethodPut && r.URL.Path == "/upload/oak.png":
			body, _ := io.ReadAll(r.Body)
			assert.Equal(t, "pngdata", string(body))
			assert.Equal(t, "image/png", r.Header.Get("Content-Type"))
			w.WriteHeader(http.StatusOK)
		case r.Method == http.MethodPost && r.URL.Path == "/admin/products/p1/images/complete":
			var req api.CompleteImageUploadRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "products/p1/k.png", req.StorageKey)
			api.Success(w, http.StatusOK, api.ProductResponse{ID: "p1", Slug: "oak-chair", ImageKeys: []string{req.StorageKey}})
		case r.Method == http.MethodPut && r.URL.Path == "/admin/hero":
			var req api.UpdateHeroRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "nl", req.Locale)
			api.Success(w, http.StatusOK, map[string]string{"locale": req.Locale})
		case r.Method == http.MethodGet && r.URL.Path == "/admin/contact":
			assert.NotEmpty(t, r.URL.Query().Get("since"))
			if r.URL.Query().Get("cursor") == "" {
				api.Success(w, http.StatusOK, api.ContactMessagePage{
					Items: []api.ContactMessageResponse{{
						ID: "c1", Locale: "en", Name: "Ann", Email: "ann@example.com", Message: "Hello\nthere", CreatedAt: "2026-01-02T10:00:00Z",
					}},
					Cursor:  "page2",
					HasMore: true,
				})
				return
			}
			assert.Equal(t, "page2", r.URL.Query().Get("cursor"))
			api.Success(w, http.StatusOK, api.ContactMessagePage{Items: []api.ContactMessageResponse{{
				ID: "c2", Locale: "nl", Name: "Bert", Email: "bert@example.com", Message: "Dag", CreatedAt: "2026-01-03T10:00:00Z",
			}}})
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func runAdmin(t *testing.T, srv *httptest.Server, args ...string) (string, string, error) {
	t.Helper()
	useTempConfig(t)
	t.Setenv(envAPIURL, srv.URL)
	t.Setenv(envAdminToken, "s3cret")

	cmd := AdminCmd()
	cmd.PersistentFlags().Bool("output", false, "Output as JSON")
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestAdminProductCreate(t *testing.T) {
	srv := newAdminTestServer(t)

	out, _, err := runAdmin(t, srv, "product", "create", "--name", "Oak chair", "--price", "1200.50")
	require.NoError(t, err)
	assert.Contains(t, out, "Product created: oak-chair (p1)")
}

func TestAdminProductCreate_InvalidPrice(t *testing.T) {
	srv := newAdminTestServer(t)

	_, _, err := runAdmin(t, srv, "product", "create", "--name", "Oak chair", "--price", "cheap")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid price")
}

func TestAdminProductUploadImage(t *testing.T) {
	srv := newAdminTestServer(t)
	path := filepath.Join(t.TempDir(), "oak.png")
	require.NoError(t, os.WriteFile(path, []byte("pngdata"), 0o644))

	out, progress, err := runAdmin(t, srv, "product", "upload-image", "p1", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Image attached to oak-chair (1 image(s))")
	assert.Contains(t, progress, "100%")
}

func TestAdminProductUploadImage_UnknownType(t *testing.T) {
	srv := newAdminTestServer(t)
	path := filepath.Join(t.TempDir(), "notes.zzz")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	_, _, err := runAdmin(t, srv, "product", "upload-image", "p1", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown image type")
}

func TestAdminHeroSet(t *testing.T) {
	srv := newAdminTestServer(t)

	out, _, err := runAdmin(t, srv, "hero", "set", "--for", "nl", "--heading", "Meubels die blijven")
	require.NoError(t, err)
	assert.Contains(t, out, "Hero updated for nl")
}

func TestAdminHeroSet_UnsupportedLocale(t *testing.T) {
	srv := newAdminTestServer(t)

	_, _, err := runAdmin(t, srv, "hero", "set", "--for", "fr", "--heading", "Bonjour")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported locale")
}

func TestAdminContactList(t *testing.T) {
	srv := newAdminTestServer(t)

	out, _, err := runAdmin(t, srv, "contact", "list", "--since", "72h")
	require.NoError(t, err)
	assert.Contains(t, out, "Ann <ann@example.com> [en]")
	assert.Contains(t, out, "  Hello\n  there")
	assert.Contains(t, out, "Bert <bert@example.com> [nl]")
}

func TestAdminCmd_RequiresToken(t *testing.T) {
	useTempConfig(t)
	t.Setenv(envAPIURL, "http://127.0.0.1:1")
	t.Setenv(envAdminToken, "")

	cmd := AdminCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"product", "delete", "p1"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "admin token required")
}

func TestPrintContactMessages_Empty(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, printContactMessages(&out, nil, false))
	assert.Equal(t, "No messages.\n", out.String())
}
