//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloo-solutions/storefront/internal/domain"
	"github.com/cloo-solutions/storefront/internal/pagination"
	"github.com/cloo-solutions/storefront/internal/service"
)

func TestHeroRepository_Upsert(t *testing.T) {
	ctx := context.Background()
	repo := NewHeroRepository(setupPool(ctx, t))

	_, err := repo.Get(ctx, "nl")
	assert.ErrorIs(t, err, domain.ErrHeroNotFound)

	hero := &domain.Hero{Locale: "nl", Heading: "Welkom", CTALink: "/nl/collection", UpdatedAt: base}
	require.NoError(t, repo.Upsert(ctx, hero))

	hero.Heading = "Nieuw binnen"
	hero.UpdatedAt = base.Add(time.Hour)
	require.NoError(t, repo.Upsert(ctx, hero))

	got, err := repo.Get(ctx, "nl")
	require.NoError(t, err)
	assert.Equal(t, "Nieuw binnen", got.Heading)
	assert.Equal(t, "/nl/collection", got.CTALink)
	assert.True(t, got.UpdatedAt.Equal(base.Add(time.Hour)))
}

func TestContactRepository_CreateAndList(t *testing.T) {
	ctx := context.Background()
	repo := NewContactRepository(setupPool(ctx, t))

	old := &domain.ContactMessage{ID: uuid.NewString(), Locale: "en", Name: "Ann", Email: "ann@example.com", Message: "Hi", CreatedAt: base.Add(-48 * time.Hour)}
	recent := &domain.ContactMessage{ID: uuid.NewString(), Locale: "nl", Name: "Bert", Email: "bert@example.com", Message: "Dag", CreatedAt: base}
	require.NoError(t, repo.Create(ctx, old))
	require.NoError(t, repo.Create(ctx, recent))

	page, err := repo.ListSince(ctx, base.Add(-time.Hour), nil, 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.False(t, page.HasMore)
	assert.Equal(t, recent.ID, page.Items[0].ID)
	assert.Equal(t, "Dag", page.Items[0].Message)
}

func TestContactRepository_ListSincePages(t *testing.T) {
	ctx := context.Background()
	repo := NewContactRepository(setupPool(ctx, t))

	var want []string
	for i := 0; i < 5; i++ {
		m := &domain.ContactMessage{ID: uuid.NewString(), Locale: "en", Name: "Ann", Email: "ann@example.com", Message: "Hi", CreatedAt: base.Add(time.Duration(i/2) * time.Minute)}
		require.NoError(t, repo.Create(ctx, m))
		want = append(want, m.ID)
	}

	var got []string
	var after *pagination.Cursor
	for pages := 0; ; pages++ {
		require.Less(t, pages, 5)
		page, err := repo.ListSince(ctx, base.Add(-time.Hour), after, 2)
		require.NoError(t, err)
		for _, m := range page.Items {
			got = append(got, m.ID)
		}
		if !page.HasMore {
			break
		}
		after, err = pagination.DecodeCursor(page.NextCursor)
		require.NoError(t, err)
	}

	assert.ElementsMatch(t, want, got)
	assert.Len(t, got, 5)
}

func TestSearchLogRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewSearchLogRepository(setupPool(ctx, t))

	stale := service.SearchLogEntry{ID: uuid.NewString(), Query: "sto", ResultIDs: []string{"a"}, CreatedAt: base.Add(-40 * 24 * time.Hour)}
	fresh := service.SearchLogEntry{ID: uuid.NewString(), Query: "oak", DurationMs: 4, CreatedAt: base}
	require.NoError(t, repo.CreateSearchLog(ctx, stale))
	require.NoError(t, repo.CreateSearchLog(ctx, fresh))

	require.NoError(t, repo.RecordSearchSelection(ctx, fresh.ID, "product-1"))
	assert.ErrorIs(t, repo.RecordSearchSelection(ctx, uuid.NewString(), "product-1"), domain.ErrSearchLogNotFound)

	n, err := repo.DeleteSearchLogsBefore(ctx, base.Add(-30*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = repo.DeleteSearchLogsBefore(ctx, base.Add(-30*24*time.Hour))
	require.NoError(t, err)
	assert.Zero(t, n)
}
