package service_test

import (
	"context"
	"testing"

	"github.com/dom/media-tracker/internal/domain"
	"github.com/dom/media-tracker/internal/repository"
	"github.com/dom/media-tracker/internal/repository/mongodb"
	"github.com/dom/media-tracker/internal/repository/postgres"
	"github.com/dom/media-tracker/internal/service"
	"github.com/dom/media-tracker/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type backend struct {
	name  string
	repos *repository.Repositories
	reset func(t *testing.T)
}

// backends starts both stores so every tracking property is checked
// against each of them.
func backends(t *testing.T) []backend {
	t.Helper()

	pg := testutil.NewTestDB(t)
	mg := testutil.NewTestMongo(t)

	return []backend{
		{name: "postgres", repos: postgres.NewRepositories(pg.DB), reset: pg.Truncate},
		{name: "mongodb", repos: mongodb.NewRepositories(mg.Database), reset: mg.Truncate},
	}
}

func newIdentity(t *testing.T, repos *repository.Repositories) domain.Identity {
	t.Helper()
	user, _ := testutil.NewUserBuilder().Build(t, repos.User)
	return user.Identity()
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func TestTrackingService(t *testing.T) {
	ctx := context.Background()

	for _, b := range backends(t) {
		b := b
		t.Run(b.name, func(t *testing.T) {
			t.Run("add then get", func(t *testing.T) {
				b.reset(t)
				svc := service.NewTrackingService(domain.VariantMovie, b.repos.User, b.repos.TrackedItem)
				identity := newIdentity(t, b.repos)

				added, err := svc.Add(ctx, identity, "550")
				require.NoError(t, err)
				assert.Equal(t, "550", added.CatalogID)
				assert.Nil(t, added.Rating)
				assert.Nil(t, added.Status)
				assert.Nil(t, added.Notes)

				got, err := svc.Get(ctx, identity, "550")
				require.NoError(t, err)
				assert.Equal(t, added.ID, got.ID)

				user, err := b.repos.User.GetByID(ctx, identity.ID)
				require.NoError(t, err)
				assert.Equal(t, []uuid.UUID{added.ID}, []uuid.UUID(user.Movies))
			})

			t.Run("duplicate add is rejected", func(t *testing.T) {
				b.reset(t)
				svc := service.NewTrackingService(domain.VariantGame, b.repos.User, b.repos.TrackedItem)
				identity := newIdentity(t, b.repos)

				_, err := svc.Add(ctx, identity, "1942")
				require.NoError(t, err)
				_, err = svc.Add(ctx, identity, "1942")
				assert.ErrorIs(t, err, service.ErrItemExists)

				items, err := svc.List(ctx, identity, nil)
				require.NoError(t, err)
				assert.Len(t, items, 1)
			})

			t.Run("users are isolated", func(t *testing.T) {
				b.reset(t)
				svc := service.NewTrackingService(domain.VariantMovie, b.repos.User, b.repos.TrackedItem)
				alice := newIdentity(t, b.repos)
				bob := newIdentity(t, b.repos)

				_, err := svc.Add(ctx, alice, "550")
				require.NoError(t, err)

				_, err = svc.Get(ctx, bob, "550")
				assert.ErrorIs(t, err, service.ErrItemNotFound)

				tracking, err := svc.IsTracking(ctx, bob, "550")
				require.NoError(t, err)
				assert.False(t, tracking)

				// Bob may track the same catalog id independently.
				_, err = svc.Add(ctx, bob, "550")
				require.NoError(t, err)
			})

			t.Run("variants are isolated", func(t *testing.T) {
				b.reset(t)
				movies := service.NewTrackingService(domain.VariantMovie, b.repos.User, b.repos.TrackedItem)
				shows := service.NewTrackingService(domain.VariantTvShow, b.repos.User, b.repos.TrackedItem)
				identity := newIdentity(t, b.repos)

				_, err := movies.Add(ctx, identity, "1399")
				require.NoError(t, err)

				_, err = shows.Get(ctx, identity, "1399")
				assert.ErrorIs(t, err, service.ErrItemNotFound)

				_, err = shows.Add(ctx, identity, "1399")
				require.NoError(t, err)
			})

			t.Run("list keeps insertion order and paginates", func(t *testing.T) {
				b.reset(t)
				svc := service.NewTrackingService(domain.VariantTvShow, b.repos.User, b.repos.TrackedItem)
				identity := newIdentity(t, b.repos)

				ids := []string{"a", "b", "c", "d", "e"}
				for _, id := range ids {
					_, err := svc.Add(ctx, identity, id)
					require.NoError(t, err)
				}

				all, err := svc.List(ctx, identity, nil)
				require.NoError(t, err)
				require.Len(t, all, len(ids))
				for i, item := range all {
					assert.Equal(t, ids[i], item.CatalogID)
				}

				page, err := svc.List(ctx, identity, &service.Pagination{Limit: 2, Page: 2})
				require.NoError(t, err)
				require.Len(t, page, 2)
				assert.Equal(t, "c", page[0].CatalogID)
				assert.Equal(t, "d", page[1].CatalogID)

				empty, err := svc.List(ctx, identity, &service.Pagination{Limit: 2, Page: 4})
				require.NoError(t, err)
				assert.Empty(t, empty)
			})

			t.Run("update overwrites all fields", func(t *testing.T) {
				b.reset(t)
				svc := service.NewTrackingService(domain.VariantMovie, b.repos.User, b.repos.TrackedItem)
				identity := newIdentity(t, b.repos)

				_, err := svc.Add(ctx, identity, "550")
				require.NoError(t, err)

				updated, err := svc.Update(ctx, identity, "550", service.UpdateInput{
					Rating: floatPtr(8.5),
					Status: strPtr("watching"),
					Notes:  strPtr("great"),
				})
				require.NoError(t, err)
				require.NotNil(t, updated.Rating)
				assert.Equal(t, 8.5, *updated.Rating)
				require.NotNil(t, updated.Status)
				assert.Equal(t, domain.StatusWatching, *updated.Status)
				require.NotNil(t, updated.Notes)
				assert.Equal(t, "great", *updated.Notes)

				// Omitted fields are cleared.
				updated, err = svc.Update(ctx, identity, "550", service.UpdateInput{Rating: floatPtr(9)})
				require.NoError(t, err)
				require.NotNil(t, updated.Rating)
				assert.Equal(t, 9.0, *updated.Rating)
				assert.Nil(t, updated.Status)
				assert.Nil(t, updated.Notes)

				got, err := svc.Get(ctx, identity, "550")
				require.NoError(t, err)
				assert.Nil(t, got.Status)
			})

			t.Run("update rejects unknown status", func(t *testing.T) {
				b.reset(t)
				games := service.NewTrackingService(domain.VariantGame, b.repos.User, b.repos.TrackedItem)
				identity := newIdentity(t, b.repos)

				_, err := games.Add(ctx, identity, "7346")
				require.NoError(t, err)

				_, err = games.Update(ctx, identity, "7346", service.UpdateInput{Status: strPtr("watching")})
				assert.ErrorIs(t, err, service.ErrInvalidStatus)

				updated, err := games.Update(ctx, identity, "7346", service.UpdateInput{Status: strPtr("plan to play")})
				require.NoError(t, err)
				assert.Equal(t, domain.StatusPlanToPlay, *updated.Status)
			})

			t.Run("update of untracked item", func(t *testing.T) {
				b.reset(t)
				svc := service.NewTrackingService(domain.VariantMovie, b.repos.User, b.repos.TrackedItem)
				identity := newIdentity(t, b.repos)

				_, err := svc.Update(ctx, identity, "missing", service.UpdateInput{})
				assert.ErrorIs(t, err, service.ErrItemNotFound)
			})

			t.Run("delete removes item and reference", func(t *testing.T) {
				b.reset(t)
				svc := service.NewTrackingService(domain.VariantMovie, b.repos.User, b.repos.TrackedItem)
				identity := newIdentity(t, b.repos)

				added, err := svc.Add(ctx, identity, "550")
				require.NoError(t, err)

				require.NoError(t, svc.Delete(ctx, identity, "550"))

				_, err = svc.Get(ctx, identity, "550")
				assert.ErrorIs(t, err, service.ErrItemNotFound)

				_, err = b.repos.TrackedItem.GetByID(ctx, domain.VariantMovie, added.ID)
				assert.ErrorIs(t, err, repository.ErrNotFound)

				user, err := b.repos.User.GetByID(ctx, identity.ID)
				require.NoError(t, err)
				assert.Empty(t, user.Movies)

				assert.ErrorIs(t, svc.Delete(ctx, identity, "550"), service.ErrItemNotFound)

				// The catalog id can be tracked again afterwards.
				_, err = svc.Add(ctx, identity, "550")
				require.NoError(t, err)
			})

			t.Run("unknown user", func(t *testing.T) {
				b.reset(t)
				svc := service.NewTrackingService(domain.VariantMovie, b.repos.User, b.repos.TrackedItem)

				_, err := svc.List(ctx, domain.Identity{ID: uuid.New()}, nil)
				assert.ErrorIs(t, err, service.ErrUserNotFound)
			})
		})
	}
}
