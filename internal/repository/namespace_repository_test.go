package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/organization-service/internal/database"
	"github.com/yukikurage/organization-service/internal/models"
	"gorm.io/gorm"
)

func newTestNamespaces(t *testing.T) (*GormNamespaceRepository, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return &GormNamespaceRepository{db: db, now: func() time.Time { return fixed }}, db
}

func TestNamespaceName(t *testing.T) {
	tests := []struct {
		orgName string
		want    string
	}{
		{"Acme", "org_acme"},
		{"Acme Corp", "org_acme_corp"},
		{"ACME  Corp", "org_acme__corp"},
		{"team-42_x", "org_team-42_x"},
	}
	for _, tt := range tests {
		t.Run(tt.orgName, func(t *testing.T) {
			assert.Equal(t, tt.want, NamespaceName(tt.orgName))
		})
	}
}

func TestNamespaceRepository_CreateWritesMarker(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestNamespaces(t)

	collection, err := repo.Create(ctx, "Acme")
	require.NoError(t, err)
	assert.Equal(t, "org_acme", collection)

	exists, err := repo.Exists(ctx, "Acme")
	require.NoError(t, err)
	assert.True(t, exists)

	docs, err := repo.Documents(ctx, "Acme")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.True(t, docs[0].Initialized)
	assert.True(t, docs[0].CreatedAt.Equal(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)))
}

func TestNamespaceRepository_CreateRefusesExisting(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestNamespaces(t)

	_, err := repo.Create(ctx, "Acme Corp")
	require.NoError(t, err)

	// "acme corp" derives the same identifier as "Acme Corp".
	_, err = repo.Create(ctx, "acme corp")
	assert.ErrorIs(t, err, ErrNamespaceExists)

	docs, err := repo.Documents(ctx, "Acme Corp")
	require.NoError(t, err)
	assert.Len(t, docs, 1, "existing namespace must be left untouched")
}

func TestNamespaceRepository_RenameMovesDocuments(t *testing.T) {
	ctx := context.Background()
	repo, db := newTestNamespaces(t)

	_, err := repo.Create(ctx, "Acme")
	require.NoError(t, err)

	extra := []models.TenantDocument{
		{Payload: `{"kind":"invoice","n":1}`},
		{Payload: `{"kind":"invoice","n":2}`},
	}
	require.NoError(t, db.Scopes(database.InNamespace("org_acme")).Create(&extra).Error)

	collection, err := repo.Rename(ctx, "Acme", "Acme Corp")
	require.NoError(t, err)
	assert.Equal(t, "org_acme_corp", collection)

	oldExists, err := repo.Exists(ctx, "Acme")
	require.NoError(t, err)
	assert.False(t, oldExists)

	docs, err := repo.Documents(ctx, "Acme Corp")
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.True(t, docs[0].Initialized)
	assert.Equal(t, `{"kind":"invoice","n":1}`, docs[1].Payload)
	assert.Equal(t, `{"kind":"invoice","n":2}`, docs[2].Payload)
}

func TestNamespaceRepository_RenameEdgeCases(t *testing.T) {
	ctx := context.Background()

	t.Run("same derived name is a no-op", func(t *testing.T) {
		repo, _ := newTestNamespaces(t)
		_, err := repo.Create(ctx, "Acme")
		require.NoError(t, err)

		collection, err := repo.Rename(ctx, "Acme", "ACME")
		require.NoError(t, err)
		assert.Equal(t, "org_acme", collection)

		docs, err := repo.Documents(ctx, "Acme")
		require.NoError(t, err)
		assert.Len(t, docs, 1)
	})

	t.Run("missing source provisions target", func(t *testing.T) {
		repo, _ := newTestNamespaces(t)

		collection, err := repo.Rename(ctx, "Ghost", "Acme")
		require.NoError(t, err)
		assert.Equal(t, "org_acme", collection)

		docs, err := repo.Documents(ctx, "Acme")
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.True(t, docs[0].Initialized)
	})

	t.Run("existing target is refused", func(t *testing.T) {
		repo, _ := newTestNamespaces(t)
		_, err := repo.Create(ctx, "Acme")
		require.NoError(t, err)
		_, err = repo.Create(ctx, "Globex")
		require.NoError(t, err)

		_, err = repo.Rename(ctx, "Acme", "Globex")
		assert.ErrorIs(t, err, ErrNamespaceExists)

		exists, err := repo.Exists(ctx, "Acme")
		require.NoError(t, err)
		assert.True(t, exists, "source survives a refused rename")
	})
}

func TestNamespaceRepository_DropIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestNamespaces(t)

	_, err := repo.Create(ctx, "Acme")
	require.NoError(t, err)

	require.NoError(t, repo.Drop(ctx, "Acme"))
	require.NoError(t, repo.Drop(ctx, "Acme"))

	exists, err := repo.Exists(ctx, "Acme")
	require.NoError(t, err)
	assert.False(t, exists)
}
