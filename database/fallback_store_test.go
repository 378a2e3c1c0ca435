package database

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/rpupo63/data-table-transformer/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallbackStoreEmpty(t *testing.T) {
	store, err := NewFallbackStore(t.TempDir())
	require.NoError(t, err)

	projects, err := store.All()
	require.NoError(t, err)
	assert.Empty(t, projects)
	assert.Equal(t, FallbackKey+".json", filepath.Base(store.Path()))

	require.NoError(t, os.WriteFile(store.Path(), nil, 0o644))
	projects, err = store.All()
	require.NoError(t, err)
	assert.Empty(t, projects)
}

func TestFallbackStoreAppendKeepsOrder(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFallbackStore(dir)
	require.NoError(t, err)

	first := models.Project{ID: uuid.New(), UserID: "u", Name: "first", Status: models.ProjectDraft}
	second := models.Project{ID: uuid.New(), UserID: "u", Name: "second", Status: models.ProjectDraft}
	require.NoError(t, store.Append(first))
	require.NoError(t, store.Append(second))

	reopened, err := NewFallbackStore(dir)
	require.NoError(t, err)
	projects, err := reopened.All()
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, "first", projects[0].Name)
	assert.Equal(t, "second", projects[1].Name)

	found, err := reopened.FindByIDForOwner(second.ID, "u")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "second", found.Name)

	missing, err := reopened.FindByIDForOwner(second.ID, "someone-else")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestFallbackStoreConcurrentAppends(t *testing.T) {
	store, err := NewFallbackStore(t.TempDir())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, store.Append(models.Project{ID: uuid.New(), UserID: "u", Name: "p"}))
		}()
	}
	wg.Wait()

	projects, err := store.All()
	require.NoError(t, err)
	assert.Len(t, projects, 20)
}

func TestFallbackStoreCorruptFile(t *testing.T) {
	store, err := NewFallbackStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(store.Path(), []byte("{not json"), 0o644))

	assert.Error(t, store.Append(models.Project{ID: uuid.New()}))
}
