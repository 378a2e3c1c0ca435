package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/data-table-transformer/errs"
	"github.com/rpupo63/data-table-transformer/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func createDB(t *testing.T, create ...any) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "projects.db")), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, GetMigrator(db).Migrate())

	for _, c := range create {
		require.NoError(t, db.Create(c).Error)
	}

	return db
}

func ptr[T any](v T) *T { return &v }

func TestMigrateFromFirstVersion(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "legacy.db")), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&projectV1{}))
	require.False(t, db.Migrator().HasColumn(&models.Project{}, "S3Config"))

	require.NoError(t, db.Exec("CREATE TABLE migrations (id VARCHAR(255) PRIMARY KEY)").Error)
	require.NoError(t, db.Exec("INSERT INTO migrations (id) VALUES ('0001_create_projects')").Error)

	require.NoError(t, GetMigrator(db).Migrate())
	assert.True(t, db.Migrator().HasColumn(&models.Project{}, "S3Config"))
}

func TestProjectRepoListRecentByOwner(t *testing.T) {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	var seed []any
	for i := 0; i < 12; i++ {
		seed = append(seed, &models.Project{
			UserID:    "user-1",
			Name:      "p",
			Status:    models.ProjectDraft,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
			UpdatedAt: base,
		})
	}
	seed = append(seed, &models.Project{UserID: "user-2", Name: "other", CreatedAt: base.Add(48 * time.Hour), UpdatedAt: base})

	repo := New(createDB(t, seed...)).ProjectRepo()

	projects, err := repo.ListRecentByOwner(context.Background(), "user-1", 10)
	require.NoError(t, err)
	require.Len(t, projects, 10)
	for i := 1; i < len(projects); i++ {
		assert.True(t, projects[i-1].CreatedAt.After(projects[i].CreatedAt))
	}
	for _, p := range projects {
		assert.Equal(t, "user-1", p.UserID)
	}
	assert.True(t, projects[0].CreatedAt.Equal(base.Add(11*time.Hour)))
}

func TestProjectRepoAddAndFind(t *testing.T) {
	repo := New(createDB(t)).ProjectRepo()
	ctx := context.Background()

	project := &models.Project{
		UserID:   "user-1",
		Name:     "sales",
		FileName: ptr("sales.csv"),
		FileSize: ptr(int64(2048)),
		S3Config: datatypes.JSON(`{"bucket":"b"}`),
	}
	require.NoError(t, repo.Add(ctx, project))
	assert.NotEqual(t, uuid.Nil, project.ID)
	assert.Equal(t, models.ProjectDraft, project.Status)

	found, err := repo.FindByIDForOwner(ctx, project.ID, "user-1")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "sales.csv", *found.FileName)
	assert.JSONEq(t, `{"bucket":"b"}`, string(found.S3Config))

	other, err := repo.FindByIDForOwner(ctx, project.ID, "user-2")
	require.NoError(t, err)
	assert.Nil(t, other)
}

func TestProjectRepoUpdateStatus(t *testing.T) {
	id := uuid.New()
	repo := New(createDB(t, &models.Project{ID: id, UserID: "user-1", Name: "p", Status: models.ProjectDraft})).ProjectRepo()
	ctx := context.Background()

	updated, err := repo.UpdateStatus(ctx, id, "user-1", models.ProjectProcessing, nil)
	require.NoError(t, err)
	assert.Equal(t, models.ProjectProcessing, updated.Status)

	updated, err = repo.UpdateStatus(ctx, id, "user-1", models.ProjectCompleted, ptr(int64(1500)))
	require.NoError(t, err)
	assert.Equal(t, models.ProjectCompleted, updated.Status)
	require.NotNil(t, updated.RowsCount)
	assert.Equal(t, int64(1500), *updated.RowsCount)

	_, err = repo.UpdateStatus(ctx, id, "user-1", models.ProjectProcessing, nil)
	assert.ErrorIs(t, err, errs.ErrInvalidTransition)

	_, err = repo.UpdateStatus(ctx, id, "user-2", models.ProjectCompleted, nil)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestOpenWithUnreachableDatabase(t *testing.T) {
	db, err := Open(map[string]string{
		"DB_TYPE":      "postgres",
		"DATABASE_URL": "postgres://u:p@127.0.0.1:1/x?connect_timeout=2",
	})
	require.NoError(t, err)
	require.NotNil(t, db)

	currentDB := New(db)
	assert.Error(t, currentDB.Ping())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, currentDB.MigrateWhenReachable(ctx, time.Millisecond), context.Canceled)
}

func TestMigrateWhenReachable(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "late.db")), &gorm.Config{})
	require.NoError(t, err)
	require.False(t, db.Migrator().HasTable("projects"))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, New(db).MigrateWhenReachable(ctx, 10*time.Millisecond))

	assert.True(t, db.Migrator().HasTable("projects"))
	assert.True(t, db.Migrator().HasColumn(&models.Project{}, "S3Config"))
}
