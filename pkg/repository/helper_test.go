package repository_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/interfaces"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/domain/types"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/repository/firestore"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/repository/memory"
	"github.com/Gthierry-dev/applyonce-sub001/pkg/repository/postgres"
	"github.com/m-mizutani/gt"
)

func newMemoryRepository(t *testing.T) interfaces.Repository {
	return memory.New()
}

func newFirestoreRepository(t *testing.T) interfaces.Repository {
	t.Helper()

	projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("TEST_FIRESTORE_PROJECT_ID not set")
	}

	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE_ID")
	if databaseID == "" {
		t.Skip("TEST_FIRESTORE_DATABASE_ID not set")
	}

	ctx := context.Background()
	prefix := fmt.Sprintf("test_%d", time.Now().UnixNano())
	repo, err := firestore.New(ctx, projectID, databaseID, firestore.WithCollectionPrefix(prefix))
	gt.NoError(t, err).Required()
	t.Cleanup(func() {
		gt.NoError(t, repo.Close())
	})
	return repo
}

func newPostgresRepository(t *testing.T) interfaces.Repository {
	t.Helper()

	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set")
	}

	ctx := context.Background()
	repo, err := postgres.Open(ctx, dsn)
	gt.NoError(t, err).Required()
	gt.NoError(t, postgres.Migrate(ctx, repo.DB())).Required()
	t.Cleanup(func() {
		gt.NoError(t, repo.Close())
	})
	return repo
}

// runAllBackends runs a shared suite against every repository implementation
func runAllBackends(t *testing.T, suite func(t *testing.T, newRepo func(t *testing.T) interfaces.Repository)) {
	t.Run("memory", func(t *testing.T) { suite(t, newMemoryRepository) })
	t.Run("firestore", func(t *testing.T) { suite(t, newFirestoreRepository) })
	t.Run("postgres", func(t *testing.T) { suite(t, newPostgresRepository) })
}

func uniqueCategoryID() types.CategoryID {
	return types.CategoryID(fmt.Sprintf("cat-%d", time.Now().UnixNano()))
}

func uniqueUserID() types.UserID {
	return types.UserID(fmt.Sprintf("user-%d", time.Now().UnixNano()))
}
