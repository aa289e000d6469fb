package repository

import (
	"context"
	"regexp"
	"sync"
	"testing"

	"brewhub/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createBag(t *testing.T, repo CoffeeBagRepository, owner uint, initial float64) *models.CoffeeBag {
	t.Helper()
	bag := &models.CoffeeBag{UserID: owner, Name: "Huila", InitialWeight: initial, RemainingWeight: initial}
	require.NoError(t, repo.Create(context.Background(), bag))
	return bag
}

func TestCoffeeBagRepository_Debit(t *testing.T) {
	repo := NewCoffeeBagRepository(setupSQLiteDB(t))
	ctx := context.Background()
	bag := createBag(t, repo, 1, 250)

	got, err := repo.Debit(ctx, bag.ID, 100)
	require.NoError(t, err)
	assert.InDelta(t, 150, got.RemainingWeight, 0.001)

	_, err = repo.Debit(ctx, bag.ID, 200)
	require.Error(t, err)
	assert.Equal(t, models.CodeInsufficientStock, models.ErrorCode(err))
	assert.True(t, models.IsInvalidArgument(err))

	after, err := repo.GetByID(ctx, bag.ID)
	require.NoError(t, err)
	assert.InDelta(t, 150, after.RemainingWeight, 0.001, "failed debit leaves the balance unchanged")

	got, err = repo.Debit(ctx, bag.ID, 150)
	require.NoError(t, err)
	assert.Zero(t, got.RemainingWeight)
}

func TestCoffeeBagRepository_DebitRoundsToCents(t *testing.T) {
	repo := NewCoffeeBagRepository(setupSQLiteDB(t))
	bag := createBag(t, repo, 1, 10)

	got, err := repo.Debit(context.Background(), bag.ID, 3.333)
	require.NoError(t, err)
	assert.InDelta(t, 6.67, got.RemainingWeight, 1e-9)
}

func TestCoffeeBagRepository_DebitMissingBag(t *testing.T) {
	repo := NewCoffeeBagRepository(setupSQLiteDB(t))

	_, err := repo.Debit(context.Background(), 404, 1)
	assert.True(t, models.IsNotFound(err))
}

// The in-memory run serializes statements on one connection, so it only checks
// the bookkeeping. The file-backed run lets the debits interleave across
// connections. TestCoffeeBagRepository_DebitIsOneConditionalUpdate pins the
// single guarded UPDATE that postgres relies on.
func TestCoffeeBagRepository_ConcurrentDebitsNeverOverdraw(t *testing.T) {
	t.Run("single connection", func(t *testing.T) {
		assertConcurrentDebits(t, NewCoffeeBagRepository(setupSQLiteDB(t)))
	})
	t.Run("file backed pool", func(t *testing.T) {
		assertConcurrentDebits(t, NewCoffeeBagRepository(setupSQLiteFileDB(t, 8)))
	})
}

func assertConcurrentDebits(t *testing.T, repo CoffeeBagRepository) {
	t.Helper()
	bag := createBag(t, repo, 1, 100)

	const workers = 10
	const grams = 30.0

	var (
		wg           sync.WaitGroup
		mu           sync.Mutex
		succeeded    int
		insufficient int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Debit(context.Background(), bag.ID, grams)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case models.ErrorCode(err) == models.CodeInsufficientStock:
				insufficient++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 3, succeeded)
	assert.Equal(t, workers-3, insufficient)

	final, err := repo.GetByID(context.Background(), bag.ID)
	require.NoError(t, err)
	assert.InDelta(t, 10, final.RemainingWeight, 0.001)
}

func TestCoffeeBagRepository_DebitIsOneConditionalUpdate(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCoffeeBagRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "coffee_bags" SET "remaining_weight"=ROUND(remaining_weight - $1, 2),"updated_at"=$2 WHERE id = $3 AND remaining_weight >= $4`)).
		WithArgs(40.0, sqlmock.AnyArg(), 7, 40.0).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "coffee_bags" WHERE "coffee_bags"."id" = $1`)).
		WithArgs(7, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "initial_weight", "remaining_weight"}).
			AddRow(7, 1, 250, 12.5))

	_, err := repo.Debit(context.Background(), 7, 40)
	require.Error(t, err)
	assert.Equal(t, models.CodeInsufficientStock, models.ErrorCode(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCoffeeBagRepository_UpdateAndDelete(t *testing.T) {
	repo := NewCoffeeBagRepository(setupSQLiteDB(t))
	ctx := context.Background()
	bag := createBag(t, repo, 1, 250)

	updated, err := repo.Update(ctx, bag.ID, map[string]interface{}{"roaster": "Tostaduría", "remaining_weight": 200.0})
	require.NoError(t, err)
	assert.Equal(t, "Tostaduría", updated.Roaster)
	assert.InDelta(t, 200, updated.RemainingWeight, 0.001)
	assert.InDelta(t, 250, updated.InitialWeight, 0.001)

	_, err = repo.Update(ctx, 999, map[string]interface{}{"name": "x"})
	assert.True(t, models.IsNotFound(err))

	bags, err := repo.ListByOwner(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, bags, 1)

	require.NoError(t, repo.Delete(ctx, bag.ID))
	assert.True(t, models.IsNotFound(repo.Delete(ctx, bag.ID)))
	_, err = repo.GetByID(ctx, bag.ID)
	assert.True(t, models.IsNotFound(err))
}
