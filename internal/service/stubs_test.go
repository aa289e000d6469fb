package service

import (
	"context"
	"errors"
	"testing"

	"brewhub/internal/models"
	"brewhub/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bagRepoStub is a stub for repository.CoffeeBagRepository.
type bagRepoStub struct {
	createFn      func(context.Context, *models.CoffeeBag) error
	getByIDFn     func(context.Context, uint) (*models.CoffeeBag, error)
	listByOwnerFn func(context.Context, uint) ([]models.CoffeeBag, error)
	updateFn      func(context.Context, uint, map[string]interface{}) (*models.CoffeeBag, error)
	deleteFn      func(context.Context, uint) error
	debitFn       func(context.Context, uint, float64) (*models.CoffeeBag, error)
}

func (s *bagRepoStub) Create(ctx context.Context, bag *models.CoffeeBag) error {
	return s.createFn(ctx, bag)
}
func (s *bagRepoStub) GetByID(ctx context.Context, id uint) (*models.CoffeeBag, error) {
	return s.getByIDFn(ctx, id)
}
func (s *bagRepoStub) ListByOwner(ctx context.Context, ownerID uint) ([]models.CoffeeBag, error) {
	return s.listByOwnerFn(ctx, ownerID)
}
func (s *bagRepoStub) Update(ctx context.Context, id uint, fields map[string]interface{}) (*models.CoffeeBag, error) {
	return s.updateFn(ctx, id, fields)
}
func (s *bagRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *bagRepoStub) Debit(ctx context.Context, id uint, grams float64) (*models.CoffeeBag, error) {
	return s.debitFn(ctx, id, grams)
}

func noopBagRepo() *bagRepoStub {
	return &bagRepoStub{
		createFn:      func(_ context.Context, _ *models.CoffeeBag) error { return nil },
		getByIDFn:     func(_ context.Context, id uint) (*models.CoffeeBag, error) { return &models.CoffeeBag{ID: id}, nil },
		listByOwnerFn: func(_ context.Context, _ uint) ([]models.CoffeeBag, error) { return nil, nil },
		updateFn: func(_ context.Context, id uint, _ map[string]interface{}) (*models.CoffeeBag, error) {
			return &models.CoffeeBag{ID: id}, nil
		},
		deleteFn: func(_ context.Context, _ uint) error { return nil },
		debitFn:  func(_ context.Context, id uint, _ float64) (*models.CoffeeBag, error) { return &models.CoffeeBag{ID: id}, nil },
	}
}

// recipeRepoStub is a stub for repository.RecipeRepository.
type recipeRepoStub struct {
	createFn             func(context.Context, *models.Recipe) error
	getByIDFn            func(context.Context, uint) (*models.Recipe, error)
	listFn               func(context.Context, repository.RecipeFilter) ([]models.Recipe, error)
	listSystemDefaultsFn func(context.Context) ([]models.Recipe, error)
	updateFn             func(context.Context, uint, map[string]interface{}) (*models.Recipe, error)
	deleteFn             func(context.Context, uint) error
	upsertFn             func(context.Context, *models.Recipe) error
}

func (s *recipeRepoStub) Create(ctx context.Context, recipe *models.Recipe) error {
	return s.createFn(ctx, recipe)
}
func (s *recipeRepoStub) GetByID(ctx context.Context, id uint) (*models.Recipe, error) {
	return s.getByIDFn(ctx, id)
}
func (s *recipeRepoStub) List(ctx context.Context, filter repository.RecipeFilter) ([]models.Recipe, error) {
	return s.listFn(ctx, filter)
}
func (s *recipeRepoStub) ListSystemDefaults(ctx context.Context) ([]models.Recipe, error) {
	return s.listSystemDefaultsFn(ctx)
}
func (s *recipeRepoStub) Update(ctx context.Context, id uint, fields map[string]interface{}) (*models.Recipe, error) {
	return s.updateFn(ctx, id, fields)
}
func (s *recipeRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *recipeRepoStub) UpsertSystemDefault(ctx context.Context, recipe *models.Recipe) error {
	return s.upsertFn(ctx, recipe)
}

func noopRecipeRepo() *recipeRepoStub {
	return &recipeRepoStub{
		createFn:             func(_ context.Context, _ *models.Recipe) error { return nil },
		getByIDFn:            func(_ context.Context, id uint) (*models.Recipe, error) { return &models.Recipe{ID: id}, nil },
		listFn:               func(_ context.Context, _ repository.RecipeFilter) ([]models.Recipe, error) { return nil, nil },
		listSystemDefaultsFn: func(_ context.Context) ([]models.Recipe, error) { return nil, nil },
		updateFn: func(_ context.Context, id uint, _ map[string]interface{}) (*models.Recipe, error) {
			return &models.Recipe{ID: id}, nil
		},
		deleteFn: func(_ context.Context, _ uint) error { return nil },
		upsertFn: func(_ context.Context, _ *models.Recipe) error { return nil },
	}
}

// tastingRepoStub is a stub for repository.TastingRepository.
type tastingRepoStub struct {
	createFn     func(context.Context, *models.TastingRecord) error
	getByIDFn    func(context.Context, uint) (*models.TastingRecord, error)
	listByUserFn func(context.Context, uint, int, int) ([]models.TastingRecord, error)
	deleteFn     func(context.Context, uint) error
}

func (s *tastingRepoStub) Create(ctx context.Context, record *models.TastingRecord) error {
	return s.createFn(ctx, record)
}
func (s *tastingRepoStub) GetByID(ctx context.Context, id uint) (*models.TastingRecord, error) {
	return s.getByIDFn(ctx, id)
}
func (s *tastingRepoStub) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.TastingRecord, error) {
	return s.listByUserFn(ctx, userID, limit, offset)
}
func (s *tastingRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopTastingRepo() *tastingRepoStub {
	return &tastingRepoStub{
		createFn:     func(_ context.Context, _ *models.TastingRecord) error { return nil },
		getByIDFn:    func(_ context.Context, id uint) (*models.TastingRecord, error) { return &models.TastingRecord{ID: id}, nil },
		listByUserFn: func(_ context.Context, _ uint, _, _ int) ([]models.TastingRecord, error) { return nil, nil },
		deleteFn:     func(_ context.Context, _ uint) error { return nil },
	}
}

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn        func(context.Context, *models.Post) error
	getByIDFn       func(context.Context, uint) (*models.Post, error)
	listFn          func(context.Context, int, int) ([]models.Post, error)
	listByAuthorsFn func(context.Context, []uint, int, int) ([]models.Post, error)
	deleteFn        func(context.Context, uint) error
	toggleLikeFn    func(context.Context, uint, uint) (bool, error)
	isLikedFn       func(context.Context, uint, uint) (bool, error)
	listLikesFn     func(context.Context, uint) ([]models.Like, error)
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) List(ctx context.Context, limit, offset int) ([]models.Post, error) {
	return s.listFn(ctx, limit, offset)
}
func (s *postRepoStub) ListByAuthors(ctx context.Context, authorIDs []uint, limit, offset int) ([]models.Post, error) {
	return s.listByAuthorsFn(ctx, authorIDs, limit, offset)
}
func (s *postRepoStub) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Post, error) {
	return s.listByAuthorsFn(ctx, []uint{userID}, limit, offset)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *postRepoStub) ToggleLike(ctx context.Context, postID, userID uint) (bool, error) {
	return s.toggleLikeFn(ctx, postID, userID)
}
func (s *postRepoStub) IsLiked(ctx context.Context, postID, userID uint) (bool, error) {
	return s.isLikedFn(ctx, postID, userID)
}
func (s *postRepoStub) ListLikes(ctx context.Context, postID uint) ([]models.Like, error) {
	return s.listLikesFn(ctx, postID)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:        func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn:       func(_ context.Context, id uint) (*models.Post, error) { return &models.Post{ID: id}, nil },
		listFn:          func(_ context.Context, _, _ int) ([]models.Post, error) { return nil, nil },
		listByAuthorsFn: func(_ context.Context, _ []uint, _, _ int) ([]models.Post, error) { return nil, nil },
		deleteFn:        func(_ context.Context, _ uint) error { return nil },
		toggleLikeFn:    func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		isLikedFn:       func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
		listLikesFn:     func(_ context.Context, _ uint) ([]models.Like, error) { return nil, nil },
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn       func(context.Context, *models.Comment) error
	getByIDFn      func(context.Context, uint) (*models.Comment, error)
	listTopLevelFn func(context.Context, uint) ([]models.Comment, error)
	listRepliesFn  func(context.Context, uint) ([]models.Comment, error)
	deleteFn       func(context.Context, uint) error
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListTopLevel(ctx context.Context, postID uint) ([]models.Comment, error) {
	return s.listTopLevelFn(ctx, postID)
}
func (s *commentRepoStub) ListReplies(ctx context.Context, parentID uint) ([]models.Comment, error) {
	return s.listRepliesFn(ctx, parentID)
}
func (s *commentRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn:       func(_ context.Context, _ *models.Comment) error { return nil },
		getByIDFn:      func(_ context.Context, id uint) (*models.Comment, error) { return &models.Comment{ID: id}, nil },
		listTopLevelFn: func(_ context.Context, _ uint) ([]models.Comment, error) { return nil, nil },
		listRepliesFn:  func(_ context.Context, _ uint) ([]models.Comment, error) { return nil, nil },
		deleteFn:       func(_ context.Context, _ uint) error { return nil },
	}
}

// followRepoStub is a stub for repository.FollowRepository.
type followRepoStub struct {
	createFn         func(context.Context, uint, uint) error
	deleteFn         func(context.Context, uint, uint) (bool, error)
	existsFn         func(context.Context, uint, uint) (bool, error)
	followingIDsFn   func(context.Context, uint) ([]uint, error)
	followerIDsFn    func(context.Context, uint) ([]uint, error)
	countFollowersFn func(context.Context, uint) (int64, error)
}

func (s *followRepoStub) Create(ctx context.Context, followerID, followingID uint) error {
	return s.createFn(ctx, followerID, followingID)
}
func (s *followRepoStub) Delete(ctx context.Context, followerID, followingID uint) (bool, error) {
	return s.deleteFn(ctx, followerID, followingID)
}
func (s *followRepoStub) Exists(ctx context.Context, followerID, followingID uint) (bool, error) {
	return s.existsFn(ctx, followerID, followingID)
}
func (s *followRepoStub) FollowingIDs(ctx context.Context, followerID uint) ([]uint, error) {
	return s.followingIDsFn(ctx, followerID)
}
func (s *followRepoStub) FollowerIDs(ctx context.Context, followingID uint) ([]uint, error) {
	return s.followerIDsFn(ctx, followingID)
}
func (s *followRepoStub) CountFollowers(ctx context.Context, userID uint) (int64, error) {
	return s.countFollowersFn(ctx, userID)
}

func noopFollowRepo() *followRepoStub {
	return &followRepoStub{
		createFn:         func(_ context.Context, _, _ uint) error { return nil },
		deleteFn:         func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		existsFn:         func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
		followingIDsFn:   func(_ context.Context, _ uint) ([]uint, error) { return nil, nil },
		followerIDsFn:    func(_ context.Context, _ uint) ([]uint, error) { return nil, nil },
		countFollowersFn: func(_ context.Context, _ uint) (int64, error) { return 0, nil },
	}
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn       func(context.Context, uint) (*models.User, error)
	getByEmailFn    func(context.Context, string) (*models.User, error)
	searchFn        func(context.Context, string, int) ([]models.User, error)
	createFn        func(context.Context, *models.User) error
	updateProfileFn func(context.Context, uint, map[string]interface{}) (*models.User, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) Search(ctx context.Context, query string, limit int) ([]models.User, error) {
	return s.searchFn(ctx, query, limit)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) UpdateProfile(ctx context.Context, id uint, fields map[string]interface{}) (*models.User, error) {
	return s.updateProfileFn(ctx, id, fields)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:    func(_ context.Context, id uint) (*models.User, error) { return &models.User{ID: id}, nil },
		getByEmailFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		searchFn:     func(_ context.Context, _ string, _ int) ([]models.User, error) { return nil, nil },
		createFn:     func(_ context.Context, _ *models.User) error { return nil },
		updateProfileFn: func(_ context.Context, id uint, _ map[string]interface{}) (*models.User, error) {
			return &models.User{ID: id}, nil
		},
	}
}

func ptr[T any](v T) *T { return &v }

// assertValidationError asserts that err is an AppError with code VALIDATION_ERROR.
func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertCode(t, err, models.CodeValidation)
}

// assertCode asserts that err is an AppError carrying code.
func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}
