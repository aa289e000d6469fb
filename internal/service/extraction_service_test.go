package service

import (
	"context"
	"strings"
	"testing"

	"brewhub/internal/models"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bagConsumerFunc func(context.Context, uint, float64, uint) (*models.CoffeeBag, error)

func (f bagConsumerFunc) Consume(ctx context.Context, bagID uint, grams float64, callerID uint) (*models.CoffeeBag, error) {
	return f(ctx, bagID, grams, callerID)
}

type postPublisherFunc func(context.Context, models.PostAuthor, string, string, *uint) (*models.Post, error)

func (f postPublisherFunc) CreatePost(ctx context.Context, author models.PostAuthor, content, imageURL string, recipeID *uint) (*models.Post, error) {
	return f(ctx, author, content, imageURL, recipeID)
}

// extractionFixture records every write the workflow makes.
type extractionFixture struct {
	recipeRepo   *recipeRepoStub
	recipeWrites []map[string]interface{}
	debits       []float64
	posts        []*models.Post
	consumeErr   error
}

func newExtractionFixture() *extractionFixture {
	f := &extractionFixture{recipeRepo: noopRecipeRepo()}
	f.recipeRepo.getByIDFn = func(_ context.Context, id uint) (*models.Recipe, error) {
		if id != 3 {
			return nil, models.NewNotFoundError("Recipe", id)
		}
		return &models.Recipe{ID: 3, Name: "V60", Owner: models.SystemOwner(), Rating: 3}, nil
	}
	f.recipeRepo.updateFn = func(_ context.Context, id uint, fields map[string]interface{}) (*models.Recipe, error) {
		f.recipeWrites = append(f.recipeWrites, fields)
		r := &models.Recipe{ID: id, Name: "V60", Owner: models.SystemOwner(), Rating: 3}
		r.Notes, _ = fields["notes"].(string)
		if rating, ok := fields["rating"].(int); ok {
			r.Rating = rating
		}
		return r, nil
	}
	return f
}

func (f *extractionFixture) service() *ExtractionService {
	bags := bagConsumerFunc(func(_ context.Context, _ uint, grams float64, _ uint) (*models.CoffeeBag, error) {
		if f.consumeErr != nil {
			return nil, f.consumeErr
		}
		f.debits = append(f.debits, grams)
		return &models.CoffeeBag{}, nil
	})
	posts := postPublisherFunc(func(_ context.Context, author models.PostAuthor, content, imageURL string, recipeID *uint) (*models.Post, error) {
		p := &models.Post{ID: 42, UserID: author.ID, AuthorName: author.Name, AuthorEmail: author.Email, Content: content, ImageURL: imageURL, RecipeID: recipeID}
		f.posts = append(f.posts, p)
		return p, nil
	})
	return NewExtractionService(NewRecipeService(f.recipeRepo), bags, posts, noopTastingRepo())
}

var testCaller = Caller{ID: 7, Name: "Ana", Email: "ana@example.com"}

func TestExtractionService_CompleteExtraction(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("updates recipe, debits and publishes", func(t *testing.T) {
		t.Parallel()
		f := newExtractionFixture()
		res, err := f.service().CompleteExtraction(ctx, testCaller, CompleteExtractionInput{
			RecipeID:        3,
			TastingNotes:    "  Floral y dulce  ",
			Scores:          SensoryScores{Sabor: ptr(5), Acidez: ptr(4)},
			ImageURL:        "img://brew.png",
			BagID:           ptr(uint(1)),
			GramsUsed:       18,
			PublishToSocial: true,
		})
		require.NoError(t, err)

		assert.Equal(t, "Floral y dulce", res.Recipe.Notes)
		assert.Equal(t, 5, res.Recipe.Rating)
		assert.Equal(t, []float64{18}, f.debits)
		require.NotNil(t, res.PostID)
		assert.Equal(t, uint(42), *res.PostID)

		require.Len(t, f.posts, 1)
		post := f.posts[0]
		assert.Equal(t, uint(7), post.UserID)
		assert.Equal(t, "Ana", post.AuthorName)
		assert.Equal(t, "ana@example.com", post.AuthorEmail)
		assert.Equal(t, "img://brew.png", post.ImageURL)
		require.NotNil(t, post.RecipeID)
		assert.Equal(t, uint(3), *post.RecipeID)
		assert.Equal(t, "🔖 Método: V60\n\n📝 Notas de cata:\nFloral y dulce\n\n⭐ Sabor: 5/5\n🍋 Acidez: 4/5", post.Content)
	})

	t.Run("rating unchanged without sabor", func(t *testing.T) {
		t.Parallel()
		f := newExtractionFixture()
		res, err := f.service().CompleteExtraction(ctx, testCaller, CompleteExtractionInput{RecipeID: 3, TastingNotes: "ok"})
		require.NoError(t, err)
		assert.Equal(t, 3, res.Recipe.Rating)
		assert.Nil(t, res.PostID)
		require.Len(t, f.recipeWrites, 1)
		assert.NotContains(t, f.recipeWrites[0], "rating")
		assert.Empty(t, f.debits)
		assert.Empty(t, f.posts)
	})

	t.Run("zero grams skips the debit", func(t *testing.T) {
		t.Parallel()
		f := newExtractionFixture()
		_, err := f.service().CompleteExtraction(ctx, testCaller, CompleteExtractionInput{RecipeID: 3, TastingNotes: "ok", BagID: ptr(uint(1))})
		require.NoError(t, err)
		assert.Empty(t, f.debits)
	})

	t.Run("failed debit leaves the recipe updated and publishes nothing", func(t *testing.T) {
		t.Parallel()
		f := newExtractionFixture()
		f.consumeErr = models.NewInsufficientStockError(500, 150)
		_, err := f.service().CompleteExtraction(ctx, testCaller, CompleteExtractionInput{
			RecipeID:        3,
			TastingNotes:    "Amargo",
			Scores:          SensoryScores{Sabor: ptr(2)},
			BagID:           ptr(uint(1)),
			GramsUsed:       500,
			PublishToSocial: true,
		})
		assertCode(t, err, models.CodeInsufficientStock)
		require.Len(t, f.recipeWrites, 1, "recipe update is not rolled back")
		assert.Equal(t, "Amargo", f.recipeWrites[0]["notes"])
		assert.Empty(t, f.posts)
	})

	t.Run("missing recipe writes nothing", func(t *testing.T) {
		t.Parallel()
		f := newExtractionFixture()
		_, err := f.service().CompleteExtraction(ctx, testCaller, CompleteExtractionInput{RecipeID: 9, TastingNotes: "ok", PublishToSocial: true})
		assertCode(t, err, models.CodeNotFound)
		assert.Empty(t, f.recipeWrites)
		assert.Empty(t, f.posts)
	})

	invalid := []struct {
		name string
		in   CompleteExtractionInput
	}{
		{"blank notes", CompleteExtractionInput{RecipeID: 3, TastingNotes: "   "}},
		{"notes too long", CompleteExtractionInput{RecipeID: 3, TastingNotes: strings.Repeat("é", 1001)}},
		{"score out of range", CompleteExtractionInput{RecipeID: 3, TastingNotes: "ok", Scores: SensoryScores{Aroma: ptr(6)}}},
		{"score zero", CompleteExtractionInput{RecipeID: 3, TastingNotes: "ok", Scores: SensoryScores{Cuerpo: ptr(0)}}},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newExtractionFixture()
			_, err := f.service().CompleteExtraction(ctx, testCaller, tt.in)
			assertValidationError(t, err)
			assert.Empty(t, f.recipeWrites)
		})
	}
}

func TestCompletionPostText(t *testing.T) {
	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"), goldie.WithNameSuffix(".golden"))

	tests := []struct {
		name   string
		scores SensoryScores
	}{
		{"all_scores", SensoryScores{Sabor: ptr(5), Aroma: ptr(4), Cuerpo: ptr(3), Acidez: ptr(2)}},
		{"no_scores", SensoryScores{}},
		{"without_acidez", SensoryScores{Sabor: ptr(4), Cuerpo: ptr(3)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := CompletionPostText("Chemex", "Notas a chocolate\ny naranja", tt.scores)
			g.Assert(t, "completion_post_"+tt.name, []byte(text))
		})
	}
}

func TestExtractionService_TastingHistory(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("debits before recording", func(t *testing.T) {
		t.Parallel()
		f := newExtractionFixture()
		svc := f.service()
		var saved *models.TastingRecord
		repo := noopTastingRepo()
		repo.createFn = func(_ context.Context, r *models.TastingRecord) error {
			assert.Equal(t, []float64{15}, f.debits, "debit happens first")
			saved = r
			return nil
		}
		svc.tastingRepo = repo

		rec, err := svc.RecordTastingHistory(ctx, 7, RecordTastingInput{
			MethodName:    "Aeropress",
			OverallRating: 88,
			Profile:       models.SensoryProfile{Acidity: 60, Sweetness: 70, Bitterness: 20},
			BagID:         ptr(uint(1)),
			GramsUsed:     15,
		})
		require.NoError(t, err)
		require.NotNil(t, saved)
		assert.Equal(t, uint(7), rec.UserID)
		assert.False(t, rec.TastedAt.IsZero())
	})

	t.Run("failed debit records nothing", func(t *testing.T) {
		t.Parallel()
		f := newExtractionFixture()
		f.consumeErr = models.NewForbiddenError("not yours")
		svc := f.service()
		repo := noopTastingRepo()
		repo.createFn = func(_ context.Context, _ *models.TastingRecord) error {
			t.Fatal("record must not be written")
			return nil
		}
		svc.tastingRepo = repo

		_, err := svc.RecordTastingHistory(ctx, 7, RecordTastingInput{MethodName: "Aeropress", BagID: ptr(uint(1)), GramsUsed: 15})
		assertCode(t, err, models.CodeForbidden)
	})

	for name, in := range map[string]RecordTastingInput{
		"missing method":   {OverallRating: 50},
		"rating above 100": {MethodName: "x", OverallRating: 101},
		"negative acidity": {MethodName: "x", Profile: models.SensoryProfile{Acidity: -1}},
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := newExtractionFixture().service().RecordTastingHistory(ctx, 7, in)
			assertValidationError(t, err)
		})
	}

	t.Run("delete hides foreign records", func(t *testing.T) {
		t.Parallel()
		svc := newExtractionFixture().service()
		repo := noopTastingRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.TastingRecord, error) {
			return &models.TastingRecord{ID: id, UserID: 8}, nil
		}
		repo.deleteFn = func(_ context.Context, _ uint) error {
			t.Fatal("foreign record must not be deleted")
			return nil
		}
		svc.tastingRepo = repo

		assertCode(t, svc.DeleteTastingHistory(ctx, 7, 1), models.CodeNotFound)
	})
}
