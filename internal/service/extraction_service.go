package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"brewhub/internal/models"
	"brewhub/internal/observability"
	"brewhub/internal/repository"
)

const (
	maxTastingNotesLen = 1000
	workflowName       = "extraction"
)

// Steps of the completion workflow, used as span and metric labels.
const (
	StepRecipeLookup = "recipe_lookup"
	StepRecipeUpdate = "recipe_update"
	StepConsumeBag   = "consume_bag"
	StepPublishPost  = "publish_post"
	StepDone         = "done"
)

// RecipeCompleter is the part of the recipe store the workflow writes to.
type RecipeCompleter interface {
	Get(ctx context.Context, id uint) (*models.Recipe, error)
	ApplyCompletion(ctx context.Context, id uint, notes string, rating *int) (*models.Recipe, error)
}

// BagConsumer debits inventory on behalf of a caller.
type BagConsumer interface {
	Consume(ctx context.Context, bagID uint, grams float64, callerID uint) (*models.CoffeeBag, error)
}

// PostPublisher creates social posts.
type PostPublisher interface {
	CreatePost(ctx context.Context, author models.PostAuthor, content, imageURL string, recipeID *uint) (*models.Post, error)
}

// ExtractionService runs the brew completion workflow and owns tasting history.
type ExtractionService struct {
	recipes     RecipeCompleter
	bags        BagConsumer
	posts       PostPublisher
	tastingRepo repository.TastingRepository
	logger      *observability.ServiceLogger
}

// Caller is the authenticated identity completing a brew.
type Caller struct {
	ID    uint
	Name  string
	Email string
}

// SensoryScores are the optional 1-5 scores of a completed brew.
type SensoryScores struct {
	Sabor  *int
	Aroma  *int
	Cuerpo *int
	Acidez *int
}

type CompleteExtractionInput struct {
	RecipeID        uint
	TastingNotes    string
	Scores          SensoryScores
	ImageURL        string
	BagID           *uint
	GramsUsed       float64
	PublishToSocial bool
}

// CompletionResult is the updated recipe and, when published, the new post id.
type CompletionResult struct {
	Recipe *models.Recipe `json:"recipe"`
	PostID *uint          `json:"post_id,omitempty"`
}

type RecordTastingInput struct {
	MethodName    string
	OverallRating int
	Profile       models.SensoryProfile
	Notes         string
	BagID         *uint
	GramsUsed     float64
}

func NewExtractionService(
	recipes RecipeCompleter,
	bags BagConsumer,
	posts PostPublisher,
	tastingRepo repository.TastingRepository,
) *ExtractionService {
	return &ExtractionService{
		recipes:     recipes,
		bags:        bags,
		posts:       posts,
		tastingRepo: tastingRepo,
		logger:      observability.NewServiceLogger("extraction"),
	}
}

func (s SensoryScores) validate() error {
	for _, sc := range []struct {
		name  string
		value *int
	}{{"sabor", s.Sabor}, {"aroma", s.Aroma}, {"cuerpo", s.Cuerpo}, {"acidez", s.Acidez}} {
		if sc.value != nil && (*sc.value < 1 || *sc.value > 5) {
			return models.NewValidationError(sc.name + " must be between 1 and 5")
		}
	}
	return nil
}

// CompleteExtraction applies a finished brew. Each step is its own durable write:
// when a later step fails the earlier ones stay applied and the error is returned.
func (s *ExtractionService) CompleteExtraction(ctx context.Context, caller Caller, in CompleteExtractionInput) (*CompletionResult, error) {
	notes := strings.TrimSpace(in.TastingNotes)
	if notes == "" {
		return nil, models.NewValidationError("tasting_notes is required")
	}
	if utf8.RuneCountInString(notes) > maxTastingNotesLen {
		return nil, models.NewValidationError("tasting_notes too long (max 1000 characters)")
	}
	if err := in.Scores.validate(); err != nil {
		return nil, err
	}
	if in.GramsUsed < 0 {
		return nil, models.NewValidationError("grams_used cannot be negative")
	}

	recipe, err := runStep(ctx, s.logger, StepRecipeLookup, func(ctx context.Context) (*models.Recipe, error) {
		return s.recipes.Get(ctx, in.RecipeID)
	})
	if err != nil {
		return nil, err
	}

	recipe, err = runStep(ctx, s.logger, StepRecipeUpdate, func(ctx context.Context) (*models.Recipe, error) {
		return s.recipes.ApplyCompletion(ctx, recipe.ID, notes, in.Scores.Sabor)
	})
	if err != nil {
		return nil, err
	}

	if in.BagID != nil && in.GramsUsed > 0 {
		_, err = runStep(ctx, s.logger, StepConsumeBag, func(ctx context.Context) (*models.CoffeeBag, error) {
			return s.bags.Consume(ctx, *in.BagID, in.GramsUsed, caller.ID)
		})
		if err != nil {
			return nil, err
		}
	}

	result := &CompletionResult{Recipe: recipe}
	if in.PublishToSocial {
		author := models.PostAuthor{ID: caller.ID, Name: caller.Name, Email: caller.Email}
		recipeID := recipe.ID
		post, err := runStep(ctx, s.logger, StepPublishPost, func(ctx context.Context) (*models.Post, error) {
			return s.posts.CreatePost(ctx, author, CompletionPostText(recipe.Name, notes, in.Scores), in.ImageURL, &recipeID)
		})
		if err != nil {
			return nil, err
		}
		result.PostID = &post.ID
	}

	observability.RecordCompletion(StepDone, observability.OutcomeSuccess)
	s.logger.Event(ctx, "extraction_completed", observability.Fields{
		"recipe_id": recipe.ID,
		"user_id":   caller.ID,
		"published": result.PostID != nil,
	})
	return result, nil
}

// runStep runs one workflow step inside its own span and records failures.
func runStep[T any](ctx context.Context, logger *observability.ServiceLogger, name string, fn func(context.Context) (T, error)) (T, error) {
	ctx, span := observability.StartStep(ctx, workflowName, name)
	out, err := fn(ctx)
	observability.EndSpan(span, err)
	if err != nil {
		observability.RecordCompletion(name, consumptionOutcome(err))
		logger.Failure(ctx, "extraction_step", err, observability.Fields{"step": name})
	}
	return out, err
}

// CompletionPostText composes the body of the post published for a brew.
func CompletionPostText(recipeName, notes string, scores SensoryScores) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🔖 Método: %s\n\n📝 Notas de cata:\n%s\n\n", recipeName, notes)
	if scores.Sabor != nil {
		fmt.Fprintf(&b, "⭐ Sabor: %d/5\n", *scores.Sabor)
	}
	if scores.Aroma != nil {
		fmt.Fprintf(&b, "🌸 Aroma: %d/5\n", *scores.Aroma)
	}
	if scores.Cuerpo != nil {
		fmt.Fprintf(&b, "💪 Cuerpo: %d/5\n", *scores.Cuerpo)
	}
	// The acidity line closes the post and carries no trailing newline.
	if scores.Acidez != nil {
		fmt.Fprintf(&b, "🍋 Acidez: %d/5", *scores.Acidez)
	}
	return b.String()
}

func validatePercent(field string, v int) error {
	if v < 0 || v > 100 {
		return models.NewValidationError(field + " must be between 0 and 100")
	}
	return nil
}

// RecordTastingHistory appends a tasting to the caller's history. An optional
// debit runs first; if it fails nothing is recorded. It never publishes.
func (s *ExtractionService) RecordTastingHistory(ctx context.Context, userID uint, in RecordTastingInput) (*models.TastingRecord, error) {
	method := strings.TrimSpace(in.MethodName)
	if method == "" {
		return nil, models.NewValidationError("method_name is required")
	}
	for _, p := range []struct {
		field string
		value int
	}{
		{"overall_rating", in.OverallRating},
		{"acidity", in.Profile.Acidity},
		{"sweetness", in.Profile.Sweetness},
		{"bitterness", in.Profile.Bitterness},
	} {
		if err := validatePercent(p.field, p.value); err != nil {
			return nil, err
		}
	}
	if utf8.RuneCountInString(in.Notes) > maxTastingNotesLen {
		return nil, models.NewValidationError("notes too long (max 1000 characters)")
	}

	if in.BagID != nil && in.GramsUsed > 0 {
		if _, err := s.bags.Consume(ctx, *in.BagID, in.GramsUsed, userID); err != nil {
			return nil, err
		}
	}

	record := &models.TastingRecord{
		UserID:        userID,
		MethodName:    method,
		OverallRating: in.OverallRating,
		Profile:       in.Profile,
		Notes:         in.Notes,
		TastedAt:      time.Now(),
	}
	if err := s.tastingRepo.Create(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *ExtractionService) ListTastingHistory(ctx context.Context, userID uint, limit, offset int) ([]models.TastingRecord, error) {
	return s.tastingRepo.ListByUser(ctx, userID, limit, offset)
}

// DeleteTastingHistory removes one of the caller's records. Records of other
// users are reported as missing.
func (s *ExtractionService) DeleteTastingHistory(ctx context.Context, userID, id uint) error {
	record, err := s.tastingRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := assertOwner(KindTasting, record, id, userID); err != nil {
		return err
	}
	return s.tastingRepo.Delete(ctx, id)
}
