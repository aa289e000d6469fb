package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"brewhub/internal/models"
	"brewhub/internal/observability"
	"brewhub/internal/repository"
)

// InventoryService owns the coffee-bag ledger.
type InventoryService struct {
	bagRepo repository.CoffeeBagRepository
	logger  *observability.ServiceLogger
}

type CreateBagInput struct {
	OwnerID         uint
	Name            string
	Origin          string
	Roaster         string
	Varietal        string
	Notes           string
	GrindSuggestion string
	InitialWeight   float64
	RemainingWeight *float64
}

// UpdateBagInput carries the fields to change; nil means "leave as is".
type UpdateBagInput struct {
	BagID           uint
	CallerID        uint
	Name            *string
	Origin          *string
	Roaster         *string
	Varietal        *string
	Notes           *string
	GrindSuggestion *string
	InitialWeight   *float64
	RemainingWeight *float64
}

func NewInventoryService(bagRepo repository.CoffeeBagRepository) *InventoryService {
	return &InventoryService{
		bagRepo: bagRepo,
		logger:  observability.NewServiceLogger("inventory"),
	}
}

func checkLen(field, value string, maxLen int) error {
	if utf8.RuneCountInString(value) > maxLen {
		return models.NewValidationError(fmt.Sprintf("%s too long (max %d characters)", field, maxLen))
	}
	return nil
}

func validateBagText(name, origin, roaster, varietal, notes, grind string) error {
	checks := []struct {
		field string
		value string
		max   int
	}{
		{"name", name, models.BagNameMaxLen},
		{"origin", origin, models.BagDetailMaxLen},
		{"roaster", roaster, models.BagDetailMaxLen},
		{"varietal", varietal, models.BagDetailMaxLen},
		{"notes", notes, models.BagNotesMaxLen},
		{"grind_suggestion", grind, models.BagGrindMaxLen},
	}
	for _, c := range checks {
		if err := checkLen(c.field, c.value, c.max); err != nil {
			return err
		}
	}
	return nil
}

func (s *InventoryService) Create(ctx context.Context, in CreateBagInput) (*models.CoffeeBag, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, models.NewValidationError("name is required")
	}
	initial := models.RoundGrams(in.InitialWeight)
	if initial <= 0 {
		return nil, models.NewValidationError("initial_weight must be greater than zero")
	}
	if err := validateBagText(name, in.Origin, in.Roaster, in.Varietal, in.Notes, in.GrindSuggestion); err != nil {
		return nil, err
	}

	remaining := initial
	if in.RemainingWeight != nil {
		remaining = models.RoundGrams(*in.RemainingWeight)
		if remaining < 0 || remaining > initial {
			return nil, models.NewValidationError("remaining_weight must be between 0 and initial_weight")
		}
	}

	bag := &models.CoffeeBag{
		UserID:          in.OwnerID,
		Name:            name,
		Origin:          in.Origin,
		Roaster:         in.Roaster,
		Varietal:        in.Varietal,
		Notes:           in.Notes,
		GrindSuggestion: in.GrindSuggestion,
		InitialWeight:   initial,
		RemainingWeight: remaining,
	}
	if err := s.bagRepo.Create(ctx, bag); err != nil {
		return nil, err
	}
	return bag, nil
}

// Get returns a bag the caller owns.
func (s *InventoryService) Get(ctx context.Context, bagID, callerID uint) (*models.CoffeeBag, error) {
	bag, err := s.bagRepo.GetByID(ctx, bagID)
	if err != nil {
		return nil, err
	}
	if err := assertOwner(KindBag, bag, bagID, callerID); err != nil {
		return nil, err
	}
	return bag, nil
}

func (s *InventoryService) ListByOwner(ctx context.Context, ownerID uint) ([]models.CoffeeBag, error) {
	return s.bagRepo.ListByOwner(ctx, ownerID)
}

func (s *InventoryService) Update(ctx context.Context, in UpdateBagInput) (*models.CoffeeBag, error) {
	bag, err := s.Get(ctx, in.BagID, in.CallerID)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	setText := func(column string, v *string) {
		if v != nil {
			fields[column] = strings.TrimSpace(*v)
		}
	}
	setText("name", in.Name)
	setText("origin", in.Origin)
	setText("roaster", in.Roaster)
	setText("varietal", in.Varietal)
	setText("notes", in.Notes)
	setText("grind_suggestion", in.GrindSuggestion)

	if in.Name != nil && fields["name"] == "" {
		return nil, models.NewValidationError("name cannot be empty")
	}
	str := func(column string, fallback string) string {
		if v, ok := fields[column].(string); ok {
			return v
		}
		return fallback
	}
	if err := validateBagText(
		str("name", bag.Name), str("origin", bag.Origin), str("roaster", bag.Roaster),
		str("varietal", bag.Varietal), str("notes", bag.Notes), str("grind_suggestion", bag.GrindSuggestion),
	); err != nil {
		return nil, err
	}

	if in.InitialWeight != nil && models.RoundGrams(*in.InitialWeight) != bag.InitialWeight {
		return nil, models.NewValidationError("initial_weight cannot be changed")
	}
	if in.RemainingWeight != nil {
		remaining := models.RoundGrams(*in.RemainingWeight)
		if remaining < 0 || remaining > bag.InitialWeight {
			return nil, models.NewValidationError("remaining_weight must be between 0 and initial_weight")
		}
		fields["remaining_weight"] = remaining
	}

	if len(fields) == 0 {
		return nil, models.NewValidationError("no fields to update")
	}
	return s.bagRepo.Update(ctx, bag.ID, fields)
}

func (s *InventoryService) Delete(ctx context.Context, bagID, callerID uint) error {
	if _, err := s.Get(ctx, bagID, callerID); err != nil {
		return err
	}
	return s.bagRepo.Delete(ctx, bagID)
}

// Consume debits grams from a bag the caller owns. The balance change itself is a
// single conditional update in storage, so concurrent debits cannot overdraw.
func (s *InventoryService) Consume(ctx context.Context, bagID uint, grams float64, callerID uint) (bag *models.CoffeeBag, err error) {
	defer func() {
		observability.RecordConsumption(consumptionOutcome(err), grams)
	}()

	if _, err = s.Get(ctx, bagID, callerID); err != nil {
		return nil, err
	}
	if grams <= 0 {
		return nil, models.NewValidationError("grams must be greater than zero")
	}

	bag, err = s.bagRepo.Debit(ctx, bagID, grams)
	if err != nil {
		s.logger.Failure(ctx, "bag_consume", err, observability.Fields{"bag_id": bagID, "grams": grams})
		return nil, err
	}
	s.logger.Event(ctx, "bag_consume", observability.Fields{
		"bag_id":    bagID,
		"grams":     grams,
		"remaining": bag.RemainingWeight,
	})
	return bag, nil
}

func consumptionOutcome(err error) string {
	switch models.ErrorCode(err) {
	case "":
		if err != nil {
			return observability.OutcomeError
		}
		return observability.OutcomeSuccess
	case models.CodeNotFound:
		return observability.OutcomeNotFound
	case models.CodeForbidden:
		return observability.OutcomeForbidden
	case models.CodeInsufficientStock:
		return observability.OutcomeInsufficientStock
	case models.CodeValidation:
		return observability.OutcomeInvalid
	default:
		return observability.OutcomeError
	}
}
