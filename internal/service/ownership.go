// Package service implements the business operations of the brewing companion.
package service

import (
	"fmt"

	"brewhub/internal/models"
)

// EntityKind names an owned aggregate for ownership checks.
type EntityKind string

const (
	KindBag     EntityKind = "CoffeeBag"
	KindRecipe  EntityKind = "Recipe"
	KindTasting EntityKind = "TastingRecord"
	KindPost    EntityKind = "Post"
	KindComment EntityKind = "Comment"
)

// Owned is implemented by every aggregate that belongs to one user.
type Owned interface {
	OwnedBy(userID uint) bool
}

// assertOwner is the single ownership gate for all entity kinds. Each kind fails
// with its own error: Forbidden for bags and recipes, Conflict for posts and
// comments, and NotFound for tasting history so foreign records stay undisclosed.
func assertOwner(kind EntityKind, entity Owned, id, callerID uint) error {
	if entity.OwnedBy(callerID) {
		return nil
	}
	switch kind {
	case KindBag, KindRecipe:
		return models.NewForbiddenError(fmt.Sprintf("%s %d does not belong to you", kind, id))
	case KindPost, KindComment:
		return models.NewConflictError(fmt.Sprintf("only the author can delete %s %d", kind, id))
	default:
		return models.NewNotFoundError(string(kind), id)
	}
}
