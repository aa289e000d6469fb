package service

import (
	"testing"

	"brewhub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssertOwner(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		kind     EntityKind
		entity   Owned
		wantCode string
	}{
		{"bag", KindBag, &models.CoffeeBag{UserID: 1}, models.CodeForbidden},
		{"recipe", KindRecipe, &models.Recipe{Owner: models.UserOwner(1)}, models.CodeForbidden},
		{"system recipe", KindRecipe, &models.Recipe{Owner: models.SystemOwner()}, models.CodeForbidden},
		{"tasting", KindTasting, &models.TastingRecord{UserID: 1}, models.CodeNotFound},
		{"post", KindPost, &models.Post{UserID: 1}, models.CodeConflict},
		{"comment", KindComment, &models.Comment{UserID: 1}, models.CodeConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assertCode(t, assertOwner(tt.kind, tt.entity, 5, 2), tt.wantCode)
		})
	}

	t.Run("owner passes", func(t *testing.T) {
		t.Parallel()
		require.NoError(t, assertOwner(KindBag, &models.CoffeeBag{UserID: 2}, 5, 2))
		require.NoError(t, assertOwner(KindRecipe, &models.Recipe{Owner: models.UserOwner(2)}, 5, 2))
		assert.NoError(t, assertOwner(KindTasting, &models.TastingRecord{UserID: 2}, 5, 2))
	})
}
