package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateRatio(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		ratio string
		ok    bool
	}{
		{name: "pour over", ratio: "1:16", ok: true},
		{name: "espresso", ratio: "1:2", ok: true},
		{name: "decimal", ratio: "1:2.5", ok: true},
		{name: "spaces", ratio: " 1 : 15 ", ok: true},
		{name: "empty", ratio: "", ok: false},
		{name: "missing water", ratio: "1:", ok: false},
		{name: "words", ratio: "one to sixteen", ok: false},
		{name: "zero coffee", ratio: "0:16", ok: false},
		{name: "negative", ratio: "-1:16", ok: false},
		{name: "slash", ratio: "1/16", ok: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateRatio(tc.ratio)
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidateDisplayName(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateDisplayName("Ana Barista"))
	assert.NoError(t, ValidateDisplayName("Ñandú Café"))
	assert.NoError(t, ValidateDisplayName(strings.Repeat("é", MaxDisplayNameLen)))
	assert.Error(t, ValidateDisplayName(""))
	assert.Error(t, ValidateDisplayName(strings.Repeat("a", MaxDisplayNameLen+1)))
	assert.Error(t, ValidateDisplayName("tab\there"))
}
