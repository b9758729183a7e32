package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeStatus(t *testing.T) {
	cases := map[string]string{
		"":              "wishlist",
		"   ":           "wishlist",
		"wishlist":      "wishlist",
		"Playing":       "playing",
		"  PLAYED  ":    "played",
		"backlogged":    "backlogged",
		"on hold":       "on-hold",
		"on_hold":       "on-hold",
		"!!!":           "wishlist",
		"-leading-":     "leading",
		"Couch Co-Op 2": "couch-co-op-2",
	}
	for input, want := range cases {
		assert.Equal(t, want, NormalizeStatus(input), "input %q", input)
	}
}

func TestStatusName(t *testing.T) {
	assert.Equal(t, "Backlogged", StatusName("backlogged"))
	assert.Equal(t, "Wishlist", StatusName("wishlist"))
	assert.Equal(t, "", StatusName(""))
}

func TestValidateRating(t *testing.T) {
	valid := func(v float64) *float64 { return &v }

	assert.NoError(t, ValidateRating(nil))
	assert.NoError(t, ValidateRating(valid(1)))
	assert.NoError(t, ValidateRating(valid(10)))
	assert.NoError(t, ValidateRating(valid(7.5)))
	assert.ErrorIs(t, ValidateRating(valid(0.5)), ErrInvalidRating)
	assert.ErrorIs(t, ValidateRating(valid(10.5)), ErrInvalidRating)
	assert.ErrorIs(t, ValidateRating(valid(-1)), ErrInvalidRating)
}
