package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Name  string `json:"name" validate:"required,min=2,max=50"`
	Email string `json:"email" validate:"required,email"`
	Color string `json:"color" validate:"notecolor"`
}

func TestValidateStructReportsEveryField(t *testing.T) {
	errs := ValidateStruct(signup{Name: "a", Email: "nope", Color: "red"})
	require.Len(t, errs, 3)

	byField := map[string]string{}
	for _, e := range errs {
		byField[e.Field] = e.Message
	}
	assert.Equal(t, "name must be at least 2 characters", byField["name"])
	assert.Equal(t, "Please provide a valid email address", byField["email"])
	assert.Equal(t, "Color must be a valid hex code", byField["color"])
}

func TestValidateStructPasses(t *testing.T) {
	assert.Nil(t, ValidateStruct(signup{Name: "Alice", Email: "a@x.io", Color: "#A1b2C3"}))
}

func TestNoteColorRule(t *testing.T) {
	tests := []struct {
		color string
		valid bool
	}{
		{"#ffffff", true},
		{"#FFAA00", true},
		{"#fff", false},
		{"ffffff", false},
		{"#gggggg", false},
		{"#ffffff ", false},
	}
	for _, tt := range tests {
		t.Run(tt.color, func(t *testing.T) {
			errs := ValidateStruct(signup{Name: "Al", Email: "a@x.io", Color: tt.color})
			assert.Equal(t, tt.valid, errs == nil, "errors: %v", errs)
		})
	}
}

func TestMaxMessages(t *testing.T) {
	type body struct {
		Title string   `json:"title" validate:"max=3"`
		Tags  []string `json:"tags" validate:"max=1"`
	}
	errs := ValidateStruct(body{Title: strings.Repeat("x", 4), Tags: []string{"a", "b"}})
	require.Len(t, errs, 2)
	assert.Equal(t, "title cannot exceed 3 characters", errs[0].Message)
	assert.Equal(t, "tags cannot have more than 1 items", errs[1].Message)
}

func TestNestedFieldPath(t *testing.T) {
	type body struct {
		Tags []string `json:"tags" validate:"dive,max=2"`
	}
	errs := ValidateStruct(body{Tags: []string{"ok", "toolong"}})
	require.Len(t, errs, 1)
	assert.Equal(t, "tags[1]", errs[0].Field)
}

func TestMaxBytesCountsEncodedLength(t *testing.T) {
	type body struct {
		Password string `json:"password" validate:"max=72,maxbytes=72"`
	}

	assert.Nil(t, ValidateStruct(body{Password: strings.Repeat("x", 72)}))
	assert.Nil(t, ValidateStruct(body{Password: strings.Repeat("€", 24)}))

	// 25 runes but 75 bytes.
	errs := ValidateStruct(body{Password: strings.Repeat("€", 25)})
	require.Len(t, errs, 1)
	assert.Equal(t, "password", errs[0].Field)
	assert.Equal(t, "password cannot exceed 72 bytes", errs[0].Message)
}
