package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidUsername(t *testing.T) {
	tests := []struct {
		username string
		want     bool
	}{
		{"noorabayas", true},
		{"noor.abayas", true},
		{"noor_abayas-2", true},
		{"store123", true},
		{"", false},
		{"Noor", false},
		{"noor abayas", false},
		{"noor@abayas", false},
		{"نور", false},
	}

	for _, tt := range tests {
		t.Run(tt.username, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidUsername(tt.username))
		})
	}
}

func TestDeriveUsername(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  string
	}{
		{name: "Plain address", email: "noor@example.com", want: "noor"},
		{name: "Mixed case with separators", email: "Jane.Doe+test@Example.com", want: "janedoetest"},
		{name: "Digits survive", email: "store123@example.com", want: "store123"},
		{name: "No at sign", email: "plainname", want: "plainname"},
		{name: "Nothing usable", email: "+++@example.com", want: ""},
		{name: "Empty", email: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveUsername(tt.email))
		})
	}
}

func TestGenerateOrderReference(t *testing.T) {
	ref, err := GenerateOrderReference()
	assert.NoError(t, err)
	assert.Len(t, ref, 6)
	assert.Regexp(t, `^\d{6}$`, ref)
}
