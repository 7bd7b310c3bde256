package bracket

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Spring Cup", "spring-cup"},
		{"accents", "Coupe d'Été #3", "coupe-d-ete-3"},
		{"trims dashes", "  --Night Owls!!  ", "night-owls"},
		{"collapses runs", "a   b___c", "a-b-c"},
		{"empty falls back", "!!!", "tournament"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}

func TestNewSlug(t *testing.T) {
	a := NewSlug("Spring Cup")
	b := NewSlug("Spring Cup")

	assert.True(t, strings.HasPrefix(a, "spring-cup-"))
	assert.Len(t, a, len("spring-cup-")+8)
	assert.NotEqual(t, a, b)
}
