package cli

import (
	"testing"

	"github.com/Flyrell/evdash/internal/auth"
	"github.com/stretchr/testify/assert"
)

func TestColorHelpers(t *testing.T) {
	tests := []struct {
		name  string
		fn    func(string) string
		input string
	}{
		{"Primary", Primary, "hello"},
		{"Text", Text, "plain"},
		{"Error", Error, "something failed"},
		{"Warning", Warning, "be careful"},
		{"Info", Info, "note this"},
		{"Silent", Silent, "quiet text"},
		{"StatusBadge", StatusBadge, "on_hold"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.fn(tt.input)
			assert.NotEmpty(t, result)
			assert.Contains(t, result, tt.input)
		})
	}
}

func TestApplyTheme(t *testing.T) {
	t.Cleanup(func() { applyTheme(auth.ThemeLight) })

	applyTheme(auth.ThemeDark)
	assert.Equal(t, auth.ThemeDark, activeTheme)
	assert.Contains(t, Primary("x"), "x")

	applyTheme(auth.Theme("neon"))
	assert.Equal(t, auth.ThemeLight, activeTheme)
}
