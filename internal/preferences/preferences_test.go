package preferences

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// selectPrompter answers Select calls with scripted indexes.
type selectPrompter struct {
	choices []int
}

func (p *selectPrompter) Confirm(prompt string, def bool) (bool, error) {
	return def, nil
}

func (p *selectPrompter) Select(prompt string, options []string) (int, error) {
	if len(p.choices) == 0 {
		return 0, fmt.Errorf("unexpected select: %s", prompt)
	}
	v := p.choices[0]
	p.choices = p.choices[1:]
	return v, nil
}

func (p *selectPrompter) Input(prompt string) (string, error) {
	return "", fmt.Errorf("unexpected input: %s", prompt)
}

func TestDefaults(t *testing.T) {
	prefs := Defaults()

	assert.Equal(t, "Next.js", prefs["framework"])
	assert.Equal(t, "Supabase", prefs["database"])
	assert.Equal(t, "Tailwind CSS", prefs["styling"])
	assert.Equal(t, "shadcn/ui", prefs["ui"])
	assert.Equal(t, "Email/Password only", prefs["auth_setup"])
	assert.Equal(t, "Server-side rendering", prefs["data_loading"])

	theme, ok := prefs["theme"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Light/Dark mode toggle", theme["style"])
	assert.Equal(t, "Blue (Professional)", theme["color_scheme"])
	assert.Equal(t, "Mobile-first", theme["responsive_priority"])

	// Default layout is Simple; its component set applies.
	assert.Equal(t,
		[]string{"button", "form", "input", "card", "dialog", "dropdown-menu", "navigation-menu"},
		prefs["shadcn_components"])
}

func TestAskWalksAllQuestions(t *testing.T) {
	// Pick option 0 for every question.
	p := &selectPrompter{choices: []int{0, 0, 0, 0, 0, 0}}

	prefs, err := Ask(p)
	require.NoError(t, err)
	assert.Empty(t, p.choices, "every question asked exactly once")
	assert.Equal(t, "No authentication needed", prefs["auth_setup"])
	assert.Equal(t, "Simple (Header + Content)", prefs["layout_type"])
}

func TestComponentsForLayout(t *testing.T) {
	tests := []struct {
		layout string
		check  func(t *testing.T, got any)
	}{
		{"Dashboard (Sidebar + Header)", func(t *testing.T, got any) {
			assert.Contains(t, got, "sidebar")
			assert.Contains(t, got, "table")
		}},
		{"Landing Page Style", func(t *testing.T, got any) {
			assert.Contains(t, got, "carousel")
		}},
		{"Custom (Complex layout)", func(t *testing.T, got any) {
			assert.Equal(t, "all", got)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.layout, func(t *testing.T) {
			tt.check(t, componentsForLayout(tt.layout))
		})
	}
}
