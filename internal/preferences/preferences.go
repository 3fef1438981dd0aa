// Package preferences collects project customization answers before spec
// generation: auth setup, theming, layout, responsiveness, and data
// loading. Answers are serialized into the spec-generation request.
package preferences

import (
	"github.com/fyrsmithlabs/forge/internal/refine"
)

// Question is one preference prompt with fixed options.
type Question struct {
	Key      string
	Question string
	Options  []string
	Default  string
}

// Questions returns the fixed preference questionnaire in ask order.
func Questions() []Question {
	return []Question{
		{
			Key:      "auth_setup",
			Question: "How would you like to handle authentication?",
			Options: []string{
				"No authentication needed",
				"Email/Password only",
				"Social logins (Google, GitHub)",
				"Magic link authentication",
				"Full auth (Email + Social + Magic link)",
			},
			Default: "Email/Password only",
		},
		{
			Key:      "theme_style",
			Question: "What color theme would you prefer?",
			Options: []string{
				"Light mode only",
				"Dark mode only",
				"Light/Dark mode toggle",
				"System preference based",
			},
			Default: "Light/Dark mode toggle",
		},
		{
			Key:      "color_scheme",
			Question: "Choose a base color scheme:",
			Options: []string{
				"Blue (Professional)",
				"Green (Fresh/Natural)",
				"Purple (Creative)",
				"Orange (Energetic)",
				"Neutral (Minimal)",
				"Custom (You can modify later)",
			},
			Default: "Blue (Professional)",
		},
		{
			Key:      "layout_type",
			Question: "What type of layout would you prefer?",
			Options: []string{
				"Simple (Header + Content)",
				"Dashboard (Sidebar + Header)",
				"Landing Page Style",
				"Custom (Complex layout)",
			},
			Default: "Simple (Header + Content)",
		},
		{
			Key:      "responsive_priority",
			Question: "What's your responsive design priority?",
			Options: []string{
				"Mobile-first",
				"Desktop-first",
				"Tablet-focused",
				"Equal priority to all devices",
			},
			Default: "Mobile-first",
		},
		{
			Key:      "data_loading",
			Question: "How would you like to handle data loading?",
			Options: []string{
				"Static (Build-time)",
				"Server-side rendering",
				"Client-side fetching",
				"Incremental static regeneration",
			},
			Default: "Server-side rendering",
		},
	}
}

// stack holds the fixed technology choices every generated project uses.
var stack = map[string]any{
	"framework": "Next.js",
	"database":  "Supabase",
	"styling":   "Tailwind CSS",
	"ui":        "shadcn/ui",
}

// Ask walks the questionnaire through the prompter and returns the answer
// set, including the fixed stack keys, the derived shadcn component list,
// and the nested theme block.
func Ask(prompter refine.Prompter) (map[string]any, error) {
	answers := make(map[string]string, len(Questions()))
	for _, q := range Questions() {
		idx, err := prompter.Select(q.Question, q.Options)
		if err != nil {
			return nil, err
		}
		answers[q.Key] = q.Options[idx]
	}
	return build(answers), nil
}

// Defaults returns the all-default answer set, used for non-interactive
// runs.
func Defaults() map[string]any {
	answers := make(map[string]string, len(Questions()))
	for _, q := range Questions() {
		answers[q.Key] = q.Default
	}
	return build(answers)
}

// build assembles the final preference map from raw answers.
func build(answers map[string]string) map[string]any {
	prefs := make(map[string]any, len(stack)+len(answers))
	for k, v := range stack {
		prefs[k] = v
	}

	prefs["auth_setup"] = answers["auth_setup"]
	prefs["layout_type"] = answers["layout_type"]
	prefs["data_loading"] = answers["data_loading"]
	prefs["shadcn_components"] = componentsForLayout(answers["layout_type"])
	prefs["theme"] = map[string]any{
		"style":               answers["theme_style"],
		"color_scheme":        answers["color_scheme"],
		"responsive_priority": answers["responsive_priority"],
	}
	return prefs
}

// componentsForLayout maps the chosen layout to the shadcn/ui components
// the generator should install.
func componentsForLayout(layout string) any {
	switch layout {
	case "Simple (Header + Content)":
		return []string{"button", "form", "input", "card", "dialog", "dropdown-menu", "navigation-menu"}
	case "Dashboard (Sidebar + Header)":
		return []string{
			"button", "form", "input", "table", "card", "dialog",
			"command", "navigation-menu", "dropdown-menu", "tabs",
			"accordion", "sidebar",
		}
	case "Landing Page Style":
		return []string{
			"button", "card", "carousel", "navigation-menu", "dialog",
			"hover-card", "scroll-area", "tabs", "animation",
		}
	default:
		return "all"
	}
}
