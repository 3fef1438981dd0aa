package refine

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/fyrsmithlabs/forge/internal/spec"
)

// DefaultMaxAttempts bounds the number of add/remove modifications per run.
const DefaultMaxAttempts = 3

// Enhancer rewrites one feature description to be more specific. Satisfied
// by intent.Service.
type Enhancer interface {
	Enhance(ctx context.Context, feature string) (string, error)
}

// Refiner walks the operator through reviewing and modifying the extracted
// feature list.
type Refiner struct {
	prompter    Prompter
	enhancer    Enhancer
	out         io.Writer
	maxAttempts int
}

// NewRefiner creates a refiner. enhancer may be nil to disable AI
// enhancement offers. maxAttempts <= 0 uses DefaultMaxAttempts.
func NewRefiner(prompter Prompter, enhancer Enhancer, out io.Writer, maxAttempts int) *Refiner {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Refiner{prompter: prompter, enhancer: enhancer, out: out, maxAttempts: maxAttempts}
}

// Run iterates until the operator declines further modification, selects
// done, or the attempt bound is reached. Each add or remove counts one
// attempt; the loop runs at most maxAttempts+1 iterations.
func (r *Refiner) Run(ctx context.Context, in spec.Intent) (spec.Intent, error) {
	out := in
	out.Features = append([]string(nil), in.Features...)

	attempts := 0
	for attempts < r.maxAttempts {
		if err := ctx.Err(); err != nil {
			return out, err
		}

		r.printFeatures("Current features:", out.Features)

		proceed, err := r.prompter.Confirm("Would you like to modify these features?", false)
		if err != nil {
			return out, err
		}
		if !proceed {
			break
		}

		choice, err := r.prompter.Select("Options:", []string{
			"Add a feature",
			"Remove a feature",
			"Done modifying",
		})
		if err != nil {
			return out, err
		}

		switch choice {
		case 0:
			feature, err := r.addFeature(ctx)
			if err != nil {
				return out, err
			}
			if feature == "" {
				continue
			}
			out.Features = append(out.Features, feature)
		case 1:
			if len(out.Features) == 0 {
				fmt.Fprintln(r.out, noteStyle.Render("No features to remove"))
				continue
			}
			idx, err := r.removeIndex(len(out.Features))
			if err != nil {
				return out, err
			}
			out.Features = append(out.Features[:idx], out.Features[idx+1:]...)
		default:
			return out, nil
		}

		attempts++
		r.printFeatures("Updated features:", out.Features)
	}

	return out, nil
}

// addFeature prompts for new feature text and optionally runs it through
// the enhancer. Enhancement failures are reported and the raw text kept.
func (r *Refiner) addFeature(ctx context.Context) (string, error) {
	feature, err := r.prompter.Input("Enter new feature:")
	if err != nil {
		return "", err
	}
	if feature == "" {
		fmt.Fprintln(r.out, noteStyle.Render("Empty feature ignored"))
		return "", nil
	}
	if r.enhancer == nil {
		return feature, nil
	}

	wantAI, err := r.prompter.Confirm("Would you like AI to validate and enhance this feature?", true)
	if err != nil {
		return "", err
	}
	if !wantAI {
		return feature, nil
	}

	enhanced, err := r.enhancer.Enhance(ctx, feature)
	if err != nil {
		fmt.Fprintf(r.out, "%s\n", noteStyle.Render("Error validating feature: "+err.Error()))
		return feature, nil
	}
	if enhanced == feature {
		return feature, nil
	}

	useEnhanced, err := r.prompter.Confirm("Would you like to use the enhanced version: "+enhanced+"?", true)
	if err != nil {
		return "", err
	}
	if useEnhanced {
		return enhanced, nil
	}
	return feature, nil
}

// removeIndex asks for a 1-based index within [1, n] and returns it
// 0-based.
func (r *Refiner) removeIndex(n int) (int, error) {
	options := make([]string, n)
	for i := range options {
		options[i] = strconv.Itoa(i + 1)
	}
	idx, err := r.prompter.Select("Enter number of feature to remove", options)
	if err != nil {
		return 0, err
	}
	return idx, nil
}

func (r *Refiner) printFeatures(title string, features []string) {
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, promptStyle.Render(title))
	for i, f := range features {
		fmt.Fprintf(r.out, "%d. %s\n", i+1, f)
	}
}
