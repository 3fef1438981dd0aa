package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Call records one request made against a Fake client.
type Call struct {
	Kind   string // "json" or "text"
	System string
	User   string
}

// Fake is a scripted Client for tests. Responses are consumed in order;
// errors can be injected at any position. The zero value returns
// ErrEmptyResponse for every call.
type Fake struct {
	mu        sync.Mutex
	responses []fakeResponse
	calls     []Call
}

type fakeResponse struct {
	text string
	err  error
}

// NewFake creates a Fake that replies with the given responses in order.
func NewFake(responses ...string) *Fake {
	f := &Fake{}
	for _, r := range responses {
		f.responses = append(f.responses, fakeResponse{text: r})
	}
	return f
}

// QueueResponse appends a scripted response.
func (f *Fake) QueueResponse(text string) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses = append(f.responses, fakeResponse{text: text})
	return f
}

// QueueError appends a scripted failure.
func (f *Fake) QueueError(err error) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses = append(f.responses, fakeResponse{err: err})
	return f
}

// Calls returns the requests made so far.
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Call, len(f.calls))
	copy(out, f.calls)
	return out
}

func (f *Fake) Name() string { return "fake" }
func (f *Fake) Close() error { return nil }

func (f *Fake) GenerateJSON(ctx context.Context, system, user string) (json.RawMessage, error) {
	text, err := f.next(ctx, "json", system, user)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(text), nil
}

func (f *Fake) GenerateText(ctx context.Context, system, user string) (string, error) {
	return f.next(ctx, "text", system, user)
}

func (f *Fake) next(ctx context.Context, kind, system, user string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, Call{Kind: kind, System: system, User: user})

	if len(f.responses) == 0 {
		return "", fmt.Errorf("fake llm call %d: %w", len(f.calls), ErrEmptyResponse)
	}
	resp := f.responses[0]
	f.responses = f.responses[1:]

	if resp.err != nil {
		return "", resp.err
	}
	return stripFences(resp.text), nil
}

var _ Client = (*Fake)(nil)
