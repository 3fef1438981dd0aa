package agent

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// FakeCall records one call against a Fake agent.
type FakeCall struct {
	Method      string // "execute", "plan", or "edit"
	Instruction string
	Path        string
	Content     string
}

// Fake is a scripted Agent for tests. Execute and Plan responses are
// consumed in order from their own queues; EditFile succeeds unless an
// edit error is armed.
type Fake struct {
	mu        sync.Mutex
	sessionID string
	results   []fakeResult
	plans     []fakePlan
	editErr   error
	calls     []FakeCall
}

type fakeResult struct {
	text string
	err  error
}

type fakePlan struct {
	plan *EditPlan
	err  error
}

// NewFake creates a Fake agent with a generated session ID.
func NewFake() *Fake {
	return &Fake{sessionID: uuid.NewString()}
}

// QueueResult scripts the next Execute reply.
func (f *Fake) QueueResult(text string) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results = append(f.results, fakeResult{text: text})
	return f
}

// QueueResultError scripts the next Execute failure.
func (f *Fake) QueueResultError(err error) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results = append(f.results, fakeResult{err: err})
	return f
}

// QueuePlan scripts the next Plan reply.
func (f *Fake) QueuePlan(plan *EditPlan) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.plans = append(f.plans, fakePlan{plan: plan})
	return f
}

// QueuePlanError scripts the next Plan failure.
func (f *Fake) QueuePlanError(err error) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.plans = append(f.plans, fakePlan{err: err})
	return f
}

// FailEdits makes every subsequent EditFile return err.
func (f *Fake) FailEdits(err error) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.editErr = err
	return f
}

// Calls returns the calls made so far, in order.
func (f *Fake) Calls() []FakeCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]FakeCall, len(f.calls))
	copy(out, f.calls)
	return out
}

// Methods returns just the method names of the calls made so far.
func (f *Fake) Methods() []string {
	calls := f.Calls()
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.Method
	}
	return out
}

func (f *Fake) SessionID() string { return f.sessionID }
func (f *Fake) Close() error      { return nil }

func (f *Fake) Execute(ctx context.Context, instruction string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, FakeCall{Method: "execute", Instruction: instruction})

	if len(f.results) == 0 {
		return "", fmt.Errorf("fake agent: no scripted result for call %d", len(f.calls))
	}
	r := f.results[0]
	f.results = f.results[1:]
	return r.text, r.err
}

func (f *Fake) Plan(ctx context.Context, instruction string) (*EditPlan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, FakeCall{Method: "plan", Instruction: instruction})

	if len(f.plans) == 0 {
		return &EditPlan{}, nil
	}
	p := f.plans[0]
	f.plans = f.plans[1:]
	if p.err != nil {
		return nil, p.err
	}
	return p.plan, nil
}

func (f *Fake) EditFile(ctx context.Context, path, content string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, FakeCall{Method: "edit", Path: path, Content: content})
	return f.editErr
}

var _ Agent = (*Fake)(nil)
