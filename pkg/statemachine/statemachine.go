package statemachine

import (
	"context"
	"fmt"
	"sync"
)

// Action runs during a transition, before the state changes. Returning an error
// aborts the transition. Actions run with the machine locked and must not call
// back into it.
type Action[S, E comparable, D any] func(ctx context.Context, from, to S, event E, data D) error

// Guard decides at fire time whether a transition may be taken.
type Guard[S, E comparable, D any] func(ctx context.Context, from S, event E, data D) bool

// Hook observes a completed transition. Hooks run after the lock is released.
type Hook[S, E comparable] func(from, to S, event E)

// Transition defines a state change triggered by an event.
type Transition[S, E comparable, D any] struct {
	From    S
	To      S
	Event   E
	Guards  []Guard[S, E, D]  // all must pass
	Actions []Action[S, E, D] // executed in order before the state changes
}

// Machine is a thread-safe finite state machine over comparable state and event
// types, such as string-based enums. D is the payload passed to guards and actions.
type Machine[S, E comparable, D any] struct {
	mu          sync.Mutex
	initial     S
	current     S
	transitions map[S]map[E][]Transition[S, E, D]
	hooks       []Hook[S, E]
}

// AddTransition registers a transition. Several transitions may share a state and
// event; the first whose guards pass wins, in registration order.
func (m *Machine[S, E, D]) AddTransition(t Transition[S, E, D]) {
	m.mu.Lock()
	defer m.mu.Unlock()

	byEvent, ok := m.transitions[t.From]
	if !ok {
		byEvent = make(map[E][]Transition[S, E, D])
		m.transitions[t.From] = byEvent
	}
	byEvent[t.Event] = append(byEvent[t.Event], t)
}

// Current returns the current state.
func (m *Machine[S, E, D]) Current() S {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Fire applies event to the current state.
func (m *Machine[S, E, D]) Fire(ctx context.Context, event E, data D) error {
	m.mu.Lock()

	from := m.current
	t, err := m.match(ctx, event, data)
	if err != nil {
		m.mu.Unlock()
		return err
	}

	for _, action := range t.Actions {
		if err := action(ctx, from, t.To, event, data); err != nil {
			m.mu.Unlock()
			return fmt.Errorf("action failed: %w", err)
		}
	}

	m.current = t.To
	hooks := m.hooks
	m.mu.Unlock()

	for _, h := range hooks {
		h(from, t.To, event)
	}
	return nil
}

// CanFire reports whether Fire would find a transition whose guards pass.
// Actions are not run.
func (m *Machine[S, E, D]) CanFire(ctx context.Context, event E, data D) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, err := m.match(ctx, event, data)
	return err == nil
}

// Events lists the events registered for the current state, ignoring guards.
func (m *Machine[S, E, D]) Events() []E {
	m.mu.Lock()
	defer m.mu.Unlock()

	events := make([]E, 0, len(m.transitions[m.current]))
	for e := range m.transitions[m.current] {
		events = append(events, e)
	}
	return events
}

// Reset returns the machine to its initial state without running actions or hooks.
func (m *Machine[S, E, D]) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = m.initial
}

// match must be called with the lock held.
func (m *Machine[S, E, D]) match(ctx context.Context, event E, data D) (*Transition[S, E, D], error) {
	candidates := m.transitions[m.current][event]
	if len(candidates) == 0 {
		return nil, NewErrNoTransitionAvailable(m.current, event)
	}

	for i := range candidates {
		t := &candidates[i]
		passed := true
		for _, guard := range t.Guards {
			if !guard(ctx, m.current, event, data) {
				passed = false
				break
			}
		}
		if passed {
			return t, nil
		}
	}
	return nil, NewErrTransitionRejected(m.current, event)
}
