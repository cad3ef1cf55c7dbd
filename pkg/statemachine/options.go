package statemachine

import "fmt"

// Option configures a Machine during construction.
type Option[S, E comparable, D any] func(*Machine[S, E, D])

// TransitionOption attaches guards and actions to a transition.
type TransitionOption[S, E comparable, D any] func(*Transition[S, E, D])

// New creates a machine in the initial state.
func New[S, E comparable, D any](initial S, opts ...Option[S, E, D]) *Machine[S, E, D] {
	m := &Machine[S, E, D]{
		initial:     initial,
		current:     initial,
		transitions: make(map[S]map[E][]Transition[S, E, D]),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// WithTransition adds a transition from -> to on event.
func WithTransition[S, E comparable, D any](from, to S, event E, opts ...TransitionOption[S, E, D]) Option[S, E, D] {
	return func(m *Machine[S, E, D]) {
		t := Transition[S, E, D]{From: from, To: to, Event: event}
		for _, opt := range opts {
			opt(&t)
		}
		m.AddTransition(t)
	}
}

// WithTransitions adds every transition in order.
func WithTransitions[S, E comparable, D any](transitions ...Transition[S, E, D]) Option[S, E, D] {
	return func(m *Machine[S, E, D]) {
		for _, t := range transitions {
			m.AddTransition(t)
		}
	}
}

// FromAny adds the same event -> to transition for each listed state.
func FromAny[S, E comparable, D any](states []S, to S, event E, opts ...TransitionOption[S, E, D]) Option[S, E, D] {
	return func(m *Machine[S, E, D]) {
		for _, from := range states {
			WithTransition(from, to, event, opts...)(m)
		}
	}
}

// OnTransition registers a hook called after every successful transition.
func OnTransition[S, E comparable, D any](h Hook[S, E]) Option[S, E, D] {
	return func(m *Machine[S, E, D]) {
		if h != nil {
			m.hooks = append(m.hooks, h)
		}
	}
}

// WithGuard adds a guard to a transition. Nil guards are ignored.
func WithGuard[S, E comparable, D any](guard Guard[S, E, D]) TransitionOption[S, E, D] {
	return func(t *Transition[S, E, D]) {
		if guard != nil {
			t.Guards = append(t.Guards, guard)
		}
	}
}

// WithAction adds an action to a transition. Nil actions are ignored.
func WithAction[S, E comparable, D any](action Action[S, E, D]) TransitionOption[S, E, D] {
	return func(t *Transition[S, E, D]) {
		if action != nil {
			t.Actions = append(t.Actions, action)
		}
	}
}

func name(v any) string {
	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprint(v)
}
