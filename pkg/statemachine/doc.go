// Package statemachine provides a small, generic finite state machine.
//
// States and events are any comparable types, typically string-based enums.
// Transitions are stored in a nested map keyed by source state and event.
// Each transition may carry guards, which must all pass for the transition to
// be taken, and actions, which run in order before the state changes. An action
// error aborts the transition and leaves the state untouched.
//
// The machine is safe for concurrent use. Guards and actions run while the
// machine is locked, so they must not call back into it. Hooks registered with
// OnTransition run after the lock is released.
//
// # Usage
//
//	type State string
//	type Event string
//
//	m := statemachine.New[State, Event, int]("draft",
//		statemachine.WithTransition[State, Event, int]("draft", "published", "publish",
//			statemachine.WithGuard(func(ctx context.Context, from State, e Event, words int) bool {
//				return words > 0
//			}),
//		),
//	)
//
//	if err := m.Fire(ctx, "publish", 120); err != nil {
//		// handle error
//	}
//
// # Errors
//
// Fire returns *ErrNoTransitionAvailable when the current state has no
// transition for the event, and *ErrTransitionRejected when every candidate
// was blocked by a guard. Use IsNoTransitionAvailableError and
// IsTransitionRejectedError to tell them apart. Action failures are wrapped
// and returned as is.
package statemachine
