package payu

import "context"

// TransitionNotifier receives applied payment transitions for best-effort
// propagation to downstream collaborators. Implementations must swallow
// their own failures; a sync or messaging outage never rolls back a
// transition.
type TransitionNotifier interface {
	NotifyTransition(ctx context.Context, result TransitionResult)
}

// NopNotifier discards transitions.
type NopNotifier struct{}

func (NopNotifier) NotifyTransition(context.Context, TransitionResult) {}
