// Package optimistic provides the apply/attempt/revert combinator behind
// every mutating bag and favorite operation: mutate local state first so
// callers observe the change immediately, then confirm with the remote,
// and undo exactly the applied delta when the remote rejects it.
package optimistic

import "context"

// Update describes one optimistic mutation.
//
// Apply runs synchronously before Attempt is issued. Revert must undo
// exactly what Apply did, nothing more; it runs only when Attempt fails.
// Attempt may be nil, in which case the local mutation is final (the
// anonymous-user path).
type Update struct {
	Apply   func()
	Attempt func(ctx context.Context) error
	Revert  func()
}

// Do executes the update. The returned error is Attempt's error verbatim;
// translation into a domain error is the caller's job.
func Do(ctx context.Context, u Update) error {
	if u.Apply != nil {
		u.Apply()
	}
	if u.Attempt == nil {
		return nil
	}
	if err := u.Attempt(ctx); err != nil {
		if u.Revert != nil {
			u.Revert()
		}
		return err
	}
	return nil
}
