// Package events provides a minimal typed observer list used to keep engine
// subsystems (renderer, editor tooling) decoupled from the managers that own
// the data they watch.
package events

// SubscriptionID identifies one subscription within a single Event.
type SubscriptionID uint64

// Lifetime is a weak owner handle: subscriptions tagged with a Lifetime stop
// firing once End is called, and are pruned on the next Invoke.
type Lifetime struct {
	ended bool
}

func NewLifetime() *Lifetime {
	return &Lifetime{}
}

// End marks the owner as gone. It is idempotent.
func (l *Lifetime) End() {
	l.ended = true
}

func (l *Lifetime) Alive() bool {
	return l != nil && !l.ended
}

type entry[T any] struct {
	id      SubscriptionID
	cb      func(T)
	owner   *Lifetime
	removed bool
}

// Event is a list of callbacks invoked in subscription order.
//
// Subscribing or unsubscribing from inside a callback is allowed: the change
// is queued and applied once the outermost Invoke returns. Event is not safe
// for concurrent use.
type Event[T any] struct {
	entries  []*entry[T]
	pending  []*entry[T]
	nextID   SubscriptionID
	invoking int
}

// Subscribe registers cb and returns its subscription ID.
func (e *Event[T]) Subscribe(cb func(T)) SubscriptionID {
	return e.add(cb, nil)
}

// SubscribeOwned registers cb tied to owner; it is skipped and pruned once
// owner.Alive() reports false.
func (e *Event[T]) SubscribeOwned(owner *Lifetime, cb func(T)) SubscriptionID {
	return e.add(cb, owner)
}

func (e *Event[T]) add(cb func(T), owner *Lifetime) SubscriptionID {
	e.nextID++
	en := &entry[T]{id: e.nextID, cb: cb, owner: owner}
	if e.invoking > 0 {
		e.pending = append(e.pending, en)
	} else {
		e.entries = append(e.entries, en)
	}
	return en.id
}

// Unsubscribe removes the subscription with the given ID. Unknown IDs are ignored.
func (e *Event[T]) Unsubscribe(id SubscriptionID) {
	e.removeWhere(func(en *entry[T]) bool { return en.id == id })
}

// UnsubscribeOwner removes every subscription tagged with owner.
func (e *Event[T]) UnsubscribeOwner(owner *Lifetime) {
	if owner == nil {
		return
	}
	e.removeWhere(func(en *entry[T]) bool { return en.owner == owner })
}

func (e *Event[T]) removeWhere(match func(*entry[T]) bool) {
	for _, en := range e.entries {
		if match(en) {
			en.removed = true
		}
	}
	for _, en := range e.pending {
		if match(en) {
			en.removed = true
		}
	}
	if e.invoking == 0 {
		e.compact()
	}
}

// Invoke calls every live subscriber with payload.
func (e *Event[T]) Invoke(payload T) {
	e.invoking++
	// entries appended during the pass go to pending, so the slice header is stable
	for _, en := range e.entries {
		if en.removed {
			continue
		}
		if en.owner != nil && !en.owner.Alive() {
			en.removed = true
			continue
		}
		en.cb(payload)
	}
	e.invoking--
	if e.invoking == 0 {
		e.entries = append(e.entries, e.pending...)
		e.pending = nil
		e.compact()
	}
}

func (e *Event[T]) compact() {
	kept := e.entries[:0]
	for _, en := range e.entries {
		if !en.removed {
			kept = append(kept, en)
		}
	}
	for i := len(kept); i < len(e.entries); i++ {
		e.entries[i] = nil
	}
	e.entries = kept
}

// Len returns the number of subscriptions that have not been removed yet.
// Expired owners are only noticed by Invoke, so they still count until then.
func (e *Event[T]) Len() int {
	n := 0
	for _, en := range e.entries {
		if !en.removed {
			n++
		}
	}
	for _, en := range e.pending {
		if !en.removed {
			n++
		}
	}
	return n
}
