package state

import "sync"

// Subscription delivers coalesced change notifications. A slow reader never
// blocks a writer: pending fields are merged until the reader catches up.
type Subscription struct {
	mask  Field
	store *Store
	ch    chan Field
	once  sync.Once
}

// Subscribe registers for changes to any field in mask. Call Close when
// done.
func (store *Store) Subscribe(mask Field) *Subscription {
	sub := &Subscription{mask: mask, store: store, ch: make(chan Field, 1)}
	store.mu.Lock()
	store.subs[sub] = struct{}{}
	store.mu.Unlock()
	return sub
}

// C receives the set of fields changed since the last receive.
func (sub *Subscription) C() <-chan Field { return sub.ch }

func (sub *Subscription) Close() {
	sub.once.Do(func() {
		sub.store.mu.Lock()
		delete(sub.store.subs, sub)
		sub.store.mu.Unlock()
	})
}

// notify runs with the store lock held, so it is the only sender.
func (sub *Subscription) notify(fields Field) {
	fields &= sub.mask
	if fields == 0 {
		return
	}
	for {
		select {
		case sub.ch <- fields:
			return
		default:
		}
		select {
		case pending := <-sub.ch:
			fields |= pending
		default:
		}
	}
}
