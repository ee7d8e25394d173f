// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package chartval

// SubscriptionId identifies a single subscription for Unsubscribe.
type SubscriptionId uint64

type listener[T any] struct {
	id         SubscriptionId
	callback   func(T)
	owner      any
	singleshot bool
}

// Delegate is a callback registry.
// Owners need to be comparable (usually a pointer), they are used by UnsubscribeAll.
type Delegate[T any] struct {
	listeners []listener[T]
	nextId    SubscriptionId
}

func (d *Delegate[T]) Subscribe(callback func(T), owner any, singleshot bool) SubscriptionId {
	d.nextId++
	d.listeners = append(d.listeners, listener[T]{
		id:         d.nextId,
		callback:   callback,
		owner:      owner,
		singleshot: singleshot,
	})
	return d.nextId
}

func (d *Delegate[T]) Unsubscribe(id SubscriptionId) {
	for i := range d.listeners {
		if d.listeners[i].id == id {
			d.listeners = append(d.listeners[:i], d.listeners[i+1:]...)
			return
		}
	}
}

func (d *Delegate[T]) UnsubscribeAll(owner any) {
	if owner == nil {
		return
	}
	kept := d.listeners[:0]
	for _, l := range d.listeners {
		if l.owner != owner {
			kept = append(kept, l)
		}
	}
	// Release references held by removed entries.
	for i := len(kept); i < len(d.listeners); i++ {
		d.listeners[i] = listener[T]{}
	}
	d.listeners = kept
}

// Fire calls all listeners with v. Single shot listeners are removed before being called,
// listeners subscribed during Fire are not called.
func (d *Delegate[T]) Fire(v T) {
	snapshot := make([]listener[T], len(d.listeners))
	copy(snapshot, d.listeners)
	kept := d.listeners[:0]
	for _, l := range d.listeners {
		if !l.singleshot {
			kept = append(kept, l)
		}
	}
	for i := len(kept); i < len(d.listeners); i++ {
		d.listeners[i] = listener[T]{}
	}
	d.listeners = kept
	for _, l := range snapshot {
		l.callback(v)
	}
}

func (d *Delegate[T]) HasListeners() bool {
	return len(d.listeners) > 0
}

func (d *Delegate[T]) Destroy() {
	d.listeners = nil
}
