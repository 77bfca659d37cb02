package events

import (
	"context"
	"sync"

	"github.com/desertthunder/habsync/internal/models"
)

// Kind enumerates the task events the hub can carry.
type Kind int

const (
	KindHabits Kind = iota
	KindDailies
	KindTodos
)

// Kinds returns every known event kind.
func Kinds() []Kind {
	return []Kind{KindHabits, KindDailies, KindTodos}
}

func (k Kind) String() string {
	switch k {
	case KindHabits:
		return "habits"
	case KindDailies:
		return "dailies"
	case KindTodos:
		return "todos"
	default:
		return ""
	}
}

// kindFor maps a category to its event kind. Rewards and completed todos
// have no event and report ok=false; emitByCategory skips them silently.
func kindFor(c models.Category) (Kind, bool) {
	switch c {
	case models.CategoryHabit:
		return KindHabits, true
	case models.CategoryDaily:
		return KindDailies, true
	case models.CategoryTodo:
		return KindTodos, true
	case models.CategoryReward, models.CategoryCompleted:
		return 0, false
	default:
		return 0, false
	}
}

// Group names a consumer class whose listeners can be suspended as a unit.
type Group int

const (
	GroupPanel Group = iota // live display surface
	GroupNotes              // file-sync path
)

func (g Group) String() string {
	switch g {
	case GroupPanel:
		return "panel"
	case GroupNotes:
		return "notes"
	default:
		return ""
	}
}

// Listener receives the tasks relevant to an event. A non-nil error aborts
// the rest of the emit batch and propagates to the emitter's caller.
type Listener func(tasks []models.Task) error

// Subscription is the membership handle returned by Subscribe. Go functions
// are not comparable, so the handle, not the function, identifies the entry.
type Subscription struct {
	kind  Kind
	group Group
	fn    Listener
}

type registryKey struct {
	kind  Kind
	group Group
}

// Hub is a typed publish/subscribe registry keyed by (event kind, group).
//
// Emission is synchronous and unordered across listeners. The registry
// mutex guards membership only; listeners run outside the lock.
type Hub struct {
	mu       sync.Mutex
	registry map[registryKey]map[*Subscription]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{registry: make(map[registryKey]map[*Subscription]struct{})}
}

// Subscribe registers fn for the given event kind and group and returns its
// membership handle.
func (h *Hub) Subscribe(kind Kind, group Group, fn Listener) *Subscription {
	sub := &Subscription{kind: kind, group: group, fn: fn}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.add(sub)
	return sub
}

// Unsubscribe removes a subscription. Removing an absent or already-removed
// subscription is a no-op.
func (h *Hub) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.remove(sub)
}

func (h *Hub) add(sub *Subscription) {
	key := registryKey{kind: sub.kind, group: sub.group}
	set, ok := h.registry[key]
	if !ok {
		set = make(map[*Subscription]struct{})
		h.registry[key] = set
	}
	set[sub] = struct{}{}
}

func (h *Hub) remove(sub *Subscription) {
	key := registryKey{kind: sub.kind, group: sub.group}
	if set, ok := h.registry[key]; ok {
		delete(set, sub)
	}
}

// Emit synchronously invokes every listener registered for kind across all
// groups, in unspecified order. The first listener error aborts the batch;
// there is no isolation between listeners.
func (h *Hub) Emit(kind Kind, tasks []models.Task) error {
	h.mu.Lock()
	var listeners []Listener
	for _, group := range []Group{GroupPanel, GroupNotes} {
		for sub := range h.registry[registryKey{kind: kind, group: group}] {
			listeners = append(listeners, sub.fn)
		}
	}
	h.mu.Unlock()

	for _, fn := range listeners {
		if err := fn(tasks); err != nil {
			return err
		}
	}
	return nil
}

// EmitByCategory partitions tasks by category and emits one event per
// distinct category present. Categories without an event kind are skipped.
func (h *Hub) EmitByCategory(tasks []models.Task) error {
	buckets := make(map[Kind][]models.Task)
	for _, task := range tasks {
		if kind, ok := kindFor(task.Category); ok {
			buckets[kind] = append(buckets[kind], task)
		}
	}

	for _, kind := range Kinds() {
		if batch, ok := buckets[kind]; ok {
			if err := h.Emit(kind, batch); err != nil {
				return err
			}
		}
	}
	return nil
}

// RunSuspended runs fn with the group's current listeners for kind detached,
// then restores exactly the snapshot it took. Listeners subscribed while fn
// runs were never part of the snapshot and simply stay registered.
func (h *Hub) RunSuspended(ctx context.Context, kind Kind, group Group, fn func(context.Context) error) error {
	snapshot := h.suspend([]registryKey{{kind: kind, group: group}})
	defer h.resume(snapshot)
	return fn(ctx)
}

// RunAllSuspended runs fn with the entire group silenced across every event
// kind simultaneously.
func (h *Hub) RunAllSuspended(ctx context.Context, group Group, fn func(context.Context) error) error {
	keys := make([]registryKey, 0, len(Kinds()))
	for _, kind := range Kinds() {
		keys = append(keys, registryKey{kind: kind, group: group})
	}
	snapshot := h.suspend(keys)
	defer h.resume(snapshot)
	return fn(ctx)
}

func (h *Hub) suspend(keys []registryKey) []*Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()

	var snapshot []*Subscription
	for _, key := range keys {
		for sub := range h.registry[key] {
			snapshot = append(snapshot, sub)
			delete(h.registry[key], sub)
		}
	}
	return snapshot
}

func (h *Hub) resume(snapshot []*Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, sub := range snapshot {
		h.add(sub)
	}
}
