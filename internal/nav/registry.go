package nav

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/l1jgo/navigator/internal/core/event"
	"github.com/l1jgo/navigator/internal/core/handle"
)

// DefaultScanInterval is how often Update scans when no interval is configured.
const DefaultScanInterval = 500 * time.Millisecond

var (
	// ErrReentrantScan is returned when a scan is requested while another scan
	// or strategy change on the same registry is still running, typically
	// from inside a subscriber.
	ErrReentrantScan = errors.New("nav: scan already in progress")
	ErrNilStrategy   = errors.New("nav: nil strategy")
)

// Registry is the incremental cache of navigable targets. Every scan diffs
// the provider's snapshot against the previous one, classifies new handles,
// folds them into groups, and notifies subscribers.
//
// All Removed events of one scan are delivered before any Added event.
// Subscribers run inline; a subscriber calling ForceScan or Update gets
// ErrReentrantScan, and EnableStrategy/DisableStrategy from a subscriber are
// queued until the running operation returns.
//
// Not safe for concurrent use. Accessed only from the tick goroutine.
type Registry struct {
	provider SnapshotProvider
	factory  Factory
	log      *zap.Logger

	interval time.Duration
	elapsed  time.Duration

	entries    map[handle.Handle]*entry
	groups     map[groupID]*Group
	strategies []Strategy
	seq        uint64

	feed     event.Feed[Event]
	busy     bool
	deferred []func()

	membershipEvents bool
	debugChecks      bool
}

// entry is the registry's record for one live handle. The entity is kept even
// while it is a group member; group is nil for a standalone entity.
type entry struct {
	entity *Entity
	group  *Group
	seq    uint64
}

func (en *entry) ref() Ref {
	if en.group != nil {
		return Ref{Group: en.group}
	}
	return Ref{Entity: en.entity}
}

type Option func(*Registry)

func WithLogger(log *zap.Logger) Option {
	return func(r *Registry) {
		if log != nil {
			r.log = log
		}
	}
}

func WithScanInterval(d time.Duration) Option {
	return func(r *Registry) {
		if d > 0 {
			r.interval = d
		}
	}
}

// WithMembershipEvents enables EventChanged for groups that grow or shrink.
func WithMembershipEvents() Option {
	return func(r *Registry) { r.membershipEvents = true }
}

// WithDebugChecks verifies the registry invariants after every public
// operation and reports violations through Logger.DPanic.
func WithDebugChecks() Option {
	return func(r *Registry) { r.debugChecks = true }
}

// WithStrategies enables the given strategies, in priority order.
func WithStrategies(ss ...Strategy) Option {
	return func(r *Registry) {
		for _, s := range ss {
			if s != nil && r.strategyIndex(s.Name()) < 0 {
				r.strategies = append(r.strategies, s)
			}
		}
	}
}

func New(provider SnapshotProvider, factory Factory, opts ...Option) *Registry {
	r := &Registry{
		provider: provider,
		factory:  factory,
		log:      zap.NewNop(),
		interval: DefaultScanInterval,
		entries:  make(map[handle.Handle]*entry, 256),
		groups:   make(map[groupID]*Group, 32),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Subscribe registers fn for every subsequent event. A panicking subscriber
// is logged and does not stop delivery to the others.
func (r *Registry) Subscribe(fn func(Event)) *event.Subscription[Event] {
	var sub *event.Subscription[Event]
	sub = r.feed.Subscribe(func(ev Event) {
		defer func() {
			if p := recover(); p != nil {
				r.log.Error("subscriber panicked",
					zap.String("subscription", sub.ID()),
					zap.Stringer("event", ev),
					zap.Any("panic", p),
				)
			}
		}()
		fn(ev)
	})
	return sub
}

// Update advances the scan timer and scans once the interval has elapsed.
func (r *Registry) Update(ctx context.Context, elapsed time.Duration) error {
	if r.busy {
		return ErrReentrantScan
	}
	r.elapsed += elapsed
	if r.elapsed < r.interval {
		return nil
	}
	return r.ForceScan(ctx)
}

// ForceScan reconciles the registry with the current snapshot immediately.
// A snapshot failure leaves the registry untouched.
func (r *Registry) ForceScan(ctx context.Context) error {
	if r.busy {
		return ErrReentrantScan
	}
	r.elapsed = 0
	var err error
	r.exclusive("scan", func() { err = r.scan(ctx) })
	return err
}

func (r *Registry) scan(ctx context.Context) error {
	snap, err := r.snapshot(ctx)
	if err != nil {
		r.log.Warn("snapshot failed", zap.Error(err))
		return fmt.Errorf("snapshot: %w", err)
	}

	live := make(map[handle.Handle]struct{}, len(snap))
	for _, h := range snap {
		live[h] = struct{}{}
	}

	var gone []*entry
	for h, en := range r.entries {
		if _, ok := live[h]; !ok {
			gone = append(gone, en)
		}
	}
	sort.Slice(gone, func(i, j int) bool { return gone[i].seq < gone[j].seq })
	for _, en := range gone {
		r.removeEntry(en)
	}

	tried := make(map[handle.Handle]struct{})
	added := 0
	for _, h := range snap {
		if _, ok := r.entries[h]; ok {
			continue
		}
		if _, ok := tried[h]; ok {
			continue
		}
		tried[h] = struct{}{}
		if r.addHandle(ctx, h) {
			added++
		}
	}

	if len(gone) > 0 || added > 0 {
		r.log.Debug("scan",
			zap.Int("removed", len(gone)),
			zap.Int("added", added),
			zap.Int("handles", len(r.entries)),
			zap.Int("groups", len(r.groups)),
		)
	}
	return nil
}

func (r *Registry) removeEntry(en *entry) {
	delete(r.entries, en.entity.Handle)
	g := en.group
	if g == nil {
		r.publish(EventRemoved, Ref{Entity: en.entity})
		return
	}
	g.remove(en.entity.Handle)
	if g.Len() == 0 {
		delete(r.groups, g.id())
		r.publish(EventRemoved, Ref{Group: g})
		return
	}
	// a shrinking group stays visible and is not announced
	if r.membershipEvents {
		r.publish(EventChanged, Ref{Group: g})
	}
}

func (r *Registry) addHandle(ctx context.Context, h handle.Handle) bool {
	e, err := r.classify(ctx, h)
	if err != nil {
		r.log.Warn("classify failed, skipping handle", zap.Stringer("handle", h), zap.Error(err))
		return false
	}
	if e == nil {
		return false
	}
	e.Handle = h

	r.seq++
	en := &entry{entity: e, seq: r.seq}
	r.entries[h] = en

	s, key := r.match(e)
	if s == nil {
		r.publish(EventAdded, Ref{Entity: e})
		return true
	}

	id := groupID{strategy: s.Name(), key: key}
	if g, ok := r.groups[id]; ok {
		g.add(e)
		en.group = g
		if r.membershipEvents {
			r.publish(EventChanged, Ref{Group: g})
		}
		return true
	}

	g := r.newGroup(s, key, e.Category)
	g.add(e)
	en.group = g
	r.groups[id] = g
	r.publish(EventAdded, Ref{Group: g})
	return true
}

// match returns the first enabled strategy producing a key for e.
func (r *Registry) match(e *Entity) (Strategy, string) {
	for _, s := range r.strategies {
		if key := r.groupKey(s, e); key != "" {
			return s, key
		}
	}
	return nil, ""
}

func (r *Registry) newGroup(s Strategy, key string, cat Category) *Group {
	r.seq++
	return &Group{key: key, category: cat, owner: s, seq: r.seq}
}

func (r *Registry) snapshot(ctx context.Context) (snap []handle.Handle, err error) {
	defer func() {
		if p := recover(); p != nil {
			snap, err = nil, fmt.Errorf("snapshot panicked: %v", p)
		}
	}()
	return r.provider.Snapshot(ctx)
}

func (r *Registry) classify(ctx context.Context, h handle.Handle) (e *Entity, err error) {
	defer func() {
		if p := recover(); p != nil {
			e, err = nil, fmt.Errorf("classify panicked: %v", p)
		}
	}()
	return r.factory.Classify(ctx, h)
}

// groupKey evaluates s for e; failures count as "no key".
func (r *Registry) groupKey(s Strategy, e *Entity) (key string) {
	defer func() {
		if p := recover(); p != nil {
			r.log.Warn("strategy panicked",
				zap.String("strategy", s.Name()),
				zap.Stringer("handle", e.Handle),
				zap.Any("panic", p),
			)
			key = ""
		}
	}()
	key, err := s.GroupKey(e)
	if err != nil {
		r.log.Warn("strategy failed",
			zap.String("strategy", s.Name()),
			zap.Stringer("handle", e.Handle),
			zap.Error(err),
		)
		return ""
	}
	return key
}

func (r *Registry) publish(kind EventKind, ref Ref) {
	r.feed.Publish(Event{Kind: kind, Ref: ref})
}

// exclusive runs fn with the registry marked busy, then drains strategy
// changes queued by subscribers, then checks invariants.
func (r *Registry) exclusive(op string, fn func()) {
	r.runBusy(fn)
	for len(r.deferred) > 0 {
		next := r.deferred[0]
		r.deferred = r.deferred[1:]
		r.runBusy(next)
	}
	r.check(op)
}

func (r *Registry) runBusy(fn func()) {
	r.busy = true
	defer func() { r.busy = false }()
	fn()
}

// sortedEntries returns entries in discovery order.
func (r *Registry) sortedEntries() []*entry {
	out := make([]*entry, 0, len(r.entries))
	for _, en := range r.entries {
		out = append(out, en)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].seq < out[j].seq })
	return out
}
