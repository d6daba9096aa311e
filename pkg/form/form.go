package form

import (
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/mitchelllharris/formkit/pkg/validator"
)

// Form owns the mutable state of one form instance: values, errors, touched
// fields and the submitting flag. Every mutation goes through a pure
// transition that produces a new State, which is then published to subscribers.
//
// A Form is safe for concurrent use. It does not prevent overlapping submits;
// callers should consult Submitting before starting another one.
type Form struct {
	mu          sync.RWMutex
	initial     validator.Values
	rules       validator.Rules
	order       []string
	cfg         *config
	tr          transitions
	state       State
	subscribers []subscriber
	nextSubID   int
}

type subscriber struct {
	id int
	fn func(State)
}

// New creates a form from initial values and per-field validator chains.
func New(initial validator.Values, rules validator.Rules, opts ...Option) *Form {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if rules == nil {
		rules = validator.Rules{}
	}

	f := &Form{
		initial: deepCopyValues(initial),
		rules:   rules,
		order:   slices.Clone(cfg.order),
		cfg:     cfg,
	}
	f.tr = transitions{rules: rules, cfg: cfg, translate: cfg.translate}

	if cfg.restore != nil {
		f.state = cfg.restore.Clone()
		f.state.Submitting = false
		for name, value := range f.initial {
			if _, ok := f.state.Values[name]; !ok {
				f.state.Values[name] = value
			}
		}
	} else {
		f.state = initialState(f.initial)
	}

	if cfg.name != "" {
		cfg.logger = cfg.logger.With(slog.String("form", cfg.name))
	}
	return f
}

// State returns a snapshot of the current state.
func (f *Form) State() State {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.state.Clone()
}

// Values returns a copy of the current values.
func (f *Form) Values() validator.Values {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return cloneValues(f.state.Values)
}

// Value returns the current value of a field.
func (f *Form) Value(name string) any {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.state.Values[name]
}

// Errors returns a copy of the recorded errors, including untouched fields.
func (f *Form) Errors() map[string]string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return cloneMap(f.state.Errors)
}

// Error returns the recorded error of a field regardless of touched state.
func (f *Form) Error(name string) string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.state.Errors[name]
}

func (f *Form) Touched(name string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.state.Touched[name]
}

// Submitting reports whether a submit callback is in flight.
func (f *Form) Submitting() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.state.Submitting
}

// IsValid reports whether no error is recorded. See State.IsValid.
func (f *Form) IsValid() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.state.IsValid()
}

// Fields lists field names: the configured order first, then the rest lexically.
func (f *Form) Fields() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.fields()
}

func (f *Form) fields() []string {
	out := make([]string, 0, len(f.state.Values))
	for _, name := range f.order {
		if _, ok := f.state.Values[name]; ok && !slices.Contains(out, name) {
			out = append(out, name)
		}
	}
	rest := slices.Sorted(maps.Keys(f.state.Values))
	for _, name := range rest {
		if !slices.Contains(out, name) {
			out = append(out, name)
		}
	}
	return out
}

// FirstInvalid returns the first field, in field order, with a recorded error.
func (f *Form) FirstInvalid() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.firstInvalid()
}

func (f *Form) firstInvalid() string {
	for _, name := range f.fields() {
		if f.state.Errors[name] != "" {
			return name
		}
	}
	// errors set on fields without a value
	for _, name := range slices.Sorted(maps.Keys(f.state.Errors)) {
		if f.state.Errors[name] != "" {
			return name
		}
	}
	return ""
}

// Change applies a user edit to a field.
func (f *Form) Change(name string, value any) {
	f.apply(func(s State) State { return f.tr.change(s, name, value) })
}

// Blur marks a field as touched and validates it when configured to.
func (f *Form) Blur(name string) {
	f.apply(func(s State) State { return f.tr.blur(s, name) })
}

// SetValue overrides a value without triggering validation. Use it for
// composite inputs whose edits are not plain change events.
func (f *Form) SetValue(name string, value any) {
	f.apply(func(s State) State { return f.tr.setValue(s, name, value) })
}

// SetError overrides the recorded error of a field. An empty message clears it.
func (f *Form) SetError(name, message string) {
	f.apply(func(s State) State { return f.tr.setError(s, name, message) })
}

// ValidateAllFields validates every field with rules, replaces the recorded
// errors with the result and reports whether it was clean.
func (f *Form) ValidateAllFields() bool {
	var clean bool
	f.apply(func(s State) State {
		next, errs := f.tr.validateAll(s)
		clean = len(errs) == 0
		return next
	})
	return clean
}

// Reset restores the initial values and clears errors, touched fields and
// the submitting flag.
func (f *Form) Reset() {
	f.apply(func(State) State { return initialState(f.initial) })
	f.cfg.logger.Debug("form reset")
}

// Subscribe registers fn to receive every new state. The returned function
// removes the subscription.
func (f *Form) Subscribe(fn func(State)) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}

	f.mu.Lock()
	id := f.nextSubID
	f.nextSubID++
	f.subscribers = append(f.subscribers, subscriber{id: id, fn: fn})
	f.mu.Unlock()

	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.subscribers = slices.DeleteFunc(f.subscribers, func(s subscriber) bool { return s.id == id })
	}
}

// apply runs a transition under the lock and notifies subscribers outside it.
func (f *Form) apply(transition func(State) State) State {
	f.mu.Lock()
	f.state = transition(f.state)
	snapshot := f.state.Clone()
	subs := slices.Clone(f.subscribers)
	f.mu.Unlock()

	for _, s := range subs {
		s.fn(snapshot)
	}
	return snapshot
}

// Name returns the label set with WithName.
func (f *Form) Name() string {
	return f.cfg.name
}
