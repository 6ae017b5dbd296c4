package registry

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/ashkettle/formula"
)

// NotFoundError reports evaluation of an id with no registered formula.
type NotFoundError struct {
	// ID is the formula id that was requested.
	ID string
}

func (err *NotFoundError) Error() string {
	return "formula '" + err.ID + "' not registered"
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger for registration and reload events. The
// default is slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) { r.logger = logger }
}

// WithRandom sets the random source bound into every formula the registry
// parses.
func WithRandom(rng formula.RandomSource) Option {
	return func(r *Registry) { r.rng = rng }
}

// WithMetrics sets the metrics sink for parse and evaluation counters.
func WithMetrics(m *Metrics) Option {
	return func(r *Registry) { r.metrics = m }
}

// Registry is a concurrent-safe collection of compiled formulas keyed by
// string id. Registering an id that already exists replaces the previous
// formula.
type Registry struct {
	mu       sync.RWMutex
	formulas map[string]*formula.Formula

	logger  *slog.Logger
	rng     formula.RandomSource
	metrics *Metrics

	// pool holds binding maps reused across Evaluate calls.
	pool sync.Pool
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		formulas: make(map[string]*formula.Formula),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.pool.New = func() any { return make(map[string]float64) }
	return r
}

// Register parses src and stores the result under id, replacing any
// previous formula with that id. The source is not stored on failure.
func (r *Registry) Register(id, src string) error {
	var opts []formula.ParseOption
	if r.rng != nil {
		opts = append(opts, formula.WithRandom(r.rng))
	}
	f, err := formula.Parse(src, opts...)
	if r.metrics != nil {
		r.metrics.recordParse(err)
	}
	if err != nil {
		r.logger.Error("formula rejected", "id", id, "error", err)
		return err
	}
	r.mu.Lock()
	r.formulas[id] = f
	r.mu.Unlock()
	r.logger.Debug("formula registered", "id", id, "inputs", f.Inputs())
	return nil
}

// Lookup returns the formula registered under id.
func (r *Registry) Lookup(id string) (*formula.Formula, bool) {
	r.mu.RLock()
	f, ok := r.formulas[id]
	r.mu.RUnlock()
	return f, ok
}

// Remove deletes the formula registered under id and reports whether it
// existed.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	_, ok := r.formulas[id]
	delete(r.formulas, id)
	r.mu.Unlock()
	return ok
}

// Clear removes every registered formula.
func (r *Registry) Clear() {
	r.mu.Lock()
	clear(r.formulas)
	r.mu.Unlock()
}

// Len returns the number of registered formulas.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.formulas)
}

// IDs returns the registered ids in sorted order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	ids := make([]string, 0, len(r.formulas))
	for id := range r.formulas {
		ids = append(ids, id)
	}
	r.mu.RUnlock()
	sort.Strings(ids)
	return ids
}

// Evaluate runs the formula registered under id with the given inputs. The
// inputs map is not modified; bindings are staged in a pooled scratch map.
// Evaluating an unknown id returns a *NotFoundError.
func (r *Registry) Evaluate(id string, inputs map[string]float64) (float64, error) {
	f, ok := r.Lookup(id)
	if !ok {
		return 0, &NotFoundError{ID: id}
	}
	bindings := r.pool.Get().(map[string]float64)
	for k, v := range inputs {
		bindings[k] = v
	}
	start := time.Now()
	v, err := f.Evaluate(bindings)
	if r.metrics != nil {
		r.metrics.recordEval(id, time.Since(start), err)
	}
	clear(bindings)
	r.pool.Put(bindings)
	if err != nil {
		return 0, err
	}
	return v, nil
}

// Sources returns a snapshot of the registered formulas as id to source
// text, the shape the codec and store round-trip.
func (r *Registry) Sources() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]string, len(r.formulas))
	for id, f := range r.formulas {
		out[id] = f.Source()
	}
	return out
}
