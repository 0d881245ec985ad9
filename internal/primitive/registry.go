package primitive

import (
	"sort"
	"sync"

	"github.com/born-ml/jitconv/internal/conv"
	"github.com/born-ml/jitconv/internal/isa"
	"github.com/born-ml/jitconv/internal/kernel"
	"github.com/born-ml/jitconv/internal/memory"
	"github.com/born-ml/jitconv/internal/status"
	"github.com/born-ml/jitconv/internal/tensor"
)

// ConfBuilder is the kernel's configuration builder.
type ConfBuilder func(cd *conv.OperationDesc, src, weights, dst memory.Desc,
	withReLU bool, slope float32, host isa.ISA, target kernel.Target) (kernel.Config, error)

// Key identifies the strategies that can serve one kind of descriptor.
type Key struct {
	Alg      conv.AlgKind
	DataType tensor.DataType
	ISA      isa.ISA
}

// Strategy is one implementation: the instruction set it targets, the
// channel block its layouts use, and the kernel configuration builder that
// has the final say on feasibility.
type Strategy struct {
	Name     string
	Key      Key
	Block    int
	Priority int
	InitConf ConfBuilder
}

// Target returns the kernel target of the strategy.
func (s Strategy) Target() kernel.Target {
	return kernel.Target{ISA: s.Key.ISA, SIMDWidth: s.Block}
}

// Registry maps descriptor kinds to strategies.
type Registry struct {
	mu     sync.RWMutex
	byKey  map[Key]Strategy
	byName map[string]Strategy
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byKey:  make(map[Key]Strategy),
		byName: make(map[string]Strategy),
	}
}

// Global holds the built-in strategies.
var Global = NewRegistry()

// Register adds a strategy. Names and keys must be unique.
func (r *Registry) Register(s Strategy) error {
	if s.Name == "" || s.Block <= 0 || s.InitConf == nil {
		return status.InvalidArgument("strategy %q is incomplete", s.Name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.byName[s.Name]; dup {
		return status.InvalidArgument("strategy %q already registered", s.Name)
	}
	if prev, dup := r.byKey[s.Key]; dup {
		return status.InvalidArgument("strategy %q already serves the key of %q", prev.Name, s.Name)
	}
	r.byKey[s.Key] = s
	r.byName[s.Name] = s
	return nil
}

// Lookup returns the strategy registered for exactly key.
func (r *Registry) Lookup(key Key) (Strategy, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.byKey[key]
	return s, ok
}

// ByName returns the strategy registered under name.
func (r *Registry) ByName(name string) (Strategy, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.byName[name]
	return s, ok
}

// Candidates lists the strategies for alg and dt that a host at level host
// can run, highest priority first, then widest instruction set first.
func (r *Registry) Candidates(alg conv.AlgKind, dt tensor.DataType, host isa.ISA) []Strategy {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Strategy
	for key, s := range r.byKey {
		if key.Alg == alg && key.DataType == dt && isa.MayUse(host, key.ISA) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority > out[j].Priority
		}
		return out[i].Key.ISA > out[j].Key.ISA
	})
	return out
}

// strategyFor returns the named strategy, or the best candidate for the
// descriptor on host.
func (r *Registry) strategyFor(name string, alg conv.AlgKind, dt tensor.DataType, host isa.ISA) (Strategy, error) {
	if name != "" {
		s, ok := r.ByName(name)
		if !ok {
			return Strategy{}, status.Unimplemented("no strategy named %q", name)
		}
		return s, nil
	}
	cands := r.Candidates(alg, dt, host)
	if len(cands) == 0 {
		return Strategy{}, status.Unimplemented("no strategy for %s/%s on %s", alg, dt, host)
	}
	return cands[0], nil
}
