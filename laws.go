package kmeans1d

import (
	"fmt"
	"math"
	"slices"
	"sync"
	"time"
)

// Algebraic laws a reduction must satisfy so that the order in which worker
// partials are combined does not change the logical result.
const (
	LawAssociative = "Associative"
	LawCommutative = "Commutative"
	LawIdentity    = "Identity"
)

// Partial is one worker's contribution to a single cluster.
type Partial struct {
	Sum   float64
	Count int
}

// MergePartial combines two partials. It is the reduction used by Update.
func MergePartial(a, b Partial) Partial {
	return Partial{Sum: a.Sum + b.Sum, Count: a.Count + b.Count}
}

// Mean returns Sum/Count, or NaN for an empty partial.
func (p Partial) Mean() float64 {
	if p.Count == 0 {
		return math.NaN()
	}
	return p.Sum / float64(p.Count)
}

// sumSSE is the reduction used by Assign for per-worker squared error.
func sumSSE(a, b float64) float64 { return a + b }

// LawReport lists which laws held over the checked samples.
type LawReport struct {
	Associative bool
	Commutative bool
	Identity    bool
	Failures    []string
}

// Laws returns the names of the laws that held.
func (r LawReport) Laws() []string {
	var laws []string
	if r.Associative {
		laws = append(laws, LawAssociative)
	}
	if r.Commutative {
		laws = append(laws, LawCommutative)
	}
	if r.Identity {
		laws = append(laws, LawIdentity)
	}
	return laws
}

// OK reports whether every law held.
func (r LawReport) OK() bool {
	return r.Associative && r.Commutative && r.Identity
}

// CheckLaws tests merge for associativity and commutativity over every
// pair and triple of samples, and zero as its identity element.
func CheckLaws[T any](merge func(a, b T) T, zero T, samples []T, eq func(a, b T) bool) LawReport {
	r := LawReport{Associative: true, Commutative: true, Identity: true}

	for i, a := range samples {
		if !eq(merge(zero, a), a) || !eq(merge(a, zero), a) {
			r.Identity = false
			r.Failures = append(r.Failures, fmt.Sprintf("identity: sample %d", i))
		}
		for j, b := range samples {
			if !eq(merge(a, b), merge(b, a)) {
				r.Commutative = false
				r.Failures = append(r.Failures, fmt.Sprintf("commutative: samples %d,%d", i, j))
			}
			for k, c := range samples {
				if !eq(merge(merge(a, b), c), merge(a, merge(b, c))) {
					r.Associative = false
					r.Failures = append(r.Failures, fmt.Sprintf("associative: samples %d,%d,%d", i, j, k))
				}
			}
		}
	}
	return r
}

// LawVerified records a reduction that passed CheckLaws.
type LawVerified struct {
	Name       string    // Reduction name, e.g. "MergePartial"
	Laws       []string  // Laws that held
	VerifiedAt time.Time // When the check ran
	Samples    int       // Number of samples checked
}

// LawRegistry holds verified reductions by name.
type LawRegistry struct {
	mu       sync.RWMutex
	verified map[string]LawVerified
}

// NewLawRegistry creates an empty registry.
func NewLawRegistry() *LawRegistry {
	return &LawRegistry{verified: make(map[string]LawVerified)}
}

// Register records v, replacing any earlier entry with the same name.
func (r *LawRegistry) Register(v LawVerified) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.verified[v.Name] = v
}

// IsVerified returns the entry for name.
func (r *LawRegistry) IsVerified(name string) (LawVerified, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.verified[name]
	return v, ok
}

// Require returns an error unless name is registered with all of laws.
func (r *LawRegistry) Require(name string, laws ...string) error {
	v, ok := r.IsVerified(name)
	if !ok {
		return fmt.Errorf("reduction %s not in verified registry", name)
	}
	for _, law := range laws {
		if !slices.Contains(v.Laws, law) {
			return fmt.Errorf("reduction %s missing required law: %s (has: %v)", name, law, v.Laws)
		}
	}
	return nil
}

// VerifyAndRegister runs CheckLaws and registers merge under name with the
// laws that held. The report is returned either way.
func VerifyAndRegister[T any](r *LawRegistry, name string, merge func(a, b T) T, zero T, samples []T, eq func(a, b T) bool) LawReport {
	report := CheckLaws(merge, zero, samples, eq)
	r.Register(LawVerified{
		Name:       name,
		Laws:       report.Laws(),
		VerifiedAt: time.Now(),
		Samples:    len(samples),
	})
	return report
}

// Names of the reductions the engine uses.
const (
	ReductionPartial = "MergePartial"
	ReductionSSE     = "SumSSE"
)

var defaultLaws = NewLawRegistry()

func init() {
	registerReductions(defaultLaws)
}

func registerReductions(r *LawRegistry) {
	values := []float64{0, 1, -2.5, 3.75, 1e6, 1e-6, 42}

	VerifyAndRegister(r, ReductionSSE, sumSSE, 0, values, approxEqual)

	partials := make([]Partial, 0, len(values))
	for i, v := range values {
		partials = append(partials, Partial{Sum: v, Count: i})
	}
	VerifyAndRegister(r, ReductionPartial, MergePartial, Partial{}, partials, func(a, b Partial) bool {
		return a.Count == b.Count && approxEqual(a.Sum, b.Sum)
	})
}

// RequireLaws checks the package registry that holds the engine's own
// reductions.
func RequireLaws(name string, laws ...string) error {
	return defaultLaws.Require(name, laws...)
}

// approxEqual compares with a relative tolerance that absorbs float
// rounding from reordered additions.
func approxEqual(a, b float64) bool {
	if a == b {
		return true
	}
	return math.Abs(a-b) <= 1e-12*math.Max(math.Abs(a), math.Abs(b))
}
