package dataset

import (
	"fmt"
	"math/rand/v2"
	"slices"
)

// Preset describes a synthetic dataset: N points split evenly across
// Gaussian clusters centred on Means.
type Preset struct {
	Name   string
	N      int
	Means  []float64
	StdDev float64
}

// K returns the number of clusters.
func (p Preset) K() int { return len(p.Means) }

var presets = map[string]Preset{
	"small": {
		Name:   "small",
		N:      10_000,
		Means:  []float64{10, 30, 60, 90},
		StdDev: 2.5,
	},
	"medium": {
		Name:   "medium",
		N:      100_000,
		Means:  []float64{5, 15, 25, 35, 55, 65, 75, 85},
		StdDev: 2.0,
	},
	"large": {
		Name:   "large",
		N:      1_000_000,
		Means:  []float64{5, 10, 15, 20, 25, 30, 35, 40, 60, 65, 70, 75, 80, 85, 90, 95},
		StdDev: 1.5,
	},
}

var presetAliases = map[string]string{
	"pequeno": "small",
	"medio":   "medium",
	"grande":  "large",
}

// PresetNames returns the preset names in ascending size.
func PresetNames() []string {
	return []string{"small", "medium", "large"}
}

// LookupPreset returns a copy of the named preset.
func LookupPreset(name string) (Preset, error) {
	if alias, ok := presetAliases[name]; ok {
		name = alias
	}
	p, ok := presets[name]
	if !ok {
		return Preset{}, fmt.Errorf("dataset: unknown preset %q (want one of %v)", name, PresetNames())
	}
	p.Means = slices.Clone(p.Means)
	return p, nil
}

// Dataset is a generated input pair.
type Dataset struct {
	Points    []float64
	Centroids []float64
}

// Generate draws N/K points per cluster, shuffles them and uses the
// cluster means as initial centroids. The output depends only on p and seed.
func Generate(p Preset, seed uint64) (Dataset, error) {
	k := p.K()
	if k == 0 || p.N < k {
		return Dataset{}, fmt.Errorf("dataset: preset %q needs N >= K > 0, got N=%d K=%d", p.Name, p.N, k)
	}
	if p.StdDev < 0 {
		return Dataset{}, fmt.Errorf("dataset: preset %q has negative stddev %g", p.Name, p.StdDev)
	}

	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	per := p.N / k
	points := make([]float64, 0, per*k)
	for _, mean := range p.Means {
		for range per {
			points = append(points, mean+p.StdDev*rng.NormFloat64())
		}
	}
	rng.Shuffle(len(points), func(i, j int) {
		points[i], points[j] = points[j], points[i]
	})

	return Dataset{Points: points, Centroids: slices.Clone(p.Means)}, nil
}
