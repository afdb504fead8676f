package scorecard

import "math"

// Kind is the value kind of a feature.
type Kind string

const (
	KindCategorical Kind = "categorical"
	KindNumeric     Kind = "numeric"
)

// Bin is one row of a feature's bin table.
type Bin struct {
	label    string
	interval Interval
	points   float64
}

// Label is the matcher as written in the definition.
func (b Bin) Label() string { return b.label }

// Points awarded when the bin matches.
func (b Bin) Points() float64 { return b.points }

// Interval is the parsed range of a numeric bin. Zero for categorical bins.
func (b Bin) Interval() Interval { return b.interval }

// Feature is a validated feature definition.
type Feature struct {
	name     string
	kind     Kind
	required bool
	min      float64
	max      float64
	hasMin   bool
	hasMax   bool
	bins     []Bin
	byValue  map[string]int // categorical matcher -> bin index
}

func (f *Feature) Name() string   { return f.name }
func (f *Feature) Kind() Kind     { return f.kind }
func (f *Feature) Required() bool { return f.required }

// Bins returns a copy of the bin table in declared order.
func (f *Feature) Bins() []Bin {
	out := make([]Bin, len(f.bins))
	copy(out, f.bins)
	return out
}

// Domain returns the declared numeric domain. Unset ends are infinite.
func (f *Feature) Domain() (lo, hi float64) {
	lo, hi = math.Inf(-1), math.Inf(1)
	if f.hasMin {
		lo = f.min
	}
	if f.hasMax {
		hi = f.max
	}
	return lo, hi
}

// MatchCategory finds the bin whose matcher equals v exactly.
func (f *Feature) MatchCategory(v string) (Bin, bool) {
	i, ok := f.byValue[v]
	if !ok {
		return Bin{}, false
	}
	return f.bins[i], true
}

// MatchNumber finds the first bin containing v. Values outside the
// declared domain never match.
func (f *Feature) MatchNumber(v float64) (Bin, bool) {
	if math.IsNaN(v) {
		return Bin{}, false
	}
	if lo, hi := f.Domain(); v < lo || v > hi {
		return Bin{}, false
	}
	for _, b := range f.bins {
		if b.interval.Contains(v) {
			return b, true
		}
	}
	return Bin{}, false
}

// Band is a validated band. The last band of a Config is unbounded.
type Band struct {
	label   string
	upper   float64
	bounded bool
}

func (b Band) Label() string { return b.label }

// UpperBound returns the inclusive ceiling, or false for the unbounded band.
func (b Band) UpperBound() (float64, bool) { return b.upper, b.bounded }

// Config is a validated, immutable scorecard.
type Config struct {
	version    int
	scoreName  string
	basePoints float64
	features   []*Feature
	byName     map[string]*Feature
	bands      []Band
}

func (c *Config) Version() int        { return c.version }
func (c *Config) ScoreName() string   { return c.scoreName }
func (c *Config) BasePoints() float64 { return c.basePoints }

// Features returns the features in declared order.
func (c *Config) Features() []*Feature {
	out := make([]*Feature, len(c.features))
	copy(out, c.features)
	return out
}

// Feature looks up a feature by name.
func (c *Config) Feature(name string) (*Feature, bool) {
	f, ok := c.byName[name]
	return f, ok
}

// FeatureNames returns the feature names in declared order.
func (c *Config) FeatureNames() []string {
	names := make([]string, len(c.features))
	for i, f := range c.features {
		names[i] = f.name
	}
	return names
}

// Bands returns the bands in ascending ceiling order.
func (c *Config) Bands() []Band {
	out := make([]Band, len(c.bands))
	copy(out, c.bands)
	return out
}

// ResolveBand returns the first band whose ceiling is at or above score.
// The unbounded last band catches everything else, so the result is total.
func (c *Config) ResolveBand(score float64) Band {
	for _, b := range c.bands {
		if !b.bounded || score <= b.upper {
			return b
		}
	}
	return c.bands[len(c.bands)-1]
}

// Definition renders the Config back into its external form with every
// default made explicit.
func (c *Config) Definition() *Definition {
	def := &Definition{
		Version:    c.version,
		ScoreName:  c.scoreName,
		BasePoints: Float(c.basePoints),
		Features:   make([]FeatureSpec, 0, len(c.features)),
		Bands:      make([]BandSpec, 0, len(c.bands)),
	}
	for _, f := range c.features {
		fs := FeatureSpec{
			Name:     f.name,
			Kind:     string(f.kind),
			Required: Bool(f.required),
			Bins:     make([]BinSpec, 0, len(f.bins)),
		}
		if f.hasMin {
			fs.Min = Float(f.min)
		}
		if f.hasMax {
			fs.Max = Float(f.max)
		}
		for _, b := range f.bins {
			fs.Bins = append(fs.Bins, BinSpec{Bin: b.label, Points: b.points})
		}
		def.Features = append(def.Features, fs)
	}
	for _, b := range c.bands {
		bs := BandSpec{Name: b.label}
		if b.bounded {
			bs.MaxScore = Float(b.upper)
		}
		def.Bands = append(def.Bands, bs)
	}
	return def
}
