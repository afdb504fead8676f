package scorecard

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Attribute describes one field of the record schema a scorecard is
// checked against. Values is the closed enumeration of a categorical
// attribute; it is ignored for numeric attributes.
type Attribute struct {
	Kind   Kind
	Values []string
}

// Schema maps attribute names to their description.
type Schema map[string]Attribute

type validateOptions struct {
	schema Schema
}

// Option tunes Validate.
type Option func(*validateOptions)

// WithSchema requires every feature to name a schema attribute of the
// same kind, and every categorical feature to cover that attribute's
// enumeration exactly.
func WithSchema(s Schema) Option {
	return func(o *validateOptions) { o.schema = s }
}

// Validate checks a Definition as a unit and returns the immutable Config.
// On any violation it returns a *ConfigError and no Config.
func Validate(def *Definition, opts ...Option) (*Config, error) {
	var o validateOptions
	for _, opt := range opts {
		opt(&o)
	}
	if def == nil {
		return nil, &ConfigError{Reason: "definition is nil"}
	}

	cfg := &Config{
		version:    def.Version,
		scoreName:  def.ScoreName,
		basePoints: DefaultBasePoints,
		byName:     make(map[string]*Feature, len(def.Features)),
	}
	if cfg.scoreName == "" {
		cfg.scoreName = DefaultScoreName
	}
	if def.BasePoints != nil {
		if !finite(*def.BasePoints) {
			return nil, &ConfigError{Reason: "base points must be a finite number"}
		}
		cfg.basePoints = *def.BasePoints
	}

	if len(def.Features) == 0 {
		return nil, &ConfigError{Reason: "no features defined"}
	}
	for i := range def.Features {
		f, err := buildFeature(&def.Features[i])
		if err != nil {
			return nil, err
		}
		if _, dup := cfg.byName[f.name]; dup {
			return nil, featureErr(f.name, "declared more than once")
		}
		if o.schema != nil {
			if err := checkSchema(f, o.schema); err != nil {
				return nil, err
			}
		}
		cfg.features = append(cfg.features, f)
		cfg.byName[f.name] = f
	}

	bands, err := buildBands(def.Bands)
	if err != nil {
		return nil, err
	}
	cfg.bands = bands

	return cfg, nil
}

func buildFeature(fs *FeatureSpec) (*Feature, error) {
	name := strings.TrimSpace(fs.Name)
	if name == "" {
		return nil, &ConfigError{Reason: "feature with empty name"}
	}
	if len(fs.Bins) == 0 {
		return nil, featureErr(name, "no bins defined")
	}

	kind, err := resolveKind(name, fs)
	if err != nil {
		return nil, err
	}

	f := &Feature{
		name:     name,
		kind:     kind,
		required: fs.Required == nil || *fs.Required,
		bins:     make([]Bin, 0, len(fs.Bins)),
	}

	for _, bs := range fs.Bins {
		if !finite(bs.Points) {
			return nil, binErr(name, bs.Bin, "points must be a finite number")
		}
	}

	switch kind {
	case KindCategorical:
		if fs.Min != nil || fs.Max != nil {
			return nil, featureErr(name, "min/max only apply to numeric features")
		}
		if err := buildCategoricalBins(f, fs.Bins); err != nil {
			return nil, err
		}
	case KindNumeric:
		if err := buildNumericBins(f, fs); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func resolveKind(name string, fs *FeatureSpec) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(fs.Kind))) {
	case KindCategorical:
		return KindCategorical, nil
	case KindNumeric:
		return KindNumeric, nil
	case "":
	default:
		return "", featureErr(name, "unknown kind %q", fs.Kind)
	}

	intervals := 0
	for _, b := range fs.Bins {
		if looksLikeInterval(b.Bin) {
			intervals++
		}
	}
	switch intervals {
	case 0:
		return KindCategorical, nil
	case len(fs.Bins):
		return KindNumeric, nil
	default:
		return "", featureErr(name, "mixes interval and categorical bins; declare kind explicitly")
	}
}

func buildCategoricalBins(f *Feature, specs []BinSpec) error {
	f.byValue = make(map[string]int, len(specs))
	for _, bs := range specs {
		if bs.Bin == "" {
			return featureErr(f.name, "empty categorical matcher")
		}
		if _, dup := f.byValue[bs.Bin]; dup {
			return binErr(f.name, bs.Bin, "matcher repeats an earlier bin")
		}
		f.byValue[bs.Bin] = len(f.bins)
		f.bins = append(f.bins, Bin{label: bs.Bin, points: bs.Points})
	}
	return nil
}

func buildNumericBins(f *Feature, fs *FeatureSpec) error {
	for _, bs := range fs.Bins {
		iv, err := ParseInterval(bs.Bin)
		if err != nil {
			return binErr(f.name, bs.Bin, "%v", err)
		}
		if n := len(f.bins); n > 0 {
			prev := f.bins[n-1]
			if iv.Low < prev.interval.Low {
				return binErr(f.name, bs.Bin, "bins are not in ascending order")
			}
			switch meet(prev.interval, iv) {
			case overlapping:
				return binErr(f.name, bs.Bin, "overlaps bin %q", prev.label)
			case gapped:
				return binErr(f.name, bs.Bin, "leaves a gap after bin %q", prev.label)
			}
		}
		f.bins = append(f.bins, Bin{label: bs.Bin, interval: iv, points: bs.Points})
	}

	if fs.Min != nil {
		if !finite(*fs.Min) {
			return featureErr(f.name, "min must be a finite number")
		}
		f.min, f.hasMin = *fs.Min, true
	}
	if fs.Max != nil {
		if !finite(*fs.Max) {
			return featureErr(f.name, "max must be a finite number")
		}
		f.max, f.hasMax = *fs.Max, true
	}
	if f.hasMin && f.hasMax && f.min > f.max {
		return featureErr(f.name, "min %v exceeds max %v", f.min, f.max)
	}

	// Bins are contiguous, so covering both ends covers the domain. Bins
	// wholly outside it are allowed and never match.
	if f.hasMin && !f.covers(f.min) {
		return binErr(f.name, f.nearestBin(f.min).label, "does not cover the domain minimum %v", f.min)
	}
	if f.hasMax && !f.covers(f.max) {
		return binErr(f.name, f.nearestBin(f.max).label, "does not cover the domain maximum %v", f.max)
	}
	return nil
}

func (f *Feature) covers(v float64) bool {
	for _, b := range f.bins {
		if b.interval.Contains(v) {
			return true
		}
	}
	return false
}

// nearestBin is the end bin on v's side of the bin table.
func (f *Feature) nearestBin(v float64) Bin {
	if v <= f.bins[0].interval.Low {
		return f.bins[0]
	}
	return f.bins[len(f.bins)-1]
}

func buildBands(specs []BandSpec) ([]Band, error) {
	if len(specs) == 0 {
		return nil, &ConfigError{Reason: "no bands defined"}
	}

	seen := make(map[string]bool, len(specs))
	bands := make([]Band, 0, len(specs))
	for i, bs := range specs {
		label := strings.TrimSpace(bs.Name)
		if label == "" {
			return nil, &ConfigError{Reason: fmt.Sprintf("band #%d has an empty name", i+1)}
		}
		if seen[label] {
			return nil, bandErr(label, "declared more than once")
		}
		seen[label] = true

		isLast := i == len(specs)-1
		if bs.MaxScore == nil {
			if !isLast {
				return nil, bandErr(label, "only the last band may be unbounded")
			}
			bands = append(bands, Band{label: label})
			continue
		}

		upper := *bs.MaxScore
		if !finite(upper) {
			return nil, bandErr(label, "max_score must be a finite number")
		}
		if n := len(bands); n > 0 && upper <= bands[n-1].upper {
			return nil, bandErr(label, "max_score %v does not exceed previous band's %v", upper, bands[n-1].upper)
		}
		// The last band is unbounded whatever ceiling it declares.
		bands = append(bands, Band{label: label, upper: upper, bounded: !isLast})
	}
	return bands, nil
}

func checkSchema(f *Feature, schema Schema) error {
	attr, ok := schema[f.name]
	if !ok {
		return featureErr(f.name, "not a known change-request attribute")
	}
	if attr.Kind != f.kind {
		return featureErr(f.name, "kind %s does not match attribute kind %s", f.kind, attr.Kind)
	}
	if f.kind != KindCategorical || len(attr.Values) == 0 {
		return nil
	}

	domain := make(map[string]bool, len(attr.Values))
	for _, v := range attr.Values {
		domain[v] = true
	}
	for _, b := range f.bins {
		if !domain[b.label] {
			return binErr(f.name, b.label, "not a value of the attribute (want one of %s)", strings.Join(attr.Values, ", "))
		}
	}
	var missing []string
	for _, v := range attr.Values {
		if _, ok := f.byValue[v]; !ok {
			missing = append(missing, v)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return featureErr(f.name, "no bin for %s", strings.Join(missing, ", "))
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
