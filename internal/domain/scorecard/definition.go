// Package scorecard holds the rule table that drives change-risk scoring.
//
// A Definition is the raw, external form of a scorecard as produced by a
// config source. Validate turns it into a Config, which is immutable and
// is the only form the engine evaluates against. A Config cannot be built
// any other way, so holding one means every invariant below has been
// checked:
//
//   - feature names are unique and every feature has at least one bin
//   - numeric bins are ordered, pairwise disjoint and leave no gaps
//   - categorical matchers never repeat within a feature
//   - band ceilings strictly increase and only the last band is unbounded
package scorecard

// Defaults applied by Validate when a Definition leaves a field unset.
const (
	DefaultScoreName  = "RiskScore"
	DefaultBasePoints = 600.0
)

// Definition is the raw scorecard as a config source delivers it and as
// it is reported back to callers for audit.
type Definition struct {
	Version    int           `json:"version"`
	ScoreName  string        `json:"score_name,omitempty"`
	BasePoints *float64      `json:"base_points,omitempty"`
	Features   []FeatureSpec `json:"features"`
	Bands      []BandSpec    `json:"bands"`
}

// FeatureSpec declares one scored attribute and its bin table.
// Kind may be left empty, in which case it is inferred from the bins.
type FeatureSpec struct {
	Name     string    `json:"name"`
	Kind     string    `json:"kind,omitempty"`
	Required *bool     `json:"required,omitempty"`
	Min      *float64  `json:"min,omitempty"`
	Max      *float64  `json:"max,omitempty"`
	Bins     []BinSpec `json:"bins"`
}

// BinSpec maps a matcher to points. For numeric features the matcher is
// an interval such as "[2,4)" or "[10,inf)".
type BinSpec struct {
	Bin    string  `json:"bin"`
	Points float64 `json:"points"`
}

// BandSpec is a labeled score ceiling. A nil MaxScore means unbounded.
type BandSpec struct {
	Name     string   `json:"name"`
	MaxScore *float64 `json:"max_score"`
}

// FeatureNames returns the declared feature names in order.
func (d *Definition) FeatureNames() []string {
	names := make([]string, 0, len(d.Features))
	for _, f := range d.Features {
		names = append(names, f.Name)
	}
	return names
}

// Float returns a pointer to v. Handy when building definitions in code.
func Float(v float64) *float64 { return &v }

// Bool returns a pointer to v.
func Bool(v bool) *bool { return &v }
