// Package yamlsource reads scorecard definitions from YAML. Feature order
// in the file is the order features are evaluated and reported in, so the
// scorecard mapping is walked as a yaml.Node rather than decoded into a
// Go map.
package yamlsource

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/corey/riskcard/internal/domain/scorecard"
	"gopkg.in/yaml.v3"
)

// yamlDoc is the YAML-serialized form of a scorecard.Definition.
type yamlDoc struct {
	Version   *int        `yaml:"version"`
	ScoreName string      `yaml:"score_name,omitempty"`
	Scaling   yamlScaling `yaml:"scaling"`
	Scorecard yaml.Node   `yaml:"scorecard"`
	Bands     []yamlBand  `yaml:"bands"`
}

type yamlScaling struct {
	Points0 *float64 `yaml:"points0,omitempty"`
}

// yamlFeature is the long form of a feature. The short form is a bare
// list of bins.
type yamlFeature struct {
	Kind     string    `yaml:"kind,omitempty"`
	Required *bool     `yaml:"required,omitempty"`
	Min      *float64  `yaml:"min,omitempty"`
	Max      *float64  `yaml:"max,omitempty"`
	Bins     []yamlBin `yaml:"bins"`
}

type yamlBin struct {
	Bin    string  `yaml:"bin"`
	Points float64 `yaml:"points"`
}

type yamlBand struct {
	Name     string   `yaml:"name"`
	MaxScore *float64 `yaml:"max_score,omitempty"`
}

var featureKeys = map[string]bool{"kind": true, "required": true, "min": true, "max": true, "bins": true}

// Parse converts YAML into a raw definition. It checks shape only; the
// result still has to go through scorecard.Validate. Shape problems are
// reported as *scorecard.ConfigError naming the feature or band.
func Parse(data []byte) (*scorecard.Definition, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc yamlDoc
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &scorecard.ConfigError{Reason: "empty scorecard document"}
		}
		return nil, &scorecard.ConfigError{Reason: err.Error()}
	}

	def := &scorecard.Definition{
		Version:    1,
		ScoreName:  doc.ScoreName,
		BasePoints: doc.Scaling.Points0,
	}
	if doc.Version != nil {
		def.Version = *doc.Version
	}

	features, err := parseFeatures(&doc.Scorecard)
	if err != nil {
		return nil, err
	}
	def.Features = features

	for i, b := range doc.Bands {
		if b.Name == "" {
			return nil, &scorecard.ConfigError{Reason: fmt.Sprintf("band %d has no name", i+1)}
		}
		def.Bands = append(def.Bands, scorecard.BandSpec{Name: b.Name, MaxScore: b.MaxScore})
	}
	return def, nil
}

func parseFeatures(n *yaml.Node) ([]scorecard.FeatureSpec, error) {
	if n.Kind == 0 {
		return nil, nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, &scorecard.ConfigError{Reason: fmt.Sprintf("line %d: scorecard must be a mapping of feature name to bins", n.Line)}
	}

	features := make([]scorecard.FeatureSpec, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		f, err := parseFeature(key.Value, val)
		if err != nil {
			return nil, err
		}
		features = append(features, f)
	}
	return features, nil
}

func parseFeature(name string, n *yaml.Node) (scorecard.FeatureSpec, error) {
	spec := scorecard.FeatureSpec{Name: name}
	fail := func(format string, args ...any) (scorecard.FeatureSpec, error) {
		return spec, &scorecard.ConfigError{
			Feature: name,
			Reason:  fmt.Sprintf("line %d: ", n.Line) + fmt.Sprintf(format, args...),
		}
	}

	var yf yamlFeature
	switch n.Kind {
	case yaml.SequenceNode:
		if err := n.Decode(&yf.Bins); err != nil {
			return fail("%v", err)
		}
	case yaml.MappingNode:
		for i := 0; i < len(n.Content); i += 2 {
			if k := n.Content[i].Value; !featureKeys[k] {
				return fail("unknown key %q", k)
			}
		}
		if err := n.Decode(&yf); err != nil {
			return fail("%v", err)
		}
	default:
		return fail("expected a list of bins or a feature mapping")
	}

	spec.Kind = yf.Kind
	spec.Required = yf.Required
	spec.Min = yf.Min
	spec.Max = yf.Max
	for _, b := range yf.Bins {
		spec.Bins = append(spec.Bins, scorecard.BinSpec{Bin: b.Bin, Points: b.Points})
	}
	return spec, nil
}

// Encode renders def in the same format Parse reads. Categorical features
// that are required use the short form.
func Encode(def *scorecard.Definition) ([]byte, error) {
	doc := yamlDoc{
		Version:   &def.Version,
		ScoreName: def.ScoreName,
		Scaling:   yamlScaling{Points0: def.BasePoints},
	}
	doc.Scorecard.Kind = yaml.MappingNode

	for _, f := range def.Features {
		bins := make([]yamlBin, len(f.Bins))
		for i, b := range f.Bins {
			bins[i] = yamlBin{Bin: b.Bin, Points: b.Points}
		}

		var val yaml.Node
		var err error
		if shortForm(f) {
			err = val.Encode(bins)
		} else {
			err = val.Encode(yamlFeature{Kind: f.Kind, Required: f.Required, Min: f.Min, Max: f.Max, Bins: bins})
		}
		if err != nil {
			return nil, fmt.Errorf("encode feature %q: %w", f.Name, err)
		}
		flowBins(&val)

		doc.Scorecard.Content = append(doc.Scorecard.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.Name}, &val)
	}

	for _, b := range def.Bands {
		doc.Bands = append(doc.Bands, yamlBand{Name: b.Name, MaxScore: b.MaxScore})
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return nil, fmt.Errorf("encode scorecard: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode scorecard: %w", err)
	}
	return buf.Bytes(), nil
}

func shortForm(f scorecard.FeatureSpec) bool {
	return f.Kind != string(scorecard.KindNumeric) &&
		(f.Required == nil || *f.Required) && f.Min == nil && f.Max == nil
}

// flowBins renders each {bin, points} pair on a single line.
func flowBins(n *yaml.Node) {
	seq := n
	if n.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(n.Content); i += 2 {
			if n.Content[i].Value == "bins" {
				seq = n.Content[i+1]
			}
		}
	}
	if seq.Kind != yaml.SequenceNode {
		return
	}
	for _, item := range seq.Content {
		item.Style = yaml.FlowStyle
	}
}
