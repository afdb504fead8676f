package engine

import (
	"github.com/corey/riskcard/internal/domain/scorecard"
	"github.com/shopspring/decimal"
)

// Result is the outcome of scoring one record.
type Result struct {
	Version       int                `json:"version"`
	Score         float64            `json:"score"`
	Band          string             `json:"band"`
	FeatureScores map[string]float64 `json:"feature_scores"`
	FeatureBins   map[string]string  `json:"feature_bins"`
	RawPoints     float64            `json:"raw_points"`
}

// Evaluate scores rec against cfg. It reads nothing but its arguments,
// so the same inputs always give the same Result. Points are summed in
// decimal so that fractional bins add up exactly.
func Evaluate(cfg *scorecard.Config, rec Record) (*Result, error) {
	if cfg == nil {
		return nil, ErrNotReady
	}

	features := cfg.Features()
	res := &Result{
		Version:       cfg.Version(),
		FeatureScores: make(map[string]float64, len(features)),
		FeatureBins:   make(map[string]string, len(features)),
	}

	raw := decimal.Zero
	for _, f := range features {
		val, ok := rec.Lookup(f.Name())
		if !ok {
			if f.Required() {
				return nil, &EvaluationError{Kind: MissingField, Feature: f.Name()}
			}
			continue
		}

		bin, err := match(f, val)
		if err != nil {
			return nil, err
		}
		res.FeatureScores[f.Name()] = bin.Points()
		res.FeatureBins[f.Name()] = bin.Label()
		raw = raw.Add(decimal.NewFromFloat(bin.Points()))
	}

	score := decimal.NewFromFloat(cfg.BasePoints()).Add(raw)
	res.RawPoints = raw.InexactFloat64()
	res.Score = score.InexactFloat64()
	res.Band = cfg.ResolveBand(res.Score).Label()
	return res, nil
}

func match(f *scorecard.Feature, val Value) (scorecard.Bin, error) {
	switch f.Kind() {
	case scorecard.KindNumeric:
		v, ok := val.Float()
		if ok {
			if bin, found := f.MatchNumber(v); found {
				return bin, nil
			}
		}
		return scorecard.Bin{}, &EvaluationError{Kind: OutOfRange, Feature: f.Name(), Value: val.String()}
	default:
		if bin, found := f.MatchCategory(val.String()); found {
			return bin, nil
		}
		return scorecard.Bin{}, &EvaluationError{Kind: UnknownValue, Feature: f.Name(), Value: val.String()}
	}
}
