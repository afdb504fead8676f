// Package record is the typed boundary between loosely typed request
// bodies and the engine. A ChangeRequest is decoded once, strictly, and
// the engine only ever sees its Record form.
package record

import (
	"github.com/corey/riskcard/internal/domain/engine"
	"github.com/corey/riskcard/internal/domain/scorecard"
)

// Attribute names.
const (
	FieldDataSensitivity        = "data_sensitivity"
	FieldDowntimeImpact         = "downtime_impact"
	FieldIntegrityImpact        = "integrity_impact"
	FieldBreachConsequence      = "breach_consequence"
	FieldDisasterRecovery       = "disaster_recovery"
	FieldSystemDependencies     = "system_dependencies"
	FieldRegulatoryCount        = "regulatory_count"
	FieldResilienceCategory     = "resilience_category"
	FieldChangeSize             = "change_size"
	FieldTestDepth              = "test_depth"
	FieldAppsSharingCodebase    = "apps_sharing_codebase"
	FieldDownstreamCriticalDeps = "downstream_critical_deps"
)

// ChangeRequest is one change submitted for scoring. Questionnaire
// answers come first, then CMDB, git/CI and derived fields. Nil means
// the attribute was not supplied.
type ChangeRequest struct {
	DataSensitivity    *DataSensitivity    `json:"data_sensitivity,omitempty" yaml:"data_sensitivity,omitempty"`
	DowntimeImpact     *DowntimeImpact     `json:"downtime_impact,omitempty" yaml:"downtime_impact,omitempty"`
	IntegrityImpact    *IntegrityImpact    `json:"integrity_impact,omitempty" yaml:"integrity_impact,omitempty"`
	BreachConsequence  *BreachConsequence  `json:"breach_consequence,omitempty" yaml:"breach_consequence,omitempty"`
	DisasterRecovery   *DisasterRecovery   `json:"disaster_recovery,omitempty" yaml:"disaster_recovery,omitempty"`
	SystemDependencies *SystemDependencies `json:"system_dependencies,omitempty" yaml:"system_dependencies,omitempty"`
	RegulatoryCount    *int                `json:"regulatory_count,omitempty" yaml:"regulatory_count,omitempty"`

	ResilienceCategory *ResilienceCategory `json:"resilience_category,omitempty" yaml:"resilience_category,omitempty"`

	ChangeSize *ChangeSize `json:"change_size,omitempty" yaml:"change_size,omitempty"`
	TestDepth  *TestDepth  `json:"test_depth,omitempty" yaml:"test_depth,omitempty"`

	AppsSharingCodebase    *int `json:"apps_sharing_codebase,omitempty" yaml:"apps_sharing_codebase,omitempty"`
	DownstreamCriticalDeps *int `json:"downstream_critical_deps,omitempty" yaml:"downstream_critical_deps,omitempty"`
}

// Record returns the engine view of the request, holding only the
// attributes that were supplied.
func (c *ChangeRequest) Record() engine.Values {
	v := engine.Values{}
	text := func(name string, s *string) {
		if s != nil {
			v[name] = engine.Text(*s)
		}
	}
	num := func(name string, n *int) {
		if n != nil {
			v[name] = engine.Number(float64(*n))
		}
	}

	text(FieldDataSensitivity, (*string)(c.DataSensitivity))
	text(FieldDowntimeImpact, (*string)(c.DowntimeImpact))
	text(FieldIntegrityImpact, (*string)(c.IntegrityImpact))
	text(FieldBreachConsequence, (*string)(c.BreachConsequence))
	text(FieldDisasterRecovery, (*string)(c.DisasterRecovery))
	text(FieldSystemDependencies, (*string)(c.SystemDependencies))
	num(FieldRegulatoryCount, c.RegulatoryCount)
	text(FieldResilienceCategory, (*string)(c.ResilienceCategory))
	text(FieldChangeSize, (*string)(c.ChangeSize))
	text(FieldTestDepth, (*string)(c.TestDepth))
	num(FieldAppsSharingCodebase, c.AppsSharingCodebase)
	num(FieldDownstreamCriticalDeps, c.DownstreamCriticalDeps)
	return v
}

// Schema describes every attribute a ChangeRequest can carry. A
// scorecard validated against it can only reference these attributes,
// and its categorical bins must cover each enumeration exactly.
func Schema() scorecard.Schema {
	return scorecard.Schema{
		FieldDataSensitivity:        {Kind: scorecard.KindCategorical, Values: asStrings(DataSensitivityValues)},
		FieldDowntimeImpact:         {Kind: scorecard.KindCategorical, Values: asStrings(DowntimeImpactValues)},
		FieldIntegrityImpact:        {Kind: scorecard.KindCategorical, Values: asStrings(IntegrityImpactValues)},
		FieldBreachConsequence:      {Kind: scorecard.KindCategorical, Values: asStrings(BreachConsequenceValues)},
		FieldDisasterRecovery:       {Kind: scorecard.KindCategorical, Values: asStrings(DisasterRecoveryValues)},
		FieldSystemDependencies:     {Kind: scorecard.KindCategorical, Values: asStrings(SystemDependenciesValues)},
		FieldRegulatoryCount:        {Kind: scorecard.KindNumeric},
		FieldResilienceCategory:     {Kind: scorecard.KindCategorical, Values: asStrings(ResilienceCategoryValues)},
		FieldChangeSize:             {Kind: scorecard.KindCategorical, Values: asStrings(ChangeSizeValues)},
		FieldTestDepth:              {Kind: scorecard.KindCategorical, Values: asStrings(TestDepthValues)},
		FieldAppsSharingCodebase:    {Kind: scorecard.KindNumeric},
		FieldDownstreamCriticalDeps: {Kind: scorecard.KindNumeric},
	}
}

func asStrings[T ~string](vals []T) []string {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = string(v)
	}
	return out
}
