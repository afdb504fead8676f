// Package scorecards embeds the stock change-risk scorecard for
// compile-time inclusion. `riskcard init` writes it out as a starting
// point, and the service falls back to it when asked to run without a
// scorecard file.
//
// Usage:
//
//	yamlsource.NewBytes(scorecards.DefaultName, scorecards.Default)
package scorecards

import _ "embed"

// DefaultName is the file name the default scorecard is written under.
const DefaultName = "scorecard.yaml"

//go:embed default.yaml
var Default []byte
