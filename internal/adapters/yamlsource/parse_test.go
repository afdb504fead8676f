package yamlsource

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/corey/riskcard/internal/domain/record"
	"github.com/corey/riskcard/internal/domain/scorecard"
	"github.com/corey/riskcard/scorecards"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const small = `
version: 3
score_name: ChangeRiskScore
scaling:
  points0: 600
scorecard:
  test_depth:
    - {bin: NONE, points: 40}
    - {bin: FULL, points: 0}
  change_size:
    - {bin: S, points: 5}
    - {bin: L, points: 30}
  downstream_critical_deps:
    kind: numeric
    required: false
    min: 0
    bins:
      - {bin: "[0,3)", points: 0}
      - {bin: "[3,inf)", points: 20}
bands:
  - {name: LOW, max_score: 650}
  - {name: HIGH}
`

func requireConfigError(t *testing.T, err error) *scorecard.ConfigError {
	t.Helper()
	require.Error(t, err)
	var ce *scorecard.ConfigError
	require.True(t, errors.As(err, &ce), "want *scorecard.ConfigError, got %T: %v", err, err)
	return ce
}

func TestParse_KeepsFeatureOrder(t *testing.T) {
	def, err := Parse([]byte(small))
	require.NoError(t, err)

	assert.Equal(t, 3, def.Version)
	assert.Equal(t, "ChangeRiskScore", def.ScoreName)
	require.NotNil(t, def.BasePoints)
	assert.Equal(t, 600.0, *def.BasePoints)
	assert.Equal(t, []string{"test_depth", "change_size", "downstream_critical_deps"}, def.FeatureNames())

	deps := def.Features[2]
	assert.Equal(t, "numeric", deps.Kind)
	require.NotNil(t, deps.Required)
	assert.False(t, *deps.Required)
	require.NotNil(t, deps.Min)
	assert.Nil(t, deps.Max)
	assert.Equal(t, []scorecard.BinSpec{{Bin: "[0,3)", Points: 0}, {Bin: "[3,inf)", Points: 20}}, deps.Bins)

	require.Len(t, def.Bands, 2)
	assert.Nil(t, def.Bands[1].MaxScore)

	_, err = scorecard.Validate(def)
	require.NoError(t, err)
}

func TestParse_Defaults(t *testing.T) {
	def, err := Parse([]byte("scorecard:\n  change_size:\n    - {bin: S, points: 5}\nbands:\n  - {name: ALL}\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, def.Version)
	assert.Nil(t, def.BasePoints)

	cfg, err := scorecard.Validate(def)
	require.NoError(t, err)
	assert.Equal(t, scorecard.DefaultBasePoints, cfg.BasePoints())
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		feature string
	}{
		{name: "empty", doc: ""},
		{name: "syntax", doc: "scorecard: [unclosed"},
		{name: "unknown top-level key", doc: "versoin: 2\n"},
		{name: "version not a number", doc: "version: latest\n"},
		{name: "scorecard is a list", doc: "scorecard:\n  - change_size\n"},
		{
			name:    "feature is a scalar",
			doc:     "scorecard:\n  change_size: big\n",
			feature: "change_size",
		},
		{
			name:    "unknown feature key",
			doc:     "scorecard:\n  change_size:\n    kind: categorical\n    binz: []\n",
			feature: "change_size",
		},
		{
			name:    "points not a number",
			doc:     "scorecard:\n  change_size:\n    - {bin: S, points: many}\n",
			feature: "change_size",
		},
		{name: "band without name", doc: "bands:\n  - {max_score: 100}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def, err := Parse([]byte(tt.doc))
			assert.Nil(t, def)
			ce := requireConfigError(t, err)
			assert.Equal(t, tt.feature, ce.Feature)
		})
	}
}

func TestParse_DefaultScorecard(t *testing.T) {
	def, err := Parse(scorecards.Default)
	require.NoError(t, err)

	cfg, err := scorecard.Validate(def, scorecard.WithSchema(record.Schema()))
	require.NoError(t, err)
	assert.Len(t, cfg.FeatureNames(), 12)
	assert.Equal(t, "ChangeRiskScore", cfg.ScoreName())
	assert.Equal(t, 600.0, cfg.BasePoints())
}

func TestEncode_RoundTrip(t *testing.T) {
	for name, doc := range map[string][]byte{"small": []byte(small), "default": scorecards.Default} {
		t.Run(name, func(t *testing.T) {
			def, err := Parse(doc)
			require.NoError(t, err)
			cfg, err := scorecard.Validate(def)
			require.NoError(t, err)

			out, err := Encode(cfg.Definition())
			require.NoError(t, err)
			parsed, err := Parse(out)
			require.NoError(t, err, "encoded:\n%s", out)
			again, err := scorecard.Validate(parsed)
			require.NoError(t, err)

			if diff := cmp.Diff(cfg.Definition(), again.Definition()); diff != "" {
				t.Errorf("round trip changed the definition (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFile_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scorecard.yaml")
	require.NoError(t, os.WriteFile(path, []byte(small), 0o644))

	src := NewFile(path)
	assert.Equal(t, path, src.Location())

	doc, err := src.Load()
	require.NoError(t, err)
	assert.Len(t, doc.Digest, 64)
	assert.Equal(t, []byte(small), doc.Raw)
	assert.Equal(t, 3, doc.Definition.Version)

	again, err := src.Load()
	require.NoError(t, err)
	assert.Equal(t, doc.Digest, again.Digest)

	require.NoError(t, os.WriteFile(path, []byte(small+"\n# edited\n"), 0o644))
	edited, err := src.Load()
	require.NoError(t, err)
	assert.NotEqual(t, doc.Digest, edited.Digest)
}

func TestFile_LoadMissing(t *testing.T) {
	_, err := NewFile(filepath.Join(t.TempDir(), "nope.yaml")).Load()
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	var ce *scorecard.ConfigError
	assert.False(t, errors.As(err, &ce), "a missing file is not a config error")
}

func TestBytes_Load(t *testing.T) {
	src := NewBytes(scorecards.DefaultName, scorecards.Default)
	assert.Equal(t, "scorecard.yaml", src.Location())
	doc, err := src.Load()
	require.NoError(t, err)
	assert.Equal(t, "ChangeRiskScore", doc.Definition.ScoreName)
}
