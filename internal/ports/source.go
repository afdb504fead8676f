package ports

import "github.com/corey/riskcard/internal/domain/scorecard"

// SourceDocument is one read of a scorecard source.
type SourceDocument struct {
	Definition *scorecard.Definition
	Digest     string // sha256 of the raw bytes, hex encoded
	Raw        []byte
}

// DefinitionSource reads the raw scorecard definition the engine is
// reloaded from. The concrete implementation (YAML file) lives in
// internal/adapters/yamlsource. Load does not validate; validation is the
// engine's job.
type DefinitionSource interface {
	// Load reads and parses the source. Parse errors identify the offending
	// feature or band where the format allows it.
	Load() (*SourceDocument, error)

	// Location names the source for logs and revision records.
	Location() string
}
