package scorecard

import "fmt"

// ConfigError reports why a Definition was rejected. Feature or Band
// names the offending entry; Bin is set when a single bin is at fault.
type ConfigError struct {
	Feature string
	Band    string
	Bin     string
	Reason  string
}

func (e *ConfigError) Error() string {
	switch {
	case e.Feature != "" && e.Bin != "":
		return fmt.Sprintf("scorecard: feature %q: bin %q: %s", e.Feature, e.Bin, e.Reason)
	case e.Feature != "":
		return fmt.Sprintf("scorecard: feature %q: %s", e.Feature, e.Reason)
	case e.Band != "":
		return fmt.Sprintf("scorecard: band %q: %s", e.Band, e.Reason)
	default:
		return "scorecard: " + e.Reason
	}
}

func featureErr(feature, format string, args ...any) *ConfigError {
	return &ConfigError{Feature: feature, Reason: fmt.Sprintf(format, args...)}
}

func binErr(feature, bin, format string, args ...any) *ConfigError {
	return &ConfigError{Feature: feature, Bin: bin, Reason: fmt.Sprintf(format, args...)}
}

func bandErr(band, format string, args ...any) *ConfigError {
	return &ConfigError{Band: band, Reason: fmt.Sprintf(format, args...)}
}
