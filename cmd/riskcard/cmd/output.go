package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/corey/riskcard/internal/adapters/web"
	"github.com/corey/riskcard/internal/domain/scorecard"
	"github.com/corey/riskcard/internal/ports"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

func checkFormat(f string) error {
	switch f {
	case formatTable, formatJSON, formatYAML:
		return nil
	}
	return fmt.Errorf("unknown output format %q (want table, json or yaml)", f)
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	return t
}

// writeStructured renders v as indented JSON or as block-style YAML with
// the JSON field names.
func writeStructured(w io.Writer, format string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if format == formatJSON {
		_, err = fmt.Fprintf(w, "%s\n", data)
		return err
	}

	// JSON is YAML; decoding into a node keeps field order.
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return err
	}
	blockStyle(&doc)
	out, err := yaml.Marshal(&doc)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}

func writeScored(w io.Writer, format string, results []scored) error {
	if format != formatTable {
		return writeStructured(w, format, results)
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"File", "Version", "Score", "Band", "Error"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 5, WidthMax: 60},
	})
	for _, r := range results {
		if r.Result == nil {
			t.AppendRow(table.Row{r.File, "", "", "", r.Error})
			continue
		}
		t.AppendRow(table.Row{r.File, r.Result.Version, formatPoints(r.Result.Score), r.Result.Band, ""})
	}
	t.Render()

	if len(results) == 1 && results[0].Result != nil {
		res := results[0].Result
		names := make([]string, 0, len(res.FeatureScores))
		for name := range res.FeatureScores {
			names = append(names, name)
		}
		sort.Strings(names)

		bt := newTable(w)
		bt.AppendHeader(table.Row{"Feature", "Bin", "Points"})
		bt.SetColumnConfigs([]table.ColumnConfig{{Number: 3, Align: text.AlignRight}})
		for _, name := range names {
			bt.AppendRow(table.Row{name, res.FeatureBins[name], formatPoints(res.FeatureScores[name])})
		}
		bt.AppendFooter(table.Row{"", "total", formatPoints(res.RawPoints)})
		bt.Render()
	}
	return nil
}

func writeDefinition(w io.Writer, def *scorecard.Definition) error {
	base := scorecard.DefaultBasePoints
	if def.BasePoints != nil {
		base = *def.BasePoints
	}
	fmt.Fprintf(w, "%s v%d  base %s\n\n", def.ScoreName, def.Version, formatPoints(base))

	for _, f := range def.Features {
		title := f.Name
		var notes []string
		if f.Kind != "" {
			notes = append(notes, f.Kind)
		}
		if f.Required != nil && !*f.Required {
			notes = append(notes, "optional")
		}
		if f.Min != nil || f.Max != nil {
			notes = append(notes, "domain "+formatDomain(f.Min, f.Max))
		}
		if len(notes) > 0 {
			title += " (" + strings.Join(notes, ", ") + ")"
		}

		t := newTable(w)
		t.SetTitle(title)
		t.AppendHeader(table.Row{"Bin", "Points"})
		t.SetColumnConfigs([]table.ColumnConfig{{Number: 2, Align: text.AlignRight}})
		for _, b := range f.Bins {
			t.AppendRow(table.Row{b.Bin, formatPoints(b.Points)})
		}
		t.Render()
	}

	t := newTable(w)
	t.SetTitle("bands")
	t.AppendHeader(table.Row{"Band", "Max score"})
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 2, Align: text.AlignRight}})
	for _, b := range def.Bands {
		ceiling := "∞"
		if b.MaxScore != nil {
			ceiling = formatPoints(*b.MaxScore)
		}
		t.AppendRow(table.Row{b.Name, ceiling})
	}
	t.Render()
	return nil
}

func writeHistory(w io.Writer, format string, revs []*ports.Revision) error {
	if format != formatTable {
		return writeStructured(w, format, revs)
	}
	t := newTable(w)
	t.AppendHeader(table.Row{"Seq", "Version", "Score name", "Published", "Digest", "Source"})
	for _, r := range revs {
		digest := r.Digest
		if len(digest) > 12 {
			digest = digest[:12]
		}
		t.AppendRow(table.Row{r.Seq, r.Version, r.ScoreName, r.PublishedAt.Local().Format("2006-01-02 15:04:05"), digest, r.Source})
	}
	t.Render()
	return nil
}

// formatHealth formats a HealthResult for terminal display.
func formatHealth(h *web.HealthResult) string {
	var sb strings.Builder
	sb.WriteString("⚡ riskcard\n")
	sb.WriteString(fmt.Sprintf("  Status:    %s\n", h.Status))
	if h.Status == "active" {
		sb.WriteString(fmt.Sprintf("  Scorecard: %s v%d\n", h.ScoreName, h.Version))
		sb.WriteString(fmt.Sprintf("  Features:  %d\n", h.Features))
	}
	sb.WriteString(fmt.Sprintf("  Uptime:    %s\n", h.Uptime))
	return sb.String()
}

func formatPoints(v float64) string {
	return fmt.Sprintf("%g", v)
}

func formatDomain(lo, hi *float64) string {
	l, h := "-inf", "inf"
	if lo != nil {
		l = formatPoints(*lo)
	}
	if hi != nil {
		h = formatPoints(*hi)
	}
	return "[" + l + "," + h + "]"
}
