package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/corey/riskcard/internal/adapters/yamlsource"
	"github.com/corey/riskcard/internal/domain/engine"
	"github.com/corey/riskcard/internal/domain/record"
	"github.com/corey/riskcard/internal/domain/scorecard"
	"github.com/corey/riskcard/scorecards"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// scorer scores one change request, locally or through a server.
type scorer interface {
	Score(ctx context.Context, req *record.ChangeRequest) (*engine.Result, error)
}

type localScorer struct {
	cfg *scorecard.Config
}

func (l localScorer) Score(_ context.Context, req *record.ChangeRequest) (*engine.Result, error) {
	return engine.Evaluate(l.cfg, req.Record())
}

// scored is one file's outcome.
type scored struct {
	File   string         `json:"file"`
	Result *engine.Result `json:"result,omitempty"`
	Error  string         `json:"error,omitempty"`
}

func newScoreCmd() *cobra.Command {
	var (
		scorecardPath string
		server        string
		format        string
		parallel      int
	)

	c := &cobra.Command{
		Use:   "score FILE...",
		Short: "Score change request files",
		Long: "Scores JSON or YAML change request files. Files are scored against --scorecard\n" +
			"(the built-in default when empty) unless --server is given.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}

			var s scorer
			if cmd.Flags().Changed("server") {
				s = newClient(server)
			} else {
				cfg, err := scorecardOrDefault(scorecardPath)
				if err != nil {
					return err
				}
				s = localScorer{cfg: cfg}
			}

			results, err := scoreFiles(cmd.Context(), s, args, parallel)
			if err != nil {
				return err
			}
			if err := writeScored(cmd.OutOrStdout(), format, results); err != nil {
				return err
			}
			for _, r := range results {
				if r.Error != "" {
					return fmt.Errorf("%d of %d files failed to score", countFailed(results), len(results))
				}
			}
			return nil
		},
	}

	f := c.Flags()
	f.StringVar(&scorecardPath, "scorecard", "", "scorecard YAML file for local scoring")
	addServerFlag(c, &server)
	f.StringVarP(&format, "output", "o", formatTable, "table, json or yaml")
	f.IntVar(&parallel, "parallel", runtime.NumCPU(), "files scored at once")
	c.MarkFlagsMutuallyExclusive("scorecard", "server")
	return c
}

func scorecardOrDefault(path string) (*scorecard.Config, error) {
	if path != "" {
		return loadScorecard(path, true)
	}
	doc, err := yamlsource.NewBytes(scorecards.DefaultName, scorecards.Default).Load()
	if err != nil {
		return nil, err
	}
	return scorecard.Validate(doc.Definition, scorecard.WithSchema(record.Schema()))
}

// scoreFiles scores every file, keeping argument order in the output.
// Per-file failures are reported in the result, not returned.
func scoreFiles(ctx context.Context, s scorer, files []string, parallel int) ([]scored, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	results := make([]scored, len(files))

	g, gCtx := errgroup.WithContext(ctx)
	if parallel > 0 {
		g.SetLimit(parallel)
	}
	for i, file := range files {
		g.Go(func() error {
			results[i] = scoreFile(gCtx, s, file)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func scoreFile(ctx context.Context, s scorer, path string) scored {
	out := scored{File: path}

	req, err := readRequest(path)
	if err != nil {
		out.Error = err.Error()
		return out
	}
	res, err := s.Score(ctx, req)
	if err != nil {
		out.Error = err.Error()
		return out
	}
	out.Result = res
	return out
}

// readRequest decodes a change request file; .yaml and .yml are YAML,
// anything else JSON.
func readRequest(path string) (*record.ChangeRequest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return record.DecodeYAML(f)
	default:
		return record.Decode(f)
	}
}

func countFailed(results []scored) int {
	n := 0
	for _, r := range results {
		if r.Error != "" {
			n++
		}
	}
	return n
}
