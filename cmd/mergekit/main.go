package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"mergekit/internal/ingest"
	"mergekit/internal/mapping"
	"mergekit/internal/match"
	"mergekit/internal/merge"
	"mergekit/internal/table"
)

var cli struct {
	Debug bool `help:"Enable debug logging."`

	Profile ProfileCmd `cmd:"" help:"Infer column types and statistics for a file"`
	Match   MatchCmd   `cmd:"" help:"Rank column-name matches between two files"`
	Automap AutomapCmd `cmd:"" help:"Generate a column mapping from one file onto another"`
	Merge   MergeCmd   `cmd:"" help:"Merge files into one dataset"`
}

func main() {
	ctx := kong.Parse(&cli)
	level := slog.LevelInfo
	if cli.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	ctx.FatalIfErrorf(ctx.Run())
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

type ProfileCmd struct {
	Path string `arg:"" name:"path" help:"CSV or XLSX file to profile" type:"path"`
}

func (p *ProfileCmd) Run() error {
	pf, err := ingest.ReadFile(context.Background(), p.Path)
	if err != nil {
		return err
	}
	return printJSON(pf.Descriptors)
}

type MatchCmd struct {
	LeftPath  string `arg:"" name:"left" help:"Source file" type:"path"`
	RightPath string `arg:"" name:"right" help:"Target file" type:"path"`
	Limit     int    `help:"Suggestions per column." default:"3"`
}

func (m *MatchCmd) Run() error {
	ctx := context.Background()
	left, err := ingest.ReadFile(ctx, m.LeftPath)
	if err != nil {
		return err
	}
	right, err := ingest.ReadFile(ctx, m.RightPath)
	if err != nil {
		return err
	}

	matcher := match.NewColumnMatcher(right.Headers)
	suggestions := make(map[string][]match.Suggestion, len(left.Headers))
	for _, h := range left.Headers {
		suggestions[h] = matcher.FindMatches(h, m.Limit)
	}
	return printJSON(suggestions)
}

type AutomapCmd struct {
	SourcePath string  `arg:"" name:"source" help:"Source file" type:"path"`
	TargetPath string  `arg:"" name:"target" help:"Target file" type:"path"`
	Threshold  float64 `help:"Minimum similarity to accept a match." default:"0.7"`
}

func (a *AutomapCmd) Run() error {
	ctx := context.Background()
	source, err := ingest.ReadFile(ctx, a.SourcePath)
	if err != nil {
		return err
	}
	target, err := ingest.ReadFile(ctx, a.TargetPath)
	if err != nil {
		return err
	}

	m, err := mapping.GenerateAutoMapping(source, target, a.Threshold)
	if err != nil {
		return err
	}
	for _, problem := range mapping.Validate(m, source, target) {
		slog.Warn("mapping validation", "problem", problem)
	}
	return printJSON(m)
}

type MergeCmd struct {
	Paths      []string `arg:"" name:"files" help:"Files to merge; later files are auto-mapped onto the first" type:"path"`
	Join       string   `help:"Join type: inner, left, right or full." default:"left" enum:"inner,left,right,full"`
	JoinKey    string   `help:"Column to join on."`
	Duplicates string   `help:"Duplicate handling: keep_first, keep_last or merge_values." default:"keep_first" enum:"keep_first,keep_last,merge_values"`
	Threshold  float64  `help:"Minimum similarity for auto-mapping." default:"0.7"`
	MaxRows    int      `help:"Cap the merged row count; 0 means unlimited."`
	Out        string   `help:"Write the merged dataset to this CSV or XLSX path." type:"path"`
}

func (c *MergeCmd) Run() error {
	if len(c.Paths) < 1 {
		return fmt.Errorf("need at least one file")
	}

	ctx := context.Background()
	var files []*table.ParsedFile
	for _, p := range c.Paths {
		pf, err := ingest.ReadFile(ctx, p)
		if err != nil {
			return err
		}
		files = append(files, pf)
	}

	mappings := []*mapping.ColumnMapping{mapping.Identity(files[0])}
	for _, f := range files[1:] {
		m, err := mapping.GenerateAutoMapping(f, files[0], c.Threshold)
		if err != nil {
			return err
		}
		mappings = append(mappings, m)
	}

	result := merge.Merge(files, mappings, merge.Options{
		JoinType:         merge.JoinType(c.Join),
		JoinKey:          c.JoinKey,
		HandleDuplicates: merge.DuplicateStrategy(c.Duplicates),
		ValidateTypes:    true,
		MaxRows:          c.MaxRows,
	})
	for _, w := range result.Warnings {
		slog.Warn("merge", "warning", w)
	}
	if len(result.Errors) > 0 {
		_ = printJSON(result)
		return fmt.Errorf("merge failed: %s", result.Errors[0])
	}

	if c.Out != "" {
		if err := writeDataset(result.Dataset, c.Out); err != nil {
			return err
		}
		slog.Info("wrote merged dataset", "path", c.Out, "rows", result.Dataset.RowCount)
	}
	return printJSON(struct {
		Stats    merge.Statistics `json:"stats"`
		Warnings []string         `json:"warnings,omitempty"`
	}{result.Stats, result.Warnings})
}
