// Package cli renders evaluator data as markdown tables for evalctl.
package cli

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/fadilmartias/presentation-evaluator/internal/dto"
	"github.com/fadilmartias/presentation-evaluator/internal/model"
	"github.com/fadilmartias/presentation-evaluator/internal/repository"
	"github.com/fadilmartias/presentation-evaluator/internal/scoring"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
	"gorm.io/gorm"
)

// Commands lists the subcommands Run accepts.
var Commands = []string{"list", "stats", "rubric"}

// Run executes one read-only subcommand against db and writes its table to w.
func Run(ctx context.Context, db *gorm.DB, command string, w io.Writer) error {
	evaluations := repository.NewEvaluationRepository(db)
	switch command {
	case "list":
		rows, err := evaluations.List(ctx)
		if err != nil {
			return err
		}
		return WriteEvaluations(w, rows)
	case "stats":
		stats, err := evaluations.Stats(ctx)
		if err != nil {
			return err
		}
		return WriteStats(w, stats)
	case "rubric":
		rubric, err := repository.NewRubricRepository(db).Get(ctx)
		if err != nil {
			return err
		}
		return WriteRubric(w, rubric)
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

func newTable(w io.Writer, headers ...string) *tablewriter.Table {
	cfg := tablewriter.Config{
		Header: tw.CellConfig{
			Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			Formatting: tw.CellFormatting{AutoFormat: tw.Off},
		},
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignLeft},
		},
		MaxWidth: 120,
		Behavior: tw.Behavior{TrimSpace: tw.Off},
	}
	return tablewriter.NewTable(w,
		tablewriter.WithConfig(cfg),
		tablewriter.WithHeader(headers),
		tablewriter.WithRenderer(renderer.NewBlueprint()),
		tablewriter.WithRendition(tw.Rendition{
			Symbols: tw.NewSymbols(tw.StyleMarkdown),
			Borders: tw.Border{
				Left:   tw.On,
				Top:    tw.Off,
				Right:  tw.On,
				Bottom: tw.Off,
			},
		}),
		tablewriter.WithRowAutoWrap(tw.WrapNone),
	)
}

func WriteEvaluations(w io.Writer, rows []dto.EvaluationSummary) error {
	table := newTable(w, "ID", "Created", "Type", "Score", "Category", "Cost", "Tokens")
	for _, e := range rows {
		if err := table.Append([]string{
			strconv.FormatUint(uint64(e.ID), 10),
			e.CreatedAt.Format("2006-01-02 15:04:05"),
			e.DocType,
			fmt.Sprintf("%.1f", e.OverallScore),
			e.ScoreCategory,
			fmt.Sprintf("$%.4f", e.CostUSD),
			fmt.Sprintf("%d/%d", e.InputTokens, e.OutputTokens),
		}); err != nil {
			return err
		}
	}
	return table.Render()
}

// WriteStats prints the totals followed by one row per category, best first.
// Categories outside the known labels are appended in name order.
func WriteStats(w io.Writer, stats dto.Stats) error {
	table := newTable(w, "Metric", "Value")
	rows := [][]string{
		{"Total evaluations", strconv.FormatInt(stats.TotalEvaluations, 10)},
		{"Total cost", fmt.Sprintf("$%.2f", stats.TotalCostUSD)},
		{"Average score", fmt.Sprintf("%.1f", stats.AverageScore)},
	}

	known := make(map[string]bool, len(scoring.Categories))
	for _, c := range scoring.Categories {
		known[c] = true
		if n, ok := stats.CategoryDistribution[c]; ok {
			rows = append(rows, []string{c, strconv.FormatInt(n, 10)})
		}
	}
	var other []string
	for c := range stats.CategoryDistribution {
		if !known[c] {
			other = append(other, c)
		}
	}
	sort.Strings(other)
	for _, c := range other {
		rows = append(rows, []string{c, strconv.FormatInt(stats.CategoryDistribution[c], 10)})
	}

	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

func WriteRubric(w io.Writer, rubric model.Rubric) error {
	table := newTable(w, "Dimension", "Weight", "Description")
	for _, e := range rubric {
		if err := table.Append([]string{e.Dimension, strconv.Itoa(e.Weight), e.Description}); err != nil {
			return err
		}
	}
	if err := table.Append([]string{"total", strconv.Itoa(rubric.TotalWeight()), ""}); err != nil {
		return err
	}
	return table.Render()
}
