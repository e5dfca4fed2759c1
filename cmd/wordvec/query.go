package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/viant/wordvec/analytics"
)

func newAnalogyCmd(a *app) *cobra.Command {
	var n int
	cmd := &cobra.Command{
		Use:     "analogy <a> <b> <c>",
		Short:   "Find words completing a - b + c",
		Example: "  wordvec analogy king man woman",
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service(cmd.Context(), true)
			if err != nil {
				return err
			}
			result, err := svc.SolveAnalogy(cmd.Context(), args[0], args[1], args[2], n)
			if err != nil {
				return err
			}
			color.New(color.Bold).Fprintln(a.out, result.Equation)
			tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
			for i, m := range result.Results {
				fmt.Fprintf(tw, "%d.\t%s\t%.4f\n", i+1, m.Word, m.Similarity)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVarP(&n, "results", "n", 0, "number of results (0 uses analogy.results)")
	return cmd
}

func newSimilarityCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "similarity <word1> <word2>",
		Short: "Score how similar two words are on a 0-100 scale",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service(cmd.Context(), true)
			if err != nil {
				return err
			}
			score, err := svc.Similarity(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			printScore(a.out, fmt.Sprintf("%s ~ %s", args[0], args[1]), score.Percentage)
			fmt.Fprintf(a.out, "cosine %.4f\n", score.Cosine)
			return nil
		},
	}
}

func newProjectCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "project <word> <word> [word...]",
		Short: "Project words onto their first two principal axes",
		Long: `Project places words on a plane using principal component analysis of their
vectors. Arguments may also be comma separated lists.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service(cmd.Context(), true)
			if err != nil {
				return err
			}
			words := lo.FlatMap(args, func(arg string, _ int) []string { return strings.Split(arg, ",") })
			projection, err := svc.Project(cmd.Context(), words)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(a.out)
				enc.SetIndent("", "  ")
				return enc.Encode(projection)
			}
			return printProjection(a.out, projection)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the projection as JSON")
	return cmd
}

func printProjection(w io.Writer, p analytics.Projection) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, word := range p.Words {
		c := p.Coordinates[word]
		fmt.Fprintf(tw, "%s\t%8.4f\t%8.4f\n", word, c.X, c.Y)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if len(p.Missing) > 0 {
		color.New(color.FgYellow).Fprintf(w, "no vector: %s\n", strings.Join(p.Missing, ", "))
	}
	return nil
}
