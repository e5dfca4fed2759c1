package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/viant/wordvec/analytics"
)

var (
	bandHot  = color.New(color.FgGreen, color.Bold)
	bandWarm = color.RGB(251, 146, 60)
	bandMild = color.RGB(250, 204, 21)
	bandCold = color.RGB(248, 113, 113)
)

// scoreColor buckets a 0-100 similarity the way the web game colours guesses.
func scoreColor(percentage float64) *color.Color {
	switch {
	case percentage >= 85:
		return bandHot
	case percentage >= 70:
		return bandWarm
	case percentage >= 50:
		return bandMild
	default:
		return bandCold
	}
}

func printScore(w io.Writer, label string, percentage float64) {
	fmt.Fprintf(w, "%s: ", label)
	scoreColor(percentage).Fprintf(w, "%.2f", percentage)
	fmt.Fprintln(w)
}

func newDailyCmd(a *app) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "daily",
		Short: "Print the word of the day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.service(cmd.Context(), false)
			if err != nil {
				return err
			}
			day, err := a.parseDate(date)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, svc.DailyWord(day))
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "game date as YYYY-MM-DD (default today)")
	return cmd
}

func newGuessCmd(a *app) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "guess <word>",
		Short: "Score a guess against the word of the day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := a.parseDate(date)
			if err != nil {
				return err
			}
			svc, err := a.service(cmd.Context(), true)
			if err != nil {
				return err
			}
			outcome, err := svc.EvaluateGuess(cmd.Context(), args[0], day)
			if err != nil {
				return err
			}
			printOutcome(a.out, outcome)
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "game date as YYYY-MM-DD (default today)")
	return cmd
}

func printOutcome(w io.Writer, outcome analytics.GuessOutcome) {
	printScore(w, outcome.Guess, outcome.Similarity)
	if outcome.Correct {
		bandHot.Fprintln(w, "correct!")
	}
}

func newHintCmd(a *app) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "hint",
		Short: "Show hints for the word of the day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			day, err := a.parseDate(date)
			if err != nil {
				return err
			}
			svc, err := a.service(cmd.Context(), true)
			if err != nil {
				return err
			}
			hint, err := svc.Hint(cmd.Context(), day)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "starts with %q, %d letters\n", hint.FirstLetter, hint.Length)
			if hint.Similar != "" {
				fmt.Fprintf(a.out, "close to %q\n", hint.Similar)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "game date as YYYY-MM-DD (default today)")
	return cmd
}
