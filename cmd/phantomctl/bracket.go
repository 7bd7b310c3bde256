package main

import (
	"fmt"
	"io"

	"github.com/nexoragaming/phantomid/internal/bracket"
	"github.com/nexoragaming/phantomid/internal/service"
	"github.com/spf13/cobra"
)

var bracketCmd = &cobra.Command{
	Use:   "bracket",
	Short: "Generate and inspect brackets",
}

var bracketGenerateCmd = &cobra.Command{
	Use:   "generate SLUG",
	Args:  cobra.ExactArgs(1),
	Short: "Seed the current participants into a new bracket",
}

var bracketShowCmd = &cobra.Command{
	Use:   "show SLUG",
	Args:  cobra.ExactArgs(1),
	Short: "Print the bracket round by round",
}

func init() {
	p := bracketGenerateCmd.Flags()
	force := p.BoolP("force", "f", false, "replace an existing bracket")

	bracketGenerateCmd.RunE = func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.Close()

		res, err := e.brackets.Generate(cmd.Context(), args[0], e.operator, service.GenerateOptions{Force: *force})
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "generated bracket for %s: players=%d size=%d rounds=%d\n",
			args[0], res.Players, res.BracketSize, res.Rounds)
		return nil
	}

	bracketShowCmd.RunE = func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.Close()

		view, err := e.brackets.GetBracket(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		printRounds(cmd.OutOrStdout(), view.Rounds)
		return nil
	}

	bracketCmd.AddCommand(bracketGenerateCmd)
	bracketCmd.AddCommand(bracketShowCmd)
}

func sideName(s *bracket.MatchSide) string {
	if s == nil {
		return "-"
	}
	return s.Username
}

func printRounds(w io.Writer, rounds []bracket.Round) {
	if len(rounds) == 0 {
		fmt.Fprintln(w, "no bracket generated")
		return
	}
	for _, round := range rounds {
		fmt.Fprintf(w, "Round %d\n", round.Number)
		for _, m := range round.Matches {
			line := fmt.Sprintf("  #%d  %s vs %s", m.MatchNumber, sideName(m.PlayerA), sideName(m.PlayerB))
			if m.Winner != nil {
				line += "  winner: " + m.Winner.Username
			}
			fmt.Fprintln(w, line)
		}
	}
}
