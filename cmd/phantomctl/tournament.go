package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/nexoragaming/phantomid/internal/bracket"
	"github.com/nexoragaming/phantomid/internal/service"
	"github.com/nexoragaming/phantomid/internal/utils"
	"github.com/spf13/cobra"
)

var tournamentCmd = &cobra.Command{
	Use:   "tournament",
	Short: "Create and list tournaments",
}

var tournamentCreateCmd = &cobra.Command{
	Use:   "create NAME",
	Args:  cobra.ExactArgs(1),
	Short: "Create a tournament",
}

var tournamentListCmd = &cobra.Command{
	Use:   "list",
	Args:  cobra.NoArgs,
	Short: "List tournaments grouped by status",
}

var tournamentParticipantsCmd = &cobra.Command{
	Use:   "participants SLUG",
	Args:  cobra.ExactArgs(1),
	Short: "List enrolled players in join order",
}

func init() {
	p := tournamentCreateCmd.Flags()
	organizer := p.String("organizer", "", "organizer name")
	game := p.String("game", "", "game played")
	region := p.String("region", "", "region")
	format := p.String("format", bracket.DefaultFormat, "format label")
	status := p.String("status", string(bracket.StatusOpen), "initial status")
	start := p.String("start", "", "start date, RFC 3339 or YYYY-MM-DD")
	maxSlots := p.Int("max-slots", service.DefaultMaxSlots, "maximum number of participants")
	banner := p.String("banner", "", "banner URL")

	tournamentCreateCmd.RunE = func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.Close()

		if _, err := e.users.EnsureUser(cmd.Context(), e.operator, "operator"); err != nil {
			return fmt.Errorf("ensure operator: %w", err)
		}

		created, err := e.tournaments.CreateTournament(cmd.Context(), service.CreateInput{
			Name:      args[0],
			Organizer: *organizer,
			Game:      *game,
			Region:    *region,
			Format:    *format,
			Status:    *status,
			StartDate: *start,
			MaxSlots:  maxSlots,
			BannerURL: *banner,
			CreatedBy: e.operator,
		})
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "created %s (%s) status=%s\n", created.Slug, created.ID, created.Status)
		return nil
	}

	l := tournamentListCmd.Flags()
	search := l.String("search", "", "free text search over name, game and region")
	listGame := l.String("game", "", "exact game")
	listRegion := l.String("region", "", "exact region")
	listStatus := l.String("status", "", "only this status")

	tournamentListCmd.RunE = func(cmd *cobra.Command, _ []string) error {
		e, err := openEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.Close()

		buckets, err := e.tournaments.ListTournaments(cmd.Context(), service.ListFilter{
			Search: *search,
			Game:   *listGame,
			Region: *listRegion,
			Status: *listStatus,
		})
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "STATUS\tSLUG\tGAME\tREGION\tSTART\tSLOTS")
		for _, group := range [][]bracket.TournamentSummary{buckets.Upcoming, buckets.Open, buckets.Live, buckets.Finished} {
			for _, t := range group {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d/%d\n",
					t.Status, t.Slug, t.Game, t.Region, t.StartAt.Format("2006-01-02 15:04"), t.CurrentSlots, t.MaxSlots)
			}
		}
		return tw.Flush()
	}

	tournamentParticipantsCmd.RunE = func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.Close()

		list, err := e.registration.ListParticipants(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s %d/%d\n", list.Tournament.Name, list.Tournament.CurrentSlots, list.Tournament.MaxSlots)
		for i, player := range list.Participants {
			fmt.Fprintf(cmd.OutOrStdout(), "%3d. %s (%s) joined %s\n",
				i+1, player.Username, utils.OrZero(player.PhantomID), player.JoinedAt.Format("2006-01-02 15:04:05"))
		}
		return nil
	}

	tournamentCmd.AddCommand(tournamentCreateCmd)
	tournamentCmd.AddCommand(tournamentListCmd)
	tournamentCmd.AddCommand(tournamentParticipantsCmd)
}
