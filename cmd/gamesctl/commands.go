package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"games_library/internal/models"
	"games_library/internal/services"

	"github.com/spf13/cobra"
)

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printGames(w io.Writer, games []models.Game) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tPRICE\tTAGS")
	for _, g := range games {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", g.ID, g.Title, g.Price, strings.Join(g.Tags, ", "))
	}
	return tw.Flush()
}

func (a *app) listCmd() *cobra.Command {
	var search, order string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List games",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			games := a.svc.List(search, order)
			if asJSON {
				return printJSON(cmd.OutOrStdout(), games)
			}
			return printGames(cmd.OutOrStdout(), games)
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "only titles containing this text")
	cmd.Flags().StringVar(&order, "order", "", "sort by title: asc or desc")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")

	return cmd
}

func (a *app) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one game with its stats",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			d, err := a.svc.GetByID(id)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), d)
		},
	}
}

func (a *app) addCmd() *cobra.Command {
	var req services.CreateGameRequest
	var score float64

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a placeholder game with its first stats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("score") {
				req.Score = &score
			}

			d, err := a.svc.Create(req)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "added %q (id %d)\n", d.Game.Title, d.Game.ID)
			return nil
		},
	}

	cmd.Flags().Int64Var(&req.ID, "id", 0, "id of the new game")
	cmd.Flags().IntVar(&req.Achievements, "achievements", 0, "achievements unlocked")
	cmd.Flags().Float64Var(&req.HoursPlayed, "hours", 0, "hours played")
	cmd.Flags().BoolVar(&req.Finished, "finished", false, "game is finished")
	cmd.Flags().Float64Var(&score, "score", 0, "score from 0 to 10")
	cmd.Flags().StringVar(&req.Review, "review", "", "short review")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("score")

	return cmd
}

func (a *app) importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <id> <steam url or title>",
		Short: "Fill a game from its Steam store page",
		Long: `Fill a game from its Steam store page. When the second argument is not a
store url it is used as a search term and the first match is imported.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			target := args[1]
			if !strings.Contains(target, "/app/") {
				if target, err = a.steam.Search(cmd.Context(), target); err != nil {
					return err
				}
			}

			g, err := a.svc.Import(cmd.Context(), id, target)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "imported %q into id %d\n", g.Title, g.ID)
			return nil
		},
	}
}

func (a *app) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a game and its stats",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.svc.Delete(id)
		},
	}
}

func (a *app) statsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Edit per-game stats",
	}
	cmd.AddCommand(a.statsSetCmd(), a.statsDeleteCmd())
	return cmd
}

func (a *app) statsSetCmd() *cobra.Command {
	var (
		achievements int
		hours        float64
		finished     bool
		score        float64
		review       string
	)

	cmd := &cobra.Command{
		Use:   "set <id>",
		Short: "Merge the given fields into the stats of a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			var patch models.StatsPatch
			flags := cmd.Flags()
			if flags.Changed("achievements") {
				patch.Achievements = &achievements
			}
			if flags.Changed("hours") {
				patch.HoursPlayed = &hours
			}
			if flags.Changed("finished") {
				patch.Finished = &finished
			}
			if flags.Changed("score") {
				patch.Score = &score
			}
			if flags.Changed("review") {
				patch.Review = &review
			}
			if patch.Empty() {
				return fmt.Errorf("nothing to set")
			}

			st, err := a.svc.UpdateStats(id, patch)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), st)
		},
	}

	cmd.Flags().IntVar(&achievements, "achievements", 0, "achievements unlocked")
	cmd.Flags().Float64Var(&hours, "hours", 0, "hours played")
	cmd.Flags().BoolVar(&finished, "finished", false, "game is finished")
	cmd.Flags().Float64Var(&score, "score", 0, "score from 0 to 10")
	cmd.Flags().StringVar(&review, "review", "", "short review")

	return cmd
}

func (a *app) statsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete the stats of a game, keeping the game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.svc.DeleteStats(id)
		},
	}
}

func (a *app) chartsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "charts",
		Short: "Print genre, completion and price summaries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printJSON(cmd.OutOrStdout(), a.svc.Charts())
		},
	}
}
