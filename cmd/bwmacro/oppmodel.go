package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/1siamBot/bwmacro/internal/oppmodel"
)

func newOppModelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "oppmodel",
		Short: "Inspect or update a persisted opponent-model text file",
	}
	cmd.AddCommand(newOppModelShowCmd(), newOppModelRecordCmd())
	return cmd
}

func newOppModelShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <path>",
		Short: "Print every matchup and skill record in a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			model, err := oppmodel.LoadModel(f)
			if err != nil {
				return err
			}
			for _, mu := range model.Matchups {
				fmt.Printf("matchup: %s %d-%d\n", mu.Opponent, mu.Wins, mu.Losses)
			}
			for name, data := range model.Skills {
				fmt.Printf("skill: %s: %s\n", name, data)
			}
			return nil
		},
	}
}

func newOppModelRecordCmd() *cobra.Command {
	var won bool

	cmd := &cobra.Command{
		Use:   "record <path> <opponent>",
		Short: "Record a game result against an opponent and save the file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, opponentName := args[0], args[1]

			var model *oppmodel.Model
			if f, err := os.Open(path); err == nil {
				model, err = oppmodel.LoadModel(f)
				f.Close()
				if err != nil {
					return err
				}
			} else {
				model = oppmodel.NewModel()
			}

			model.RecordResult(opponentName, won)

			out, err := os.Create(path)
			if err != nil {
				return err
			}
			defer out.Close()
			return model.Save(out)
		},
	}
	cmd.Flags().BoolVar(&won, "won", false, "record a win instead of a loss")
	return cmd
}
