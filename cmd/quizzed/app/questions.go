package app

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	quizzed "github.com/David256/quizzed-backend/internal/app"
	"github.com/David256/quizzed-backend/internal/render"
)

func newQuestionsCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "questions",
		Short: "Fetch a batch of questions",
		Long: `Fetch a batch of true/false questions.

--provider selects quizapi, opentdb or local. Any other value lets quizzed pick
among the available providers. A failing provider falls back to another one.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := formatFlag(cmd)
			if err != nil {
				return err
			}
			wanted, err := cmd.Flags().GetString("provider")
			if err != nil {
				return err
			}

			return runWithApp(cmd, v, func(ctx context.Context, a *quizzed.QuizzedApp) error {
				questions, err := a.Questions(ctx, wanted)
				if err != nil {
					return err
				}
				return render.Questions(cmd.OutOrStdout(), format, questions)
			})
		},
	}

	cmd.Flags().String("provider", "", "Preferred question provider (quizapi, opentdb, local)")
	cmd.Flags().Int("amount", 0, "Number of questions to request (defaults to the configured amount)")
	cmd.Flags().String("format", string(render.FormatTable), "Output format (json, yaml, table)")
	if err := v.BindPFlag("amount", cmd.Flags().Lookup("amount")); err != nil {
		panic(err)
	}

	return cmd
}
