package app

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	quizzed "github.com/David256/quizzed-backend/internal/app"
	"github.com/David256/quizzed-backend/internal/render"
)

func newQuizCmd(v *viper.Viper) *cobra.Command {
	quizCmd := &cobra.Command{
		Use:   "quiz",
		Short: "Manage quizzes",
	}

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a quiz filled with questions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := formatFlag(cmd)
			if err != nil {
				return err
			}
			name, err := cmd.Flags().GetString("name")
			if err != nil {
				return err
			}
			wanted, err := cmd.Flags().GetString("provider")
			if err != nil {
				return err
			}

			return runWithApp(cmd, v, func(ctx context.Context, a *quizzed.QuizzedApp) error {
				quiz, err := a.CreateQuiz(ctx, name, wanted)
				if err != nil {
					return err
				}
				return render.Quiz(cmd.OutOrStdout(), format, quiz)
			})
		},
	}

	createCmd.Flags().String("name", "", "Quiz name (required)")
	createCmd.Flags().String("provider", "", "Preferred question provider (quizapi, opentdb, local)")
	createCmd.Flags().String("format", string(render.FormatJSON), "Output format (json, yaml, table)")

	quizCmd.AddCommand(createCmd)
	return quizCmd
}
