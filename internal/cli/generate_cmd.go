package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/noah-isme/edt-api/internal/dto"
)

func newGenerateCmd(env *Env) *cobra.Command {
	var programID string
	var group int
	var all bool

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the timetable of a group, or of every group with --all",
		RunE: func(cmd *cobra.Command, args []string) error {
			if programID == "" {
				return fmt.Errorf("--program is required")
			}
			if !all && group <= 0 {
				return fmt.Errorf("--group is required unless --all is set")
			}

			app, err := env.open(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			out := cmd.OutOrStdout()
			if all {
				results, err := app.Timetables.GenerateAll(cmd.Context(), dto.GenerateAllRequest{ProgramID: programID})
				if err != nil {
					return err
				}
				for i := range results {
					printGeneration(out, &results[i])
				}
				return nil
			}

			result, err := app.Timetables.Generate(cmd.Context(), dto.GenerateScheduleRequest{ProgramID: programID, Group: group})
			if err != nil {
				return err
			}
			printGeneration(out, result)
			return nil
		},
	}

	cmd.Flags().StringVar(&programID, "program", "", "Program ID")
	cmd.Flags().IntVar(&group, "group", 0, "Group number")
	cmd.Flags().BoolVar(&all, "all", false, "Generate every group of the program")

	return cmd
}

func printGeneration(w io.Writer, res *dto.GenerateScheduleResponse) {
	fmt.Fprintf(w, "%s group %d: %d sessions, %d conflicts (schedule %s)\n",
		res.Schedule.ProgramName, res.Schedule.Group, res.TotalSessions, res.TotalConflicts, res.Schedule.ID)
	for _, conflict := range res.Conflicts {
		fmt.Fprintf(w, "  - %s\n", conflict)
	}
}
