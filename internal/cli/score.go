package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var scoreAll bool

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Print the current ranked attention stream",
	Long:  "Runs one refresh cycle against the sources and prints the ranked stream to stdout. Debugging aid for the scoring policy.",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, _, _, cleanup := buildEngine()
		defer cleanup()

		cycle, err := eng.Refresh(context.Background())
		if err != nil {
			return err
		}

		if cycle.NextMeeting != nil {
			fmt.Printf("next meeting: %s (%s)\n\n", cycle.NextMeeting.Subject, cycle.NextMeeting.Time.Format("Mon 15:04"))
		}

		shown := cycle.Selection.Visible
		if scoreAll {
			shown = cycle.Selection.All()
		}
		for i, sc := range shown {
			fmt.Printf("%2d. [%5.1f] %-12s %s\n", i+1, sc.Score, sc.Item.Kind(), sc.Item.Title())
		}
		if !scoreAll && len(cycle.Selection.Remaining) > 0 {
			fmt.Printf("    … %d more (use --all)\n", len(cycle.Selection.Remaining))
		}
		return nil
	},
}

func init() {
	scoreCmd.Flags().BoolVar(&scoreAll, "all", false, "Print the full stream, not just the visible slice")
	RootCmd.AddCommand(scoreCmd)
}
