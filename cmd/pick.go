package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/pickgraph/internal/filter"
	"github.com/papapumpkin/pickgraph/internal/selection"
	"github.com/papapumpkin/pickgraph/internal/tui"
)

var pickCmd = &cobra.Command{
	Use:   "pick",
	Short: "Pick entities interactively and save the selection",
	RunE:  runPick,
}

func init() {
	pickCmd.Flags().StringP("output", "o", "", "selection file to write (default from config)")
	pickCmd.Flags().String("from", "", "start from a previously saved selection")
	rootCmd.AddCommand(pickCmd)
}

func runPick(cmd *cobra.Command, args []string) error {
	env, err := newRunEnv()
	if err != nil {
		return err
	}
	defer env.close()

	outFlag, _ := cmd.Flags().GetString("output")
	out, err := env.outputPath(outFlag)
	if err != nil {
		return err
	}

	sess, err := env.openSession()
	if err != nil {
		return err
	}
	from, _ := cmd.Flags().GetString("from")
	if err := env.restoreFrom(sess, from); err != nil {
		return err
	}

	confirmed, err := tui.Run(sess, filter.NewDebouncer(env.cfg.Filter.Debounce))
	if err != nil {
		return err
	}
	if !confirmed {
		env.printer.Info("cancelled; no selection written")
		return nil
	}

	sel := sess.Selection()
	if err := selection.Save(out, sel); err != nil {
		return fmt.Errorf("saving selection: %w", err)
	}
	env.printer.SelectionSaved(out, sel)
	return nil
}
