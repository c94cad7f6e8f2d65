package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/pickgraph/internal/script"
	"github.com/papapumpkin/pickgraph/internal/selection"
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Replay a toggle script and save the resulting selection",
	Long: "apply runs the [[step]] entries of a TOML script (toggle, select-all, filter, undo) " +
		"against a fresh session over the source catalog, then writes the picked-set.",
	RunE: runApply,
}

func init() {
	applyCmd.Flags().String("script", "", "TOML script to replay (required)")
	applyCmd.Flags().StringP("output", "o", "", "selection file to write (default from config)")
	applyCmd.Flags().Bool("dry-run", false, "report the outcome without writing the selection")
	_ = applyCmd.MarkFlagRequired("script")
	rootCmd.AddCommand(applyCmd)
}

func runApply(cmd *cobra.Command, args []string) error {
	env, err := newRunEnv()
	if err != nil {
		return err
	}
	defer env.close()

	scriptPath, _ := cmd.Flags().GetString("script")
	sc, err := script.Load(scriptPath)
	if err != nil {
		return err
	}
	sess, err := env.openSession()
	if err != nil {
		return err
	}

	rep, err := script.Run(sess, sc)
	if err != nil {
		return fmt.Errorf("replaying %s: %w", scriptPath, err)
	}
	env.printer.Info(fmt.Sprintf("%d step(s): %d flag(s) changed, %d no-op(s), %d undo(s)",
		rep.Steps, rep.Changed, rep.Noops, rep.Undone))
	if violations := sess.Violations(); len(violations) > 0 {
		env.printer.CheckReport(sess.Name, sess.State().Total(), violations, nil)
	}

	if dry, _ := cmd.Flags().GetBool("dry-run"); dry {
		env.printer.Info(fmt.Sprintf("dry run: %d entities would be selected", sess.State().Total()))
		return nil
	}
	outFlag, _ := cmd.Flags().GetString("output")
	out, err := env.outputPath(outFlag)
	if err != nil {
		return err
	}
	sel := sess.Selection()
	if err := selection.Save(out, sel); err != nil {
		return fmt.Errorf("saving selection: %w", err)
	}
	env.printer.SelectionSaved(out, sel)
	return nil
}
