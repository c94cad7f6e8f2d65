package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/pickgraph/internal/selection"
	"github.com/papapumpkin/pickgraph/internal/watch"
)

var errInconsistent = errors.New("selection is inconsistent")

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate a saved selection against the source catalog",
	Long: "check reports picked entities whose foundation (the topics, spaces, connected spaces " +
		"or subjects they are built on) is not picked. With --watch it re-checks whenever the " +
		"source, destination or selection file changes.",
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().String("selection", "", "selection file to validate (required)")
	checkCmd.Flags().Bool("watch", false, "re-check on every change to the input files")
	_ = checkCmd.MarkFlagRequired("selection")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	env, err := newRunEnv()
	if err != nil {
		return err
	}
	defer env.close()

	selPath, _ := cmd.Flags().GetString("selection")
	watching, _ := cmd.Flags().GetBool("watch")

	ok, err := checkOnce(env, selPath)
	if !watching {
		if err != nil {
			return err
		}
		if !ok {
			return errInconsistent
		}
		return nil
	}
	if err != nil {
		env.printer.Error(err.Error())
	}

	w, err := watch.New([]string{env.cfg.Source, env.cfg.Destination, selPath}, watch.WithLogger(env.log))
	if err != nil {
		return err
	}
	if err := w.Start(); err != nil {
		return err
	}
	defer w.Stop()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	env.printer.Info("watching for changes; ctrl+c to stop")

	for {
		select {
		case <-ctx.Done():
			return nil
		case change, open := <-w.Changes:
			if !open {
				return nil
			}
			env.log.Debug("input changed", "path", change.Path, "removed", change.Removed)
			if change.Removed {
				env.printer.Error(fmt.Sprintf("%s was removed", change.Path))
				continue
			}
			if _, err := checkOnce(env, selPath); err != nil {
				env.printer.Error(err.Error())
			}
		}
	}
}

// checkOnce loads the inputs fresh and prints a consistency report.
func checkOnce(env *runEnv, selPath string) (bool, error) {
	sel, err := selection.Load(selPath)
	if err != nil {
		return false, err
	}
	sess, err := env.openSession()
	if err != nil {
		return false, err
	}
	dropped := sess.Restore(sel)
	return env.printer.CheckReport(sess.Name, sess.State().Total(), sess.Violations(), dropped), nil
}

