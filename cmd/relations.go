package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/pickgraph/internal/candidate"
	"github.com/papapumpkin/pickgraph/internal/catalog"
	"github.com/papapumpkin/pickgraph/internal/session"
)

var relationsCmd = &cobra.Command{
	Use:   "relations KIND ID",
	Short: "Show the candidates directly related to one entity",
	Long: "relations prints one row of the relations table: every topic, pipeline, space, " +
		"connected space, subject and indicator a toggle of the entity would consider. " +
		"KIND is one of topic, pipeline, space, connected-space, subject, indicator.",
	Args: cobra.ExactArgs(2),
	RunE: runRelations,
}

func init() {
	rootCmd.AddCommand(relationsCmd)
}

func runRelations(cmd *cobra.Command, args []string) error {
	kind, err := catalog.ParseKind(args[0])
	if err != nil {
		return err
	}
	ref := candidate.Ref{Kind: kind, ID: args[1]}

	env, err := newRunEnv()
	if err != nil {
		return err
	}
	defer env.close()

	sess, err := env.openSession()
	if err != nil {
		return err
	}
	if !sess.Set().Has(ref) {
		return fmt.Errorf("%w: %s", session.ErrUnknownCandidate, ref)
	}

	env.printer.Relations(ref, sess.Name, sess.Table().Of(ref))
	switch kind {
	case catalog.KindTopic:
		rel := sess.Relations()
		env.printer.TopicFlow(sess.Name, rel.Upstream(ref.ID), rel.Downstream(ref.ID))
	case catalog.KindPipeline:
		env.printer.PipelineUsage(sess.Name, sess.Relations().Usage(ref.ID))
	}
	return nil
}
