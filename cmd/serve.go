package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/pickgraph/internal/mcpserver"
	"github.com/papapumpkin/pickgraph/internal/selection"
	"github.com/papapumpkin/pickgraph/internal/session"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a picker session to MCP clients",
	Long: "serve exposes one picker session over MCP (SSE on HTTP) with the tools relations, " +
		"toggle, select_visible, undo and selection. On interrupt the selection is saved.",
	RunE: runServe,
}

func init() {
	serveCmd.Flags().Int("port", mcpserver.DefaultPort, "port to listen on")
	serveCmd.Flags().StringP("output", "o", "", "selection file written on shutdown (default from config)")
	serveCmd.Flags().String("from", "", "start from a previously saved selection")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
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

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	port, _ := cmd.Flags().GetInt("port")
	srv := mcpserver.New(sess, port, env.log)
	if err := srv.Start(ctx); err != nil {
		return err
	}
	env.printer.Info(fmt.Sprintf("serving session %s on %s; interrupt to save and exit", sess.ID(), srv.Addr()))

	<-ctx.Done()

	shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Stop(shutCtx); err != nil {
		env.log.Warn("mcp server shutdown", "error", err)
	}

	var sel selection.Selection
	srv.Session(func(s *session.Session) { sel = s.Selection() })
	if err := selection.Save(out, sel); err != nil {
		return fmt.Errorf("saving selection: %w", err)
	}
	env.printer.SelectionSaved(out, sel)
	return nil
}
