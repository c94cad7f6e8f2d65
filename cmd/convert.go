package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/pickgraph/internal/catalog"
)

var convertCmd = &cobra.Command{
	Use:   "convert INPUT OUTPUT",
	Short: "Convert a catalog between toml, yaml, json and sqlite",
	Long: "convert reads a catalog, normalizes it, and writes it in the format named by the " +
		"output extension (.toml, .yaml, .json, or .db/.sqlite for a SQLite store).",
	Args: cobra.ExactArgs(2),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	env, err := newRunEnv()
	if err != nil {
		return err
	}
	defer env.close()

	c, err := catalog.Load(args[0], env.log)
	if err != nil {
		return fmt.Errorf("loading %s: %w", args[0], err)
	}
	if err := catalog.Save(args[1], c); err != nil {
		return fmt.Errorf("saving %s: %w", args[1], err)
	}
	env.printer.Info(fmt.Sprintf("wrote %d entities to %s", c.Len(), args[1]))
	return nil
}
