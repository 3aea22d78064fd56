package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/loopline/pkg/pipeline"
)

// checkCommand creates the check command.
func (c *CLI) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check [file...]",
		Short: "Report errors in loop sources",
		Long: `Parse each source and report its first error with line and column.

Nothing is laid out or written. The command fails when any file has an
error.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCheck(cmd.Context(), args)
		},
	}
}

func (c *CLI) runCheck(ctx context.Context, inputs []string) error {
	failed := 0
	for _, input := range inputs {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		src, err := readSource(input)
		if err != nil {
			printError("%s", err)
			failed++
			continue
		}
		p, err := pipeline.Parse(ctx, src)
		if err != nil {
			printSourceError(input, src, err)
			failed++
			continue
		}
		printSuccess("%s", input)
		printDetail("%d vertices · %d links · %d edges", p.Vertices.Len(), p.Links.Len(), len(p.Graph.Edges()))
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files have errors", failed, len(inputs))
	}
	return nil
}
