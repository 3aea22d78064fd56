package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/loopline/pkg/pipeline"
)

// fmtCommand creates the fmt command.
func (c *CLI) fmtCommand() *cobra.Command {
	var write, list bool

	cmd := &cobra.Command{
		Use:   "fmt [file...]",
		Short: "Rewrite loop sources in canonical form",
		Long: `Print loop sources in canonical form: one alias definition per
vertex in definition order, then one statement per link.

Formatting keeps the meaning of the source. With -w the files are
rewritten in place; with -l only the names of files whose formatting
differs are printed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runFmt(cmd.Context(), args, write, list)
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, "write result to the source file")
	cmd.Flags().BoolVarP(&list, "list", "l", false, "list files whose formatting differs")

	return cmd
}

func (c *CLI) runFmt(ctx context.Context, inputs []string, write, list bool) error {
	failed := 0
	for _, input := range inputs {
		src, err := readSource(input)
		if err != nil {
			return err
		}
		out, err := pipeline.Format(ctx, src)
		if err != nil {
			printSourceError(input, src, err)
			failed++
			continue
		}

		changed := out != src
		switch {
		case list:
			if changed {
				fmt.Fprintln(stdout, input)
			}
		case write && input != stdoutPath:
			if !changed {
				continue
			}
			info, err := os.Stat(input)
			if err != nil {
				return err
			}
			if err := os.WriteFile(input, []byte(out), info.Mode().Perm()); err != nil {
				return fmt.Errorf("write %s: %w", input, err)
			}
			c.Logger.Debug("formatted", "file", input)
		default:
			fmt.Fprint(stdout, out)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files have errors", failed, len(inputs))
	}
	return nil
}
