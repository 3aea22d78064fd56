package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/loopline/pkg/errors"
	"github.com/matzehuels/loopline/pkg/pipeline"
)

// compileCommand creates the compile command, which runs the whole pipeline.
func (c *CLI) compileCommand() *cobra.Command {
	var (
		flags   optionFlags
		output  string
		noCache bool
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "compile [file]",
		Short: "Compile a loop source into a diagram",
		Long: `Compile a loop source into a diagram.

The source is parsed, laid out and rendered in one step. Use "-" to read the
source from stdin; a single output format is then written to stdout unless
-o is given.

Layouts and renders are cached, so recompiling an unchanged (or merely
reformatted) source is fast.`,
		Example: `  loopline compile population.cld
  loopline compile population.cld -f svg,png -o out/population
  echo '@A(births) +> @B[population];' | loopline compile - -f dot`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.merge(cmd, c.Config.PipelineOptions())
			opts.Refresh = refresh
			return c.runCompile(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore cached results")
	flags.registerLayout(cmd.Flags())
	flags.registerRender(cmd.Flags())

	return cmd
}

func (c *CLI) runCompile(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	src, err := readSource(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	prog := newProgress(c.Logger)
	spinner := newSpinner(ctx, "Compiling "+input+"...")
	spinner.Start()

	res, err := runner.Execute(ctx, src, opts)
	spinner.Stop()
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return reportSourceError(input, src, err)
	}
	prog.done("Compiled " + input)

	written, err := writeArtifacts(res.Artifacts, opts.Formats, input, output)
	if err != nil {
		return err
	}
	if len(written) == 0 {
		return nil
	}

	printSuccess("Compiled %s", input)
	for _, p := range written {
		printFile(p)
	}
	printStats(res.Stats, res.CacheInfo.LayoutHit)
	return nil
}

// reportSourceError prints errors that point into the source and passes
// everything else through.
func reportSourceError(path, src string, err error) error {
	if errors.IsLexical(err) || errors.IsSemantic(err) || errors.Is(err, errors.ErrCodeInvalidInput) {
		printSourceError(path, src, err)
		return fmt.Errorf("%s: %w", sourceLocation(path, src, err), err)
	}
	return err
}
