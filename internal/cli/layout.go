package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/loopline/pkg/graph"
	"github.com/matzehuels/loopline/pkg/pipeline"
)

// layoutCommand creates the layout command for computing diagram geometry.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		flags   optionFlags
		output  string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "layout [file]",
		Short: "Compute the diagram geometry of a loop source",
		Long: `Compute the diagram geometry of a loop source.

The output is a diagram JSON file (the same document as 'compile -f json')
holding vertex boxes, arc circles, arrowheads and labels. Render it with
'loopline render'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.merge(cmd, c.Config.PipelineOptions())
			return c.runLayout(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&flags.opts.Style, "style", "", "visual style: simple (default), debug")
	flags.registerLayout(cmd.Flags())

	return cmd
}

func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	src, err := readSource(input)
	if err != nil {
		return err
	}
	p, err := pipeline.Parse(ctx, src)
	if err != nil {
		return reportSourceError(input, src, err)
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	spinner := newSpinner(ctx, fmt.Sprintf("Computing %s layout...", opts.VizType))
	spinner.Start()
	d, info, hit, err := runner.LayoutWithCacheInfo(ctx, p.Graph, opts)
	spinner.Stop()
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("compute layout: %w", err)
	}

	outputPath := output
	if outputPath == "" {
		outputPath = basePath("", input) + ".layout.json"
	}
	if err := graph.WriteDiagramFile(d, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(pipeline.Stats{
		VertexCount: p.Vertices.Len(),
		LinkCount:   p.Links.Len(),
		ArcCount:    len(d.Arcs),
		Sweeps:      info.Sweeps,
		Fallback:    info.Fallback,
	}, hit)
	printNewline()
	printNextStep("Render", "loopline render "+outputPath)
	return nil
}

// renderCommand creates the render command, which draws a diagram file.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		flags   optionFlags
		output  string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "render [diagram.json]",
		Short: "Render a diagram file to SVG, PNG, PDF or JSON",
		Long: `Render a diagram file produced by 'loopline layout'.

The diagram already holds all geometry, so this step only draws it. DOT
output of a loop diagram needs the source graph; use 'compile -f dot'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.merge(cmd, c.Config.PipelineOptions())
			if !cmd.Flags().Changed("style") {
				opts.Style = ""
			}
			return c.runRender(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	flags.registerRender(cmd.Flags())

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	d, err := graph.ReadDiagramFile(input)
	if err != nil {
		return fmt.Errorf("load diagram %s: %w", input, err)
	}
	opts.VizType = d.VizType

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	opts.Logger = c.Logger

	spinner := newSpinner(ctx, fmt.Sprintf("Rendering %s...", d.VizType))
	spinner.Start()
	artifacts, hit, err := runner.RenderWithCacheInfo(ctx, d, nil, opts)
	spinner.Stop()
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	base := output
	if base == "" {
		base = strings.TrimSuffix(strings.TrimSuffix(input, filepath.Ext(input)), ".layout")
	}
	written, err := writeArtifacts(artifacts, opts.Formats, base, output)
	if err != nil {
		return err
	}
	printSuccess("Rendered %s", input)
	for _, p := range written {
		printFile(p)
	}
	if hit {
		printDetail(iconCached)
	}
	return nil
}
