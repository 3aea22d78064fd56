package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/loopline/pkg/pipeline"
)

// optionFlags binds pipeline options to command flags. Only flags the user
// sets override the configured values.
type optionFlags struct {
	opts    pipeline.Options
	formats string
}

func (f *optionFlags) registerLayout(fs *pflag.FlagSet) {
	fs.StringVarP(&f.opts.VizType, "type", "t", "", "visualization: loop (default), nodelink")
	fs.Float64Var(&f.opts.Width, "width", 0, "frame width")
	fs.Float64Var(&f.opts.Height, "height", 0, "frame height")
	fs.Float64Var(&f.opts.FontSize, "font-size", 0, "vertex font size")
	fs.BoolVar(&f.opts.Detailed, "detailed", false, "show names above texts (nodelink)")

	fs.Float64Var(&f.opts.Diameter, "diameter", 0, "target layout diameter")
	fs.Float64Var(&f.opts.Stiffness, "stiffness", 0, "spring stiffness")
	fs.Float64Var(&f.opts.Epsilon, "epsilon", 0, "energy gradient threshold")
	fs.IntVar(&f.opts.MaxSweeps, "max-sweeps", 0, "stress relaxation sweep cap")
	fs.IntVar(&f.opts.MaxNewtonSteps, "max-newton-steps", 0, "Newton steps per sweep")
	fs.Float64Var(&f.opts.Spacing, "spacing", 0, "force layout spacing")
	fs.IntVar(&f.opts.Iterations, "iterations", 0, "force layout iterations")
	fs.Float64Var(&f.opts.Temperature, "temperature", 0, "initial force layout step")
	fs.Float64Var(&f.opts.Cooling, "cooling", 0, "temperature factor per iteration")
	fs.Float64Var(&f.opts.DummyOffset, "dummy-offset", 0, "control point offset from the link midpoint")
	fs.BoolVar(&f.opts.FreezeReal, "freeze", false, "keep vertices where the stress layout put them")
}

func (f *optionFlags) registerRender(fs *pflag.FlagSet) {
	fs.StringVarP(&f.formats, "format", "f", "", "output format(s): svg (default), png, pdf, json, dot (comma-separated)")
	fs.StringVar(&f.opts.Style, "style", "", "visual style: simple (default), debug")
	fs.StringVar(&f.opts.Background, "background", "", "SVG background colour")
	fs.Float64Var(&f.opts.Scale, "scale", 0, "PNG scale factor")
}

// merge returns base with every flag the user set applied on top.
func (f *optionFlags) merge(cmd *cobra.Command, base pipeline.Options) pipeline.Options {
	o := base
	cmd.Flags().Visit(func(fl *pflag.Flag) {
		switch fl.Name {
		case "type":
			o.VizType = f.opts.VizType
		case "width":
			o.Width = f.opts.Width
		case "height":
			o.Height = f.opts.Height
		case "font-size":
			o.FontSize = f.opts.FontSize
		case "detailed":
			o.Detailed = f.opts.Detailed
		case "diameter":
			o.Diameter = f.opts.Diameter
		case "stiffness":
			o.Stiffness = f.opts.Stiffness
		case "epsilon":
			o.Epsilon = f.opts.Epsilon
		case "max-sweeps":
			o.MaxSweeps = f.opts.MaxSweeps
		case "max-newton-steps":
			o.MaxNewtonSteps = f.opts.MaxNewtonSteps
		case "spacing":
			o.Spacing = f.opts.Spacing
		case "iterations":
			o.Iterations = f.opts.Iterations
		case "temperature":
			o.Temperature = f.opts.Temperature
		case "cooling":
			o.Cooling = f.opts.Cooling
		case "dummy-offset":
			o.DummyOffset = f.opts.DummyOffset
		case "freeze":
			o.FreezeReal = f.opts.FreezeReal
		case "format":
			o.Formats = parseFormats(f.formats)
		case "style":
			o.Style = f.opts.Style
		case "background":
			o.Background = f.opts.Background
		case "scale":
			o.Scale = f.opts.Scale
		}
	})
	return o
}
