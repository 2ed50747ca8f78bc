package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/archdiagram/internal/cloudsec"
	"github.com/matzehuels/archdiagram/pkg/blueprint"
	"github.com/matzehuels/archdiagram/pkg/diagram"
	apperrors "github.com/matzehuels/archdiagram/pkg/errors"
	"github.com/matzehuels/archdiagram/pkg/render"
)

// renderOpts holds the flags shared by draw and render.
type renderOpts struct {
	output    string
	formats   string
	direction string
	layout    string
	scale     float64
	noCache   bool
}

func (o *renderOpts) register(cmd *cobra.Command, outputHelp string) {
	cmd.Flags().StringVarP(&o.output, "output", "o", "", outputHelp)
	cmd.Flags().StringVarP(&o.formats, "format", "f", "", "output formats, comma-separated: png, svg, jpg, pdf, dot, json")
	cmd.Flags().StringVarP(&o.direction, "direction", "d", "", "rank direction: TB, BT, LR, RL")
	cmd.Flags().StringVar(&o.layout, "layout", "", "Graphviz layout engine: dot, neato, fdp, sfdp, circo, twopi, osage")
	cmd.Flags().Float64Var(&o.scale, "scale", 0, "rasterize PNG from SVG at this scale (requires rsvg-convert)")
	cmd.Flags().BoolVar(&o.noCache, "no-cache", false, "disable the rendered artifact cache")
}

// drawCommand creates the draw command for the built-in architecture.
func (c *CLI) drawCommand() *cobra.Command {
	opts := &renderOpts{}

	cmd := &cobra.Command{
		Use:   "draw",
		Short: "Render the built-in AWS CloudSec Microservices Platform diagram",
		Long: `Render the built-in AWS CloudSec Microservices Platform diagram.

By default the diagram is written to ./aws-cloudsec-architecture.png. Use
--output to choose a directory or a file path, and --format for other formats.`,
		Example: `  archdiagram draw
  archdiagram draw -o docs/ -f svg,pdf
  archdiagram draw -o platform.svg -d LR`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDraw(cmd.Context(), opts)
		},
	}
	opts.register(cmd, "output directory or file path (default from config output.dir)")

	return cmd
}

// renderCommand creates the render command for blueprints.
func (c *CLI) renderCommand() *cobra.Command {
	opts := &renderOpts{}

	cmd := &cobra.Command{
		Use:   "render <blueprint>",
		Short: "Render a diagram blueprint (TOML, YAML, HCL or JSON)",
		Long: `Render a diagram blueprint.

The blueprint format is chosen by extension: .toml, .yaml/.yml, .hcl or .json.
Without --output the diagram is written next to the configured output
directory, named after the blueprint's filename setting or the blueprint file.`,
		Example: `  archdiagram render platform.yaml
  archdiagram render infra.hcl -o out/infra -f svg,png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}
	opts.register(cmd, "output file path, extension optional")

	return cmd
}

func (c *CLI) runDraw(ctx context.Context, opts *renderOpts) error {
	logger := loggerFromContext(ctx)

	d, cleanup, err := c.newDiagram(ctx, cloudsec.Title, cloudsec.Options(), opts)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := cloudsec.Build(d); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInternal, err, "build %s", cloudsec.Title)
	}
	logger.Debugf("Built %s: %d nodes, %d edges", cloudsec.Title, d.NodeCount(), d.EdgeCount())

	out := c.outputPath(opts.output, cloudsec.Filename)
	if err := c.renderDiagram(ctx, d, out); err != nil {
		return err
	}
	printNextStep("Inspect the structure", "archdiagram inspect --builtin")
	return nil
}

func (c *CLI) runRender(ctx context.Context, input string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	logger.Infof("Loading %s", input)

	b, err := blueprint.Load(input)
	if err != nil {
		return err
	}
	bpOpts, err := b.Options()
	if err != nil {
		return err
	}

	d, cleanup, err := c.newDiagram(ctx, b.Title, bpOpts, opts)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := b.Apply(d); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInvalidBlueprint, err, "apply %s", input)
	}
	logger.Debugf("Loaded blueprint: %d nodes, %d edges", d.NodeCount(), d.EdgeCount())

	name := b.Filename
	if name == "" {
		name = trimExt(filepath.Base(input))
	}
	out := c.outputPath(opts.output, name)
	return c.renderDiagram(ctx, d, out)
}

// newDiagram creates a diagram from config defaults, then base, then flags,
// each overriding the last. The cleanup function releases the artifact
// cache.
func (c *CLI) newDiagram(ctx context.Context, title string, base []diagram.Option, opts *renderOpts) (*diagram.Diagram, func(), error) {
	cfg := c.settings()

	formats, err := cfg.Formats()
	if err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "config output.formats")
	}
	all := []diagram.Option{diagram.WithFormats(formats...)}
	if cfg.Output.Direction != "" {
		dir, err := diagram.ParseDirection(cfg.Output.Direction)
		if err != nil {
			return nil, nil, apperrors.Wrap(apperrors.ErrCodeInvalidDirection, err, "config output.direction")
		}
		all = append(all, diagram.WithDirection(dir))
	}
	if cfg.Output.Layout != "" {
		all = append(all, diagram.WithLayout(cfg.Output.Layout))
	}
	all = append(all, base...)

	if opts.formats != "" {
		formats, err := render.ParseFormats(opts.formats)
		if err != nil {
			return nil, nil, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "--format")
		}
		all = append(all, diagram.WithFormats(formats...))
	}
	if opts.direction != "" {
		dir, err := diagram.ParseDirection(opts.direction)
		if err != nil {
			return nil, nil, apperrors.Wrap(apperrors.ErrCodeInvalidDirection, err, "--direction")
		}
		all = append(all, diagram.WithDirection(dir))
	}
	if opts.layout != "" {
		all = append(all, diagram.WithLayout(opts.layout))
	}

	if opts.scale > 1 && !render.HasRSVG() {
		printWarning("--scale needs rsvg-convert; PNG will be rendered by Graphviz at 1x")
		opts.scale = 0
	}
	engine, closeEngine, err := c.newEngine(ctx, opts.noCache, opts.scale)
	if err != nil {
		return nil, nil, err
	}
	all = append(all, diagram.WithEngine(engine))

	return diagram.New(title, all...), closeEngine, nil
}

// renderDiagram renders d to out with a spinner and reports the files.
func (c *CLI) renderDiagram(ctx context.Context, d *diagram.Diagram, out string) error {
	if err := apperrors.ValidateOutputPath(out); err != nil {
		return err
	}
	if slices.Contains(d.Formats(), render.FormatPDF) && !render.HasRSVG() {
		printWarning("PDF output needs rsvg-convert; install librsvg")
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInvalidPath, err, "create output directory")
	}

	prog := newProgress(loggerFromContext(ctx))
	spinner := newSpinner(ctx, fmt.Sprintf("Rendering %s...", d.Title()))
	spinner.Start()

	paths, err := d.Render(ctx, out)
	if err != nil {
		if spinner.Cancelled() {
			spinner.Stop()
			return context.Canceled
		}
		spinner.StopWithError("Render failed")
		return renderError(err)
	}
	spinner.StopWithSuccess(fmt.Sprintf("Rendered %s", d.Title()))
	printStats(d.NodeCount(), len(d.Clusters()), d.EdgeCount())
	for _, p := range paths {
		printFile(p)
	}
	prog.done(fmt.Sprintf("Generated %d file(s)", len(paths)))
	return nil
}

// renderError attaches an error code to the diagram errors a user can act on.
func renderError(err error) error {
	var (
		backend *diagram.RenderBackendError
		write   *diagram.OutputWriteError
		unknown *diagram.UnknownNodeError
	)
	switch {
	case errors.As(err, &backend):
		return apperrors.Wrap(apperrors.ErrCodeRenderFailed, backend.Err, "render %s", backend.Format)
	case errors.As(err, &write):
		return apperrors.Wrap(apperrors.ErrCodeInvalidPath, write.Err, "write %s", write.Path)
	case errors.As(err, &unknown):
		return apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "invalid diagram")
	case errors.Is(err, diagram.ErrUnsupportedFormat):
		return apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "render")
	}
	return err
}

// outputPath resolves the output flag against the configured output
// directory. An existing directory or a path ending in a separator gets
// name appended.
func (c *CLI) outputPath(output, name string) string {
	if output == "" {
		return filepath.Join(c.settings().Output.Dir, name)
	}
	if strings.HasSuffix(output, string(filepath.Separator)) {
		return filepath.Join(output, name)
	}
	if info, err := os.Stat(output); err == nil && info.IsDir() {
		return filepath.Join(output, name)
	}
	return output
}

// trimExt strips the extension from path.
func trimExt(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path))
}
