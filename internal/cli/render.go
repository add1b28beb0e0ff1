package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/akellamp2020-create/lamp-card-render/pkg/config"
	"github.com/akellamp2020-create/lamp-card-render/pkg/pipeline"
	"github.com/akellamp2020-create/lamp-card-render/pkg/render"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output     string // output file (one input) or directory (several inputs)
	format     string // png, html or json
	backend    string // overrides the configured backend
	chunkWidth int    // overrides the configured chunk width
}

// renderCommand creates the render command for turning payload files into images.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{format: pipeline.DefaultFormat}

	cmd := &cobra.Command{
		Use:   "render <payload.json>...",
		Short: "Render settlement payloads to PNG, HTML or JSON",
		Long: `Render one or more settlement payload files.

With a single input, -o names the output file. With several inputs, -o names
a directory; each output takes its input's base name. Without -o, outputs are
written next to their inputs.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pipeline.ValidateFormat(opts.format); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (one input) or directory (several inputs)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: png (default), html, json")
	cmd.Flags().StringVar(&opts.backend, "backend", "", "image backend: raster, chrome (default from config)")
	cmd.Flags().IntVar(&opts.chunkWidth, "chunk-width", 0, "values per table segment (default from config)")

	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(
		[]string{render.FormatPNG, render.FormatHTML, render.FormatJSON}, cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.RegisterFlagCompletionFunc("backend", cobra.FixedCompletions(
		[]string{config.BackendRaster, config.BackendChrome}, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

func (c *CLI) runRender(ctx context.Context, inputs []string, opts renderOpts) error {
	logger := loggerFromContext(ctx)

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if opts.backend != "" {
		cfg.Render.Backend = opts.backend
	}
	if opts.chunkWidth != 0 {
		cfg.Engine.ChunkWidth = opts.chunkWidth
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	runner, err := c.newRunner(cfg)
	if err != nil {
		return err
	}

	outputs, err := outputPaths(inputs, opts.output, opts.format)
	if err != nil {
		return err
	}

	prog := newProgress(logger)
	label := backendLabel(cfg, opts.format)
	spin := newSpinner(ctx, os.Stderr, fmt.Sprintf("Rendering 0/%d with %s...", len(inputs), label))
	spin.Start()

	var finished atomic.Int32
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i := range inputs {
		in, out := inputs[i], outputs[i]
		g.Go(func() error {
			err := renderFile(gctx, runner, in, out, pipeline.Options{
				Format:   opts.format,
				Viewport: cfg.Render.Viewport,
			})
			if err == nil {
				spin.SetMessage(fmt.Sprintf("Rendering %d/%d with %s...", finished.Add(1), len(inputs), label))
			}
			return err
		})
	}
	if err := g.Wait(); err != nil {
		spin.StopWithError("render failed")
		return err
	}
	spin.Stop()

	prog.done(fmt.Sprintf("Rendered %d payload(s)", len(inputs)))
	printSuccess(os.Stdout, "Rendered %d payload(s)", len(inputs))
	for _, out := range outputs {
		printFile(os.Stdout, out)
	}
	return nil
}

func renderFile(ctx context.Context, runner *pipeline.Runner, in, out string, opts pipeline.Options) error {
	data, err := os.ReadFile(in)
	if err != nil {
		return fmt.Errorf("read %s: %w", in, err)
	}
	res, err := runner.Execute(ctx, data, opts)
	if err != nil {
		return fmt.Errorf("%s: %w", in, err)
	}
	if err := os.WriteFile(out, res.Artifact, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	return nil
}

// outputPaths decides where each input's output goes.
func outputPaths(inputs []string, output, format string) ([]string, error) {
	if len(inputs) == 1 && output != "" {
		return []string{output}, nil
	}

	dir := output
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create output directory: %w", err)
		}
	}

	paths := make([]string, len(inputs))
	seen := make(map[string]string, len(inputs))
	for i, in := range inputs {
		base := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in)) + "." + format
		target := filepath.Join(filepath.Dir(in), base)
		if dir != "" {
			target = filepath.Join(dir, base)
		}
		if prev, ok := seen[target]; ok {
			return nil, fmt.Errorf("%s and %s would both write %s", prev, in, target)
		}
		if target == in {
			return nil, fmt.Errorf("output %s would overwrite its input", target)
		}
		seen[target] = in
		paths[i] = target
	}
	return paths, nil
}

func backendLabel(cfg config.Config, format string) string {
	if format != render.FormatPNG {
		return format
	}
	return cfg.Render.Backend
}
