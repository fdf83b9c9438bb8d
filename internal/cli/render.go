package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/classmap/classmap/pkg/diagram"
	"github.com/classmap/classmap/pkg/factfile"
	"github.com/classmap/classmap/pkg/model"
	"github.com/classmap/classmap/pkg/render"
)

const (
	diagramClass   = "class"
	diagramPackage = "package"

	// formatSVG is handled by the CLI on top of the DOT printer.
	formatSVG = "svg"
)

// renderOpts holds the command-line flags for the render command.
// Unset flags fall back to the project config, then to defaults.
type renderOpts struct {
	configPath string
	output     string   // output directory, or "-" for stdout
	formats    []string // output formats
	diagrams   []string // diagram levels: "class", "package"
	filter     string   // visibility mode
	title      string   // diagram title
}

// newRenderCmd creates the render command.
func newRenderCmd() *cobra.Command {
	var opts renderOpts
	var formatsStr, diagramsStr string

	cmd := &cobra.Command{
		Use:   "render [facts-file]",
		Short: "Render diagrams from a facts file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = splitList(formatsStr)
			opts.diagrams = splitList(diagramsStr)
			return runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", "", "config file (default classmap.toml if present)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output directory, or - for stdout")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): mmd (default), er, html, puml, dot, svg (comma-separated)")
	cmd.Flags().StringVarP(&diagramsStr, "diagram", "d", "", "diagram level(s): class (default), package (comma-separated)")
	cmd.Flags().StringVar(&opts.filter, "filter", "", "visibility mode: public (default), all, special")
	cmd.Flags().StringVar(&opts.title, "title", "", "diagram title (default: facts file base name)")

	return cmd
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

// mergeConfig fills unset options from the config file and applies the
// built-in defaults last.
func mergeConfig(opts *renderOpts, cfg config, factsPath string) {
	if len(opts.formats) == 0 {
		opts.formats = cfg.Formats
	}
	if len(opts.formats) == 0 {
		opts.formats = []string{string(render.FormatMermaid)}
	}
	if len(opts.diagrams) == 0 {
		opts.diagrams = cfg.Diagrams
	}
	if len(opts.diagrams) == 0 {
		opts.diagrams = []string{diagramClass}
	}
	if opts.filter == "" {
		opts.filter = cfg.Filter
	}
	if opts.filter == "" {
		opts.filter = "public"
	}
	if opts.output == "" {
		opts.output = cfg.Output
	}
	if opts.output == "" {
		opts.output = "."
	}
	if opts.title == "" {
		opts.title = cfg.Title
	}
	if opts.title == "" {
		base := filepath.Base(factsPath)
		opts.title = strings.TrimSuffix(base, filepath.Ext(base))
	}
}

func runRender(ctx context.Context, factsPath string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	mergeConfig(opts, cfg, factsPath)

	filter, err := filterFor(opts.filter)
	if err != nil {
		return err
	}
	for _, level := range opts.diagrams {
		if level != diagramClass && level != diagramPackage {
			return fmt.Errorf("unknown diagram level %q (want class or package)", level)
		}
	}

	p := newProgress(logger)
	facts, err := factfile.Load(factsPath)
	if err != nil {
		return err
	}
	p.done(fmt.Sprintf("Loaded %d classes, %d modules", len(facts.Classes), len(facts.Modules)))

	if opts.output != "-" {
		if err := os.MkdirAll(opts.output, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	for _, level := range opts.diagrams {
		for _, format := range opts.formats {
			data, err := renderDiagram(ctx, facts, level, format, opts.title, filter)
			if err != nil {
				return err
			}
			if opts.output == "-" {
				if _, err := os.Stdout.Write(data); err != nil {
					return err
				}
				continue
			}
			path := filepath.Join(opts.output, outputName(level, format))
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			logger.Info("Wrote diagram", "path", path)
		}
	}
	return nil
}

// renderDiagram builds and renders one diagram level in one format.
func renderDiagram(ctx context.Context, facts *factfile.Facts, level, format, title string, filter model.VisibilityFilter) ([]byte, error) {
	var buf bytes.Buffer

	printerFormat := render.Format(format)
	if format == formatSVG {
		printerFormat = render.FormatDot
	}
	printer, err := render.NewPrinter(printerFormat, &buf, title)
	if err != nil {
		return nil, err
	}

	switch level {
	case diagramClass:
		d, err := buildClassDiagram(facts, title, filter)
		if err != nil {
			return nil, err
		}
		render.WriteClassDiagram(printer, d)
	case diagramPackage:
		d, err := buildPackageDiagram(facts, title, filter)
		if err != nil {
			return nil, err
		}
		render.WritePackageDiagram(printer, d)
	}

	if format == formatSVG {
		return render.RenderSVG(ctx, buf.String())
	}
	return buf.Bytes(), nil
}

// buildClassDiagram adds every class to a fresh diagram and extracts.
func buildClassDiagram(facts *factfile.Facts, title string, filter model.VisibilityFilter) (*diagram.Diagram, error) {
	d := diagram.New(title, diagram.Options{Filter: filter})
	for _, class := range facts.Classes {
		if _, err := d.AddObject(classTitle(class), class); err != nil {
			return nil, err
		}
	}
	d.ExtractRelationships()
	return d, nil
}

// buildPackageDiagram adds modules and classes and extracts, so the
// module level carries ownership and dependency edges.
func buildPackageDiagram(facts *factfile.Facts, title string, filter model.VisibilityFilter) (*diagram.PackageDiagram, error) {
	d := diagram.NewPackageDiagram(title, diagram.Options{Filter: filter})
	for _, mod := range facts.Modules {
		if _, err := d.AddModule(mod.Name, mod); err != nil {
			return nil, err
		}
	}
	for _, class := range facts.Classes {
		if _, err := d.AddObject(classTitle(class), class); err != nil {
			return nil, err
		}
	}
	d.ExtractRelationships()
	return d, nil
}

// classTitle qualifies a class name with its defining module, so
// renderers can reduce it back to the bare name.
func classTitle(class *model.Class) string {
	if class.Module != nil {
		return class.Module.Name + "." + class.Name
	}
	return class.Name
}

// outputName maps a diagram level and format to the output file name.
func outputName(level, format string) string {
	prefix := "classes"
	if level == diagramPackage {
		prefix = "packages"
	}
	ext := format
	if format == string(render.FormatERMermaid) {
		ext = "er.mmd"
	}
	return prefix + "." + ext
}
