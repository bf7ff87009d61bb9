package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/phylotree/pkg/errors"
	"github.com/matzehuels/phylotree/pkg/pipeline"
)

// renderFlags are the flags shared by build and plot.
type renderFlags struct {
	output      string
	style       string
	formats     string
	groupSpecs  []string
	relationCSV string
	width       int
	height      int
	title       string
	noCache     bool
	refresh     bool
}

func (c *CLI) addRenderFlags(cmd *cobra.Command, f *renderFlags) {
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output path or prefix (default: input name)")
	cmd.Flags().StringVar(&f.style, "style", c.Config.Style, "visualization style: circular, rectangular, radial, heatmap or all")
	cmd.Flags().StringVar(&f.formats, "format", strings.Join(c.Config.Formats, ","), "output formats, comma-separated: svg, png, dot")
	cmd.Flags().StringArrayVarP(&f.groupSpecs, "group", "g", nil, "inline group spec GroupName:leaf1,leaf2 (repeatable)")
	cmd.Flags().StringVar(&f.relationCSV, "relation", "", "relation CSV with sequence,group[,color] columns")
	cmd.Flags().IntVar(&f.width, "width", c.Config.Width, "artifact width in pixels")
	cmd.Flags().IntVar(&f.height, "height", c.Config.Height, "artifact height in pixels")
	cmd.Flags().StringVar(&f.title, "title", "", "figure title")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching for this run")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "recompute and overwrite cached results")
}

// plotCommand creates the plot command: visualize an existing tree.
func (c *CLI) plotCommand() *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "plot <tree.nwk>",
		Short: "Render an existing Newick tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := withLogger(cmd.Context(), c.Logger)

			treeText, err := os.ReadFile(args[0])
			if err != nil {
				if os.IsNotExist(err) {
					return errors.New(errors.ErrCodeFileNotFound, "tree file not found: %s", args[0])
				}
				return err
			}

			runner := c.newRunner(ctx, flags.noCache)
			defer runner.Close()

			return c.runPipeline(ctx, runner, string(treeText), flags, basePrefix(args[0]))
		},
	}

	c.addRenderFlags(cmd, &flags)
	return cmd
}

// runPipeline executes the visualization pipeline and writes every
// artifact to disk. defaultPrefix names the outputs when -o is unset.
func (c *CLI) runPipeline(ctx context.Context, runner *pipeline.Runner, treeText string, flags renderFlags, defaultPrefix string) error {
	logger := loggerFromContext(ctx)
	track := newProgress(logger)

	opts := pipeline.Options{
		TreeText:    treeText,
		GroupSpecs:  flags.groupSpecs,
		RelationCSV: flags.relationCSV,
		Style:       flags.style,
		Formats:     splitFormats(flags.formats),
		Width:       flags.width,
		Height:      flags.height,
		Title:       flags.title,
		Refresh:     flags.refresh,
		Logger:      logger,
	}

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		return err
	}

	for _, w := range result.Warnings.All() {
		printWarning("%s", w.String())
	}

	paths, err := writeArtifacts(result, flags.output, defaultPrefix)
	if err != nil {
		return err
	}

	track.done(fmt.Sprintf("Rendered %d artifact(s)", len(paths)))
	printSuccess("Visualization complete")
	for _, p := range paths {
		printFile(p)
	}
	allCached := result.CacheInfo.ArtifactTotal > 0 &&
		result.CacheInfo.ArtifactHits == result.CacheInfo.ArtifactTotal
	printStats(result.Stats.LeafCount, len(result.Groups.Groups()), allCached)
	return nil
}

// writeArtifacts persists every rendered artifact. A single artifact
// honors -o verbatim; multiple artifacts treat it as a name prefix and
// expand to <prefix>_<style>.<format>.
func writeArtifacts(result *pipeline.Result, output, defaultPrefix string) ([]string, error) {
	total := 0
	for _, formats := range result.Artifacts {
		total += len(formats)
	}

	prefix := output
	if prefix == "" {
		prefix = defaultPrefix
	}

	var paths []string
	for style, formats := range result.Artifacts {
		for format, data := range formats {
			path := fmt.Sprintf("%s_%s.%s", basePrefix(prefix), style, format)
			if total == 1 && output != "" {
				path = output
			}
			if dir := filepath.Dir(path); dir != "." {
				if err := os.MkdirAll(dir, 0755); err != nil {
					return nil, err
				}
			}
			if err := os.WriteFile(path, data, 0644); err != nil {
				return nil, err
			}
			paths = append(paths, path)
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// basePrefix strips the extension from a path to use it as an output
// name prefix.
func basePrefix(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path))
}

// splitFormats parses the comma-separated --format value.
func splitFormats(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
