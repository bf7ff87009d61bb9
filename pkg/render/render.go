// Package render turns computed layouts into image artifacts.
//
// Rendering is a pure function of (Layout, ColorMap, Legend, Options):
// the same inputs always produce byte-identical output, which is what
// makes artifact caching sound.
//
// Three formats are supported:
//
//   - svg: vector output via svgo, the primary format
//   - png: raster output via gg with a bitmap font
//   - dot: Graphviz DOT text of the tree as an undirected graph, an
//     unrooted preview that graphviz lays out itself
package render

import (
	"context"

	"github.com/matzehuels/phylotree/pkg/colors"
	"github.com/matzehuels/phylotree/pkg/errors"
	"github.com/matzehuels/phylotree/pkg/groups"
	"github.com/matzehuels/phylotree/pkg/layout"
	"github.com/matzehuels/phylotree/pkg/legend"
	"github.com/matzehuels/phylotree/pkg/tree"
)

// Format is an output artifact format.
type Format string

const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
	FormatDOT Format = "dot"
)

// Formats lists every supported format.
var Formats = []Format{FormatSVG, FormatPNG, FormatDOT}

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidFormat,
		"unknown format %q, want one of %v", s, Formats)
}

// Scene bundles everything one drawing needs.
type Scene struct {
	Tree   *tree.Tree
	Layout *layout.Layout
	Groups *groups.GroupMap
	Colors *colors.ColorMap
	Legend []legend.Entry
}

// Options control artifact dimensions and titling.
type Options struct {
	Width  int
	Height int
	Title  string
}

// defaults for zero-valued options.
const (
	defaultSize = 1000
	margin      = 60.0
	labelGutter = 140.0 // horizontal space reserved for leaf labels
)

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = defaultSize
	}
	if o.Height <= 0 {
		o.Height = defaultSize
	}
	return o
}

// Render produces the artifact bytes for the scene in the requested
// format. The DOT format only applies to tree drawings; a heatmap has
// no graph to lay out.
func Render(ctx context.Context, scene *Scene, format Format, opts Options) ([]byte, error) {
	opts = opts.withDefaults()

	switch format {
	case FormatSVG:
		return renderSVG(scene, opts), nil
	case FormatPNG:
		return renderPNG(scene, opts)
	case FormatDOT:
		if scene.Layout.Style == layout.StyleHeatmap {
			return nil, errors.New(errors.ErrCodeInvalidFormat,
				"dot output is not available for the heatmap style")
		}
		return []byte(ToDOT(scene)), nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat,
			"unknown format %q, want one of %v", format, Formats)
	}
}

// leafColor resolves the fill color for a leaf node.
func (s *Scene) leafColor(name string) string {
	return s.Colors.LeafColor(name, s.Groups)
}
