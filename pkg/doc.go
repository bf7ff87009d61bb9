// Package pkg provides the core libraries for phylotree visualization.
//
// # Overview
//
// Phylotree turns Newick phylogenetic trees (or raw FASTA sequences)
// into publication-ready figures. The pkg directory is organized into
// four main areas:
//
//  1. Domain logic - [newick], [tree], [groups], [colors], [layout], [legend]
//  2. Infrastructure - [cache], [config], [errors], [observability]
//  3. External tools - [seqio], [toolchain] (MAFFT, IQ-TREE)
//  4. Orchestration - [pipeline] (parse → resolve → layout → render)
//
// # Architecture
//
// The typical data flow:
//
//	FASTA sequences (optional)
//	         ↓
//	    [toolchain] package (align + infer a tree)
//	         ↓
//	    [newick] package (parse into a [tree.Tree])
//	         ↓
//	    [groups] + [colors] packages (grouping and deterministic coloring)
//	         ↓
//	    [layout] package (circular, rectangular, radial, heatmap geometry)
//	         ↓
//	    [render] package (SVG, PNG, DOT artifacts)
//
// # Quick Start
//
// Render an existing Newick tree:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/phylotree/pkg/pipeline"
//	)
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	result, err := runner.Execute(context.Background(), pipeline.Options{
//	    TreeText: "(A:1,B:2,(C:1,D:1):1);",
//	    Style:    "circular",
//	    Formats:  []string{"svg"},
//	})
//
// Artifacts come back keyed by style and format in result.Artifacts.
package pkg
