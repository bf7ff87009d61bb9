package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/phylotree/pkg/pipeline"
)

// buildCommand creates the build command: infer a tree from sequences
// and render it in one go.
func (c *CLI) buildCommand() *cobra.Command {
	var (
		flags         renderFlags
		treeFile      string
		alignmentFile string
		seqType       string
		bootstrap     int
		threads       int
		workDir       string
		keepFiles     bool
	)

	cmd := &cobra.Command{
		Use:   "build <sequences.fasta>",
		Short: "Build a tree from sequences with MAFFT and IQ-TREE, then render it",
		Long: `Build aligns the input sequences with MAFFT, infers a maximum
likelihood tree with IQ-TREE (ultrafast bootstrap), and renders the
result. Inferred trees are cached by input content, so rebuilding
unchanged data skips the external tools entirely.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := withLogger(cmd.Context(), c.Logger)

			runner := c.newRunner(ctx, flags.noCache)
			defer runner.Close()

			spin := newSpinner(ctx, "Building tree (mafft + iqtree)...")
			spin.Start()
			treeText, cached, err := runner.BuildTree(ctx, pipeline.BuildOptions{
				FastaPath:     args[0],
				SeqType:       seqType,
				Bootstrap:     bootstrap,
				Threads:       threads,
				WorkDir:       workDir,
				AlignmentFile: alignmentFile,
				KeepFiles:     keepFiles,
				Refresh:       flags.refresh,
			})
			spin.Stop()
			if err != nil {
				return err
			}
			if cached {
				printInfo("Using cached tree for unchanged input")
			}

			if treeFile != "" {
				if err := os.WriteFile(treeFile, []byte(treeText), 0644); err != nil {
					return err
				}
				printFile(treeFile)
			}
			if alignmentFile != "" && !cached {
				printFile(alignmentFile)
			}

			return c.runPipeline(ctx, runner, treeText, flags, basePrefix(args[0]))
		},
	}

	c.addRenderFlags(cmd, &flags)
	cmd.Flags().StringVar(&treeFile, "tree-file", "", "also save the inferred Newick tree to this path")
	cmd.Flags().StringVar(&alignmentFile, "alignment-file", "", "also save the MAFFT alignment to this path")
	cmd.Flags().StringVar(&seqType, "seq-type", "", "sequence type: protein, dna or rna (default: autodetect)")
	cmd.Flags().IntVarP(&bootstrap, "bootstrap", "B", c.Config.Bootstrap, "ultrafast bootstrap replicates (minimum 1000)")
	cmd.Flags().IntVar(&threads, "threads", c.Config.Threads, "threads for MAFFT and IQ-TREE")
	cmd.Flags().StringVar(&workDir, "work-dir", "", "directory for intermediate files (default: temp)")
	cmd.Flags().BoolVar(&keepFiles, "keep-all-files", false, "keep alignment and IQ-TREE auxiliary files")
	return cmd
}
