package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/fiddler-build/fiddler/pkg/build"
	"github.com/fiddler-build/fiddler/pkg/graph"
)

// graphOpts holds the command-line flags for the graph command.
type graphOpts struct {
	format  string   // output format: dot or svg
	output  string   // output file path (stdout if empty)
	exclude []string // extra directory names to skip during the scan
}

// newGraphCmd creates the graph command, which renders the assembled
// package graph without building anything.
func newGraphCmd() *cobra.Command {
	opts := graphOpts{format: "dot"}

	cmd := &cobra.Command{
		Use:   "graph [root]",
		Short: "Render the package graph as DOT or SVG",
		Long: `Graph scans the project and renders the assembled package graph,
including installed packages and environment markers, without writing
any autoload artifacts.

Examples:
  fiddler graph                          # DOT to stdout
  fiddler graph --format svg -o deps.svg
  fiddler graph ./services -o deps.dot`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			if opts.format != "dot" && opts.format != "svg" {
				return fmt.Errorf("invalid format: %q (must be dot or svg)", opts.format)
			}

			root := "."
			if len(args) == 1 {
				root = args[0]
			}

			logger := loggerFromContext(c.Context())
			runner := build.NewRunner(nil, logger)

			g, err := runner.Scan(c.Context(), root, build.Options{Exclude: opts.exclude})
			if err != nil {
				return err
			}

			dot := graph.ToDOT(g)
			data := []byte(dot)
			if opts.format == "svg" {
				data, err = graph.RenderSVG(dot)
				if err != nil {
					return err
				}
			}

			out, err := openOutput(opts.output)
			if err != nil {
				return err
			}
			defer out.Close()

			if _, err := out.Write(data); err != nil {
				return err
			}
			if opts.output != "" {
				logger.Infof("Wrote graph to %s", opts.output)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.format, "format", opts.format, "output format (dot or svg)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringSliceVar(&opts.exclude, "exclude", nil, "directory names to skip during the scan")

	return cmd
}

// nopCloser wraps an io.Writer with a no-op Close method so os.Stdout can
// stand in for a file.
type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path.
// If path is empty, it returns os.Stdout wrapped in nopCloser.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}
