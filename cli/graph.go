package cli

import (
	"github.com/urfave/cli/v2"

	"github.com/cradle-build/cradle/options"
)

const CommandNameGraph = "graph"

// NewGraphCommand returns the `graph` command, which prints the GraphViz definition of the given tasks, or of every
// registered task when none is given. Nothing is executed, so tasks added by graph expansion are not shown.
func NewGraphCommand(opts *options.CradleOptions, build BuildFunc) *cli.Command {
	return &cli.Command{
		Name:      CommandNameGraph,
		Usage:     "Print the dependency graph in GraphViz DOT format.",
		UsageText: AppName + " [global options] graph [task names...]",
		Action: func(ctx *cli.Context) error {
			exec, err := newExecutor(ctx.Context, opts, build)
			if err != nil {
				return err
			}

			names := ctx.Args().Slice()
			if len(names) == 0 {
				names = exec.Names()
			}

			return exec.WriteDot(opts.Writer, names...)
		},
	}
}
