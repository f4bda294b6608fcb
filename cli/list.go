package cli

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/cradle-build/cradle/internal/errors"
	"github.com/cradle-build/cradle/options"
)

const CommandNameList = "list"

// NewListCommand returns the `list` command, which prints the registered task names in declaration order.
func NewListCommand(opts *options.CradleOptions, build BuildFunc) *cli.Command {
	return &cli.Command{
		Name:    CommandNameList,
		Aliases: []string{"ls"},
		Usage:   "List the tasks that can be requested.",
		Action: func(ctx *cli.Context) error {
			exec, err := newExecutor(ctx.Context, opts, build)
			if err != nil {
				return err
			}

			for _, name := range exec.Names() {
				if _, err := fmt.Fprintln(opts.Writer, name); err != nil {
					return errors.New(err)
				}
			}

			return nil
		},
	}
}
