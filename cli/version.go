package cli

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/cradle-build/cradle/internal/errors"
	"github.com/cradle-build/cradle/options"
)

const CommandNameVersion = "version"

// NewVersionCommand returns the `version` command.
func NewVersionCommand(opts *options.CradleOptions) *cli.Command {
	return &cli.Command{
		Name:  CommandNameVersion,
		Usage: "Show the cradle version.",
		Action: func(ctx *cli.Context) error {
			if _, err := fmt.Fprintf(opts.Writer, "%s version %s\n", AppName, ctx.App.Version); err != nil {
				return errors.New(err)
			}

			return nil
		},
	}
}
