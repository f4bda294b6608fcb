package config

import (
	"dario.cat/mergo"

	"github.com/cradle-build/cradle/internal/errors"
	"github.com/cradle-build/cradle/options"
)

// Apply fills the unset fields of dst from each layer in turn, so that earlier layers take precedence. A nil layer is
// skipped. Zero values count as unset, so a layer can never turn a boolean back off.
func Apply(dst *options.CradleOptions, layers ...*options.CradleOptions) error {
	for _, layer := range layers {
		if layer == nil {
			continue
		}

		if err := mergo.Merge(dst, layer); err != nil {
			return errors.New(err)
		}
	}

	return nil
}
