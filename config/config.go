// Package config holds the compiler's tunable Options, yaml-tagged and
// loaded with gopkg.in/yaml.v3 the way the teacher tags its linage types
// for externalization. Only the cost-model weights and a couple of service
// defaults are configurable; every other compiler behavior (scheduling
// tie-breaking, normalization order, shifted-cycle inlining) is fixed by
// spec.md's Open Question resolutions, not by config.
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Options is the compiler's full set of tunables.
type Options struct {
	// SeqLengthWeight penalizes long sequential chains in the classes
	// package's Seq/Para cost model.
	SeqLengthWeight float64 `yaml:"seqLengthWeight"`
	// ParaDepthWeight penalizes nesting depth introduced by a Para shape.
	ParaDepthWeight float64 `yaml:"paraDepthWeight"`
	// ParaBranchWeight penalizes branch fan-out of a Para shape.
	ParaBranchWeight float64 `yaml:"paraBranchWeight"`

	// EagerMonomorphization is carried through config and
	// compiler.WithEagerMonomorphization, but no pass reads it: lowering
	// calls types.Type.Apply at each call site whatever its value.
	EagerMonomorphization bool `yaml:"eagerMonomorphization"`

	// MinDelayWindowMS is the service compiler's default lower bound for a
	// ServiceDef's min_period when the source doesn't declare one.
	MinDelayWindowMS int `yaml:"minDelayWindowMs"`
}

// Default returns the options a fresh compiler.Pipeline uses absent an
// explicit config file.
func Default() Options {
	return Options{
		SeqLengthWeight:       1.0,
		ParaDepthWeight:       2.0,
		ParaBranchWeight:      0.5,
		EagerMonomorphization: false,
		MinDelayWindowMS:      10,
	}
}

// Load reads Options from a YAML file at path, starting from Default() so
// an omitted field keeps its default rather than zeroing out.
func Load(path string) (Options, error) {
	opts := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return opts, errors.Wrapf(err, "config: read %s", path)
	}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return opts, errors.Wrapf(err, "config: parse %s", path)
	}
	return opts, nil
}
