package config

import (
	"context"
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/okian/scout/internal/domain/catalog"
	"github.com/okian/scout/internal/domain/quadrant"
)

// tablesFile is the layout of the catalog override file. Entries replace
// the built-in with the same key or id as a whole:
//
//	metrics:
//	  - key: save_pct
//	    label: Save %
//	    domain_min: 55
//	    domain_max: 100
//	    family: goalkeeper
//	pairs:
//	  - id: fwd_finishing
//	    x_metric: xg_per_shot
//	    y_metric: shots_per90
//	    x_threshold: 69
//	    y_threshold: 2.5
//	    y_raw: true
type tablesFile struct {
	Metrics []catalog.Definition `koanf:"metrics"`
	Pairs   []quadrant.Pair      `koanf:"pairs"`
}

// LoadTables returns the built-in metric catalog and pair table with the
// overrides in path applied. An empty path returns the built-ins.
func LoadTables(_ context.Context, path string) (*catalog.Catalog, *quadrant.Table, error) {
	cat := catalog.Default()
	pairs := quadrant.Default()
	if path == "" {
		return cat, pairs, nil
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
	}
	var tf tablesFile
	if err := k.UnmarshalWithConf("", &tf, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
	}

	cat, err := cat.Override(tf.Metrics...)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, path, err)
	}
	pairs, err = pairs.Override(tf.Pairs...)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, path, err)
	}
	for _, p := range pairs.All() {
		for _, key := range []string{p.XMetric, p.YMetric} {
			if _, err := cat.Lookup(key); err != nil {
				return nil, nil, fmt.Errorf("%w: pair %s: %w", ErrInvalidConfig, p.ID, err)
			}
		}
	}
	return cat, pairs, nil
}
