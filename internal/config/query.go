package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/samvad-hq/lancedb-remote/pkg/remote"
)

// QuerySpec is a vector query described in a YAML file, used by the CLI's
// search subcommand.
type QuerySpec struct {
	Vector       []float32 `yaml:"vector"`
	K            int       `yaml:"k"`
	Nprobes      int       `yaml:"nprobes"`
	RefineFactor int       `yaml:"refine_factor"`
	Columns      []string  `yaml:"columns"`
	Filter       string    `yaml:"filter"`
	Prefilter    bool      `yaml:"prefilter"`
	Metric       string    `yaml:"metric"`
	VectorColumn string    `yaml:"vector_column"`
}

// LoadQuerySpec parses a query spec from a YAML file.
func LoadQuerySpec(path string) (*QuerySpec, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read query file: %w", err)
	}

	var spec QuerySpec
	if err := yaml.Unmarshal(raw, &spec); err != nil {
		return nil, fmt.Errorf("parse query file %s: %w", path, err)
	}
	if len(spec.Vector) == 0 {
		return nil, fmt.Errorf("query file %s has no vector", path)
	}
	return &spec, nil
}

// ToVectorQuery converts the spec into a query, applying service defaults
// for unset fields.
func (s *QuerySpec) ToVectorQuery() *remote.VectorQuery {
	q := remote.NewVectorQuery(s.Vector)
	if s.K > 0 {
		q.WithLimit(s.K)
	}
	if s.Nprobes > 0 {
		q.WithNprobes(s.Nprobes)
	}
	if s.RefineFactor > 0 {
		q.WithRefineFactor(s.RefineFactor)
	}
	if len(s.Columns) > 0 {
		q.WithColumns(s.Columns...)
	}
	if s.Filter != "" {
		q.WithFilter(s.Filter)
	}
	if s.Metric != "" {
		q.WithMetric(s.Metric)
	}
	if s.VectorColumn != "" {
		q.WithVectorColumn(s.VectorColumn)
	}
	q.WithPrefilter(s.Prefilter)
	return q
}
