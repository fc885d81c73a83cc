package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type fileSource struct {
	path string
}

// NewFileSource returns a Source that loads plans from a YAML file.
//
// Expected format:
//
//	plans:
//	  - code: starter
//	    name: Starter
//	    entry_level: true
//	    monthly_price: {amount: 99900, currency: INR}
//	    annual_price: {amount: 999000, currency: INR}
func NewFileSource(path string) Source {
	return &fileSource{path: path}
}

func (s *fileSource) Load(ctx context.Context) (map[string]Plan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, errors.Join(ErrFailedToLoadPlans, fmt.Errorf("read %s: %w", s.path, err))
	}

	var doc struct {
		Plans []Plan `yaml:"plans"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Join(ErrFailedToLoadPlans, fmt.Errorf("parse %s: %w", s.path, err))
	}

	if len(doc.Plans) == 0 {
		return nil, ErrNoPlans
	}

	plans := make(map[string]Plan, len(doc.Plans))
	for _, plan := range doc.Plans {
		if _, exists := plans[plan.Code]; exists {
			return nil, errors.Join(ErrDuplicatePlanCode, fmt.Errorf("plan code %q", plan.Code))
		}
		plans[plan.Code] = plan
	}

	return plans, nil
}
