package config

import (
	"fmt"
	"os"

	"github.com/cmlabs-hris/daily-report-go/internal/domain/approval"
	"github.com/cmlabs-hris/daily-report-go/internal/domain/employee"
	"gopkg.in/yaml.v3"
)

const maxStoredRating = 100.0

// ReviewPolicy is the optional YAML file named by REVIEW_POLICY_FILE.
//
//	rating:
//	  min: 1
//	  max: 5
//	supervisor:
//	  policy: has_subordinates   # or admin_rank
//	  min_admin_rank: 0
type ReviewPolicy struct {
	Rating     RatingPolicy     `yaml:"rating"`
	Supervisor SupervisorPolicy `yaml:"supervisor"`
}

type RatingPolicy struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

type SupervisorPolicy struct {
	Policy       string `yaml:"policy"`
	MinAdminRank int    `yaml:"min_admin_rank"`
}

func DefaultReviewPolicy() ReviewPolicy {
	return ReviewPolicy{
		Rating: RatingPolicy{
			Min: approval.DefaultRatingBounds.Min,
			Max: approval.DefaultRatingBounds.Max,
		},
		Supervisor: SupervisorPolicy{
			Policy: string(employee.PolicyHasSubordinates),
		},
	}
}

// LoadReviewPolicy reads the file at path; keys it omits keep their defaults.
func LoadReviewPolicy(path string) (*ReviewPolicy, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read review policy %s: %w", path, err)
	}

	policy := DefaultReviewPolicy()
	if err := yaml.Unmarshal(b, &policy); err != nil {
		return nil, fmt.Errorf("config: parse review policy: %w", err)
	}

	if err := policy.validate(); err != nil {
		return nil, err
	}
	return &policy, nil
}

func (p ReviewPolicy) validate() error {
	if p.Rating.Min > p.Rating.Max {
		return fmt.Errorf("config: rating.min must not exceed rating.max")
	}
	// ratings are stored as NUMERIC(4, 2).
	if p.Rating.Min <= -maxStoredRating || p.Rating.Max >= maxStoredRating {
		return fmt.Errorf("config: rating range must lie strictly between -%g and %g", maxStoredRating, maxStoredRating)
	}
	if err := p.SupervisorPolicy().Validate(); err != nil {
		return fmt.Errorf("config: supervisor.policy %q: %w", p.Supervisor.Policy, err)
	}
	if p.Supervisor.MinAdminRank < 0 {
		return fmt.Errorf("config: supervisor.min_admin_rank must not be negative")
	}
	return nil
}

func (p ReviewPolicy) RatingBounds() approval.RatingBounds {
	return approval.RatingBounds{Min: p.Rating.Min, Max: p.Rating.Max}
}

func (p ReviewPolicy) SupervisorPolicy() employee.SupervisorPolicy {
	return employee.SupervisorPolicy{
		Kind:         employee.SupervisorPolicyKind(p.Supervisor.Policy),
		MinAdminRank: p.Supervisor.MinAdminRank,
	}
}
