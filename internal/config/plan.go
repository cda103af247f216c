package config

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
)

const defaultPlanLimits = "free:3:3,pro:30:30,enterprise:500:500"

type PlanLimit struct {
	Name          string
	MaxInterviews int
	MaxFeedbacks  int
}

type PlanConfig struct {
	Limits []PlanLimit
}

var (
	planConfig *PlanConfig
	planErr    error
	planOnce   sync.Once
)

// LoadPlanConfig reads PLAN_LIMITS as "name:maxInterviews:maxFeedbacks,...".
// A parse error is memoized along with the config.
func LoadPlanConfig() (*PlanConfig, error) {
	planOnce.Do(func() {
		limits, err := ParsePlanLimits(getEnv("PLAN_LIMITS", defaultPlanLimits))
		if err != nil {
			planErr = err
			return
		}
		planConfig = &PlanConfig{Limits: limits}
	})
	return planConfig, planErr
}

func ParsePlanLimits(raw string) ([]PlanLimit, error) {
	var limits []PlanLimit
	seen := make(map[string]bool)
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.Split(entry, ":")
		if len(parts) != 3 {
			return nil, fmt.Errorf("invalid plan limit %q: want name:maxInterviews:maxFeedbacks", entry)
		}
		name := strings.ToLower(strings.TrimSpace(parts[0]))
		if name == "" {
			return nil, fmt.Errorf("missing plan name in %q", entry)
		}
		if seen[name] {
			return nil, fmt.Errorf("duplicate plan %q", name)
		}
		seen[name] = true
		interviews, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil || interviews < 0 {
			return nil, fmt.Errorf("invalid maxInterviews in %q", entry)
		}
		feedbacks, err := strconv.Atoi(strings.TrimSpace(parts[2]))
		if err != nil || feedbacks < 0 {
			return nil, fmt.Errorf("invalid maxFeedbacks in %q", entry)
		}
		limits = append(limits, PlanLimit{
			Name:          name,
			MaxInterviews: interviews,
			MaxFeedbacks:  feedbacks,
		})
	}
	if len(limits) == 0 {
		return nil, fmt.Errorf("no plan limits configured")
	}
	return limits, nil
}
