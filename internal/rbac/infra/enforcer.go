package infra

import (
	"fmt"

	"github.com/casbin/casbin/v2"
)

// NewEnforcer loads the casbin model only; policies are fed in per request
// from the rbac repository, never from a policy file.
func NewEnforcer(modelPath string) (*casbin.Enforcer, error) {
	e, err := casbin.NewEnforcer(modelPath)
	if err != nil {
		return nil, fmt.Errorf("load casbin model %s: %w", modelPath, err)
	}
	return e, nil
}
