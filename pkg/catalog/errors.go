package catalog

import "errors"

var (
	ErrPlanNotFound             = errors.New("catalog: plan not found")
	ErrNoPlans                  = errors.New("catalog: at least one plan is required")
	ErrDuplicatePlanCode        = errors.New("catalog: duplicate plan code")
	ErrInvalidPlanConfiguration = errors.New("catalog: invalid plan configuration")
	ErrFailedToLoadPlans        = errors.New("catalog: failed to load plans")
	ErrInvalidBillingCycle      = errors.New("catalog: invalid billing cycle")
)
