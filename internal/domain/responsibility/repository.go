package responsibility

import "context"

type ResponsibilityRepository interface {
	List(ctx context.Context, filter ResponsibilityFilter) ([]Responsibility, error)
}
