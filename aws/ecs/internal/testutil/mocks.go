// Package testutil provides mocks for ECS operations.
package testutil

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/ecs"

	"github.com/saleem-mirza/aws-demos/aws/ecs/internal/ecsapi"
)

// MockECSClient is a mock implementation of the ECSAPI interface.
type MockECSClient struct {
	RunTaskFunc func(context.Context, *ecs.RunTaskInput, ...func(*ecs.Options)) (*ecs.RunTaskOutput, error)
}

// RunTask mocks the ECS RunTask operation.
func (m *MockECSClient) RunTask(
	ctx context.Context,
	params *ecs.RunTaskInput,
	optFns ...func(*ecs.Options),
) (*ecs.RunTaskOutput, error) {
	if m.RunTaskFunc != nil {
		return m.RunTaskFunc(ctx, params, optFns...)
	}
	return &ecs.RunTaskOutput{}, nil
}

var _ ecsapi.ECSAPI = (*MockECSClient)(nil)
