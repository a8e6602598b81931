// Package ecsapi defines the subset of the ECS SDK used by this module.
package ecsapi

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/ecs"
)

// ECSAPI defines the interface for ECS operations used by the client.
// This interface allows for easy mocking in tests.
type ECSAPI interface {
	RunTask(ctx context.Context, params *ecs.RunTaskInput, optFns ...func(*ecs.Options)) (*ecs.RunTaskOutput, error)
}

var _ ECSAPI = (*ecs.Client)(nil)
