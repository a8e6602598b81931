package ecs

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ecs"

	ecserrors "github.com/saleem-mirza/aws-demos/aws/ecs/errors"
)

// RunTask launches tasks as described by input.
//
// The request must name a cluster and a task definition, and carry an awsvpc
// network configuration with at least one subnet; Fargate tasks cannot be
// placed without one. Partial placement failures are reported in the
// output's Failures and are not treated as an error.
//
// Errors:
//   - ErrInvalidInput: If required fields are missing or ECS rejects a parameter
//   - ErrClusterNotFound: If the cluster doesn't exist
//   - ErrAccessDenied: If the credentials lack ecs:RunTask or iam:PassRole
func (c *Client) RunTask(ctx context.Context, input *ecs.RunTaskInput) (*ecs.RunTaskOutput, error) {
	if err := validateRunTask(input); err != nil {
		return nil, err
	}

	out, err := c.ecsClient.RunTask(ctx, input)
	if err != nil {
		return nil, ecserrors.NewError("runTask", ecserrors.FromAPIError(err)).
			WithCluster(aws.ToString(input.Cluster)).
			WithTaskDefinition(aws.ToString(input.TaskDefinition))
	}
	return out, nil
}

func validateRunTask(input *ecs.RunTaskInput) error {
	if input == nil {
		return ecserrors.NewError("runTask", ecserrors.ErrInvalidInput).
			WithMessage("input cannot be nil")
	}

	invalid := func(msg string) error {
		return ecserrors.NewError("runTask", ecserrors.ErrInvalidInput).
			WithCluster(aws.ToString(input.Cluster)).
			WithTaskDefinition(aws.ToString(input.TaskDefinition)).
			WithMessage(msg)
	}

	if aws.ToString(input.Cluster) == "" {
		return invalid("cluster cannot be empty")
	}
	if aws.ToString(input.TaskDefinition) == "" {
		return invalid("task definition cannot be empty")
	}
	nc := input.NetworkConfiguration
	if nc == nil || nc.AwsvpcConfiguration == nil || len(nc.AwsvpcConfiguration.Subnets) == 0 {
		return invalid("awsvpc network configuration requires at least one subnet")
	}
	return nil
}
