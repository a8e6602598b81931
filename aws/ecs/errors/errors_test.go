package errors

import (
	"errors"
	"testing"

	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "op only",
			err:  NewError("runTask", ErrInvalidInput),
			want: "ecs runTask: ecs: invalid input",
		},
		{
			name: "with cluster and task definition",
			err:  NewError("runTask", ErrClusterNotFound).WithCluster("ecs_cluster").WithTaskDefinition("ecs_task"),
			want: "ecs runTask cluster=ecs_cluster taskDefinition=ecs_task: ecs: cluster not found",
		},
		{
			name: "with message",
			err:  NewError("runTask", ErrInvalidInput).WithMessage("cluster cannot be empty"),
			want: "ecs runTask: cluster cannot be empty: ecs: invalid input",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestFromAPIError(t *testing.T) {
	tests := []struct {
		name string
		code string
		want error
	}{
		{name: "cluster not found", code: "ClusterNotFoundException", want: ErrClusterNotFound},
		{name: "access denied", code: "AccessDeniedException", want: ErrAccessDenied},
		{name: "invalid parameter", code: "InvalidParameterException", want: ErrInvalidInput},
		{name: "unknown platform", code: "PlatformUnknownException", want: ErrInvalidInput},
		{name: "throttled", code: "ThrottlingException", want: ErrThrottled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := &smithy.GenericAPIError{Code: tt.code}
			err := FromAPIError(apiErr)

			assert.ErrorIs(t, err, tt.want)

			var got smithy.APIError
			assert.True(t, errors.As(err, &got))
			assert.Equal(t, tt.code, got.ErrorCode())
		})
	}

	t.Run("unknown code passes through", func(t *testing.T) {
		apiErr := &smithy.GenericAPIError{Code: "ServerException"}
		assert.Same(t, apiErr, FromAPIError(apiErr))
	})

	t.Run("nil", func(t *testing.T) {
		assert.NoError(t, FromAPIError(nil))
	})

	t.Run("non api error", func(t *testing.T) {
		plain := errors.New("boom")
		assert.Same(t, plain, FromAPIError(plain))
	})
}
