// Package ecs provides the container orchestration client used by the
// dispatcher to launch copy tasks.
//
// Example usage:
//
//	client, err := ecs.New(ctx, ecs.WithRegion("us-east-1"))
//	if err != nil {
//	    return err
//	}
//
//	out, err := client.RunTask(ctx, input)
package ecs
