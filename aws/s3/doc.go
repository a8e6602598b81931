// Package s3 provides the object-storage client used by the copy task.
// It wraps AWS SDK v2 to perform validated, server-side object copies.
//
// Key features:
//   - Zero-configuration usage with the AWS credential chain
//   - Progressive enhancement through functional options
//   - Automatic multipart copy for objects above the single-request limit
//   - Typed errors that match sentinels with errors.Is
//
// Example usage:
//
//	client, err := s3.New(ctx)
//	if err != nil {
//	    return err
//	}
//
//	err = client.Copy(ctx, "uploads", "2023/photo.png", "uploads", "processed/1690000000.0_photo.png")
//	if err != nil {
//	    return err
//	}
package s3
