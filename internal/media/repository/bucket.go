// Package repository implements resource persistence on top of gocloud.dev/blob.
// The storage URL selects the driver: file:// for a local or mounted disk, mem://
// for tests, s3:// for S3-compatible object storage.
package repository

import (
	"context"
	"fmt"

	"gocloud.dev/blob"

	// Register blob drivers
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"
	_ "gocloud.dev/blob/s3blob"
)

// OpenBucket opens the bucket addressed by storageURL.
//
// Examples: "file:///mnt/external_disk?create_dir=true", "mem://",
// "s3://my-bucket?region=us-east-1".
func OpenBucket(ctx context.Context, storageURL string) (*blob.Bucket, error) {
	bucket, err := blob.OpenBucket(ctx, storageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage bucket: %w", err)
	}
	return bucket, nil
}
