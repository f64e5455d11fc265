package service

import (
	"context"

	"github.com/tubeworks/streamapi/pkg/storage"
)

// MediaStore is the slice of the object store the services need. Satisfied
// by storage.S3Store; tests substitute fakes.
type MediaStore interface {
	Upload(ctx context.Context, localPath string, kind storage.AssetKind) (string, error)
	Delete(ctx context.Context, publicURL string) error
}

// DurationProber extracts the playable duration of a staged media file.
type DurationProber interface {
	Duration(ctx context.Context, localPath string) (float64, error)
}

// TaskSubmitter hands side effects to the background queue. Submissions
// never block and never surface their failures to the caller.
type TaskSubmitter interface {
	Submit(name string, run func(ctx context.Context) error)
}
