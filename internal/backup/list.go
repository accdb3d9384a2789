package backup

import (
	"context"

	"github.com/dmitrijs2005/sampleledger/internal/snapshot"
)

// LocalInfo is implemented by snapshot stores.
type LocalInfo interface {
	Info(ctx context.Context) (snapshot.Info, bool, error)
}

// Lister is implemented by S3Archiver.
type Lister interface {
	List(ctx context.Context, limit int) ([]Info, error)
}

// Backups lists the local snapshot first, followed by up to limit remote
// archives. Either source may be nil.
func Backups(ctx context.Context, local LocalInfo, remote Lister, limit int) ([]Info, error) {
	out := []Info{}
	if local != nil {
		info, found, err := local.Info(ctx)
		if err != nil {
			return nil, err
		}
		if found {
			out = append(out, Info{Key: info.Name, Size: info.Size, Modified: info.ModTime, Location: LocationLocal})
		}
	}
	if remote != nil {
		archives, err := remote.List(ctx, limit)
		if err != nil {
			return out, err
		}
		out = append(out, archives...)
	}
	return out, nil
}
