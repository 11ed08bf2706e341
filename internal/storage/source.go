package storage

import (
	"context"
	"fmt"

	"parkapi/internal/env"
	"parkapi/pkg/lastvalues"
)

// OpenSource returns the lastvalues.Source selected by cfg.Backend together
// with a function releasing its resources.
func OpenSource(ctx context.Context, cfg *env.Config) (lastvalues.Source, func(), error) {
	switch cfg.Backend {
	case env.BackendFile:
		return lastvalues.FileSource{Dir: cfg.CacheDir}, func() {}, nil
	case env.BackendS3:
		svc, err := NewS3Service(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioUseSSL)
		if err != nil {
			return nil, nil, err
		}
		if err := svc.EnsureBucket(ctx, cfg.CacheBucket); err != nil {
			return nil, nil, err
		}
		return NewS3Source(svc, cfg.CacheBucket), func() {}, nil
	case env.BackendPostgres:
		pool, err := ConnectPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return NewPostgresSource(pool), pool.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}
