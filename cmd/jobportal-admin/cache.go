package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/WhisperedCloud/Job-portal-sub000/internal/service"
)

func runClearCache(cmdCtx *commandContext, args []string) error {
	opts, err := parseClearCacheFlags(args)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, 2*time.Minute)
	defer cancel()

	redisClient, err := connectRedis(cmdCtx)
	if err != nil {
		return err
	}
	if redisClient == nil {
		return writeln(os.Stderr, "no redis configuration detected; nothing to clear")
	}
	defer func() {
		if closeErr := redisClient.Close(); closeErr != nil {
			cmdCtx.Logger.Warn("redis close failed", "error", closeErr)
		}
	}()

	keys, err := collectCacheKeys(ctx, redisClient, opts)
	if err != nil {
		return err
	}

	if len(keys) == 0 {
		return writeln(os.Stdout, "no matching cache keys")
	}

	for _, key := range keys {
		if writeErr := writeln(os.Stdout, key); writeErr != nil {
			return writeErr
		}
	}

	if opts.DryRun {
		return writef(os.Stdout, "\ndry run: %d key(s) would be deleted\n", len(keys))
	}

	if !opts.Yes {
		if confirmErr := promptYesNo(); confirmErr != nil {
			return confirmErr
		}
	}

	deleted, err := redisClient.Del(ctx, keys...).Result()
	if err != nil {
		return fmt.Errorf("delete cache keys: %w", err)
	}

	cmdCtx.Logger.Info("cache cleared", "keys_deleted", deleted)
	return nil
}

func collectCacheKeys(ctx context.Context, client redis.UniversalClient, opts clearCacheOptions) ([]string, error) {
	if opts.CandidateID != "" {
		key := service.CandidateCacheKey(opts.CandidateID)
		exists, err := client.Exists(ctx, key).Result()
		if err != nil {
			return nil, fmt.Errorf("check cache key: %w", err)
		}
		if exists == 0 {
			return nil, nil
		}
		return []string{key}, nil
	}

	pattern := service.CandidateCacheKey("*")
	var keys []string
	iter := client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan cache keys: %w", err)
	}
	return keys, nil
}
