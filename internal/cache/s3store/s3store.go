package s3store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"

	"go-report-cache/internal/cache"
	"go-report-cache/internal/config"
	"go-report-cache/internal/interfaces"
	"go-report-cache/internal/metrics"
	"go-report-cache/internal/models"
)

// maxDeleteBatch is the DeleteObjects limit
const maxDeleteBatch = 1000

// Ensure S3Cache implements interfaces.Cache
var _ interfaces.Cache = (*S3Cache)(nil)

// S3Cache stores entries as JSON objects under
// <prefix>/<category>/<year>/<params>.json, mirroring the filesystem layout.
type S3Cache struct {
	client  interfaces.S3Client
	bucket  string
	prefix  string
	timeout time.Duration
	logger  *zap.Logger
}

// NewS3Client loads the AWS configuration and builds an S3 client
func NewS3Client(ctx context.Context, cfg *config.S3Config) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{}
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.Profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(cfg.Profile))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config for S3: %w", err)
	}
	return s3.NewFromConfig(awsCfg), nil
}

// NewS3Cache creates an object-store cache on bucket
func NewS3Cache(client interfaces.S3Client, cfg *config.S3Config, logger *zap.Logger) *S3Cache {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &S3Cache{
		client:  client,
		bucket:  cfg.Bucket,
		prefix:  strings.Trim(cfg.Prefix, "/"),
		timeout: timeout,
		logger:  logger,
	}
}

func (c *S3Cache) root() string {
	if c.prefix == "" {
		return ""
	}
	return c.prefix + "/"
}

func (c *S3Cache) categoryPrefix(category string) string {
	return c.root() + cache.CategorySegment(category) + "/"
}

func (c *S3Cache) yearPrefix(category string, year int) string {
	return c.categoryPrefix(category) + cache.YearSegment(year) + "/"
}

// ObjectKey returns the object key of a cache key
func (c *S3Cache) ObjectKey(key models.CacheKey) string {
	return c.yearPrefix(key.Category, key.YearTag) + cache.EntryName(key)
}

// Get downloads an entry; a missing object or failed read is a miss
func (c *S3Cache) Get(key models.CacheKey) (*models.CacheEntry, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	objectKey := c.ObjectKey(key)
	out, err := c.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		var notFound *types.NoSuchKey
		if !errors.As(err, &notFound) {
			c.logger.Error("Failed to get cache object", zap.String("object", objectKey), zap.Error(err))
			metrics.RecordCacheError("s3", "read")
		}
		return nil, false
	}
	defer func() { _ = out.Body.Close() }()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		c.logger.Error("Failed to read cache object", zap.String("object", objectKey), zap.Error(err))
		metrics.RecordCacheError("s3", "read")
		return nil, false
	}

	var entry models.CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		c.logger.Warn("Discarding corrupted cache object", zap.String("object", objectKey), zap.Error(err))
		metrics.RecordCacheError("s3", "decode")
		c.Delete(key)
		return nil, false
	}
	return &entry, true
}

// Set uploads the entry, replacing any previous object
func (c *S3Cache) Set(key models.CacheKey, entry *models.CacheEntry) {
	data, err := json.Marshal(entry)
	if err != nil {
		c.logger.Error("Failed to marshal cache entry", zap.String("key", key.Value), zap.Error(err))
		metrics.RecordCacheError("s3", "encode")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	_, err = c.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(c.ObjectKey(key)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		c.logger.Error("Failed to put cache object", zap.String("key", key.Value), zap.Error(err))
		metrics.RecordCacheError("s3", "write")
	}
}

// Delete removes the entry object
func (c *S3Cache) Delete(key models.CacheKey) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	_, err := c.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(c.ObjectKey(key)),
	})
	if err != nil {
		c.logger.Warn("Failed to delete cache object", zap.String("key", key.Value), zap.Error(err))
	}
}

// PurgeCategoryYear removes every object under the category/year prefix
func (c *S3Cache) PurgeCategoryYear(category string, year int) (int, error) {
	return c.purgePrefix(c.yearPrefix(category, year))
}

// PurgeAll removes every object under the cache prefix
func (c *S3Cache) PurgeAll() (int, error) {
	return c.purgePrefix(c.root())
}

func (c *S3Cache) purgePrefix(prefix string) (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	var keys []string
	err := c.list(ctx, prefix, func(obj types.Object) {
		if strings.HasSuffix(aws.ToString(obj.Key), cache.EntryExt) {
			keys = append(keys, aws.ToString(obj.Key))
		}
	})
	if err != nil {
		return 0, err
	}

	removed := 0
	for start := 0; start < len(keys); start += maxDeleteBatch {
		end := start + maxDeleteBatch
		if end > len(keys) {
			end = len(keys)
		}

		ids := make([]types.ObjectIdentifier, 0, end-start)
		for _, k := range keys[start:end] {
			ids = append(ids, types.ObjectIdentifier{Key: aws.String(k)})
		}

		out, err := c.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(c.bucket),
			Delete: &types.Delete{Objects: ids, Quiet: aws.Bool(true)},
		})
		if err != nil {
			return removed, fmt.Errorf("failed to delete cache objects: %w", err)
		}
		for _, e := range out.Errors {
			c.logger.Warn("Failed to delete cache object",
				zap.String("object", aws.ToString(e.Key)),
				zap.String("code", aws.ToString(e.Code)))
		}
		removed += len(ids) - len(out.Errors)
	}
	return removed, nil
}

// list walks every object under prefix
func (c *S3Cache) list(ctx context.Context, prefix string, fn func(obj types.Object)) error {
	paginator := s3.NewListObjectsV2Paginator(c.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(c.bucket),
		Prefix: aws.String(prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("failed to list cache objects: %w", err)
		}
		for _, obj := range page.Contents {
			fn(obj)
		}
	}
	return nil
}

// Categories lists the category prefixes
func (c *S3Cache) Categories() ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	root := c.root()
	paginator := s3.NewListObjectsV2Paginator(c.client, &s3.ListObjectsV2Input{
		Bucket:    aws.String(c.bucket),
		Prefix:    aws.String(root),
		Delimiter: aws.String("/"),
	})

	categories := []string{}
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list cache categories: %w", err)
		}
		for _, p := range page.CommonPrefixes {
			segment := strings.TrimSuffix(strings.TrimPrefix(aws.ToString(p.Prefix), root), "/")
			categories = append(categories, cache.ParseCategorySegment(segment))
		}
	}
	sort.Strings(categories)
	return categories, nil
}

// Stats lists every object and sums sizes per category
func (c *S3Cache) Stats() (models.CacheStats, error) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	stats := models.NewCacheStats()
	root := c.root()
	err := c.list(ctx, root, func(obj types.Object) {
		key := aws.ToString(obj.Key)
		if !strings.HasSuffix(key, cache.EntryExt) {
			return
		}
		parts := strings.Split(strings.TrimPrefix(key, root), "/")
		if len(parts) != 3 {
			return
		}
		stats.Add(cache.ParseCategorySegment(parts[0]), aws.ToInt64(obj.Size))
	})
	if err != nil {
		return stats, err
	}

	metrics.UpdateCacheUsage("s3", stats.Entries, stats.TotalBytes)
	return stats, nil
}
