package repositories

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"

	"travelFront/internal/models"
)

const s3ExpiresMetaKey = "Expires-At"

type S3Config struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	Prefix    string
}

// NewS3Client builds a client for an S3 compatible object storage.
func NewS3Client(cfg S3Config) (*s3.S3, error) {
	awsCfg := &aws.Config{
		Region:           aws.String(cfg.Region),
		S3ForcePathStyle: aws.Bool(true),
	}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
	}
	if cfg.AccessKey != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, "")
	}
	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("s3 session: %w", err)
	}
	return s3.New(sess), nil
}

// S3Store keeps one object per key. Updates are serialized within this
// process only.
type S3Store struct {
	client s3iface.S3API
	bucket string
	prefix string
	now    func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewS3Store(client s3iface.S3API, bucket, prefix string) *S3Store {
	return &S3Store{
		client: client,
		bucket: bucket,
		prefix: prefix,
		now:    time.Now,
		locks:  make(map[string]*sync.Mutex),
	}
}

func (s *S3Store) objectKey(key string) string {
	return s.prefix + key + ".json"
}

func (s *S3Store) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(key)),
	})
	if isS3NotFound(err) {
		return nil, models.ErrNoRecord
	}
	if err != nil {
		return nil, fmt.Errorf("s3 get %s: %w", key, err)
	}
	defer out.Body.Close()

	if raw := aws.StringValue(out.Metadata[s3ExpiresMetaKey]); raw != "" {
		if exp, err := strconv.ParseInt(raw, 10, 64); err == nil && exp <= s.now().Unix() {
			return nil, models.ErrNoRecord
		}
	}
	b, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("s3 read %s: %w", key, err)
	}
	return b, nil
}

func (s *S3Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(s.objectKey(key)),
		Body:          bytes.NewReader(value),
		ContentLength: aws.Int64(int64(len(value))),
		ContentType:   aws.String("application/json"),
	}
	if ttl > 0 {
		input.Metadata = map[string]*string{
			s3ExpiresMetaKey: aws.String(strconv.FormatInt(s.now().Add(ttl).Unix(), 10)),
		}
	}
	if _, err := s.client.PutObjectWithContext(ctx, input); err != nil {
		return fmt.Errorf("s3 put %s: %w", key, err)
	}
	return nil
}

func (s *S3Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(key)),
	})
	if err != nil && !isS3NotFound(err) {
		return fmt.Errorf("s3 delete %s: %w", key, err)
	}
	return nil
}

func (s *S3Store) Update(ctx context.Context, key string, fn UpdateFunc) error {
	lock := s.keyLock(key)
	lock.Lock()
	defer lock.Unlock()

	current, err := s.Get(ctx, key)
	if err != nil && !errors.Is(err, models.ErrNoRecord) {
		return err
	}
	next, err := fn(current)
	if err != nil {
		return err
	}
	return s.Set(ctx, key, next, 0)
}

// DeleteExpired removes objects under the prefix whose expiry has passed.
// S3 keeps them otherwise; Get only hides them.
func (s *S3Store) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	var keys []string
	err := s.client.ListObjectsV2PagesWithContext(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.prefix),
	}, func(page *s3.ListObjectsV2Output, _ bool) bool {
		for _, obj := range page.Contents {
			keys = append(keys, aws.StringValue(obj.Key))
		}
		return true
	})
	if err != nil {
		return 0, fmt.Errorf("s3 list %s: %w", s.prefix, err)
	}

	var removed int64
	for _, key := range keys {
		head, err := s.client.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
		})
		if isS3NotFound(err) {
			continue
		}
		if err != nil {
			return removed, fmt.Errorf("s3 head %s: %w", key, err)
		}
		raw := aws.StringValue(head.Metadata[s3ExpiresMetaKey])
		exp, err := strconv.ParseInt(raw, 10, 64)
		if raw == "" || err != nil || exp > now.Unix() {
			continue
		}
		_, err = s.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
		})
		if err != nil && !isS3NotFound(err) {
			return removed, fmt.Errorf("s3 delete %s: %w", key, err)
		}
		removed++
	}
	return removed, nil
}

func (s *S3Store) keyLock(key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[key] = lock
	}
	return lock
}

func isS3NotFound(err error) bool {
	var aerr awserr.Error
	if !errors.As(err, &aerr) {
		return false
	}
	switch aerr.Code() {
	case s3.ErrCodeNoSuchKey, "NotFound":
		return true
	}
	return false
}
