package blob

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Config configures the S3 driver; credentials come from the default AWS chain
type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string // set for MinIO or other S3-compatible servers
	PathStyle bool
	Prefix    string // optional key prefix inside the bucket
}

// s3API is the part of *s3.Client the driver calls
type s3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, opts ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// S3 is a bucket-backed Store
type S3 struct {
	api    s3API
	bucket string
	prefix string
}

// claimMarker is the object whose conditional create reserves a run prefix
const claimMarker = ".run"

// NewS3 builds a client from the default AWS config chain
func NewS3(ctx context.Context, cfg S3Config) (*S3, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("blob: s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("blob: aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return newS3WithAPI(client, cfg), nil
}

func newS3WithAPI(api s3API, cfg S3Config) *S3 {
	return &S3{api: api, bucket: cfg.Bucket, prefix: strings.Trim(cfg.Prefix, "/")}
}

// Driver implements Store
func (s *S3) Driver() Driver { return DriverS3 }

func (s *S3) key(key string) (string, error) {
	k, err := CleanKey(key)
	if err != nil {
		return "", err
	}
	if s.prefix != "" {
		k = s.prefix + "/" + k
	}
	return k, nil
}

// Claim writes prefix/.run with If-None-Match so exactly one writer wins
func (s *S3) Claim(ctx context.Context, prefix string) error {
	k, err := s.key(Join(prefix, claimMarker))
	if err != nil {
		return err
	}
	_, err = s.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(k),
		Body:        bytes.NewReader(nil),
		IfNoneMatch: aws.String("*"),
	})
	if isPreconditionFailed(err) {
		return ErrExists
	}
	return err
}

// Put buffers r so the SDK can sign a seekable body
func (s *S3) Put(ctx context.Context, key string, r io.Reader, contentType string) error {
	k, err := s.key(key)
	if err != nil {
		return err
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	in := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(k),
		Body:   bytes.NewReader(b),
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}
	_, err = s.api.PutObject(ctx, in)
	return err
}

// Get opens key
func (s *S3) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	k, err := s.key(key)
	if err != nil {
		return nil, err
	}
	out, err := s.api.GetObject(ctx, &s3.GetObjectInput{Bucket: aws.String(s.bucket), Key: aws.String(k)})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, ErrNotExist
		}
		return nil, err
	}
	return out.Body, nil
}

// List pages through ListObjectsV2; claim markers are not artifacts and are skipped
func (s *S3) List(ctx context.Context, prefix string) ([]string, error) {
	full := prefix
	if s.prefix != "" {
		full = s.prefix + "/" + prefix
	}
	var keys []string
	var token *string
	for {
		out, err := s.api.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(s.bucket),
			Prefix:            aws.String(full),
			ContinuationToken: token,
		})
		if err != nil {
			return nil, err
		}
		for _, obj := range out.Contents {
			k := aws.ToString(obj.Key)
			if s.prefix != "" {
				k = strings.TrimPrefix(k, s.prefix+"/")
			}
			if strings.HasSuffix(k, "/"+claimMarker) {
				continue
			}
			keys = append(keys, k)
		}
		if !aws.ToBool(out.IsTruncated) || out.NextContinuationToken == nil {
			break
		}
		token = out.NextContinuationToken
	}
	sort.Strings(keys)
	return keys, nil
}

// Location returns an s3:// URL
func (s *S3) Location(key string) string {
	k, err := s.key(key)
	if err != nil {
		k = key
	}
	return "s3://" + s.bucket + "/" + k
}

// isPreconditionFailed recognises the conditional-write rejection without importing smithy
func isPreconditionFailed(err error) bool {
	var apiErr interface{ ErrorCode() string }
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.ErrorCode() {
	case "PreconditionFailed", "ConditionalRequestConflict":
		return true
	default:
		return false
	}
}
