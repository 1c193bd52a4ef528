// Package avatars issues presigned S3 URLs for profile pictures. Clients
// upload the image straight to object storage with the PUT URL and keep the
// GET URL as their profile picture.
package avatars

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	sc "github.com/dmitrijs2005/profilekeeper/internal/server/config"
)

var ErrUnsupportedContentType = errors.New("unsupported content type")

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// extensions lists the accepted image types.
var extensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Upload is a presigned pair for one object.
type Upload struct {
	Key    string
	PutURL string
	GetURL string
}

type Presigner struct {
	region     string
	user       string
	password   string
	endpoint   string
	bucket     string
	putExpires time.Duration
	getExpires time.Duration
	newKey     func(userID, ext string) string
}

func NewPresigner(cfg *sc.Config) *Presigner {
	return &Presigner{
		region:     cfg.S3Region,
		user:       cfg.S3RootUser,
		password:   cfg.S3RootPassword,
		endpoint:   cfg.S3BaseEndpoint,
		bucket:     cfg.S3Bucket,
		putExpires: 15 * time.Minute,
		getExpires: cfg.AvatarURLValidityDuration,
		newKey:     StorageKey,
	}
}

// StorageKey returns a fresh object key under the user's prefix.
func StorageKey(userID, ext string) string {
	return fmt.Sprintf("avatars/%s/%s%s", userID, uuid.NewString(), ext)
}

func (p *Presigner) presignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(p.region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			p.user,
			p.password,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(p.endpoint)
		// MinIO serves buckets under the path, not a subdomain.
		o.UsePathStyle = true
	})

	return newS3PresignClient(client), nil
}

// Presign returns a PUT URL for a new avatar of the given content type and
// the GET URL the object will be readable at.
func (p *Presigner) Presign(ctx context.Context, userID, contentType string) (*Upload, error) {
	ext, ok := extensions[contentType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedContentType, contentType)
	}

	pc, err := p.presignClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("presign client: %w", err)
	}

	bucket := p.bucket
	key := p.newKey(userID, ext)

	put, err := presignPutObject(pc, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(p.putExpires))
	if err != nil {
		return nil, fmt.Errorf("presign put: %w", err)
	}

	get, err := presignGetObject(pc, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(p.getExpires))
	if err != nil {
		return nil, fmt.Errorf("presign get: %w", err)
	}

	return &Upload{Key: key, PutURL: put.URL, GetURL: get.URL}, nil
}
