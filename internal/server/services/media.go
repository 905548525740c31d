package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/wizardry/internal/common"
	sc "github.com/dmitrijs2005/wizardry/internal/server/config"
	"github.com/google/uuid"
)

// UploadURLExpiry is how long a presigned upload URL stays valid.
const UploadURLExpiry = 15 * time.Minute

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
)

// UploadURL is a presigned PUT target for a cover image. Key is what the
// client stores in a post's coverImage afterwards.
type UploadURL struct {
	Key       string
	URL       string
	ExpiresIn time.Duration
}

type MediaService struct {
	config *sc.Config
	now    func() time.Time
}

func NewMediaService(config *sc.Config) *MediaService {
	return &MediaService{config: config, now: time.Now}
}

func (s *MediaService) storageKey(userID string) string {
	d := s.now().UTC()
	return fmt.Sprintf("posts/%s/%d/%d/%d/%v", userID, d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *MediaService) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3AccessKey,
			s.config.S3SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return newS3PresignClient(client), nil
}

// CreateUploadURL presigns a PUT for a new object under the caller's prefix.
// contentType is optional; when given it must be an image type and the
// upload has to send the same Content-Type.
func (s *MediaService) CreateUploadURL(ctx context.Context, userID, contentType string) (*UploadURL, error) {
	if contentType != "" && !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Errorf("%w: only image uploads are allowed", common.ErrorValidation)
	}

	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return nil, err
	}

	key := s.storageKey(userID)
	in := &s3.PutObjectInput{
		Bucket: aws.String(s.config.S3Bucket),
		Key:    aws.String(key),
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}

	req, err := presignPutObject(presignClient, ctx, in, s3.WithPresignExpires(UploadURLExpiry))
	if err != nil {
		return nil, err
	}

	return &UploadURL{Key: key, URL: req.URL, ExpiresIn: UploadURLExpiry}, nil
}
