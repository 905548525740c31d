package services

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/wizardry/internal/common"
	sc "github.com/dmitrijs2005/wizardry/internal/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMediaSvc() *MediaService {
	return NewMediaService(&sc.Config{
		S3Region:       "us-east-1",
		S3AccessKey:    "minioadmin",
		S3SecretKey:    "minioadmin",
		S3BaseEndpoint: "http://127.0.0.1:9000",
		S3Bucket:       "wizardry",
	})
}

// stubS3 replaces the AWS constructors for the duration of the test.
func stubS3(t *testing.T, presign func(in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)) {
	t.Helper()

	origLoad, origNewS3, origNewPre, origPut := loadDefaultAWSConfig, newS3ClientFromConfig, newS3PresignClient, presignPutObject
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNewS3
		newS3PresignClient = origNewPre
		presignPutObject = origPut
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			if err := fn(&lo); err != nil {
				t.Fatalf("load options fn error: %v", err)
			}
		}
		if lo.Region != "us-east-1" {
			t.Fatalf("region not applied: %q", lo.Region)
		}
		return aws.Config{}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		var opts s3.Options
		for _, fn := range optFns {
			fn(&opts)
		}
		if opts.BaseEndpoint == nil || *opts.BaseEndpoint != "http://127.0.0.1:9000" {
			t.Fatalf("BaseEndpoint not applied")
		}
		if !opts.UsePathStyle {
			t.Fatalf("path style addressing expected")
		}
		return &s3.Client{}
	}
	newS3PresignClient = func(c *s3.Client) *s3.PresignClient { return &s3.PresignClient{} }
	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return presign(in, optFns...)
	}
}

func TestCreateUploadURL(t *testing.T) {
	svc := newMediaSvc()
	svc.now = func() time.Time { return time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC) }

	var gotIn *s3.PutObjectInput
	stubS3(t, func(in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		gotIn = in
		var po s3.PresignOptions
		for _, fn := range optFns {
			fn(&po)
		}
		if po.Expires != UploadURLExpiry {
			t.Fatalf("expiry = %v", po.Expires)
		}
		return &v4.PresignedHTTPRequest{URL: "http://minio/wizardry/" + *in.Key}, nil
	})

	up, err := svc.CreateUploadURL(context.Background(), "u1", "image/png")
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^posts/u1/2024/3/7/[0-9a-f-]{36}$`), up.Key)
	assert.Equal(t, "http://minio/wizardry/"+up.Key, up.URL)
	assert.Equal(t, UploadURLExpiry, up.ExpiresIn)
	assert.Equal(t, "wizardry", *gotIn.Bucket)
	assert.Equal(t, "image/png", *gotIn.ContentType)
}

func TestCreateUploadURL_RejectsNonImage(t *testing.T) {
	_, err := newMediaSvc().CreateUploadURL(context.Background(), "u1", "application/pdf")
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestCreateUploadURL_PresignError(t *testing.T) {
	stubS3(t, func(in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return nil, errors.New("presign-put-fail")
	})

	_, err := newMediaSvc().CreateUploadURL(context.Background(), "u1", "")
	assert.EqualError(t, err, "presign-put-fail")
}

func TestCreateUploadURL_LoadConfigError(t *testing.T) {
	orig := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = orig })
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("load-fail")
	}

	_, err := newMediaSvc().CreateUploadURL(context.Background(), "u1", "image/jpeg")
	assert.EqualError(t, err, "load-fail")
}
