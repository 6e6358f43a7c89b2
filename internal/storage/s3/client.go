package s3

import (
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"portal-gateway/internal/config"
)

// Client wraps the S3 API for the document proxy: it knows the bucket's
// public hostname (the only host the proxy will fetch documents from) and
// can presign GETs for bare object keys.
type Client struct {
	bucket string
	region string
	svc    *s3.S3
}

func NewClient(cfg *config.Config) (*Client, error) {
	awsConfig := &aws.Config{
		Region: aws.String(cfg.AWS.Region),
	}
	if cfg.AWS.AccessKeyID != "" {
		awsConfig.Credentials = credentials.NewStaticCredentials(
			cfg.AWS.AccessKeyID,
			cfg.AWS.SecretAccessKey,
			"",
		)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("s3: failed to create session: %w", err)
	}

	return &Client{
		bucket: cfg.AWS.Bucket,
		region: cfg.AWS.Region,
		svc:    s3.New(sess),
	}, nil
}

// BucketHost is the virtual-hosted-style hostname of the bucket.
func (c *Client) BucketHost() string {
	return fmt.Sprintf("%s.s3.%s.amazonaws.com", c.bucket, c.region)
}

// PresignGet returns a presigned GET URL for an object key.
func (c *Client) PresignGet(key string, expiresIn time.Duration) (string, error) {
	req, _ := c.svc.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})

	url, err := req.Presign(expiresIn)
	if err != nil {
		return "", fmt.Errorf("s3: failed to presign GET for %q: %w", key, err)
	}

	return url, nil
}
