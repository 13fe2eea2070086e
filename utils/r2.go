// utils/r2.go
package utils

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"fitness-tracker-system/models"
)

var r2Client *s3.Client
var r2Bucket string

// R2Enabled reports whether the client was initialized.
func R2Enabled() bool { return r2Client != nil }

func InitR2() error {
	accountID := os.Getenv("CLOUDFLARE_ACCOUNT_ID")
	accessKeyID := os.Getenv("R2_ACCESS_KEY_ID")
	accessKeySecret := os.Getenv("R2_ACCESS_KEY_SECRET")
	r2Bucket = os.Getenv("R2_BUCKET_NAME")
	switch {
	case accountID == "":
		return &models.ConfigError{Key: "CLOUDFLARE_ACCOUNT_ID"}
	case accessKeyID == "":
		return &models.ConfigError{Key: "R2_ACCESS_KEY_ID"}
	case accessKeySecret == "":
		return &models.ConfigError{Key: "R2_ACCESS_KEY_SECRET"}
	case r2Bucket == "":
		return &models.ConfigError{Key: "R2_BUCKET_NAME"}
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion("auto"),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			accessKeyID, accessKeySecret, "",
		)),
		config.WithEndpointResolver(aws.EndpointResolverFunc(
			func(service, region string) (aws.Endpoint, error) {
				return aws.Endpoint{
					URL: fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountID),
				}, nil
			}),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to load R2 config: %w", err)
	}

	r2Client = s3.NewFromConfig(cfg)
	return nil
}

// UploadBackupToR2 uploads a JSON backup blob under the given object key
// (e.g. "backups/fitness-backup-2026-08-30.json").
func UploadBackupToR2(ctx context.Context, data []byte, key string) error {
	if r2Client == nil {
		return fmt.Errorf("R2 client not initialized")
	}
	_, err := r2Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r2Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload to R2: %w", err)
	}
	return nil
}
