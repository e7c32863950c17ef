package storage

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

func getS3Client() (*s3.Client, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			os.Getenv("R2_ACCESS_KEY"),
			os.Getenv("R2_SECRET_KEY"),
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %v", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", os.Getenv("R2_ACCOUNT_ID")))
		o.UsePathStyle = true
		o.Region = "auto"
	})

	return client, nil
}

func publicURL() string {
	if url := os.Getenv("R2_PUBLIC_URL"); url != "" {
		return url
	}
	return "https://cdn.roomstay.app"
}

type UploadConfig struct {
	Body         *bytes.Buffer
	ContentType  string
	Filename     string
	Username     string
	PropertySlug string
}

type UploadResult struct {
	URL      string
	ObjectID string
}

// Upload stores a processed image under a URL-safe, per-property key
// and returns its public URL.
func Upload(cfg UploadConfig) (UploadResult, error) {
	safeUsername := slug.Make(cfg.Username)
	safePropertySlug := slug.Make(cfg.PropertySlug)

	ext := filepath.Ext(cfg.Filename)
	uniqueID := uuid.New().String()
	objectKey := filepath.Join("users", safeUsername, "properties", safePropertySlug, "images", uniqueID+ext)

	client, err := getS3Client()
	if err != nil {
		return UploadResult{}, err
	}

	_, err = client.PutObject(context.TODO(), &s3.PutObjectInput{
		Bucket:      aws.String(os.Getenv("R2_BUCKET_NAME")),
		Key:         aws.String(objectKey),
		Body:        bytes.NewReader(cfg.Body.Bytes()),
		ContentType: aws.String(cfg.ContentType),
	})
	if err != nil {
		return UploadResult{}, fmt.Errorf("could not upload file to R2: %v", err)
	}

	return UploadResult{
		URL:      fmt.Sprintf("%s/%s", publicURL(), objectKey),
		ObjectID: uniqueID,
	}, nil
}

// Delete removes a previously uploaded object by its public URL.
func Delete(fullURL string) error {
	objectKey := strings.TrimPrefix(fullURL, publicURL()+"/")

	client, err := getS3Client()
	if err != nil {
		return err
	}

	_, err = client.DeleteObject(context.TODO(), &s3.DeleteObjectInput{
		Bucket: aws.String(os.Getenv("R2_BUCKET_NAME")),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		return fmt.Errorf("could not delete file from R2: %v", err)
	}

	return nil
}
