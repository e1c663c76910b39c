package handlers

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	appConfig "github.com/mission365/classified-marketplace/internal/config"
	"github.com/mission365/classified-marketplace/pkg/errors"
	"github.com/mission365/classified-marketplace/pkg/logger"
	"github.com/mission365/classified-marketplace/pkg/utils"
)

// deleteProductImages is a package hook so tests can observe image cleanup
// without a storage backend
var deleteProductImages = DeleteProductImages

func getS3Client() (*s3.Client, error) {
	cfg := appConfig.AppConfig
	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL: fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.S3AccountID),
		}, nil
	})

	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithEndpointResolverWithOptions(resolver),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.S3AccessKeyID, cfg.S3SecretAccessKey, "")),
	)
	if err != nil {
		return nil, err
	}

	return s3.NewFromConfig(awsCfg), nil
}

// UploadProductImage handles POST /uploads/product-image: stores one image
// and returns its public URL for use in a product's images list.
func UploadProductImage(c *gin.Context) {
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		respondError(c, errors.BadRequest("No image file found"))
		return
	}
	defer file.Close()

	ext := filepath.Ext(header.Filename)
	key := fmt.Sprintf("products/%s%s", utils.GenerateID(), ext)

	client, err := getS3Client()
	if err != nil {
		respondError(c, errors.Internal("Failed to init storage client"))
		return
	}

	cfg := appConfig.AppConfig
	_, err = client.PutObject(context.TODO(), &s3.PutObjectInput{
		Bucket:      aws.String(cfg.S3BucketName),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String(header.Header.Get("Content-Type")),
	})
	if err != nil {
		logger.Error().Err(err).Str("key", key).Msg("Image upload failed")
		respondError(c, errors.Internal("Upload failed"))
		return
	}

	publicURL := cfg.S3PublicURL
	if publicURL == "" {
		publicURL = fmt.Sprintf("https://%s.r2.dev", cfg.S3BucketName)
	}

	respondOK(c, gin.H{
		"url":      fmt.Sprintf("%s/%s", publicURL, key),
		"key":      key,
		"mimetype": header.Header.Get("Content-Type"),
		"size":     header.Size,
	})
}

// DeleteProductImages removes stored objects for the given image refs.
// Best effort: a failed delete is logged, not surfaced, since the owning
// record mutation has already been decided.
func DeleteProductImages(images []string) {
	cfg := appConfig.AppConfig
	if cfg == nil || cfg.S3BucketName == "" {
		return
	}

	client, err := getS3Client()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to init storage client for image cleanup")
		return
	}

	for _, image := range images {
		key := storageKey(image)
		_, err := client.DeleteObject(context.TODO(), &s3.DeleteObjectInput{
			Bucket: aws.String(cfg.S3BucketName),
			Key:    aws.String(key),
		})
		if err != nil {
			logger.Error().Err(err).Str("key", key).Msg("Failed to delete stored image")
		}
	}
}

// storageKey strips the public URL prefix when a full URL was stored
func storageKey(image string) string {
	cfg := appConfig.AppConfig
	if cfg.S3PublicURL != "" && strings.HasPrefix(image, cfg.S3PublicURL) {
		return strings.TrimPrefix(strings.TrimPrefix(image, cfg.S3PublicURL), "/")
	}
	return image
}
