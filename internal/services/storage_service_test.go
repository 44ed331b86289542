// internal/services/storage_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmagate/pharmacy-backend/internal/config"
)

func TestStorageServiceWithoutCredentials(t *testing.T) {
	cfg := &config.Config{}
	svc, err := NewStorageService(cfg)
	require.NoError(t, err)
	require.NotNil(t, svc)

	_, err = svc.GenerateUploadURL("photo.jpg", "image/jpeg")
	assert.ErrorIs(t, err, ErrStorageNotConfigured)

	_, err = svc.GenerateDownloadURL("products/abc.jpg")
	assert.ErrorIs(t, err, ErrStorageNotConfigured)
}

func TestStorageServiceRejectsDisallowedExtension(t *testing.T) {
	cfg := &config.Config{}
	cfg.AWS.AccessKeyID = "test-key"
	cfg.AWS.SecretAccessKey = "test-secret"
	cfg.AWS.Region = "us-east-1"
	cfg.AWS.S3Bucket = "test-bucket"

	svc, err := NewStorageService(cfg)
	require.NoError(t, err)
	require.NotNil(t, svc)

	_, err = svc.GenerateUploadURL("malware.exe", "application/octet-stream")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), ".exe")
}
