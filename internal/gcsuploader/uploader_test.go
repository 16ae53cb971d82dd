package gcsuploader

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectName(t *testing.T) {
	tests := []struct {
		name                       string
		userID, uploadID, fileName string
		want                       string
	}{
		{"plain", "u1", "up1", "mbank.csv", "statements/u1/up1/mbank.csv"},
		{"strips directories", "u1", "up1", "../../etc/x.csv", "statements/u1/up1/x.csv"},
		{"windows path", "u1", "up1", `C:\Users\me\pko.csv`, "statements/u1/up1/pko.csv"},
		{"empty name", "u1", "up1", "", "statements/u1/up1/statement.csv"},
		{"anonymous", "", "up1", "a.csv", "statements/anonymous/up1/a.csv"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ObjectName(tt.userID, tt.uploadID, tt.fileName))
		})
	}
}

func TestParseGCSURI(t *testing.T) {
	bucket, object, err := ParseGCSURI("gs://archive/statements/u1/up1/a.csv")
	require.NoError(t, err)
	assert.Equal(t, "archive", bucket)
	assert.Equal(t, "statements/u1/up1/a.csv", object)
	assert.Equal(t, "gs://archive/statements/u1/up1/a.csv", URI(bucket, object))

	for _, bad := range []string{"s3://a/b", "gs://bucket", "gs://bucket/", "gs:///obj"} {
		_, _, err := ParseGCSURI(bad)
		assert.Error(t, err, bad)
	}
}

func TestFetchFromGCS_InvalidURI(t *testing.T) {
	_, err := FetchFromGCS(context.Background(), "/tmp/file.csv")
	assert.ErrorContains(t, err, "invalid GCS URI")
}

func TestExtractFilenameFromGCSURI(t *testing.T) {
	svc := NewGCSStorageService()
	assert.Equal(t, "a.csv", svc.ExtractFilenameFromGCSURI("gs://b/statements/u/1/a.csv"))
	assert.Equal(t, "bucket", svc.ExtractFilenameFromGCSURI("gs://bucket"))
}
