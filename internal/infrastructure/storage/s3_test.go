package storage

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"carenet/internal/config"
)

func TestNewS3_RequiresCredentials(t *testing.T) {
	if _, err := NewS3(context.Background(), config.StorageConfig{Bucket: "resumes"}); err == nil {
		t.Fatalf("expected error without credentials")
	}
}

func TestS3_SignedURL(t *testing.T) {
	s, err := NewS3(context.Background(), config.StorageConfig{
		Endpoint:        "http://minio.local:9000/",
		Region:          "us-east-1",
		Bucket:          "resumes",
		AccessKeyID:     "AKIDEXAMPLE",
		AccessKeySecret: "secret",
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	raw, err := s.SignedURL(context.Background(), "resumes/u1/cv.pdf", time.Hour)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("bad url %q: %v", raw, err)
	}
	if u.Host != "minio.local:9000" {
		t.Fatalf("expected custom endpoint, got %q", u.Host)
	}
	if !strings.HasPrefix(u.Path, "/resumes/resumes/u1/cv.pdf") {
		t.Fatalf("expected path style key, got %q", u.Path)
	}
	if u.Query().Get("X-Amz-Expires") != "3600" {
		t.Fatalf("expected 3600s expiry, got %q", u.Query().Get("X-Amz-Expires"))
	}
}
