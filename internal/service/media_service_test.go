package service

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"skillkart_backend/internal/model"
	"skillkart_backend/internal/util"
)

func newTestMediaService(t *testing.T) (*MediaService, string) {
	t.Helper()
	root := t.TempDir()
	svc := NewMediaService(&LocalStorageProvider{Root: root})
	svc.ProbeVideo = func(string) (*util.VideoInfo, error) {
		return &util.VideoInfo{Duration: 120}, nil
	}
	return svc, root
}

func TestMediaUploadVideo(t *testing.T) {
	svc, root := newTestMediaService(t)
	webm := append([]byte("\x1A\x45\xDF\xA3"), bytes.Repeat([]byte{0}, 64)...)

	res, err := svc.Upload(context.Background(), "intro.webm", bytes.NewReader(webm), int64(len(webm)))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if res.Type != model.ResourceVideo || res.Duration != 2 || res.ContentType != "video/webm" {
		t.Fatalf("result = %+v", res)
	}
	if !strings.HasPrefix(res.FileURL, "/uploads/"+mediaFolder+"/") || !strings.HasSuffix(res.FileURL, ".webm") {
		t.Fatalf("FileURL = %q", res.FileURL)
	}

	stored, err := os.ReadFile(filepath.Join(root, strings.TrimPrefix(res.FileURL, "/uploads/")))
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if !bytes.Equal(stored, webm) {
		t.Fatal("stored content differs from upload")
	}
}

func TestMediaUploadRejects(t *testing.T) {
	svc, _ := newTestMediaService(t)
	png := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 32)...)
	webm := append([]byte("\x1A\x45\xDF\xA3"), bytes.Repeat([]byte{0}, 64)...)

	tests := []struct {
		name     string
		filename string
		content  []byte
	}{
		{"plain text", "notes.txt", []byte("just some notes")},
		{"video with wrong extension", "intro.txt", webm},
		{"image with wrong extension", "cover.bmp", png},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Upload(context.Background(), tt.filename, bytes.NewReader(tt.content), int64(len(tt.content)))
			var verr *util.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("err = %v, want validation error", err)
			}
		})
	}
}

func TestMediaUploadImageSkipsProbe(t *testing.T) {
	svc, _ := newTestMediaService(t)
	probed := false
	svc.ProbeVideo = func(string) (*util.VideoInfo, error) {
		probed = true
		return nil, errors.New("not a video")
	}
	png := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 32)...)

	res, err := svc.Upload(context.Background(), "cover.PNG", bytes.NewReader(png), int64(len(png)))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if probed || res.Type != "" || res.Duration != 0 {
		t.Fatalf("probed=%v result=%+v", probed, res)
	}
}
