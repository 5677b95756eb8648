package util

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"skillkart_backend/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func TestParseIndex(t *testing.T) {
	tests := []struct {
		in     string
		want   int
		wantOK bool
	}{
		{"0", 0, true},
		{"12", 12, true},
		{"-1", 0, false},
		{"abc", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseIndex(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseIndex(%q) = %d, %v; want %d, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestIsNotFound(t *testing.T) {
	if !IsNotFound(fmt.Errorf("load: %w", ErrTopicNotFound)) {
		t.Error("wrapped ErrTopicNotFound should be a not-found error")
	}
	if IsNotFound(ErrPermissionDenied) {
		t.Error("ErrPermissionDenied is not a not-found error")
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Issues: []ValidationIssue{
		{Field: "title", Message: "title is required"},
		{Field: "duration", Message: "duration must be positive"},
	}}
	want := "validation failed: title is required; duration must be positive"
	if err.Error() != want {
		t.Fatalf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestHandleServiceError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"validation", NewValidationError("title", "title is required"), http.StatusBadRequest},
		{"not found", ErrRoadmapNotFound, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("x: %w", ErrCommentNotFound), http.StatusNotFound},
		{"forbidden", ErrPermissionDenied, http.StatusForbidden},
		{"duplicate email", ErrEmailRegistered, http.StatusBadRequest},
		{"bad credentials", ErrInvalidCredentials, http.StatusUnauthorized},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			HandleServiceError(c, tt.err)

			if w.Code != tt.code {
				t.Fatalf("status = %d, want %d", w.Code, tt.code)
			}
			var resp Response
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Code != tt.code {
				t.Fatalf("body code = %d, want %d", resp.Code, tt.code)
			}
		})
	}
}

func TestJWTRoundTrip(t *testing.T) {
	user := &model.User{Email: "a@example.com", Role: model.Admin}
	user.ID = 7

	token, err := GenerateJWT(user, "secret", time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}
	claims, err := ParseJWT(token, "secret")
	if err != nil {
		t.Fatalf("ParseJWT: %v", err)
	}
	if claims.UserID != 7 || claims.Role != model.Admin || claims.Email != "a@example.com" {
		t.Fatalf("claims = %+v", claims)
	}

	if claims.Subject != "7" || claims.Issuer != tokenIssuer {
		t.Fatalf("registered claims = %+v", claims.RegisteredClaims)
	}

	if _, err := ParseJWT(token, "other"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("wrong secret err = %v", err)
	}
	expired, _ := GenerateJWT(user, "secret", -time.Minute)
	_, err = ParseJWT(expired, "secret")
	if !errors.Is(err, ErrInvalidToken) || !errors.Is(err, jwt.ErrTokenExpired) {
		t.Fatalf("expired err = %v", err)
	}
}

func TestParseProbeOutput(t *testing.T) {
	out := `{
		"streams": [
			{"codec_type": "audio"},
			{"codec_type": "video", "width": 1280, "height": 720}
		],
		"format": {"duration": "95.5"}
	}`
	info, err := parseProbeOutput(out)
	if err != nil {
		t.Fatalf("parseProbeOutput: %v", err)
	}
	if info.Width != 1280 || info.Height != 720 || info.Duration != 95.5 {
		t.Fatalf("info = %+v", info)
	}
	if info.DurationMinutes() != 1.6 {
		t.Fatalf("DurationMinutes = %v, want 1.6", info.DurationMinutes())
	}

	if _, err := parseProbeOutput("not json"); err == nil {
		t.Fatal("invalid output should fail")
	}
}

func TestHasAllowedExtension(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"lesson.MP4", true},
		{"cover.png", false},
		{"archive.tar.gz", false},
		{"noext", false},
	}
	for _, tt := range tests {
		if got := HasAllowedExtension(tt.name, AllowedVideoExtensions); got != tt.want {
			t.Errorf("HasAllowedExtension(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestValidateMimeType(t *testing.T) {
	png := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 32)...)
	mime, err := ValidateMimeType(bytes.NewReader(png), []string{MimeImage})
	if err != nil || mime != "image/png" {
		t.Fatalf("ValidateMimeType = %q, %v", mime, err)
	}
	if _, err := ValidateMimeType(strings.NewReader("plain text"), []string{MimeVideo}); err == nil {
		t.Fatal("text should not pass as video")
	}
}
