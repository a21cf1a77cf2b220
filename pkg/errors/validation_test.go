package errors

import (
	"strings"
	"testing"
)

func TestValidateIdentifier(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{name: "simple local component", id: "components/auth", wantErr: false},
		{name: "external package", id: "vendor/acme/router", wantErr: false},
		{name: "single segment", id: "auth", wantErr: false},
		{name: "empty", id: "", wantErr: true},
		{name: "path traversal", id: "../outside", wantErr: true},
		{name: "double slash", id: "a//b", wantErr: true},
		{name: "backslash", id: `a\b`, wantErr: true},
		{name: "null byte", id: "a\x00b", wantErr: true},
		{name: "control character", id: "a\nb", wantErr: true},
		{name: "absolute path", id: "/etc/passwd", wantErr: true},
		{name: "too long", id: strings.Repeat("a", 257), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateIdentifier(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateIdentifier(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("ValidateIdentifier(%q) code = %q, want %q", tt.id, GetCode(err), ErrCodeInvalidInput)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{name: "relative path", path: "components/auth/fiddler.json", wantErr: false},
		{name: "absolute path allowed", path: "/home/user/project", wantErr: false},
		{name: "empty", path: "", wantErr: true},
		{name: "path traversal", path: "a/../b", wantErr: true},
		{name: "backslash", path: `a\b`, wantErr: true},
		{name: "null byte", path: "a\x00b", wantErr: true},
		{name: "too long", path: strings.Repeat("a", 501), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
		})
	}
}
