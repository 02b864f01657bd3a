// Shelfwise - Library Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package authz

import (
	"os"
	"path/filepath"
	"testing"
)

func newTestEnforcer(t *testing.T, cfg *EnforcerConfig) *Enforcer {
	t.Helper()
	e, err := NewEnforcer(cfg)
	if err != nil {
		t.Fatalf("NewEnforcer() error = %v", err)
	}
	t.Cleanup(e.Close)
	return e
}

func TestEnforce_EmbeddedPolicy(t *testing.T) {
	t.Parallel()
	e := newTestEnforcer(t, nil)

	tests := []struct {
		role   string
		object string
		action string
		want   bool
	}{
		{"user", "/api/v1/books", "read", true},
		{"user", "/api/v1/books/abc-123", "read", true},
		{"user", "/api/v1/books", "write", false},
		{"user", "/api/v1/books/abc-123", "delete", false},
		{"user", "/api/v1/users", "write", false},
		{"admin", "/api/v1/books", "write", true},
		{"admin", "/api/v1/books/abc-123", "delete", true},
		{"admin", "/api/v1/users/u1", "delete", true},
		{"admin", "/api/v1/users", "read", true},
		{"guest", "/api/v1/books", "read", false},
		{"admin", "/api/v1/reset_metrics", "write", false},
	}
	for _, tt := range tests {
		t.Run(tt.role+" "+tt.action+" "+tt.object, func(t *testing.T) {
			got, err := e.Enforce(tt.role, tt.object, tt.action)
			if err != nil {
				t.Fatalf("Enforce() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Enforce(%s, %s, %s) = %v, want %v", tt.role, tt.object, tt.action, got, tt.want)
			}
		})
	}
}

func TestEnforce_CacheClearedOnPolicyChange(t *testing.T) {
	t.Parallel()
	e := newTestEnforcer(t, DefaultEnforcerConfig())

	if ok, _ := e.Enforce("librarian", "/api/v1/books", "write"); ok {
		t.Fatal("librarian allowed before grant")
	}
	if _, err := e.AddPolicy("librarian", "/api/v1/books", "write"); err != nil {
		t.Fatalf("AddPolicy() error = %v", err)
	}
	if ok, _ := e.Enforce("librarian", "/api/v1/books", "write"); !ok {
		t.Error("librarian denied after grant; cached decision not cleared")
	}
	if _, err := e.RemovePolicy("librarian", "/api/v1/books", "write"); err != nil {
		t.Fatalf("RemovePolicy() error = %v", err)
	}
	if ok, _ := e.Enforce("librarian", "/api/v1/books", "write"); ok {
		t.Error("librarian allowed after revoke")
	}
}

func TestNewEnforcer_PolicyFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "policy.csv")
	if err := os.WriteFile(path, []byte("p, curator, /api/v1/books, write\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	e := newTestEnforcer(t, &EnforcerConfig{PolicyPath: path})
	if ok, _ := e.Enforce("curator", "/api/v1/books", "write"); !ok {
		t.Error("curator denied under file policy")
	}
	if ok, _ := e.Enforce("admin", "/api/v1/books", "write"); ok {
		t.Error("embedded admin grant leaked into file policy")
	}
}
