// Shelfwise - Library Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package api

import (
	"net/http"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/shelfwise/internal/models"
)

func TestListBooks_Pagination(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	tests := []struct {
		name       string
		target     string
		wantStatus int
		wantIDs    []string
	}{
		{"default page", "/api/v1/books", http.StatusOK, []string{"b1", "b2", "b3"}},
		{"first page of two", "/api/v1/books?limit=2&page=1", http.StatusOK, []string{"b1", "b2"}},
		{"second page of two", "/api/v1/books?limit=2&page=2", http.StatusOK, []string{"b3"}},
		{"past the end", "/api/v1/books?limit=2&page=5", http.StatusOK, []string{}},
		{"limit too large", "/api/v1/books?limit=500", http.StatusBadRequest, nil},
		{"page zero", "/api/v1/books?page=0", http.StatusBadRequest, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodGet, tt.target, "", "")
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantIDs == nil {
				return
			}

			var resp struct {
				Data     []models.Book   `json:"data"`
				Metadata models.Metadata `json:"metadata"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatal(err)
			}
			if resp.Metadata.Total != 3 {
				t.Errorf("total = %d, want 3", resp.Metadata.Total)
			}
			if len(resp.Data) != len(tt.wantIDs) {
				t.Fatalf("got %d books, want %d", len(resp.Data), len(tt.wantIDs))
			}
			for i, b := range resp.Data {
				if b.ID != tt.wantIDs[i] {
					t.Errorf("data[%d] = %q, want %q", i, b.ID, tt.wantIDs[i])
				}
			}
		})
	}
}

func TestGetBook(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/books/b2", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		Data models.Book `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Data.Title != "Book b2" {
		t.Errorf("title = %q", resp.Data.Title)
	}

	rec = env.do(t, http.MethodGet, "/api/v1/books/missing", "", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing status = %d", rec.Code)
	}
	if code := errorCode(t, rec); code != CodeNotFound {
		t.Errorf("code = %q", code)
	}
}

func TestCatalogWrites_Authorization(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	admin := env.token(t, models.RoleAdmin)
	user := env.token(t, models.RoleUser)

	tests := []struct {
		name       string
		method     string
		target     string
		body       string
		token      string
		wantStatus int
	}{
		{"create book without token", http.MethodPost, "/api/v1/books", `{"title":"Dune"}`, "", http.StatusUnauthorized},
		{"create book with garbage token", http.MethodPost, "/api/v1/books", `{"title":"Dune"}`, "not-a-jwt", http.StatusUnauthorized},
		{"create book as user", http.MethodPost, "/api/v1/books", `{"title":"Dune"}`, user, http.StatusForbidden},
		{"create book as admin", http.MethodPost, "/api/v1/books", `{"id":"b9","title":"Dune"}`, admin, http.StatusCreated},
		{"duplicate book id", http.MethodPost, "/api/v1/books", `{"id":"b1","title":"Again"}`, admin, http.StatusConflict},
		{"book without title", http.MethodPost, "/api/v1/books", `{"author":["x"]}`, admin, http.StatusBadRequest},
		{"delete book as user", http.MethodDelete, "/api/v1/books/b1", "", user, http.StatusForbidden},
		{"delete missing book", http.MethodDelete, "/api/v1/books/nope", "", admin, http.StatusNotFound},
		{"create user as admin", http.MethodPost, "/api/v1/users", `{"id":"u9","username":"reader9"}`, admin, http.StatusCreated},
		{"user with bad email", http.MethodPost, "/api/v1/users", `{"username":"reader","email":"nope"}`, admin, http.StatusBadRequest},
		{"delete user without token", http.MethodDelete, "/api/v1/users/u1", "", "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, tt.method, tt.target, tt.body, tt.token)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (%s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}
}

func TestCatalogWrites_ChangeRecommendations(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	admin := env.token(t, models.RoleAdmin)

	if rec := env.do(t, http.MethodDelete, "/api/v1/books/b1", "", admin); rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}
	if rec := env.do(t, http.MethodGet, "/api/v1/books/b1", "", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete status = %d", rec.Code)
	}
	if rec := env.do(t, http.MethodPost, "/api/v1/users", `{"id":"u3","username":"newcomer"}`, admin); rec.Code != http.StatusCreated {
		t.Fatalf("create user status = %d", rec.Code)
	}

	// Remaining books are b2, b3; indices 0,1,2 wrap to b2,b3,b2.
	rec := env.do(t, http.MethodPost, "/api/v1/recommend", `{"user_id":"u3","num_recommendations":3}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("recommend status = %d (%s)", rec.Code, rec.Body.String())
	}
	var resp models.RecommendResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	want := []string{"b2", "b3", "b2"}
	for i, r := range resp.Recommendations {
		if r.ItemID != want[i] {
			t.Errorf("recommendations[%d] = %q, want %q", i, r.ItemID, want[i])
		}
	}
}

func TestListUsers(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/users?limit=1&page=2", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		Data     []models.User   `json:"data"`
		Metadata models.Metadata `json:"metadata"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Data) != 1 || resp.Data[0].ID != "u2" {
		t.Errorf("data = %+v", resp.Data)
	}
	if resp.Metadata.Total != 2 {
		t.Errorf("total = %d, want 2", resp.Metadata.Total)
	}
	if resp.Data[0].Role != models.RoleUser {
		t.Errorf("role = %q, want default %q", resp.Data[0].Role, models.RoleUser)
	}
}
