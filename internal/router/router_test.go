// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package router

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/msnandhis/vibepress-sub000/internal/handlers"
	"github.com/msnandhis/vibepress-sub000/internal/kvstore"
	"github.com/msnandhis/vibepress-sub000/internal/models"
	"github.com/msnandhis/vibepress-sub000/internal/store"
)

// testEnv wires the full router over a throwaway SQLite database, the
// same way cmd/vibepress does at startup.
type testEnv struct {
	router  http.Handler
	users   *store.UserStore
	roles   *store.RoleStore
	posts   *store.PostStore
	invites *store.InviteStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	schema := `CREATE TABLE kv_entries (
		collection TEXT NOT NULL,
		id         TEXT NOT NULL,
		data       TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (collection, id)
	)`
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("create schema: %v", err)
	}

	kv := kvstore.New(db)
	posts := store.NewPostStore(kv)
	pages := store.NewPageStore(kv)
	media := store.NewMediaStore(kv)
	folders := store.NewMediaFolderStore(kv)
	cats := store.NewCategoryStore(kv)
	tags := store.NewTagStore(kv)
	users := store.NewUserStore(kv)
	roles := store.NewRoleStore(kv)
	sessions := store.NewSessionStore(kv)
	invites := store.NewInviteStore(kv)
	settings := store.NewSiteSettingStore(kv, nil)

	admin := handlers.NewAdmin(posts, pages, media, folders, cats, tags,
		users, roles, sessions, invites, settings)
	auth := handlers.NewAuth(users, sessions, invites)

	return &testEnv{
		router:  New(sessions, admin, auth),
		users:   users,
		roles:   roles,
		posts:   posts,
		invites: invites,
	}
}

// do runs a JSON request through the router and decodes the response
// body into out when out is non-nil.
func (e *testEnv) do(t *testing.T, method, target, body string, out any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	if out != nil {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			t.Fatalf("%s %s: decode response %q: %v", method, target, rec.Body.String(), err)
		}
	}
	return rec
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("body = %q, want ok status", rec.Body.String())
	}
}

func TestPostLifecycle(t *testing.T) {
	env := newTestEnv(t)

	var created models.Post
	rec := env.do(t, http.MethodPost, "/admin/posts", `{"title":"Hello World","body":"First."}`, &created)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body.String())
	}
	if created.Slug != "hello-world" {
		t.Errorf("slug = %q, want hello-world", created.Slug)
	}
	if created.Status != models.PostStatusDraft {
		t.Errorf("status = %q, want draft", created.Status)
	}

	var fetched models.EnrichedPost
	rec = env.do(t, http.MethodGet, "/admin/posts/"+created.ID, "", &fetched)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	if fetched.Title != "Hello World" {
		t.Errorf("title = %q", fetched.Title)
	}

	var updated models.Post
	rec = env.do(t, http.MethodPut, "/admin/posts/"+created.ID, `{"status":"published"}`, &updated)
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d: %s", rec.Code, rec.Body.String())
	}
	if updated.Status != models.PostStatusPublished {
		t.Errorf("status = %q, want published", updated.Status)
	}
	if updated.PublishedAt == nil {
		t.Error("publishing should set published_at")
	}

	rec = env.do(t, http.MethodDelete, "/admin/posts/"+created.ID, "", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}

	rec = env.do(t, http.MethodGet, "/admin/posts/"+created.ID, "", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete = %d, want 404", rec.Code)
	}
}

func TestPostCreateValidation(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/admin/posts", `{"body":"no title"}`, nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422: %s", rec.Code, rec.Body.String())
	}

	rec = env.do(t, http.MethodPost, "/admin/posts", `{"title":"x","status":"bogus"}`, nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("bad status: got %d, want 422", rec.Code)
	}
}

func TestUnknownQueryParamRejected(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/admin/posts?serach=typo", "", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400: %s", rec.Code, rec.Body.String())
	}

	rec = env.do(t, http.MethodGet, "/admin/posts?page=2&limit=5", "", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("paging params should pass, got %d", rec.Code)
	}
}

func TestPostsBulkStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	a, err := env.posts.Create(ctx, store.PostInput{Title: "One"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	b, err := env.posts.Create(ctx, store.PostInput{Title: "Two"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	var resp struct {
		Results []struct {
			ID    string `json:"id"`
			OK    bool   `json:"ok"`
			Error string `json:"error"`
		} `json:"results"`
		Failed int `json:"failed"`
	}
	body := `{"ids":["` + a.ID + `","post_GHOST","` + b.ID + `"],"status":"published"}`
	rec := env.do(t, http.MethodPost, "/admin/posts/bulk/status", body, &resp)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	if len(resp.Results) != 3 {
		t.Fatalf("results: got %d, want 3", len(resp.Results))
	}
	if resp.Failed != 1 {
		t.Errorf("failed: got %d, want 1", resp.Failed)
	}
	if !resp.Results[0].OK || resp.Results[0].ID != a.ID {
		t.Errorf("first result should succeed for %s, got %+v", a.ID, resp.Results[0])
	}
	if resp.Results[1].OK || resp.Results[1].Error == "" {
		t.Errorf("ghost id should fail with an error, got %+v", resp.Results[1])
	}
	if !resp.Results[2].OK {
		t.Errorf("later ids proceed past a failure, got %+v", resp.Results[2])
	}

	// The bulk rejects unknown statuses before touching anything.
	rec = env.do(t, http.MethodPost, "/admin/posts/bulk/status", `{"ids":["`+a.ID+`"],"status":"nope"}`, nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("unknown status: got %d, want 422", rec.Code)
	}
}

func TestLoginLogoutFlow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	role, err := env.roles.Create(ctx, store.RoleInput{Name: "Editor"})
	if err != nil {
		t.Fatalf("create role: %v", err)
	}
	if _, err := env.users.Create(ctx, store.UserInput{
		Email:    "jamie@example.com",
		Username: "jamie",
		Password: "longenough",
		RoleID:   role.ID,
	}); err != nil {
		t.Fatalf("create user: %v", err)
	}

	t.Run("wrong password rejected", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/auth/login", `{"email":"jamie@example.com","password":"wrong"}`, nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("login sets session cookie then logout clears it", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/auth/login", `{"email":"JAMIE@example.com","password":"longenough"}`, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("login status = %d: %s", rec.Code, rec.Body.String())
		}

		var token string
		for _, c := range rec.Result().Cookies() {
			if c.Name == "vp_session" {
				token = c.Value
				if !c.HttpOnly {
					t.Error("session cookie should be HttpOnly")
				}
			}
		}
		if token == "" {
			t.Fatal("login should set the vp_session cookie")
		}
		// The served user must not leak credentials.
		if strings.Contains(rec.Body.String(), "password_hash") {
			t.Error("login response should not include the password hash")
		}

		req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
		req.AddCookie(&http.Cookie{Name: "vp_session", Value: token})
		out := httptest.NewRecorder()
		env.router.ServeHTTP(out, req)
		if out.Code != http.StatusNoContent {
			t.Fatalf("logout status = %d", out.Code)
		}

		var cleared bool
		for _, c := range out.Result().Cookies() {
			if c.Name == "vp_session" && c.Value == "" {
				cleared = true
			}
		}
		if !cleared {
			t.Error("logout should clear the session cookie")
		}
	})
}

func TestInviteAcceptRetryAfterRejectedInput(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	role, err := env.roles.Create(ctx, store.RoleInput{Name: "Author"})
	if err != nil {
		t.Fatalf("create role: %v", err)
	}
	inv, err := env.invites.Create(ctx, "newcomer@example.com", role.ID, "")
	if err != nil {
		t.Fatalf("create invite: %v", err)
	}
	accept := "/auth/invites/" + inv.Token + "/accept"

	// A rejected username must not burn the invite.
	rec := env.do(t, http.MethodPost, accept, `{"username":"NO UPPER SPACES","password":"longenough"}`, nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("bad username: status = %d, want 422: %s", rec.Code, rec.Body.String())
	}
	if u, err := env.users.FindByEmail(ctx, "newcomer@example.com"); err != nil {
		t.Fatalf("find user: %v", err)
	} else if u != nil {
		t.Fatal("rejected accept must not create an account")
	}

	// Retrying with valid input redeems the same token.
	var created models.User
	rec = env.do(t, http.MethodPost, accept, `{"username":"newcomer","password":"longenough"}`, &created)
	if rec.Code != http.StatusCreated {
		t.Fatalf("retry: status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	if created.Username != "newcomer" || created.RoleID != role.ID {
		t.Errorf("created user = %+v", created)
	}

	// The successful redemption consumes the token.
	rec = env.do(t, http.MethodPost, accept, `{"username":"other","password":"longenough"}`, nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("third accept: status = %d, want 422", rec.Code)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	env := newTestEnv(t)

	var defaults models.SiteSettings
	rec := env.do(t, http.MethodGet, "/admin/settings", "", &defaults)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	if defaults.SiteTitle != "My Site" {
		t.Errorf("default site title = %q", defaults.SiteTitle)
	}

	var updated models.SiteSettings
	rec = env.do(t, http.MethodPut, "/admin/settings", `{"site_title":"VibePress Blog","posts_per_page":25}`, &updated)
	if rec.Code != http.StatusOK {
		t.Fatalf("put status = %d: %s", rec.Code, rec.Body.String())
	}
	if updated.SiteTitle != "VibePress Blog" {
		t.Errorf("site title = %q", updated.SiteTitle)
	}
	if updated.PostsPerPage != 25 {
		t.Errorf("posts per page = %d", updated.PostsPerPage)
	}

	var again models.SiteSettings
	env.do(t, http.MethodGet, "/admin/settings", "", &again)
	if again.SiteTitle != "VibePress Blog" {
		t.Errorf("settings should persist, got title %q", again.SiteTitle)
	}
}

func TestCategoryTreeEndpoint(t *testing.T) {
	env := newTestEnv(t)

	var root models.Category
	rec := env.do(t, http.MethodPost, "/admin/categories", `{"name":"Tech"}`, &root)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body.String())
	}
	rec = env.do(t, http.MethodPost, "/admin/categories", `{"name":"Go","parent_id":"`+root.ID+`"}`, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create child status = %d: %s", rec.Code, rec.Body.String())
	}

	var tree []models.Category
	rec = env.do(t, http.MethodGet, "/admin/categories/tree", "", &tree)
	if rec.Code != http.StatusOK {
		t.Fatalf("tree status = %d", rec.Code)
	}
	if len(tree) != 1 {
		t.Fatalf("roots: got %d, want 1", len(tree))
	}
	if len(tree[0].Children) != 1 {
		t.Errorf("children: got %d, want 1", len(tree[0].Children))
	}
}

func TestDeleteCategoryWithChildrenConflicts(t *testing.T) {
	env := newTestEnv(t)

	var root models.Category
	env.do(t, http.MethodPost, "/admin/categories", `{"name":"Parent"}`, &root)
	env.do(t, http.MethodPost, "/admin/categories", `{"name":"Child","parent_id":"`+root.ID+`"}`, nil)

	rec := env.do(t, http.MethodDelete, "/admin/categories/"+root.ID, "", nil)
	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409: %s", rec.Code, rec.Body.String())
	}
}

func TestDashboardCounts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for _, title := range []string{"One", "Two"} {
		if _, err := env.posts.Create(ctx, store.PostInput{Title: title}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	var counts map[string]int
	rec := env.do(t, http.MethodGet, "/admin/dashboard", "", &counts)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if counts["posts"] != 2 {
		t.Errorf("posts count = %d, want 2", counts["posts"])
	}
	if counts["users"] != 0 {
		t.Errorf("users count = %d, want 0", counts["users"])
	}
}
