// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/msnandhis/vibepress-sub000/internal/kvstore"
	"github.com/msnandhis/vibepress-sub000/internal/models"
	"github.com/msnandhis/vibepress-sub000/internal/query"
)

// UserStore handles all user operations over the users collection.
type UserStore struct {
	kv *kvstore.Store
}

// NewUserStore creates a new UserStore with the given key-value store.
func NewUserStore(kv *kvstore.Store) *UserStore {
	return &UserStore{kv: kv}
}

// UserInput carries the fields accepted when creating a user.
type UserInput struct {
	Email       string
	Username    string
	DisplayName string
	Password    string
	RoleID      string
	Status      models.UserStatus
}

// UserPatch carries a partial update. Nil fields are left untouched.
type UserPatch struct {
	Email       *string
	Username    *string
	DisplayName *string
	Password    *string
	RoleID      *string
	Status      *models.UserStatus
}

// Create validates the input (format plus email/username uniqueness),
// hashes the password with bcrypt, assigns an id and timestamps, then
// persists the user. A duplicate email or username aborts before any
// write, leaving the stored user count unchanged.
func (s *UserStore) Create(ctx context.Context, in UserInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	username := strings.TrimSpace(in.Username)

	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if err := validatePassword(in.Password); err != nil {
		return nil, err
	}

	users, err := getAll[models.User](ctx, s.kv, usersCollection)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	for _, u := range users {
		if u.Email == email {
			return nil, validationf("email", "email %q is already in use", email)
		}
		if u.Username == username {
			return nil, validationf("username", "username %q is already in use", username)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	status := in.Status
	if status == "" {
		status = models.UserStatusActive
	}

	now := time.Now().UTC()
	u := models.User{
		ID:           newID("user"),
		Email:        email,
		Username:     username,
		DisplayName:  in.DisplayName,
		PasswordHash: string(hash),
		RoleID:       in.RoleID,
		Status:       status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.kv.Set(ctx, usersCollection, u.ID, &u); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &u, nil
}

// Update merges the patch into the stored user and refreshes UpdatedAt.
// Email and username changes re-check uniqueness against every other user.
func (s *UserStore) Update(ctx context.Context, id string, patch UserPatch) (*models.User, error) {
	u, err := s.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, notFound("user", id)
	}

	if patch.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*patch.Email))
		if email != u.Email {
			if err := validateEmail(email); err != nil {
				return nil, err
			}
			inUse, err := s.emailTaken(ctx, email, id)
			if err != nil {
				return nil, err
			}
			if inUse {
				return nil, validationf("email", "email %q is already in use", email)
			}
			u.Email = email
		}
	}
	if patch.Username != nil {
		username := strings.TrimSpace(*patch.Username)
		if username != u.Username {
			if err := validateUsername(username); err != nil {
				return nil, err
			}
			users, err := getAll[models.User](ctx, s.kv, usersCollection)
			if err != nil {
				return nil, fmt.Errorf("update user: %w", err)
			}
			for _, other := range users {
				if other.ID != id && other.Username == username {
					return nil, validationf("username", "username %q is already in use", username)
				}
			}
			u.Username = username
		}
	}
	if patch.DisplayName != nil {
		u.DisplayName = *patch.DisplayName
	}
	if patch.Password != nil {
		if err := validatePassword(*patch.Password); err != nil {
			return nil, err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*patch.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		u.PasswordHash = string(hash)
	}
	if patch.RoleID != nil {
		if *patch.RoleID != u.RoleID {
			if err := s.guardLastAdmin(ctx, u); err != nil {
				return nil, err
			}
		}
		u.RoleID = *patch.RoleID
	}
	if patch.Status != nil {
		if *patch.Status == models.UserStatusInactive && u.Status == models.UserStatusActive {
			if err := s.guardLastAdmin(ctx, u); err != nil {
				return nil, err
			}
		}
		u.Status = *patch.Status
	}

	u.UpdatedAt = time.Now().UTC()
	if err := s.kv.Set(ctx, usersCollection, u.ID, u); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return u, nil
}

// Delete removes a user. The last active administrator cannot be
// deleted; the guard leaves the store unchanged.
func (s *UserStore) Delete(ctx context.Context, id string) error {
	u, err := s.Find(ctx, id)
	if err != nil {
		return err
	}
	if u == nil {
		return notFound("user", id)
	}
	if err := s.guardLastAdmin(ctx, u); err != nil {
		return err
	}
	if err := s.kv.Remove(ctx, usersCollection, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

// Find retrieves a user by id. Returns nil if not found.
func (s *UserStore) Find(ctx context.Context, id string) (*models.User, error) {
	return getOne[models.User](ctx, s.kv, usersCollection, id)
}

// FindByEmail retrieves a user by email. Returns nil if not found.
func (s *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	users, err := getAll[models.User](ctx, s.kv, usersCollection)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Email == email {
			return &users[i], nil
		}
	}
	return nil, nil
}

// List loads the full collection, applies the typed filters, sorts,
// paginates, and enriches each user with their role.
func (s *UserStore) List(ctx context.Context, f models.UserFilters, page, limit int) (query.Result[models.EnrichedUser], error) {
	users, err := getAll[models.User](ctx, s.kv, usersCollection)
	if err != nil {
		return query.Result[models.EnrichedUser]{}, fmt.Errorf("list users: %w", err)
	}

	var filters []func(models.User) bool
	if f.Search != "" {
		filters = append(filters, func(u models.User) bool {
			return query.Contains(u.Email, f.Search) ||
				query.Contains(u.Username, f.Search) ||
				query.Contains(u.DisplayName, f.Search)
		})
	}
	if f.RoleID != "" {
		filters = append(filters, func(u models.User) bool { return u.RoleID == f.RoleID })
	}
	if f.Status != "" {
		filters = append(filters, func(u models.User) bool { return u.Status == f.Status })
	}

	result := query.Run(users, query.Options[models.User]{
		Filters: filters,
		Less:    userLess(f.SortBy),
		Order:   query.ParseOrder(f.SortOrder),
		Page:    page,
		Limit:   limit,
	})

	enriched := query.Result[models.EnrichedUser]{Pagination: result.Pagination}
	enriched.Items = make([]models.EnrichedUser, 0, len(result.Items))
	for _, u := range result.Items {
		item := models.EnrichedUser{User: u}
		if item.Role, err = lookup[models.Role](ctx, s.kv, rolesCollection, u.RoleID); err != nil {
			return enriched, fmt.Errorf("enrich user role: %w", err)
		}
		enriched.Items = append(enriched.Items, item)
	}
	return enriched, nil
}

func userLess(sortBy string) func(a, b models.User) bool {
	switch sortBy {
	case "email":
		return func(a, b models.User) bool { return a.Email < b.Email }
	case "username":
		return func(a, b models.User) bool { return a.Username < b.Username }
	case "display_name":
		return func(a, b models.User) bool {
			return strings.ToLower(a.DisplayName) < strings.ToLower(b.DisplayName)
		}
	case "last_login_at":
		return func(a, b models.User) bool { return query.CompareTimes(a.LastLoginAt, b.LastLoginAt) }
	default:
		return func(a, b models.User) bool { return a.CreatedAt.Before(b.CreatedAt) }
	}
}

// Count returns the number of users.
func (s *UserStore) Count(ctx context.Context) (int, error) {
	return s.kv.Count(ctx, usersCollection)
}

// BulkDelete removes each id independently and reports per-id outcomes.
// The last-admin guard applies per id.
func (s *UserStore) BulkDelete(ctx context.Context, ids []string) []BulkResult {
	return bulkApply(ctx, ids, s.Delete)
}

// CheckPassword verifies a plaintext password against the stored hash.
func (s *UserStore) CheckPassword(user *models.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}

// TouchLogin records a successful sign-in time.
func (s *UserStore) TouchLogin(ctx context.Context, id string) error {
	u, err := s.Find(ctx, id)
	if err != nil {
		return err
	}
	if u == nil {
		return notFound("user", id)
	}
	now := time.Now().UTC()
	u.LastLoginAt = &now
	u.UpdatedAt = now
	if err := s.kv.Set(ctx, usersCollection, u.ID, u); err != nil {
		return fmt.Errorf("touch login: %w", err)
	}
	return nil
}

// SetTOTPSecret saves the TOTP secret for a user (during 2FA setup).
func (s *UserStore) SetTOTPSecret(ctx context.Context, id, secret string) error {
	u, err := s.Find(ctx, id)
	if err != nil {
		return err
	}
	if u == nil {
		return notFound("user", id)
	}
	u.TOTPSecret = secret
	u.UpdatedAt = time.Now().UTC()
	if err := s.kv.Set(ctx, usersCollection, u.ID, u); err != nil {
		return fmt.Errorf("set totp secret: %w", err)
	}
	return nil
}

// EnableTOTP marks 2FA as active for a user (after successful code verification).
func (s *UserStore) EnableTOTP(ctx context.Context, id string) error {
	u, err := s.Find(ctx, id)
	if err != nil {
		return err
	}
	if u == nil {
		return notFound("user", id)
	}
	u.TOTPEnabled = true
	u.UpdatedAt = time.Now().UTC()
	if err := s.kv.Set(ctx, usersCollection, u.ID, u); err != nil {
		return fmt.Errorf("enable totp: %w", err)
	}
	return nil
}

// ResetTOTP clears the TOTP secret and disables 2FA for a user.
// The user will be prompted to set up 2FA again on their next login.
func (s *UserStore) ResetTOTP(ctx context.Context, id string) error {
	u, err := s.Find(ctx, id)
	if err != nil {
		return err
	}
	if u == nil {
		return notFound("user", id)
	}
	u.TOTPSecret = ""
	u.TOTPEnabled = false
	u.UpdatedAt = time.Now().UTC()
	if err := s.kv.Set(ctx, usersCollection, u.ID, u); err != nil {
		return fmt.Errorf("reset totp: %w", err)
	}
	return nil
}

// guardLastAdmin rejects removing, deactivating, or demoting the last
// active user holding the administrator role.
func (s *UserStore) guardLastAdmin(ctx context.Context, target *models.User) error {
	roles, err := getAll[models.Role](ctx, s.kv, rolesCollection)
	if err != nil {
		return fmt.Errorf("last admin guard: %w", err)
	}
	var adminRoleID string
	for _, r := range roles {
		if r.Slug == models.AdminRoleSlug {
			adminRoleID = r.ID
			break
		}
	}
	if adminRoleID == "" || target.RoleID != adminRoleID {
		return nil
	}

	users, err := getAll[models.User](ctx, s.kv, usersCollection)
	if err != nil {
		return fmt.Errorf("last admin guard: %w", err)
	}
	admins := 0
	for _, u := range users {
		if u.RoleID == adminRoleID && u.Status == models.UserStatusActive {
			admins++
		}
	}
	if admins <= 1 {
		return integrityf("user", "cannot remove the last administrator")
	}
	return nil
}

// emailTaken reports whether any other user already holds the email.
func (s *UserStore) emailTaken(ctx context.Context, email, selfID string) (bool, error) {
	users, err := getAll[models.User](ctx, s.kv, usersCollection)
	if err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	for _, u := range users {
		if u.ID != selfID && u.Email == email {
			return true, nil
		}
	}
	return false, nil
}
