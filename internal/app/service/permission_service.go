package service

import (
	"context"
	"errors"
	"strings"

	"github.com/almira/almira-backend/internal/app/model"
	"github.com/almira/almira-backend/internal/app/repository"
	"github.com/almira/almira-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrRoleNotFound         = errors.New("admin role not found")
	ErrInvalidPermissionTag = errors.New("unknown permission tag")
)

// GrantCache is an optional short-lived cache in front of the role
// store. Misses and errors fall through to the store.
type GrantCache interface {
	Get(ctx context.Context, email string) ([]string, bool)
	Set(ctx context.Context, email string, permissions []string)
	Invalidate(ctx context.Context, email string)
}

// ResolvedPermissions is a principal's effective permission set.
type ResolvedPermissions struct {
	Email       string   `json:"email"`
	Owner       bool     `json:"owner"`
	Permissions []string `json:"permissions"`
}

// PermissionService decides whether a principal may perform an admin
// action. Owners (the configured allow-list) pass every check; other
// principals need the specific tag in their stored grant. Lookup
// failures resolve to no permissions rather than an error, so a broken
// role store can never open the admin area.
type PermissionService interface {
	Resolve(email string) ResolvedPermissions
	HasPermission(email, tag string) bool
	CanAccess(email string) bool

	ListRoles() ([]model.AdminRole, error)
	SetRole(email string, permissions []string) (*model.AdminRole, error)
	DeleteRole(email string) error
}

type permissionService struct {
	roleRepo    repository.AdminRoleRepository
	ownerEmails map[string]bool
	cache       GrantCache
}

func NewPermissionService(roleRepo repository.AdminRoleRepository, ownerEmails []string, cache GrantCache) PermissionService {
	owners := make(map[string]bool, len(ownerEmails))
	for _, email := range ownerEmails {
		owners[strings.ToLower(strings.TrimSpace(email))] = true
	}
	return &permissionService{
		roleRepo:    roleRepo,
		ownerEmails: owners,
		cache:       cache,
	}
}

func (s *permissionService) Resolve(email string) ResolvedPermissions {
	email = strings.ToLower(strings.TrimSpace(email))
	resolved := ResolvedPermissions{Email: email, Permissions: []string{}}

	if email == "" {
		return resolved
	}

	if s.ownerEmails[email] {
		resolved.Owner = true
		resolved.Permissions = append([]string{}, model.AllPermissions...)
		return resolved
	}

	if s.cache != nil {
		if tags, ok := s.cache.Get(context.Background(), email); ok {
			return s.fromTags(resolved, tags)
		}
	}

	role, err := s.roleRepo.Get(email)
	if err != nil {
		// fail closed: a missing or unreadable grant means no access
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("Failed to resolve admin permissions, denying access", err, map[string]interface{}{
				"email": email,
			})
		}
		return resolved
	}

	if s.cache != nil {
		s.cache.Set(context.Background(), email, role.Permissions)
	}
	return s.fromTags(resolved, role.Permissions)
}

func (s *permissionService) fromTags(resolved ResolvedPermissions, tags []string) ResolvedPermissions {
	for _, tag := range tags {
		// a stored owner tag should not exist, but honor it if present
		if tag == model.PermissionOwner {
			resolved.Owner = true
			resolved.Permissions = append([]string{}, model.AllPermissions...)
			return resolved
		}
		resolved.Permissions = append(resolved.Permissions, tag)
	}
	return resolved
}

func (s *permissionService) HasPermission(email, tag string) bool {
	resolved := s.Resolve(email)
	if resolved.Owner {
		return true
	}
	for _, p := range resolved.Permissions {
		if p == tag {
			return true
		}
	}
	return false
}

// CanAccess reports whether the principal may see the admin area at
// all: owners and anyone with a non-empty grant.
func (s *permissionService) CanAccess(email string) bool {
	resolved := s.Resolve(email)
	return resolved.Owner || len(resolved.Permissions) > 0
}

func (s *permissionService) ListRoles() ([]model.AdminRole, error) {
	return s.roleRepo.List()
}

// SetRole replaces the principal's grant with the given tag set. Only
// the known tags are storable; owner status comes from the allow-list
// and cannot be granted here.
func (s *permissionService) SetRole(email string, permissions []string) (*model.AdminRole, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, ErrInvalidPermissionTag
	}

	seen := make(map[string]bool, len(permissions))
	tags := make([]string, 0, len(permissions))
	for _, tag := range permissions {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if !model.ValidPermission(tag) {
			return nil, ErrInvalidPermissionTag
		}
		if seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}

	role, err := s.roleRepo.Set(email, tags)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Invalidate(context.Background(), email)
	}

	logger.Info("Admin role saved", map[string]interface{}{
		"email":       email,
		"permissions": tags,
	})
	return role, nil
}

func (s *permissionService) DeleteRole(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := s.roleRepo.Delete(email); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRoleNotFound
		}
		return err
	}
	if s.cache != nil {
		s.cache.Invalidate(context.Background(), email)
	}
	return nil
}
