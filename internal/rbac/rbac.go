package rbac

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/taktakmenu/platform/internal/config"
	"github.com/taktakmenu/platform/internal/types"
)

// Entities and actions referenced by route definitions
const (
	EntityPlan          = "plan"
	EntityTenant        = "tenant"
	EntityTenantProfile = "tenant_profile"
	EntitySubscription  = "subscription"

	ActionRead  = "read"
	ActionWrite = "write"
)

//go:embed roles.json
var defaultRoles []byte

// RBACService answers permission checks with set based lookups
type RBACService struct {
	// role -> entity -> action
	permissions map[types.UserRole]map[string]map[string]bool

	roles map[types.UserRole]*Role
}

// Role represents a role with metadata
type Role struct {
	ID          types.UserRole      `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Permissions map[string][]string `json:"permissions"`
}

// NewRBACService loads the role table. The embedded table is used unless
// auth.roles_config_path points at a replacement.
func NewRBACService(cfg *config.Configuration) (*RBACService, error) {
	data := defaultRoles
	if path := cfg.Auth.RolesConfigPath; path != "" {
		override, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read roles config: %w", err)
		}
		data = override
	}
	return parseRoles(data)
}

func parseRoles(data []byte) (*RBACService, error) {
	var raw map[types.UserRole]*Role
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse roles config: %w", err)
	}

	permissions := make(map[types.UserRole]map[string]map[string]bool, len(raw))
	for id, role := range raw {
		if err := id.Validate(); err != nil {
			return nil, fmt.Errorf("unknown role %q in roles config", id)
		}
		role.ID = id
		permissions[id] = make(map[string]map[string]bool, len(role.Permissions))
		for entity, actions := range role.Permissions {
			permissions[id][entity] = make(map[string]bool, len(actions))
			for _, action := range actions {
				permissions[id][entity][action] = true
			}
		}
	}

	return &RBACService{
		permissions: permissions,
		roles:       raw,
	}, nil
}

// HasPermission reports whether role grants action on entity. Unknown roles
// are granted nothing.
func (s *RBACService) HasPermission(role types.UserRole, entity string, action string) bool {
	return s.permissions[role][entity][action]
}

// ListRoles returns every role ordered by id
func (s *RBACService) ListRoles() []*Role {
	result := make([]*Role, 0, len(s.roles))
	for _, role := range s.roles {
		result = append(result, role)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

func (s *RBACService) GetRole(id types.UserRole) (*Role, bool) {
	role, exists := s.roles[id]
	return role, exists
}
