package types

import (
	"github.com/oklog/ulid/v2"
)

// Entity ID prefixes. IDs look like tenant_01HZX3M9QK0V5E4R2B8N7C6D1F.
const (
	IDPrefixPlan         = "plan"
	IDPrefixSubscription = "subs"
	IDPrefixUser         = "user"
	IDPrefixTenant       = "tenant"
)

// GenerateUUID returns a ULID; IDs generated later sort after earlier ones
func GenerateUUID() string {
	return ulid.Make().String()
}

// GenerateUUIDWithPrefix returns prefix_<ULID>, or a bare ULID for an empty prefix
func GenerateUUIDWithPrefix(prefix string) string {
	id := GenerateUUID()
	if prefix == "" {
		return id
	}
	return prefix + "_" + id
}
