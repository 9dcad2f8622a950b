package types

import (
	"context"
)

// ContextKey is a type for the keys of values stored in the context
type ContextKey string

const (
	CtxRequestID     ContextKey = "ctx_request_id"
	CtxTenantID      ContextKey = "ctx_tenant_id"
	CtxUserID        ContextKey = "ctx_user_id"
	CtxUserRole      ContextKey = "ctx_user_role"
	CtxSubdomain     ContextKey = "ctx_subdomain"
	CtxDBTransaction ContextKey = "ctx_db_transaction"
)

func GetUserID(ctx context.Context) string {
	if userID, ok := ctx.Value(CtxUserID).(string); ok {
		return userID
	}
	return ""
}

func GetTenantID(ctx context.Context) string {
	if tenantID, ok := ctx.Value(CtxTenantID).(string); ok {
		return tenantID
	}
	return ""
}

func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(CtxRequestID).(string); ok {
		return requestID
	}
	return ""
}

// GetUserRole returns the role of the authenticated caller or an empty role
func GetUserRole(ctx context.Context) UserRole {
	if role, ok := ctx.Value(CtxUserRole).(UserRole); ok {
		return role
	}
	return ""
}

// GetSubdomain returns the tenant subdomain the request was addressed to
func GetSubdomain(ctx context.Context) string {
	if subdomain, ok := ctx.Value(CtxSubdomain).(string); ok {
		return subdomain
	}
	return ""
}

// SetTenantID sets the tenant ID in the context
func SetTenantID(ctx context.Context, tenantID string) context.Context {
	return context.WithValue(ctx, CtxTenantID, tenantID)
}

// SetUserID sets the user ID in the context
func SetUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, CtxUserID, userID)
}

// SetUserRole sets the caller role in the context
func SetUserRole(ctx context.Context, role UserRole) context.Context {
	return context.WithValue(ctx, CtxUserRole, role)
}

// SetSubdomain sets the addressed subdomain in the context
func SetSubdomain(ctx context.Context, subdomain string) context.Context {
	return context.WithValue(ctx, CtxSubdomain, subdomain)
}
