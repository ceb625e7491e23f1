// Package auth carries the caller's capability through context instead of
// ambient session state. The fronting auth layer decides who the caller is;
// this package only answers what they may do.
package auth

import "context"

// Role is the caller's capability level, supplied by the external auth layer.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
)

// ParseRole maps a raw role string to a Role, defaulting to viewer for
// anything unrecognized so an absent or garbled header never grants writes.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleAdmin, RoleEditor, RoleViewer:
		return Role(s)
	}
	return RoleViewer
}

// CanWrite reports whether the role may create or update rows.
func (r Role) CanWrite() bool {
	return r == RoleAdmin || r == RoleEditor
}

// CanAdmin reports whether the role may perform destructive or catalog-admin
// operations (hard deletes, metric/key administration).
func (r Role) CanAdmin() bool {
	return r == RoleAdmin
}

type ctxKey struct{}

// WithRole returns a context carrying the caller's role.
func WithRole(ctx context.Context, role Role) context.Context {
	return context.WithValue(ctx, ctxKey{}, role)
}

// RoleFromContext extracts the caller's role, defaulting to viewer. Reads
// are always permitted, so the default is safe for every operation.
func RoleFromContext(ctx context.Context) Role {
	if role, ok := ctx.Value(ctxKey{}).(Role); ok {
		return role
	}
	return RoleViewer
}

// RequireWrite returns ErrPermissionDenied unless the context role may write.
func RequireWrite(ctx context.Context) error {
	if !RoleFromContext(ctx).CanWrite() {
		return ErrPermissionDenied
	}
	return nil
}

// RequireAdmin returns ErrPermissionDenied unless the context role is admin.
func RequireAdmin(ctx context.Context) error {
	if !RoleFromContext(ctx).CanAdmin() {
		return ErrPermissionDenied
	}
	return nil
}
