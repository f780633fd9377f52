package auth

import "context"

// User is the contributor identity carried by a bearer token.
type User struct {
	Code  string
	Admin bool
}

// Context is the per-request caller description consumed by the read operations.
// Elevated marks internal callers (dashboard tokens, admins, the chat-bot key) that
// see unrestricted question fields.
type Context struct {
	User     *User
	Elevated bool
}

// Code returns the caller's contributor code, or "" when anonymous.
func (c Context) Code() string {
	if c.User == nil {
		return ""
	}
	return c.User.Code
}

// IsAdmin reports whether the caller is an administrator.
func (c Context) IsAdmin() bool {
	return c.User != nil && c.User.Admin
}

type contextKey struct{}

// IntoContext stores the caller description for downstream handlers.
func IntoContext(ctx context.Context, ac Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ac)
}

// FromContext returns the caller description, or a public caller if none was stored.
func FromContext(ctx context.Context) Context {
	if ac, ok := ctx.Value(contextKey{}).(Context); ok {
		return ac
	}
	return Context{}
}
