package middleware

import (
	"context"
	"net/http"
	"strings"

	"dernek-backend/internal/auth"
	"dernek-backend/internal/models"
	"dernek-backend/internal/repositories"
)

type contextKey string

const MemberIDKey contextKey = "member_id"
const EmailKey contextKey = "email"
const RoleKey contextKey = "role"

type AuthMiddleware struct {
	jwtManager *auth.JWTManager
	memberRepo *repositories.MemberRepository
}

func NewAuthMiddleware(jwtManager *auth.JWTManager, memberRepo *repositories.MemberRepository) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager: jwtManager,
		memberRepo: memberRepo,
	}
}

// authenticate validates the bearer token and loads the current member from
// the database so role or suspension changes take effect immediately.
func (m *AuthMiddleware) authenticate(w http.ResponseWriter, r *http.Request) (*models.Member, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		http.Error(w, "Authorization header required", http.StatusUnauthorized)
		return nil, false
	}

	// Extract token from "Bearer <token>"
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		http.Error(w, "Invalid authorization format", http.StatusUnauthorized)
		return nil, false
	}

	claims, err := m.jwtManager.ValidateToken(parts[1])
	if err != nil {
		http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
		return nil, false
	}

	member, err := m.memberRepo.Get(r.Context(), claims.MemberID)
	if err != nil {
		http.Error(w, "Member not found", http.StatusUnauthorized)
		return nil, false
	}

	if !member.IsActive {
		http.Error(w, "Account suspended. Please contact the association board.", http.StatusForbidden)
		return nil, false
	}

	return member, true
}

func withMember(ctx context.Context, member *models.Member) context.Context {
	ctx = context.WithValue(ctx, MemberIDKey, member.ID)
	ctx = context.WithValue(ctx, EmailKey, member.Email)
	ctx = context.WithValue(ctx, RoleKey, member.Role)
	return ctx
}

// Authenticate is a middleware that validates JWT tokens
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		member, ok := m.authenticate(w, r)
		if !ok {
			return
		}
		next.ServeHTTP(w, r.WithContext(withMember(r.Context(), member)))
	})
}

// RequireRole is a middleware that ensures the member has one of the allowed roles
func (m *AuthMiddleware) RequireRole(allowedRoles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			member, ok := m.authenticate(w, r)
			if !ok {
				return
			}

			hasRole := false
			for _, role := range allowedRoles {
				if member.Role == role {
					hasRole = true
					break
				}
			}
			if !hasRole {
				http.Error(w, "Forbidden: Insufficient permissions", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r.WithContext(withMember(r.Context(), member)))
		})
	}
}

// RequireAdmin allows admin and root accounts
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return m.RequireRole(models.RoleAdmin, models.RoleRoot)(next)
}

// RequireRoot allows only the root account (irreversible deletes)
func (m *AuthMiddleware) RequireRoot(next http.Handler) http.Handler {
	return m.RequireRole(models.RoleRoot)(next)
}

// GetMemberIDFromContext extracts the authenticated member ID from request context
func GetMemberIDFromContext(ctx context.Context) (int, bool) {
	memberID, ok := ctx.Value(MemberIDKey).(int)
	return memberID, ok
}

// GetEmailFromContext extracts email from request context
func GetEmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(EmailKey).(string)
	return email, ok
}

// GetRoleFromContext extracts role from request context
func GetRoleFromContext(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(RoleKey).(string)
	return role, ok
}
