package middleware

import (
	"net/http"

	"github.com/clinicai/clinicai-api/internal/domain/entity"
	"github.com/clinicai/clinicai-api/pkg/response"
)

// RequireRole checks the authenticated user's role against the allowed set.
// Must run after AuthMiddleware.Authenticate.
func RequireRole(allowedRoles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := GetUserRoleFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, "Role information not found")
				return
			}

			allowed := false
			for _, allowedRole := range allowedRoles {
				if role == allowedRole {
					allowed = true
					break
				}
			}

			if !allowed {
				response.Forbidden(w, "You don't have permission to access this resource")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin guards admin-only endpoints
func RequireAdmin(next http.Handler) http.Handler {
	return RequireRole(entity.RoleAdmin)(next)
}

// RequireDoctor guards doctor-only endpoints
func RequireDoctor(next http.Handler) http.Handler {
	return RequireRole(entity.RoleDoctor)(next)
}

// RequirePatient guards patient-only endpoints
func RequirePatient(next http.Handler) http.Handler {
	return RequireRole(entity.RolePatient)(next)
}

// RequireMedicalStaff guards the expert review queue
func RequireMedicalStaff(next http.Handler) http.Handler {
	return RequireRole(entity.RoleDoctor, entity.RoleStaff, entity.RoleAdmin)(next)
}
