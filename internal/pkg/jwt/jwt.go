package jwt

import (
	"context"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/cmlabs-hris/employee-portal-go/internal/domain/user"
)

// Service verifies the access tokens the backend issues. The portal never
// signs tokens for production use; GenerateAccessToken exists for local
// tooling and tests that share the secret.
type Service interface {
	JWTAuth() *jwtauth.JWTAuth
	GenerateAccessToken(userID string, employeeID string, role user.Role, ttl time.Duration) (token string, expiresAt int64, err error)
}

type JWTService struct {
	tokenAuth *jwtauth.JWTAuth
}

func NewJWTService(secretKey string) Service {
	return &JWTService{
		tokenAuth: jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func (j *JWTService) GenerateAccessToken(userID string, employeeID string, role user.Role, ttl time.Duration) (token string, expiresAt int64, err error) {
	expiresAt = time.Now().Add(ttl).Unix()
	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"user_id":     userID,
		"employee_id": employeeID,
		"role":        string(role),
		"type":        "access",
		"exp":         expiresAt,
	})
	return tokenString, expiresAt, err
}

// IdentityFromClaims reads the caller out of verified access token claims.
func IdentityFromClaims(claims map[string]interface{}) (user.Identity, error) {
	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return user.Identity{}, user.ErrNotAuthenticated
	}
	employeeID, _ := claims["employee_id"].(string)
	roleStr, _ := claims["role"].(string)

	return user.Identity{
		UserID:     userID,
		EmployeeID: employeeID,
		Role:       user.ParseRole(roleStr),
	}, nil
}

// IdentityFromContext returns the caller of a request that went through
// jwtauth.Verifier.
func IdentityFromContext(ctx context.Context) (user.Identity, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return user.Identity{}, user.ErrNotAuthenticated
	}
	return IdentityFromClaims(claims)
}

type bearerKey struct{}

// WithBearer stores the caller's raw access token so it can be forwarded to
// the backend.
func WithBearer(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, bearerKey{}, token)
}

func BearerFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(bearerKey{}).(string)
	return token, ok && token != ""
}
