package jwt

import (
	"errors"
	"time"

	"github.com/cmlabs-hris/workboard-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const TokenTypeAccess = "access"

var ErrInvalidClaims = errors.New("token claims are invalid")

type Service interface {
	GenerateAccessToken(actor user.Actor) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTokenExpirationTime string
	tokenAuth                 *jwtauth.JWTAuth
	now                       func() time.Time
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string) Service {
	return &JWTService{
		accessTokenExpirationTime: accessTokenExpirationTime,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		now:                       time.Now,
	}
}

// GenerateAccessToken mints an access token carrying the actor's identity.
// Production tokens come from the session provider; this keeps the claim layout in one place.
func (j *JWTService) GenerateAccessToken(actor user.Actor) (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.accessTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	expiresAt = j.now().Add(expDuration).Unix()

	claims := map[string]interface{}{
		"user_id":           actor.UserID,
		"staff_id":          valueOrNil(actor.StaffID),
		"sub_department_id": valueOrNil(actor.SubDepartmentID),
		"role":              string(actor.Role),
		"type":              TokenTypeAccess,
		"exp":               expiresAt,
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

// ActorFromClaims builds an actor from decoded access token claims
func ActorFromClaims(claims map[string]interface{}) (user.Actor, error) {
	if tokenType, _ := claims["type"].(string); tokenType != TokenTypeAccess {
		return user.Actor{}, ErrInvalidClaims
	}

	userID, _ := claims["user_id"].(string)
	role, _ := claims["role"].(string)
	if userID == "" || !user.IsValidRole(role) {
		return user.Actor{}, ErrInvalidClaims
	}

	staffID, _ := claims["staff_id"].(string)
	subDepartmentID, _ := claims["sub_department_id"].(string)

	actor := user.Actor{
		UserID:          userID,
		StaffID:         staffID,
		SubDepartmentID: subDepartmentID,
		Role:            user.Role(role),
	}

	switch actor.Role {
	case user.RoleStaff:
		if actor.StaffID == "" {
			return user.Actor{}, user.ErrStaffIDRequired
		}
	case user.RoleManager:
		if actor.SubDepartmentID == "" {
			return user.Actor{}, user.ErrSubDepartmentIDRequired
		}
	}

	return actor, nil
}

func valueOrNil(value string) interface{} {
	if value == "" {
		return nil
	}
	return value
}
