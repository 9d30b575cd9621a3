package jwt

import (
	"sync"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// Service verifies access tokens issued by the identity provider. GenerateAccessToken
// mints tokens with the same claim layout for cmd/token and tests.
type Service interface {
	GenerateAccessToken(employeeID string, employeeCode string) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
	RevokeToken(token string, expiresAt time.Time)
	IsTokenRevoked(token string) bool
}

type JWTService struct {
	accessTokenExpirationTime string
	tokenAuth                 *jwtauth.JWTAuth
	revokedTokens             map[string]time.Time
	mu                        sync.RWMutex
	now                       func() time.Time
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string) Service {
	return &JWTService{
		accessTokenExpirationTime: accessTokenExpirationTime,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		revokedTokens:             make(map[string]time.Time),
		now:                       time.Now,
	}
}

func (j *JWTService) GenerateAccessToken(employeeID string, employeeCode string) (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.accessTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	expiresAt = j.now().Add(expDuration).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"employee_id":   employeeID,
		"employee_code": employeeCode,
		"type":          "access",
		"exp":           expiresAt,
	})
	return tokenString, expiresAt, err
}

// RevokeToken denies token until expiresAt. Entries whose token has expired are
// dropped, since the verifier rejects those anyway.
func (j *JWTService) RevokeToken(token string, expiresAt time.Time) {
	j.mu.Lock()
	defer j.mu.Unlock()

	now := j.now()
	for t, exp := range j.revokedTokens {
		if !exp.After(now) {
			delete(j.revokedTokens, t)
		}
	}
	if expiresAt.After(now) {
		j.revokedTokens[token] = expiresAt
	}
}

func (j *JWTService) IsTokenRevoked(token string) bool {
	j.mu.RLock()
	defer j.mu.RUnlock()
	_, revoked := j.revokedTokens[token]
	return revoked
}

func (j *JWTService) revokedCount() int {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return len(j.revokedTokens)
}
