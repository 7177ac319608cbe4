package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/quizforge/trivia-api/internal/config"
	"github.com/quizforge/trivia-api/internal/models"
	"github.com/quizforge/trivia-api/internal/security"
	"gorm.io/gorm"
)

// Authentication failure modes surfaced by Login.
var (
	ErrUnknownUser   = errors.New("username invalid")
	ErrWrongPassword = errors.New("password invalid")
)

// ErrInvalidToken covers missing, malformed, expired, and badly signed tokens.
var ErrInvalidToken = errors.New("invalid token")

// Principal identifies an authenticated caller decoded from a bearer token.
type Principal struct {
	UserID   uint64
	Username string
	Email    string
	Role     string
}

// IsAdmin reports whether the principal carries the Admin role claim.
func (p Principal) IsAdmin() bool {
	return p.Role == models.RoleAdmin
}

// LoginResult carries a freshly minted token and its validity window.
type LoginResult struct {
	Token     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenService authenticates credentials and mints signed bearer tokens
// carrying the user's persisted claims.
type TokenService struct {
	db  *gorm.DB
	cfg config.JWTConfig
	now func() time.Time
}

// NewTokenService constructs a TokenService.
func NewTokenService(db *gorm.DB, cfg config.JWTConfig) *TokenService {
	return &TokenService{db: db, cfg: cfg, now: time.Now}
}

// Login verifies credentials, updates last_login, folds the user's persisted
// claims into the token payload, and signs the token. Both credential failure
// modes map to HTTP 401 at the handler layer.
func (s *TokenService) Login(ctx context.Context, username, password string) (LoginResult, error) {
	var user models.User
	errFind := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return LoginResult{}, ErrUnknownUser
		}
		return LoginResult{}, fmt.Errorf("lookup user: %w", errFind)
	}
	if !security.CheckPassword(user.PasswordHash, password) {
		return LoginResult{}, ErrWrongPassword
	}

	iat := s.now().UTC()
	if errUpdate := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", user.ID).
		Update("last_login", iat).Error; errUpdate != nil {
		return LoginResult{}, fmt.Errorf("update last_login: %w", errUpdate)
	}

	claimMap, errLoad := LoadClaimMap(ctx, s.db, user.ID)
	if errLoad != nil {
		return LoginResult{}, errLoad
	}

	exp := iat.Add(s.cfg.Expiry)
	payload := jwt.MapClaims{
		"sub": strconv.FormatUint(user.ID, 10),
		"iat": iat.Unix(),
		"exp": exp.Unix(),
	}
	// Claim types are flattened into the top level of the payload. The
	// registered time fields always win over a stored claim of the same name.
	for claimType, claimValue := range claimMap {
		if claimType == "sub" || claimType == "iat" || claimType == "exp" {
			continue
		}
		payload[claimType] = claimValue
	}

	signed, errSign := jwt.NewWithClaims(jwt.SigningMethodHS256, payload).SignedString([]byte(s.cfg.Secret))
	if errSign != nil {
		return LoginResult{}, fmt.Errorf("sign token: %w", errSign)
	}
	return LoginResult{Token: signed, IssuedAt: iat, ExpiresAt: exp}, nil
}

// ParseToken validates a signed bearer token and decodes its principal.
func ParseToken(secret, token string) (Principal, error) {
	parsed, errParse := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if errParse != nil || !parsed.Valid {
		return Principal{}, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Principal{}, ErrInvalidToken
	}

	rawID, _ := claims[models.ClaimTypeUserID].(string)
	if rawID == "" {
		rawID, _ = claims["sub"].(string)
	}
	userID, errID := strconv.ParseUint(rawID, 10, 64)
	if errID != nil || userID == 0 {
		return Principal{}, ErrInvalidToken
	}

	principal := Principal{UserID: userID}
	principal.Username, _ = claims[models.ClaimTypeUsername].(string)
	principal.Email, _ = claims[models.ClaimTypeEmail].(string)
	principal.Role, _ = claims[models.ClaimTypeRole].(string)
	return principal, nil
}
