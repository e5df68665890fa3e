package jwt

import (
	"MatSmart-Lager/domain"
	"MatSmart-Lager/internal/utils"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// audience Supabase puts on tokens of signed-in users.
const authenticatedAudience = "authenticated"

type (
	JWTService interface {
		GenerateTokenUser(userID string, email string) string
		ValidateTokenUser(token string) (*jwt.Token, error)
		GetUserIDByToken(token string) (string, string, error)
	}

	// supabaseClaim mirrors the access tokens issued by Supabase Auth: the
	// subject is the user id.
	supabaseClaim struct {
		Email string `json:"email"`
		Role  string `json:"role"`
		jwt.RegisteredClaims
	}

	jwtService struct {
		secretKey string
		issuer    string
	}
)

func getSecretKey() string {
	return utils.GetConfig("JWT_SECRET")
}

func NewJWTService() JWTService {
	return NewJWTServiceWithSecret(getSecretKey())
}

func NewJWTServiceWithSecret(secret string) JWTService {
	return &jwtService{
		secretKey: secret,
		issuer:    "matsmart-lager",
	}
}

func (j *jwtService) GenerateTokenUser(userID string, email string) string {
	claims := supabaseClaim{
		email,
		authenticatedAudience,
		jwt.RegisteredClaims{
			Subject:   userID,
			Audience:  jwt.ClaimStrings{authenticatedAudience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute * 120)),
			Issuer:    j.issuer,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tx, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		slog.Error("sign token", "err", err)
	}
	return tx
}

func (j *jwtService) parseToken(t_ *jwt.Token) (any, error) {
	if _, ok := t_.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method %v", t_.Header["alg"])
	}
	return []byte(j.secretKey), nil
}

func (j *jwtService) ValidateTokenUser(token string) (*jwt.Token, error) {
	return jwt.ParseWithClaims(token, &supabaseClaim{}, j.parseToken)
}

func (j *jwtService) GetUserIDByToken(token string) (string, string, error) {
	t_Token, err := j.ValidateTokenUser(token)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", "", domain.ErrTokenExpired
		}
		return "", "", domain.ErrTokenInvalid
	}
	if !t_Token.Valid {
		return "", "", domain.ErrTokenInvalid
	}

	claims := t_Token.Claims.(*supabaseClaim)
	if claims.Subject == "" || !claims.VerifyAudience(authenticatedAudience, true) {
		return "", "", domain.ErrTokenInvalid
	}
	return claims.Subject, claims.Email, nil
}
