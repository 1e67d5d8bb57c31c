// Package auth issues and verifies the HS256 session tokens handed out at login.
package auth

import (
	"fmt"
	"time"

	"fuelops/internal/domain"
	"fuelops/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims carried by every session token.
type Claims struct {
	Name      string `json:"name"`
	Role      string `json:"role"`
	StationID string `json:"station_id,omitempty"`
	jwt.RegisteredClaims
}

type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a token for the user and returns it with its expiry.
func (i *Issuer) Issue(u model.User) (string, time.Time, error) {
	now := i.now()
	exp := now.Add(i.ttl)
	claims := Claims{
		Name: u.Name,
		Role: u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	if u.StationID != nil {
		claims.StationID = u.StationID.String()
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, exp, nil
}

// Parse verifies the token and returns the actor it names.
func (i *Issuer) Parse(tokenString string) (domain.Actor, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(i.now))
	if err != nil || !token.Valid {
		return domain.Actor{}, fmt.Errorf("%w: invalid token", domain.ErrUnauthenticated)
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return domain.Actor{}, fmt.Errorf("%w: invalid subject", domain.ErrUnauthenticated)
	}
	if !model.IsValidRole(claims.Role) {
		return domain.Actor{}, fmt.Errorf("%w: unknown role", domain.ErrUnauthenticated)
	}
	actor := domain.Actor{ID: id, Name: claims.Name, Role: claims.Role}
	if claims.StationID != "" {
		sid, err := uuid.Parse(claims.StationID)
		if err != nil {
			return domain.Actor{}, fmt.Errorf("%w: invalid station", domain.ErrUnauthenticated)
		}
		actor.StationID = &sid
	}
	return actor, nil
}
