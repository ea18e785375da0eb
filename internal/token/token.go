// Package token issues and verifies the signed access/refresh token pair.
package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type Type string

const (
	TypeAccess  Type = "access"
	TypeRefresh Type = "refresh"
)

var (
	ErrInvalid   = errors.New("token: invalid or expired")
	ErrWrongType = errors.New("token: wrong token type")
)

// Claims carries only the subject. The role is resolved from the store on
// every request so that a role change applies to outstanding tokens.
type Claims struct {
	Type Type `json:"typ"`
	jwt.RegisteredClaims
}

// UserID returns the subject as a user id.
func (c Claims) UserID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalid
	}
	return id, nil
}

type Pair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type Manager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewManager(secret string, accessTTL, refreshTTL time.Duration) *Manager {
	return &Manager{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

func (m *Manager) Issue(userID int64) (Pair, error) {
	access, err := m.sign(userID, TypeAccess, m.accessTTL)
	if err != nil {
		return Pair{}, err
	}
	refresh, err := m.sign(userID, TypeRefresh, m.refreshTTL)
	if err != nil {
		return Pair{}, err
	}
	return Pair{Access: access, Refresh: refresh}, nil
}

// Refresh exchanges a valid refresh token for a new access token.
func (m *Manager) Refresh(refresh string) (string, int64, error) {
	claims, err := m.Parse(refresh, TypeRefresh)
	if err != nil {
		return "", 0, err
	}
	userID, err := claims.UserID()
	if err != nil {
		return "", 0, err
	}
	access, err := m.sign(userID, TypeAccess, m.accessTTL)
	if err != nil {
		return "", 0, err
	}
	return access, userID, nil
}

func (m *Manager) sign(userID int64, typ Type, ttl time.Duration) (string, error) {
	now := m.now()
	claims := Claims{
		Type: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", typ, err)
	}
	return signed, nil
}

// Parse verifies the signature, expiry and type of a token.
func (m *Manager) Parse(raw string, want Type) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, errors.Join(ErrInvalid, err)
	}
	if claims.Type != want {
		return nil, ErrWrongType
	}
	return claims, nil
}
