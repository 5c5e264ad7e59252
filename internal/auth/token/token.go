package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dcastellanos/userboard/internal/common/clock"
	"github.com/dcastellanos/userboard/internal/observability/metrics"
	"github.com/dcastellanos/userboard/internal/user/domain"
)

// Claims is the verified identity carried by a session token. It is the
// only credential protected handlers see; no store lookup backs it.
type Claims struct {
	UserID   domain.ID
	Username string
}

// Outcome tags the result of a verification.
type Outcome int

const (
	OutcomeValid Outcome = iota
	OutcomeExpired
	OutcomeMalformed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeValid:
		return "valid"
	case OutcomeExpired:
		return "expired"
	default:
		return "malformed"
	}
}

type Issuer struct {
	secret []byte
	ttl    time.Duration
	clock  clock.Clock
}

func NewIssuer(secret string, ttl time.Duration, clk clock.Clock) *Issuer {
	return &Issuer{
		secret: []byte(secret),
		ttl:    ttl,
		clock:  clk,
	}
}

func (i *Issuer) Issue(user domain.User) (string, error) {
	now := i.clock.Now()
	claims := jwt.MapClaims{
		"sub": int64(user.ID),
		"usr": user.Username,
		"jti": uuid.NewString(),
		"iat": now.Unix(),
		"exp": now.Add(i.ttl).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := t.SignedString(i.secret)
	if err != nil {
		return "", err
	}

	metrics.TokensIssued.Inc()
	return tokenString, nil
}

// Verify checks signature and expiry and returns a tagged outcome alongside
// the claims. Claims are only meaningful when the outcome is OutcomeValid.
func (i *Issuer) Verify(tokenString string) (Claims, Outcome) {
	parsed, err := jwt.Parse(
		tokenString,
		func(t *jwt.Token) (any, error) {
			if t.Method != jwt.SigningMethodHS256 {
				return nil, errors.New("unexpected signing method")
			}
			return i.secret, nil
		},
		jwt.WithTimeFunc(i.clock.Now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, OutcomeExpired
		}
		return Claims{}, OutcomeMalformed
	}
	if !parsed.Valid {
		return Claims{}, OutcomeMalformed
	}

	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, OutcomeMalformed
	}

	sub, ok := mapClaims["sub"].(float64)
	username, _ := mapClaims["usr"].(string)
	if !ok || sub <= 0 || username == "" {
		return Claims{}, OutcomeMalformed
	}

	return Claims{
		UserID:   domain.ID(int64(sub)),
		Username: username,
	}, OutcomeValid
}
