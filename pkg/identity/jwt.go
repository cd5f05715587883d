package identity

import (
	"crypto/ed25519"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims mirrors the identity provider's token payload. Only the fields the
// service consumes are declared; anything else in the token is ignored.
type Claims struct {
	jwt.RegisteredClaims

	// Email is the delivery address for security mail.
	Email string `json:"email,omitempty"`
}

// JWTVerifier verifies provider-signed JWTs against a shared HMAC secret or a
// published public key.
type JWTVerifier struct {
	issuer   string
	audience string
	leeway   time.Duration

	hmacSecret []byte
	publicKey  any // *rsa.PublicKey or ed25519.PublicKey
}

// JWTConfig configures a JWTVerifier. Exactly one of HMACSecret or
// PublicKeyPEM must be provided.
type JWTConfig struct {
	// Issuer the token must carry (iss). Empty means "don't care".
	Issuer string

	// Audience the token must contain (aud). Empty means "don't care".
	Audience string

	// Leeway allows small clock skew when validating exp/nbf.
	Leeway time.Duration

	// HMACSecret enables HS256 verification with a shared secret.
	HMACSecret []byte

	// PublicKeyPEM enables RS256/EdDSA verification with the provider's
	// published public key.
	PublicKeyPEM []byte
}

// NewJWTVerifier builds a verifier from cfg.
func NewJWTVerifier(cfg JWTConfig) (*JWTVerifier, error) {
	v := &JWTVerifier{
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		leeway:   cfg.Leeway,
	}

	switch {
	case len(cfg.HMACSecret) > 0:
		v.hmacSecret = cfg.HMACSecret
	case len(cfg.PublicKeyPEM) > 0:
		key, err := parsePublicKeyPEM(cfg.PublicKeyPEM)
		if err != nil {
			return nil, err
		}
		v.publicKey = key
	default:
		return nil, errors.New("identity: no verification key configured")
	}

	return v, nil
}

// Verify parses and validates token, returning the asserted principal.
func (v *JWTVerifier) Verify(token string) (Principal, error) {
	opts := []jwt.ParserOption{
		jwt.WithLeeway(v.leeway),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, v.keyFunc, opts...)
	if err != nil {
		return Principal{}, mapParseError(err)
	}
	if !parsed.Valid {
		return Principal{}, ErrInvalidSig
	}

	if claims.Subject == "" {
		return Principal{}, ErrNoSubject
	}

	return Principal{
		AccountID: claims.Subject,
		Email:     claims.Email,
	}, nil
}

func (v *JWTVerifier) keyFunc(t *jwt.Token) (any, error) {
	switch t.Method.(type) {
	case *jwt.SigningMethodHMAC:
		if v.hmacSecret == nil {
			return nil, ErrUnsupported
		}
		return v.hmacSecret, nil
	case *jwt.SigningMethodRSA, *jwt.SigningMethodEd25519:
		if v.publicKey == nil {
			return nil, ErrUnsupported
		}
		return v.publicKey, nil
	default:
		return nil, ErrUnsupported
	}
}

func mapParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired), errors.Is(err, jwt.ErrTokenNotValidYet):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return ErrIssuer
	case errors.Is(err, jwt.ErrTokenInvalidAudience):
		return ErrAudience
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrInvalidSig
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrMalformed
	default:
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
}

func parsePublicKeyPEM(data []byte) (any, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, errors.New("identity: public key is not valid PEM")
	}

	key, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("identity: failed to parse public key: %w", err)
	}

	switch k := key.(type) {
	case *rsa.PublicKey:
		return k, nil
	case ed25519.PublicKey:
		return k, nil
	default:
		return nil, ErrUnsupported
	}
}
