// Package token signs configuration identifiers into compact JWS tokens and
// verifies them again. A decoded identifier is only a claim: callers must
// re-read the configuration from the store before trusting it.
package token

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-jose/go-jose/v4"
	"github.com/go-jose/go-jose/v4/jwt"

	"github.com/alfredjeanlab/configs/internal/model"
)

var (
	// ErrInvalid is returned (wrapped) for any token that fails to parse or verify.
	ErrInvalid = errors.New("invalid token")
	// ErrExpired is wrapped together with ErrInvalid when the token's exp has passed.
	ErrExpired = errors.New("token expired")
)

// MinSecretLen is the shortest HS256 key go-jose will sign with.
const MinSecretLen = sha256.Size

// signatureAlgorithms is the only set of algorithms accepted on decode.
var signatureAlgorithms = []jose.SignatureAlgorithm{jose.HS256}

// claims is the signed payload. Only the configuration ID and issuance
// metadata are signed; the configuration's contents never travel in the token.
type claims struct {
	jwt.Claims
	ConfigurationID int64 `json:"cid"`
}

// Codec encodes and decodes configuration tokens with a shared HMAC secret.
// A Codec is immutable after construction and safe for concurrent use.
type Codec struct {
	secret []byte
	signer jose.Signer
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// Option configures a Codec.
type Option func(*Codec)

// WithIssuer sets the iss claim written on encode and required on decode.
func WithIssuer(issuer string) Option {
	return func(c *Codec) { c.issuer = issuer }
}

// WithTTL makes issued tokens expire after d. Zero means tokens never expire.
func WithTTL(d time.Duration) Option {
	return func(c *Codec) { c.ttl = d }
}

// WithClock overrides the time source (tests).
func WithClock(now func() time.Time) Option {
	return func(c *Codec) { c.now = now }
}

// New returns a Codec signing with secret, which must be at least
// MinSecretLen bytes.
func New(secret []byte, opts ...Option) (*Codec, error) {
	if len(secret) == 0 {
		return nil, errors.New("token: signing secret is required")
	}
	if len(secret) < MinSecretLen {
		return nil, fmt.Errorf("token: signing secret must be at least %d bytes, got %d", MinSecretLen, len(secret))
	}
	c := &Codec{
		secret: append([]byte(nil), secret...),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.ttl < 0 {
		return nil, fmt.Errorf("token: negative ttl %s", c.ttl)
	}

	signer, err := jose.NewSigner(
		jose.SigningKey{Algorithm: jose.HS256, Key: c.secret},
		(&jose.SignerOptions{}).WithType("JWT"),
	)
	if err != nil {
		return nil, fmt.Errorf("token: create signer: %w", err)
	}
	c.signer = signer
	return c, nil
}

// Encode signs the configuration's identifier. The output is deterministic
// for a given ID and issuance second.
func (c *Codec) Encode(cfg *model.Configuration) (string, error) {
	if cfg == nil || cfg.ID <= 0 {
		return "", errors.New("token: configuration has no id")
	}

	now := c.now()
	cl := claims{
		Claims: jwt.Claims{
			Subject:  strconv.FormatInt(cfg.ID, 10),
			Issuer:   c.issuer,
			IssuedAt: jwt.NewNumericDate(now),
		},
		ConfigurationID: cfg.ID,
	}
	if c.ttl > 0 {
		cl.Expiry = jwt.NewNumericDate(now.Add(c.ttl))
	}

	raw, err := jwt.Signed(c.signer).Claims(cl).Serialize()
	if err != nil {
		return "", fmt.Errorf("token: sign: %w", err)
	}
	return raw, nil
}

// Decode verifies raw and returns the configuration ID it claims.
func (c *Codec) Decode(raw string) (int64, error) {
	if raw == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalid)
	}
	if err := checkCanonical(raw); err != nil {
		return 0, err
	}

	tok, err := jwt.ParseSigned(raw, signatureAlgorithms)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	var cl claims
	if err := tok.Claims(c.secret, &cl); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	err = cl.Claims.ValidateWithLeeway(jwt.Expected{Issuer: c.issuer, Time: c.now()}, 0)
	if errors.Is(err, jwt.ErrExpired) {
		return 0, fmt.Errorf("%w: %w", ErrInvalid, ErrExpired)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	if cl.ConfigurationID <= 0 || cl.Subject != strconv.FormatInt(cl.ConfigurationID, 10) {
		return 0, fmt.Errorf("%w: missing or inconsistent configuration id", ErrInvalid)
	}
	return cl.ConfigurationID, nil
}

// checkCanonical rejects segments carrying non-zero padding bits. go-jose
// decodes leniently, so two encodings of the same signature would otherwise
// both verify.
func checkCanonical(raw string) error {
	for i, seg := range strings.Split(raw, ".") {
		if _, err := base64.RawURLEncoding.Strict().DecodeString(seg); err != nil {
			return fmt.Errorf("%w: segment %d: %v", ErrInvalid, i, err)
		}
	}
	return nil
}
