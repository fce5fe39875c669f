package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const bearerPrefix = "Bearer "

var (
	errNoHeader       = errors.New("authorization header missing")
	errBadScheme      = errors.New("authorization header is not a bearer credential")
	errEmptyToken     = errors.New("bearer token is empty")
	errMissingSub     = errors.New("token has no subject")
	errEmptySecret    = errors.New("signing secret is empty")
	errNonPositiveTTL = errors.New("token ttl must be positive")
)

// Claims is the claim set carried by access tokens.
// Subject holds the account id.
type Claims struct {
	Role  string `json:"role,omitempty"`
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Principal is what gets embedded into a token at issuance
type Principal struct {
	Subject string
	Role    string
	Email   string
}

// IssuedToken is a signed token together with its metadata
type IssuedToken struct {
	Token     string
	ID        string
	ExpiresAt time.Time
}

// TokenService issues and verifies HS256 access tokens with a server-held secret.
// It holds no mutable state and is safe for concurrent use.
type TokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
	leeway time.Duration
	now    func() time.Time
	parser *jwt.Parser
}

// TokenOption configures a TokenService
type TokenOption func(*TokenService)

// WithClock overrides the time source used for issuance and expiry checks
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLeeway tolerates clock skew when checking exp and iat
func WithLeeway(leeway time.Duration) TokenOption {
	return func(s *TokenService) {
		s.leeway = leeway
	}
}

// NewTokenService creates a token service. An empty issuer disables the iss check.
func NewTokenService(secret, issuer string, ttl time.Duration, opts ...TokenOption) (*TokenService, error) {
	if secret == "" {
		return nil, errEmptySecret
	}
	if ttl <= 0 {
		return nil, errNonPositiveTTL
	}

	s := &TokenService{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithLeeway(s.leeway),
		jwt.WithTimeFunc(func() time.Time { return s.now() }),
	}
	if issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(issuer))
	}
	s.parser = jwt.NewParser(parserOpts...)

	return s, nil
}

// TTL returns the default token lifetime
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue signs a token for p with the default lifetime
func (s *TokenService) Issue(p Principal) (*IssuedToken, error) {
	return s.IssueWithTTL(p, s.ttl)
}

// IssueWithTTL signs a token for p that expires after ttl
func (s *TokenService) IssueWithTTL(p Principal, ttl time.Duration) (*IssuedToken, error) {
	if p.Subject == "" {
		return nil, errMissingSub
	}
	if ttl <= 0 {
		return nil, errNonPositiveTTL
	}

	now := s.now()
	expiresAt := now.Add(ttl)
	jti := uuid.NewString()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role:  p.Role,
		Email: p.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.Subject,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        jti,
		},
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, err
	}

	return &IssuedToken{
		Token:     signed,
		ID:        jti,
		ExpiresAt: expiresAt.Truncate(time.Second),
	}, nil
}

// Verify checks the token signature, algorithm, expiry and issuer and returns its claims.
// Every failure is an InvalidCredential; the wrapped cause says which check failed.
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, MissingCredential(errEmptyToken)
	}

	claims := &Claims{}
	parsed, err := s.parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, InvalidCredential(err)
	}
	if !parsed.Valid {
		return nil, InvalidCredential(jwt.ErrTokenInvalidClaims)
	}
	if claims.Subject == "" {
		return nil, InvalidCredential(errMissingSub)
	}

	return claims, nil
}

// VerifyHeader runs the header preconditions and then Verify.
func (s *TokenService) VerifyHeader(header string) (*Claims, error) {
	token, err := BearerToken(header)
	if err != nil {
		return nil, err
	}
	return s.Verify(token)
}

// BearerToken extracts the token from an Authorization header value.
// The checks run in order: header present, "Bearer " prefix, non-empty token.
func BearerToken(header string) (string, error) {
	if header == "" {
		return "", MissingCredential(errNoHeader)
	}
	token, ok := strings.CutPrefix(header, bearerPrefix)
	if !ok {
		return "", MissingCredential(errBadScheme)
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", MissingCredential(errEmptyToken)
	}
	return token, nil
}

// IsExpired reports whether err was caused by an expired token.
// Only meant for logs; clients never see the difference.
func IsExpired(err error) bool {
	return errors.Is(err, jwt.ErrTokenExpired)
}
