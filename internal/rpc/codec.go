package rpc

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/ezrevenue/internal/common"
	"github.com/dmitrijs2005/ezrevenue/internal/idgen"
	"github.com/golang-jwt/jwt/v5"
)

// NonceLength is the length of the random nonce put into every request.
const NonceLength = 16

// RequestClaims is the payload of an outbound token.
//
// Exp is an absolute instant in Unix milliseconds. GetExpirationTime converts
// it, so a jwt parser validates it as the instant it denotes.
type RequestClaims struct {
	Method string          `json:"method"`
	Params json.RawMessage `json:"params"`
	Exp    int64           `json:"exp"`
	Nonce  string          `json:"nonce"`
}

// GetExpirationTime reports Exp as a jwt date; the remaining getters return
// nothing because requests carry no registered claims besides exp.
func (c RequestClaims) GetExpirationTime() (*jwt.NumericDate, error) {
	return jwt.NewNumericDate(time.UnixMilli(c.Exp)), nil
}
func (c RequestClaims) GetIssuedAt() (*jwt.NumericDate, error)  { return nil, nil }
func (c RequestClaims) GetNotBefore() (*jwt.NumericDate, error) { return nil, nil }
func (c RequestClaims) GetIssuer() (string, error)              { return "", nil }
func (c RequestClaims) GetSubject() (string, error)             { return "", nil }
func (c RequestClaims) GetAudience() (jwt.ClaimStrings, error)  { return nil, nil }

// ResponseClaims is the payload of an inbound token.
type ResponseClaims struct {
	Result json.RawMessage `json:"result"`
	jwt.RegisteredClaims
}

// Codec signs requests and verifies responses with the project secret (HS256).
type Codec struct {
	projectID string
	secret    []byte
	ttl       time.Duration
	now       func() time.Time
	gen       *idgen.Generator
}

// NewCodec returns a Codec for projectID signing with secret. Requests expire
// ttl after encoding; nonces are drawn from gen.
func NewCodec(projectID, secret string, ttl time.Duration, gen *idgen.Generator) *Codec {
	return &Codec{projectID: projectID, secret: []byte(secret), ttl: ttl, now: time.Now, gen: gen}
}

// WithClock returns a copy of the codec reading time from now.
func (c *Codec) WithClock(now func() time.Time) *Codec {
	cp := *c
	cp.now = now
	return &cp
}

func (c *Codec) parser() *jwt.Parser {
	return jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
	)
}

func (c *Codec) keyFunc(*jwt.Token) (any, error) {
	return c.secret, nil
}

// Encode builds {method, params, exp, nonce} and signs it with a header
// carrying alg=HS256 and project_id.
func (c *Codec) Encode(method string, params any) (string, error) {
	p, err := json.Marshal(params)
	if err != nil {
		return "", fmt.Errorf("marshal params: %w", err)
	}

	claims := RequestClaims{
		Method: method,
		Params: p,
		Exp:    c.now().Add(c.ttl).UnixMilli(),
		Nonce:  c.gen.RandomString(NonceLength),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token.Header[common.ProjectIDHeaderName] = c.projectID

	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign request: %w", err)
	}
	return signed, nil
}

// DecodeRequest verifies an outbound token and returns its claims.
// It is the server half of Encode.
func (c *Codec) DecodeRequest(tokenString string) (*RequestClaims, error) {
	claims := &RequestClaims{}
	token, err := c.parser().ParseWithClaims(tokenString, claims, c.keyFunc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrSignature, err)
	}
	if !token.Valid {
		return nil, common.ErrSignature
	}
	return claims, nil
}

// Decode verifies a response token and returns its result field.
// Any verification failure yields common.ErrSignature and no data.
func (c *Codec) Decode(tokenString string) (json.RawMessage, error) {
	claims := &ResponseClaims{}
	token, err := c.parser().ParseWithClaims(tokenString, claims, c.keyFunc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrSignature, err)
	}
	if !token.Valid {
		return nil, common.ErrSignature
	}
	return claims.Result, nil
}

// EncodeResponse signs {result} the way the entitlement service does.
// Used by test doubles of the service.
func (c *Codec) EncodeResponse(result any) (string, error) {
	r, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("marshal result: %w", err)
	}
	claims := ResponseClaims{
		Result: r,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(c.now().Add(c.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}
