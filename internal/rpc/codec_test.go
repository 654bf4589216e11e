package rpc

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/ezrevenue/internal/common"
	"github.com/dmitrijs2005/ezrevenue/internal/idgen"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCodec(secret string) *Codec {
	return NewCodec("proj-1", secret, 30*time.Minute, idgen.New())
}

func TestEncode_RoundTripsMethodAndParams(t *testing.T) {
	c := newCodec("s3cr3t")
	params := map[string]any{
		"paywall_alias":   "paywall_vip",
		"customer":        map[string]any{"external_id": "dev-1"},
		"include_balance": true,
	}

	token, err := c.Encode("customer.info", params)
	require.NoError(t, err)

	claims, err := c.DecodeRequest(token)
	require.NoError(t, err)
	assert.Equal(t, "customer.info", claims.Method)
	assert.JSONEq(t, `{"paywall_alias":"paywall_vip","customer":{"external_id":"dev-1"},"include_balance":true}`, string(claims.Params))
	assert.Len(t, claims.Nonce, NonceLength)
}

func TestEncode_DifferentSecretFails(t *testing.T) {
	token, err := newCodec("right").Encode("customer.info", nil)
	require.NoError(t, err)

	_, err = newCodec("wrong").DecodeRequest(token)
	require.ErrorIs(t, err, common.ErrSignature)
}

func TestEncode_HeaderAndExpiry(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	c := newCodec("s").WithClock(func() time.Time { return now })

	token, err := c.Encode("customer.info", map[string]string{})
	require.NoError(t, err)

	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	require.NoError(t, err)
	assert.Equal(t, "HS256", parsed.Header["alg"])
	assert.Equal(t, "proj-1", parsed.Header[common.ProjectIDHeaderName])

	claims := parsed.Claims.(jwt.MapClaims)
	// exp is milliseconds since epoch, 30 minutes ahead
	assert.EqualValues(t, now.Add(30*time.Minute).UnixMilli(), claims["exp"])
}

func TestEncode_NoncesDiffer(t *testing.T) {
	c := newCodec("s")
	a, err := c.Encode("m", nil)
	require.NoError(t, err)
	b, err := c.Encode("m", nil)
	require.NoError(t, err)

	ca, _ := c.DecodeRequest(a)
	cb, _ := c.DecodeRequest(b)
	assert.NotEqual(t, ca.Nonce, cb.Nonce)
}

func TestEncode_UnmarshalableParams(t *testing.T) {
	_, err := newCodec("s").Encode("m", map[string]any{"ch": make(chan int)})
	require.Error(t, err)
}

func TestDecodeRequest_Expired(t *testing.T) {
	now := time.Now()
	c := newCodec("s").WithClock(func() time.Time { return now })
	token, err := c.Encode("m", nil)
	require.NoError(t, err)

	later := c.WithClock(func() time.Time { return now.Add(31 * time.Minute) })
	_, err = later.DecodeRequest(token)
	require.ErrorIs(t, err, common.ErrSignature)
	require.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestDecode_Response(t *testing.T) {
	c := newCodec("s")
	token, err := c.EncodeResponse(map[string]any{"home_link": map[string]string{"url": "https://pay"}})
	require.NoError(t, err)

	raw, err := c.Decode(token)
	require.NoError(t, err)

	var got struct {
		HomeLink struct {
			URL string `json:"url"`
		} `json:"home_link"`
	}
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "https://pay", got.HomeLink.URL)
}

func TestDecode_Rejects(t *testing.T) {
	c := newCodec("s")
	good, err := c.EncodeResponse(map[string]bool{"ok": true})
	require.NoError(t, err)

	parts := strings.Split(good, ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, ResponseClaims{Result: json.RawMessage(`{}`)}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	expired, err := c.WithClock(func() time.Time { return time.Now().Add(-time.Hour) }).EncodeResponse(1)
	require.NoError(t, err)

	tests := map[string]string{
		"garbage":      "not-a-token",
		"tampered":     tampered,
		"wrong secret": mustEncodeResponse(t, newCodec("other")),
		"alg none":     none,
		"expired":      expired,
		"empty":        "",
	}
	for name, tok := range tests {
		t.Run(name, func(t *testing.T) {
			raw, err := c.Decode(tok)
			require.ErrorIs(t, err, common.ErrSignature)
			require.Nil(t, raw)
		})
	}
}

func mustEncodeResponse(t *testing.T, c *Codec) string {
	t.Helper()
	tok, err := c.EncodeResponse(map[string]bool{"ok": true})
	require.NoError(t, err)
	return tok
}
