package mkm

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha1" //nolint:gosec // OAuth 1.0a mandates HMAC-SHA1
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Credentials holds the OAuth 1.0a dedicated-app tokens issued by the
// marketplace.
type Credentials struct {
	AppToken          string
	AppSecret         string
	AccessToken       string
	AccessTokenSecret string
}

// Signer signs outgoing requests with an OAuth 1.0a Authorization header
// using the HMAC-SHA1 method the marketplace requires. The realm is the
// request URL without its query string.
type Signer struct {
	creds     Credentials
	nowFunc   func() time.Time
	nonceFunc func() string
}

// SignerOption configures the Signer.
type SignerOption func(*Signer)

// WithSignerNowFunc overrides the timestamp source for testing.
func WithSignerNowFunc(f func() time.Time) SignerOption {
	return func(s *Signer) {
		s.nowFunc = f
	}
}

// WithSignerNonceFunc overrides the nonce source for testing.
func WithSignerNonceFunc(f func() string) SignerOption {
	return func(s *Signer) {
		s.nonceFunc = f
	}
}

// NewSigner creates a request signer for the given credentials.
func NewSigner(creds Credentials, opts ...SignerOption) *Signer {
	s := &Signer{
		creds:     creds,
		nowFunc:   time.Now,
		nonceFunc: randomNonce,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sign computes and sets the Authorization header on req. Query parameters
// already present on the request URL are included in the signature base
// string, as the protocol requires.
func (s *Signer) Sign(req *http.Request) error {
	realm := req.URL.Scheme + "://" + req.URL.Host + req.URL.Path

	oauthParams := map[string]string{
		"oauth_consumer_key":     s.creds.AppToken,
		"oauth_token":            s.creds.AccessToken,
		"oauth_nonce":            s.nonceFunc(),
		"oauth_timestamp":        strconv.FormatInt(s.nowFunc().Unix(), 10),
		"oauth_signature_method": "HMAC-SHA1",
		"oauth_version":          "1.0",
	}

	signature, err := s.signature(req.Method, realm, req.URL.Query(), oauthParams)
	if err != nil {
		return fmt.Errorf("computing OAuth signature: %w", err)
	}
	oauthParams["oauth_signature"] = signature

	keys := make([]string, 0, len(oauthParams))
	for k := range oauthParams {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys)+1)
	parts = append(parts, `realm="`+realm+`"`)
	for _, k := range keys {
		parts = append(parts, k+`="`+percentEncode(oauthParams[k])+`"`)
	}

	req.Header.Set("Authorization", "OAuth "+strings.Join(parts, ", "))
	return nil
}

// signature builds the RFC 5849 base string over the method, the realm, and
// the combined oauth + query parameters, then MACs it with the two secrets.
func (s *Signer) signature(
	method, realm string,
	query url.Values,
	oauthParams map[string]string,
) (string, error) {
	params := make(map[string]string, len(oauthParams)+len(query))
	for k, v := range oauthParams {
		params[k] = v
	}
	for k, vs := range query {
		if len(vs) > 0 {
			params[k] = vs[0]
		}
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, percentEncode(k)+"="+percentEncode(params[k]))
	}

	base := strings.ToUpper(method) +
		"&" + percentEncode(realm) +
		"&" + percentEncode(strings.Join(pairs, "&"))

	key := percentEncode(s.creds.AppSecret) + "&" + percentEncode(s.creds.AccessTokenSecret)

	mac := hmac.New(sha1.New, []byte(key))
	if _, err := mac.Write([]byte(base)); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(mac.Sum(nil)), nil
}

// percentEncode applies the unreserved-character encoding from RFC 3986;
// url.QueryEscape is not usable here because it encodes spaces as '+'.
func percentEncode(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'A' && c <= 'Z',
			c >= 'a' && c <= 'z',
			c >= '0' && c <= '9',
			c == '-', c == '.', c == '_', c == '~':
			b.WriteByte(c)
		default:
			b.WriteString(fmt.Sprintf("%%%02X", c))
		}
	}
	return b.String()
}

func randomNonce() string {
	buf := make([]byte, 16)
	_, _ = rand.Read(buf) //nolint:errcheck // crypto/rand never fails in practice
	return hex.EncodeToString(buf)
}
