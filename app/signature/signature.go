// Package signature authenticates app proxy requests forwarded by the
// commerce platform.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"

	goshopify "github.com/bold-commerce/go-shopify/v4"
)

const Param = "signature"

// Message serializes the query for signing: the signature parameter is
// dropped, remaining keys are sorted and written as "key=value" with no
// separator. Repeated values are joined with commas.
func Message(query url.Values) string {
	keys := make([]string, 0, len(query))
	for k := range query {
		if k == Param {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(strings.Join(query[k], ","))
	}
	return b.String()
}

// Sign returns the hex HMAC-SHA256 of the serialized query, the value the
// platform puts in the signature parameter.
func Sign(query url.Values, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(Message(query)))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether the query carries a signature matching secret.
// The query is not modified.
func Verify(query url.Values, secret string) bool {
	if query.Get(Param) == "" {
		return false
	}

	app := goshopify.App{ApiSecret: secret}
	return app.VerifySignature(&url.URL{RawQuery: query.Encode()})
}
