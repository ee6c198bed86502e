package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalKey(t *testing.T) {
	assert.Equal(t, "acme corp", CanonicalKey("Acme Corp"))
	assert.Equal(t, "acme corp", CanonicalKey("ACME CORP"))
	// Punctuation variants intentionally stay distinct.
	assert.NotEqual(t, CanonicalKey("Acme Inc"), CanonicalKey("Acme Inc."))
}

func TestExtractDomain(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"https://www.acme.com", "acme.com"},
		{"http://acme.com/about", "acme.com"},
		{"www.acme.com/products/widgets", "acme.com"},
		{"acme.com", "acme.com"},
		{"  https://Acme.COM  ", "acme.com"},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ExtractDomain(tc.in), "input %q", tc.in)
	}
}

func TestEmailDomain(t *testing.T) {
	assert.Equal(t, "acme.com", EmailDomain("pat@acme.com"))
	assert.Equal(t, "acme.com", EmailDomain("Pat@ACME.com"))
	assert.Equal(t, "", EmailDomain("no-at-sign"))
	assert.Equal(t, "", EmailDomain("trailing@"))
	// The last @ wins for quoted-local-part oddities.
	assert.Equal(t, "acme.com", EmailDomain(`"a@b"@acme.com`))
}
