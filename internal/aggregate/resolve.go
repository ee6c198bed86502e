package aggregate

import "strings"

// CanonicalKey returns the dedup key for an account name. Lowercasing is the
// only normalization applied: "Acme Inc" and "Acme Inc." stay distinct, an
// accepted approximation.
func CanonicalKey(name string) string {
	return strings.ToLower(name)
}

// ExtractDomain pulls the hostname out of a website field. Protocol and www
// prefixes are stripped and everything from the first path separator on is
// dropped.
func ExtractDomain(website string) string {
	d := strings.TrimSpace(website)
	d = strings.TrimPrefix(d, "https://")
	d = strings.TrimPrefix(d, "http://")
	d = strings.TrimPrefix(d, "www.")
	if i := strings.Index(d, "/"); i >= 0 {
		d = d[:i]
	}
	return strings.ToLower(d)
}

// EmailDomain returns the domain portion of a contact email, or "" when the
// address has no @.
func EmailDomain(email string) string {
	i := strings.LastIndex(email, "@")
	if i < 0 || i == len(email)-1 {
		return ""
	}
	return strings.ToLower(email[i+1:])
}
