package sites

import (
	"crypto/rand"
	"math/big"
	"strings"
)

const passwordAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// AccountName derives a site-owning system account from a domain: the first
// label, lowercased, stripped to alphanumerics, prefixed when it would start
// with a digit, capped at 16 characters.
func AccountName(domain string) string {
	label, _, _ := strings.Cut(strings.ToLower(strings.TrimSpace(domain)), ".")

	var b strings.Builder
	for _, r := range label {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}

	name := b.String()
	if name == "" {
		name = "site"
	}
	if name[0] >= '0' && name[0] <= '9' {
		name = "u" + name
	}
	if len(name) > 16 {
		name = name[:16]
	}

	return name
}

// GeneratePassword returns a random alphanumeric password drawn from
// crypto/rand.
func GeneratePassword(length int) (string, error) {
	buf := make([]byte, length)
	max := big.NewInt(int64(len(passwordAlphabet)))

	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = passwordAlphabet[n.Int64()]
	}

	return string(buf), nil
}
