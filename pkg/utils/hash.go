package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode"
)

// HashString creates a SHA-256 hash of the input string
func HashString(input string) string {
	h := sha256.Sum256([]byte(input))
	return hex.EncodeToString(h[:])
}

// PhoneHash hashes a phone number after dropping everything but digits,
// so "+91 98765-43210" and "919876543210" share a hash
func PhoneHash(phone string) string {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, phone)
	return HashString(digits)
}

// LeadKey identifies a registrant for duplicate-submission checks
func LeadKey(email, phone string) string {
	return HashString(strings.ToLower(strings.TrimSpace(email)) + "|" + PhoneHash(phone))
}
