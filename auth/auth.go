// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidAdminKey = errors.New("invalid admin key")

// sign returns a URL-safe HMAC of subject, trimmed of padding
func sign(subject, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(subject))
	sum := h.Sum(nil)
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
}

// GenerateAdminKey creates an HMAC-based admin key for the admin username.
// This is deterministic and verifiable: <base64 username>.<signature>
func GenerateAdminKey(username, salt string) string {
	encoded := strings.TrimRight(base64.URLEncoding.EncodeToString([]byte(username)), "=")
	return encoded + "." + sign("admin:"+username, salt)
}

// ValidateAdminKey checks the admin key and returns the username it was
// issued to
func ValidateAdminKey(adminKey, salt string) (string, error) {
	encoded, sig, ok := strings.Cut(adminKey, ".")
	if !ok || encoded == "" || sig == "" {
		return "", ErrInvalidAdminKey
	}
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return "", ErrInvalidAdminKey
	}
	username := string(raw)

	expected := sign("admin:"+username, salt)
	if !hmac.Equal([]byte(sig), []byte(expected)) {
		return "", ErrInvalidAdminKey
	}
	return username, nil
}

// GenerateVoterToken creates a random secure token for a voter session.
// The token means nothing on its own; the store maps it to a voter.
func GenerateVoterToken() (string, error) {
	b := make([]byte, 24) // 24 bytes = 192 bits of entropy
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate voter token: %w", err)
	}
	// URL-safe base64 without padding
	return strings.TrimRight(base64.URLEncoding.EncodeToString(b), "="), nil
}
