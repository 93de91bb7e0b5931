// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth derives and checks the bearer strings handed out at login.

# Admin Keys

Admin keys use HMAC-SHA256 to create deterministic, verifiable keys:

	adminKey := auth.GenerateAdminKey(username, salt)
	username, err := auth.ValidateAdminKey(adminKey, salt)

The key is the base64 username and its signature, both URL-safe without
padding. Since it's deterministic, the same username and salt always produce
the same key. This allows validation without storing the key in the
database.

# Voter Tokens

Voter tokens are random and carry nothing about the voter:

	token, err := auth.GenerateVoterToken()

The election store keeps each token against the voter who logged in and
drops it when that voter is deleted or the election is reset. Whether the
voter may still vote is decided at ballot time against the store.
*/
package auth
