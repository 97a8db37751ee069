// Package service provides technical services for invitation ticket credentials.
//
// It implements random password generation and Argon2id hashing for ticket
// secrets using industry-standard cryptographic practices.
package service

// PasswordService defines operations for ticket password generation and validation.
// Implementations must use cryptographically secure random generation and
// industry-standard hashing algorithms (e.g., bcrypt, argon2).
type PasswordService interface {
	// GeneratePassword creates a new random password within the configured
	// length bounds. Returns both the clear password (to be shared with the
	// invitee exactly once) and the hashed digest (to be stored).
	GeneratePassword() (clearPassword string, digest string, error error)

	// HashPassword hashes a clear password using a secure hashing algorithm.
	// Used when an issuer supplies or regenerates a ticket password.
	HashPassword(clearPassword string) (digest string, error error)

	// ComparePassword compares a clear password against a stored digest.
	// Returns true if the password matches. The comparison is constant-time
	// to prevent timing attacks.
	ComparePassword(clearPassword string, digest string) bool
}
