package service

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/allisson/go-pwdhash"

	apperrors "github.com/allisson/ticketoffice/internal/errors"
)

// DefaultAlphabet is the character set for generated ticket passwords.
// It omits characters that are easy to confuse when read aloud or retyped
// from an invitation ("I", "l", "O", "0", "1").
const DefaultAlphabet = "abcdefghjkmnpqrstuvwxyz" +
	"ABCDEFGHJKLMNPQRSTUVWXYZ" +
	"23456789"

// GeneratorConfig bounds the generated password length and sets its alphabet.
// It is an explicit constructor argument, not process-wide state.
type GeneratorConfig struct {
	MinLength int
	MaxLength int
	Alphabet  string
}

// Validate checks the generator bounds.
func (g GeneratorConfig) Validate() error {
	if g.MinLength < 1 {
		return apperrors.New("password generator: minimum length must be at least 1")
	}
	if g.MaxLength < g.MinLength {
		return apperrors.New("password generator: maximum length must be >= minimum length")
	}
	if len(g.Alphabet) < 2 {
		return apperrors.New("password generator: alphabet must have at least 2 characters")
	}
	return nil
}

// passwordService implements PasswordService using Argon2id for password hashing.
type passwordService struct {
	hasher    *pwdhash.PasswordHasher
	generator GeneratorConfig
}

// GeneratePassword creates a random password of random length within the
// configured bounds, then hashes it.
func (s *passwordService) GeneratePassword() (clearPassword string, digest string, error error) {
	clearPassword, err := randomPassword(s.generator)
	if err != nil {
		return "", "", apperrors.Wrap(err, "failed to generate random password")
	}

	digest, err = s.HashPassword(clearPassword)
	if err != nil {
		return "", "", err
	}

	return clearPassword, digest, nil
}

// HashPassword hashes a clear password using Argon2id.
func (s *passwordService) HashPassword(clearPassword string) (digest string, error error) {
	digest, err := s.hasher.Hash([]byte(clearPassword))
	if err != nil {
		return "", apperrors.Wrap(err, "failed to hash password")
	}
	return digest, nil
}

// ComparePassword performs a constant-time comparison between a clear password and its digest.
func (s *passwordService) ComparePassword(clearPassword string, digest string) bool {
	ok, err := s.hasher.Verify([]byte(clearPassword), digest)
	if err != nil {
		return false
	}
	return ok
}

// randomPassword draws a length in [MinLength, MaxLength] and then each
// character uniformly from the alphabet, all via crypto/rand.
func randomPassword(cfg GeneratorConfig) (string, error) {
	interval := int64(cfg.MaxLength - cfg.MinLength + 1)
	offset, err := rand.Int(rand.Reader, big.NewInt(interval))
	if err != nil {
		return "", err
	}
	length := cfg.MinLength + int(offset.Int64())

	alphabetSize := big.NewInt(int64(len(cfg.Alphabet)))
	result := make([]byte, length)
	for i := range result {
		index, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			return "", err
		}
		result[i] = cfg.Alphabet[index.Int64()]
	}

	return string(result), nil
}

// NewPasswordService creates a PasswordService using Argon2id hashing with the
// Moderate policy and the given generator configuration.
func NewPasswordService(generator GeneratorConfig) (PasswordService, error) {
	if generator.Alphabet == "" {
		generator.Alphabet = DefaultAlphabet
	}
	if err := generator.Validate(); err != nil {
		return nil, err
	}

	hasher, err := pwdhash.New(
		pwdhash.WithPolicy(pwdhash.PolicyModerate),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create password hasher: %w", err)
	}

	return &passwordService{
		hasher:    hasher,
		generator: generator,
	}, nil
}
