package security

import "fmt"

type PasswordEncoder interface {
	GetPasswordHash(password string) (string, error)
	IsMatching(hash, password string) bool
}

const (
	EncoderBcrypt = "bcrypt"
	EncoderPBKDF2 = "pbkdf2"
)

// NewPasswordEncoder returns the encoder registered under name.
func NewPasswordEncoder(name string, pbkdf2Secret string, pbkdf2Iterations, pbkdf2KeyLength int) (PasswordEncoder, error) {
	switch name {
	case "", EncoderBcrypt:
		return NewBcryptEncoder(DefaultBcryptCost), nil
	case EncoderPBKDF2:
		return NewPBKDF2Encoder(pbkdf2Secret, pbkdf2Iterations, pbkdf2KeyLength)
	default:
		return nil, fmt.Errorf("unknown password encoder %q", name)
	}
}
