package security

import (
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const pbkdf2Prefix = "pbkdf2-sha512"

// PBKDF2Encoder hashes with a random per-password salt combined with a
// shared secret. Hashes are encoded as pbkdf2-sha512$iter$salt$key.
type PBKDF2Encoder struct {
	Secret    string
	Iteration int
	KeyLength int
}

func NewPBKDF2Encoder(secret string, iteration, keyLength int) (*PBKDF2Encoder, error) {
	if iteration <= 0 {
		return nil, errors.New("pbkdf2 iteration count must be positive")
	}
	if keyLength <= 0 {
		return nil, errors.New("pbkdf2 key length must be positive")
	}
	return &PBKDF2Encoder{Secret: secret, Iteration: iteration, KeyLength: keyLength}, nil
}

func (p PBKDF2Encoder) GetPasswordHash(password string) (string, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	key := p.derive(password, salt, p.Iteration)
	return fmt.Sprintf("%s$%d$%s$%s", pbkdf2Prefix, p.Iteration,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key)), nil
}

func (p PBKDF2Encoder) IsMatching(hash, password string) bool {
	parts := strings.Split(hash, "$")
	if len(parts) != 4 || parts[0] != pbkdf2Prefix {
		return false
	}
	iteration, err := strconv.Atoi(parts[1])
	if err != nil || iteration <= 0 {
		return false
	}
	salt, err := base64.RawStdEncoding.DecodeString(parts[2])
	if err != nil {
		return false
	}
	expected, err := base64.RawStdEncoding.DecodeString(parts[3])
	if err != nil {
		return false
	}
	actual := pbkdf2.Key([]byte(password), append(salt, p.Secret...), iteration, len(expected), sha512.New)
	return subtle.ConstantTimeCompare(actual, expected) == 1
}

func (p PBKDF2Encoder) derive(password string, salt []byte, iteration int) []byte {
	return pbkdf2.Key([]byte(password), append(append([]byte{}, salt...), p.Secret...), iteration, p.KeyLength, sha512.New)
}
