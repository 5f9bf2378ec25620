package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordEncoders(t *testing.T) {
	pbkdf2Encoder, err := NewPBKDF2Encoder("pepper", 1000, 32)
	require.NoError(t, err)

	encoders := map[string]PasswordEncoder{
		"bcrypt": NewBcryptEncoder(4),
		"pbkdf2": pbkdf2Encoder,
	}

	for name, encoder := range encoders {
		t.Run(name, func(t *testing.T) {
			hash, err := encoder.GetPasswordHash("secret123")
			require.NoError(t, err)
			assert.NotContains(t, hash, "secret123")

			assert.True(t, encoder.IsMatching(hash, "secret123"))
			assert.False(t, encoder.IsMatching(hash, "secret124"))
			assert.False(t, encoder.IsMatching("garbage", "secret123"))

			other, err := encoder.GetPasswordHash("secret123")
			require.NoError(t, err)
			assert.NotEqual(t, hash, other, "hashes must be salted")
		})
	}
}

func TestPBKDF2Encoder_Format(t *testing.T) {
	encoder, err := NewPBKDF2Encoder("pepper", 1000, 32)
	require.NoError(t, err)

	hash, err := encoder.GetPasswordHash("secret123")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "pbkdf2-sha512$1000$"))

	other, err := NewPBKDF2Encoder("another-pepper", 1000, 32)
	require.NoError(t, err)
	assert.False(t, other.IsMatching(hash, "secret123"))
}

func TestNewPasswordEncoder(t *testing.T) {
	encoder, err := NewPasswordEncoder("", "", 0, 0)
	require.NoError(t, err)
	assert.IsType(t, &BcryptEncoder{}, encoder)

	encoder, err = NewPasswordEncoder(EncoderPBKDF2, "s", 100, 16)
	require.NoError(t, err)
	assert.IsType(t, &PBKDF2Encoder{}, encoder)

	_, err = NewPasswordEncoder(EncoderPBKDF2, "s", 0, 16)
	assert.Error(t, err)

	_, err = NewPasswordEncoder("md5", "", 0, 0)
	assert.Error(t, err)
}
