package security

import "golang.org/x/crypto/bcrypt"

const DefaultBcryptCost = 10

// BcryptEncoder stores the salt inside the hash string.
type BcryptEncoder struct {
	cost int
}

func NewBcryptEncoder(cost int) *BcryptEncoder {
	if cost < bcrypt.MinCost {
		cost = bcrypt.MinCost
	}
	return &BcryptEncoder{cost: cost}
}

func (e BcryptEncoder) GetPasswordHash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), e.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (BcryptEncoder) IsMatching(hash, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
