package db

import "golang.org/x/crypto/bcrypt"

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// EncodePassword returns the value to persist for password. Accounts are
// stored in plaintext unless hashed is set.
func EncodePassword(password string, hashed bool) (string, error) {
	if !hashed {
		return password, nil
	}
	return HashPassword(password)
}

// MatchPassword compares a sign-in attempt with the stored value using the
// same encoding EncodePassword applied.
func MatchPassword(stored, given string, hashed bool) bool {
	if !hashed {
		return stored == given
	}
	return CheckPasswordHash(given, stored)
}
