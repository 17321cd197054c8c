package auth

import "golang.org/x/crypto/bcrypt"

// Fixed bcrypt cost; matches hashes already present in the user store.
const bcryptCost = 10

// HashPassword one-way hashes a raw password with a random salt.
func HashPassword(raw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(raw), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether raw matches the stored hash.
func CheckPassword(hash, raw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(raw)) == nil
}
