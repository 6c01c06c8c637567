package auth

import "golang.org/x/crypto/bcrypt"

// bcryptCost is a seam for tests, which lower it to bcrypt.MinCost.
var bcryptCost = 10

func HashPassword(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
}

// CheckPassword reports whether password matches hash.
func CheckPassword(hash []byte, password string) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
}
