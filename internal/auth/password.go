// internal/auth/password.go
package auth

import "golang.org/x/crypto/bcrypt"

const bcryptCost = 12

// HashPassword возвращает bcrypt-хэш пароля. Открытый пароль нигде не хранится.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword сверяет пароль с хэшем.
func CheckPassword(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
