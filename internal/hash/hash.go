package hash

import "golang.org/x/crypto/bcrypt"

// HashPassword is the storefront's stand-in for a real credential service:
// the stored blob must never contain a recoverable password, nothing more.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func CheckPassword(hashed, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password)) == nil
}
