package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword derives a bcrypt hash for a bootstrap agent credential. Cost
// comes from AuthConfig so tests can use a cheap factor.
func HashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword checks a login attempt against the stored hash. The error
// is opaque to callers; login maps any mismatch to invalid credentials.
func ComparePassword(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}
