package crypto

import "golang.org/x/crypto/bcrypt"

// passwordCost is the bcrypt work factor for stored credentials.
const passwordCost = bcrypt.DefaultCost

// HashPassword hashes plaintext with a salted bcrypt digest.
func HashPassword(plain string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(plain), passwordCost)
}

// ComparePassword reports whether plaintext matches the stored hash.
func ComparePassword(hash []byte, plain string) error {
	return bcrypt.CompareHashAndPassword(hash, []byte(plain))
}
