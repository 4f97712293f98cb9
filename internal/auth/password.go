package auth

import "golang.org/x/crypto/bcrypt"

// Hasher is the one-way salted credential hasher. The zero value uses
// bcrypt.DefaultCost.
type Hasher struct {
	Cost int
}

// Hash hashes a plaintext password with bcrypt.
func (h Hasher) Hash(pw string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(pw), cost)
	return string(b), err
}

// Matches compares a bcrypt hash with a candidate plaintext password.
func (h Hasher) Matches(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}
