package ports

// PasswordHasher abstracts password hashing so the core never sees the
// underlying algorithm.
type PasswordHasher interface {
	// Hash generates a salted hash from a plaintext password.
	Hash(password string) (string, error)
	// Check reports whether plaintext matches hash.
	Check(password, hash string) bool
}
