package login

// PasswordHasher abstracts password hashing and verification
type PasswordHasher interface {
	// Hash returns the hashed form of a password
	Hash(password string) (string, error)

	// Verify reports whether password matches hashedPassword. A mismatch is
	// (false, nil); errors are reserved for malformed hashes and the like.
	Verify(password, hashedPassword string) (bool, error)
}
