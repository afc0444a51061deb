package crypto

import (
	"fmt"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters for deriving the vault key from the configured secret
const (
	// Argon2Time is the number of iterations (time cost)
	Argon2Time = 1
	// Argon2Memory is the memory cost in KB (64 MB)
	Argon2Memory = 64 * 1024
	// Argon2Threads is the number of parallel threads
	Argon2Threads = 4
)

// DeriveVaultKey stretches the configured vault secret into a 32-byte
// AES-256 key. The derivation is deterministic for a given secret and salt,
// so the key survives restarts without being stored anywhere.
func DeriveVaultKey(secret, salt string) ([]byte, error) {
	if secret == "" {
		return nil, fmt.Errorf("vault secret cannot be empty")
	}
	if salt == "" {
		return nil, fmt.Errorf("vault salt cannot be empty")
	}

	return argon2.IDKey([]byte(secret), []byte(salt), Argon2Time, Argon2Memory, Argon2Threads, KeySize), nil
}
