package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// SessionDuration bounds how long a login stays valid. Clinic workstations
// are shared, so sessions are shorter than a typical consumer app.
const SessionDuration = 12 * time.Hour

const tokenBytes = 32

// GenerateSessionToken returns a cryptographically random opaque token.
func GenerateSessionToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// CalculateExpiry returns the expiry time for a session created now.
func CalculateExpiry() time.Time {
	return time.Now().Add(SessionDuration)
}
