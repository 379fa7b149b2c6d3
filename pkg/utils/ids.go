package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateUUIDv7 generates a new UUID v7
func GenerateUUIDv7() uuid.UUID {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to v4 if v7 fails (highly unlikely)
		return uuid.New()
	}
	return id
}

// GenerateReference builds a user-facing record id like TF-20250830-3F9A2C.
// Stable once issued; the random suffix avoids a sequence dependency.
func GenerateReference(prefix string) string {
	buf := make([]byte, 3)
	if _, err := rand.Read(buf); err != nil {
		// Degrade to a time-only suffix
		return fmt.Sprintf("%s-%s", prefix, time.Now().UTC().Format("20060102150405"))
	}
	return fmt.Sprintf("%s-%s-%s",
		prefix,
		time.Now().UTC().Format("20060102"),
		strings.ToUpper(hex.EncodeToString(buf)),
	)
}
