package utils

import (
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/teris-io/shortid"
)

const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var seededRand *rand.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))

// GenerateLinkCode returns a short opaque code for a tracked link.
// Falls back to a random charset string if shortid fails.
func GenerateLinkCode() string {
	code, err := shortid.Generate()
	if err != nil {
		return randomString(8)
	}
	return code
}

func randomString(length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = charset[seededRand.Intn(len(charset))]
	}
	return string(b)
}

// GenerateAPIKey generates a UUID string to be used as an API key
func GenerateAPIKey() string {
	return uuid.NewString()
}
