package util

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// HashStationKey derives a stable document ID for imported stations that arrive
// without one, from the station name and booth number.
func HashStationKey(name, boothNumber string) string {
	builder := strings.Builder{}
	builder.WriteString(strings.TrimSpace(strings.ToLower(name)))
	builder.WriteString("|")
	builder.WriteString(strings.TrimSpace(strings.ToLower(boothNumber)))
	return hashString(builder.String())
}

// HashCredential hashes an officer password for comparison against the stored hash.
func HashCredential(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

func hashString(input string) string {
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])
}
