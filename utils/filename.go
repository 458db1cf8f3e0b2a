package utils

import (
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/blake2b"
)

var pathHostile = strings.NewReplacer(
	"/", "-", "\\", "-", ":", "-", "*", "-", "?", "-",
	"\"", "-", "<", "-", ">", "-", "|", "-", " ", "-",
)

// SanitizeFileName makes a record identifier safe to use as a file name.
// Distinct inputs may map to the same name ("LR/1" and "LR-1"); use
// ArtifactName where names must stay unique per identifier.
func SanitizeFileName(id string) string {
	s := pathHostile.Replace(strings.TrimSpace(id))
	s = strings.Trim(s, ".")
	if s == "" {
		return "unnamed"
	}
	return s
}

// ArtifactName is SanitizeFileName plus a short digest of the original
// identifier whenever sanitizing changed it, so two identifiers never share
// a file name.
func ArtifactName(id string) string {
	s := SanitizeFileName(id)
	if s == id {
		return s
	}
	sum := blake2b.Sum256([]byte(id))
	return s + "-" + hex.EncodeToString(sum[:4])
}
