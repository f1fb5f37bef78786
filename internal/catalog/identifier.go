package catalog

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

// Identifier derives a short stable key from a record's name and artist.
// Inputs are lowercased and inner whitespace is collapsed, so cosmetic
// differences map to the same key. Collisions silently merge two items;
// accepted at personal-collection scale.
func Identifier(name, artist string) string {
	text := normalize(name) + "_" + normalize(artist)
	sum := md5.Sum([]byte(text))
	return strings.ToUpper(hex.EncodeToString(sum[:])[:8])
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "_")
}
