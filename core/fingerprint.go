package core

import (
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/Serendipbrity/hide-comments-extension/models"
)

// FingerprintLine hashes the whitespace-trimmed content of a line with
// FNV-1a 64 and renders it as 16 lowercase hex characters. Reindenting a
// line never moves an anchor; changing its content always does.
func FingerprintLine(line string) models.Fingerprint {
	h := fnv.New64a()
	h.Write([]byte(strings.TrimSpace(line)))
	return models.Fingerprint(fmt.Sprintf("%016x", h.Sum64()))
}

// ZeroFingerprint anchors comments in documents that contain no code lines
// at all. It is the fingerprint of the empty string.
var ZeroFingerprint = FingerprintLine("")
