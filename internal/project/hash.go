package project

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// Digest is a sha256 sum, the same kind as source.File.Hash.
type Digest [32]byte

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// Combine hashes content followed by parts, each length-prefixed so that
// distinct part lists never produce the same input.
func Combine(content Digest, parts ...string) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, p := range parts {
		_, _ = h.Write([]byte(strconv.Itoa(len(p))))
		_, _ = h.Write([]byte{':'})
		_, _ = h.Write([]byte(p))
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// Fingerprint identifies the pass configuration in cache keys. Verify is
// part of it: a verified build never reuses an entry an unverified one wrote.
func (o PassOptions) Fingerprint() string {
	let := "seq"
	if o.Resolve.Parallel {
		let = "par"
	}
	order := "program"
	if o.Flatten.HoistedFirst {
		order = "hoisted"
	}
	return "let=" + let + ",order=" + order + ",verify=" + strconv.FormatBool(o.Verify)
}
