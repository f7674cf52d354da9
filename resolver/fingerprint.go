package resolver

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
)

// VerifyBinary decides whether a binary candidate's hash suffix is valid for
// the dependency closure the resolver just settled on. Returning false
// rejects the candidate and falls through to the next one (typically the
// source build of the same version).
type VerifyBinary func(candidate *Package, resolvedDeps []*Package) bool

// Fingerprint computes the deterministic digest a builder encodes into a
// binary's _HEX suffix: sha256 over the sorted name-version identities of
// the resolved dependencies, truncated to fingerprintLen hex characters.
func Fingerprint(deps []*Package) string {
	ids := make([]string, len(deps))
	for i, d := range deps {
		ids[i] = d.Name + "-" + d.Version.String()
	}
	sort.Strings(ids)

	h := sha256.New()
	for _, id := range ids {
		h.Write([]byte(id))
	}
	return hex.EncodeToString(h.Sum(nil))[:fingerprintLen]
}

const fingerprintLen = 10

// FingerprintVerifier accepts a binary only when its suffix equals the
// Fingerprint of its resolved dependencies.
func FingerprintVerifier(candidate *Package, resolvedDeps []*Package) bool {
	return candidate.Version.Hash() == Fingerprint(resolvedDeps)
}

// acceptAllBinaries is the default: the suffix is treated as opaque. The
// resolver cannot recompute a hash scheme it was never told about, so
// strict checking is opt-in via WithBinaryVerifier.
func acceptAllBinaries(*Package, []*Package) bool { return true }
