// Package hash computes deterministic content digests of dataset specs.
//
// Digests depend only on semantic content: map keys are sorted and field
// sequences are hashed as sets, so permuting insertion order never changes a
// digest, while any populated attribute change does. The digests are used as
// cheap equality checks to skip expensive remote inspection, not for
// security; murmur3 128-bit keeps them short enough to store as label
// values.
package hash
