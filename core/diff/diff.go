package diff

// Classification is the result of comparing a declared identifier set
// against the actual remote one. Only Classify needs comparable keys; a
// Classification may carry any element type, including composite values
// classified under a derived key.
type Classification[K any] struct {
	// Novel holds identifiers present only in the declaration. They must be
	// created remotely.
	Novel []K

	// Untracked holds identifiers present only remotely. They are adopted
	// into the output, never deleted.
	Untracked []K

	// Common holds identifiers present in both sets, the candidates for
	// reconciliation.
	Common []K
}

// Classify splits declared and actual identifiers into novel, untracked and
// common. Order within each class follows the input order (declared order
// for Novel and Common, actual order for Untracked); duplicates within one
// input are collapsed.
func Classify[K comparable](declared, actual []K) Classification[K] {
	actualSet := make(map[K]struct{}, len(actual))
	for _, k := range actual {
		actualSet[k] = struct{}{}
	}
	declaredSet := make(map[K]struct{}, len(declared))

	var out Classification[K]
	for _, k := range declared {
		if _, dup := declaredSet[k]; dup {
			continue
		}
		declaredSet[k] = struct{}{}
		if _, ok := actualSet[k]; ok {
			out.Common = append(out.Common, k)
		} else {
			out.Novel = append(out.Novel, k)
		}
	}
	seen := make(map[K]struct{}, len(actual))
	for _, k := range actual {
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		if _, ok := declaredSet[k]; !ok {
			out.Untracked = append(out.Untracked, k)
		}
	}
	return out
}

// Equal reports whether the two sets were identical, i.e. the classification
// found nothing novel and nothing untracked.
func (c Classification[K]) Equal() bool {
	return len(c.Novel) == 0 && len(c.Untracked) == 0
}
