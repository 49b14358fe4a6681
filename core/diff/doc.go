// Package diff classifies two identifier sets three ways: Novel (declared
// only), Untracked (actual only) and Common (both). The classification
// drives every create/append/adopt decision in the sync engine: novel
// entries are created remotely, untracked entries are adopted into the
// output and never deleted, common entries are candidates for
// reconciliation.
package diff
