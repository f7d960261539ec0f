package baseline

import (
	"errors"
	"fmt"
)

// Outcome describes what Verify did with an observed digest.
type Outcome int

const (
	// OutcomeRecorded means no baseline existed and the observed digest was recorded.
	OutcomeRecorded Outcome = iota
	// OutcomeMatched means the observed digest equals the recorded one.
	OutcomeMatched
	// OutcomeUpdated means the observed digest differed and replaced the recorded one.
	OutcomeUpdated
)

// String returns a human-readable name for the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeRecorded:
		return "recorded"
	case OutcomeMatched:
		return "matched"
	case OutcomeUpdated:
		return "updated"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// MismatchError is returned by Verify when a run observed a digest different from the recorded baseline.
type MismatchError struct {
	// Recorded is the baseline entry on disk.
	Recorded Entry

	// Observed is the entry the current run produced.
	Observed Entry
}

// Error returns the error message string, implementing the `error` interface.
func (e *MismatchError) Error() string {
	return fmt.Sprintf("bytecode digest %s differs from the baseline %s recorded by run %s with compiler %s",
		e.Observed.Digest, e.Recorded.Digest, e.Recorded.RunID, e.Recorded.CompilerVersion)
}

// Verify compares observed against the baseline recorded for fingerprint. A missing baseline is recorded. A differing
// baseline yields a *MismatchError, unless update is set, in which case it is overwritten.
func (s *Store) Verify(fingerprint Fingerprint, observed Entry, update bool) (Outcome, error) {
	key := fingerprint.Key()

	recorded, err := s.Get(key)
	if errors.Is(err, ErrBaselineMiss) {
		return OutcomeRecorded, s.Put(key, observed)
	} else if err != nil {
		return 0, err
	}

	if recorded.Digest == observed.Digest {
		return OutcomeMatched, nil
	}
	if !update {
		return 0, &MismatchError{Recorded: *recorded, Observed: observed}
	}
	return OutcomeUpdated, s.Put(key, observed)
}
