package determinism

import (
	"fmt"
	"time"

	"github.com/crytic/hypcheck/compilation/baseline"
	"github.com/crytic/hypcheck/compilation/types"
	"github.com/crytic/hypcheck/logging"
	"github.com/crytic/hypcheck/logging/colors"
)

// VerifyBaseline compares the digest of a passing report against the baseline recorded for the same platform,
// compiler version, target and request. A missing baseline is recorded. A differing baseline fails with a
// *baseline.MismatchError unless update is set.
func VerifyBaseline(store *baseline.Store, request types.CompilationRequest, report *Report, update bool) error {
	if !report.Passed || report.Digest() == "" {
		return fmt.Errorf("only passing runs can be compared against a baseline")
	}

	canonical, err := request.Marshal()
	if err != nil {
		return fmt.Errorf("could not serialize compilation request: %w", err)
	}

	fingerprint := baseline.Fingerprint{
		Platform:        report.Platform,
		CompilerVersion: report.CompilerVersion,
		Target:          report.Target,
		Request:         canonical,
	}
	observed := baseline.Entry{
		Digest:          report.Digest(),
		CompilerVersion: report.CompilerVersion,
		RunID:           report.RunID.String(),
		RecordedAt:      time.Now().UTC(),
	}

	logger := logging.GlobalLogger.NewSubLogger("module", logging.BASELINE_SERVICE)
	outcome, err := store.Verify(fingerprint, observed, update)
	if err != nil {
		return err
	}

	switch outcome {
	case baseline.OutcomeRecorded:
		logger.Info("Recorded a new baseline for ", colors.Bold, report.Target.String(), colors.Reset)
	case baseline.OutcomeMatched:
		logger.Info("Bytecode matches the recorded baseline for ", colors.Bold, report.Target.String(), colors.Reset)
	case baseline.OutcomeUpdated:
		logger.Warn("Replaced the recorded baseline for ", colors.Bold, report.Target.String(), colors.Reset)
	}
	return nil
}
