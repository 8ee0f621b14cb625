package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"dealscope/ai"
	"dealscope/domain/core"
	"dealscope/domain/report"
	"dealscope/domain/subject"
	"dealscope/internal/quota"
)

// InvestigationState tracks one investigation through the pipeline. No
// state is a terminal failure: DEGRADED is a valid branch that feeds the
// same persistence path as PARSED.
type InvestigationState string

const (
	StatePending          InvestigationState = "PENDING"
	StateEvidenceGathered InvestigationState = "EVIDENCE_GATHERED"
	StateSynthesized      InvestigationState = "SYNTHESIZED"
	StateParsed           InvestigationState = "PARSED"
	StateDegraded         InvestigationState = "DEGRADED"
	StatePersisted        InvestigationState = "PERSISTED"
)

// InvestigationRequest is one inbound investigation submission.
type InvestigationRequest struct {
	OwnerID  core.OwnerID
	Category string
	FormData map[string]string
	Notes    string
}

// InvestigationService runs the whole pipeline for one submission:
// quota gate, evidence fan-out, one synthesis call, defensive parse,
// persistence, quota commit, strictly in that order.
type InvestigationService struct {
	gate        *quota.Service
	evidence    *EvidenceService
	synthesizer *ai.Synthesizer
	parser      *ai.ReportParser
	reports     *ReportService
	now         func() time.Time
}

// NewInvestigationService wires the pipeline components together.
func NewInvestigationService(
	gate *quota.Service,
	evidenceSvc *EvidenceService,
	synthesizer *ai.Synthesizer,
	parser *ai.ReportParser,
	reports *ReportService,
) *InvestigationService {
	return &InvestigationService{
		gate:        gate,
		evidence:    evidenceSvc,
		synthesizer: synthesizer,
		parser:      parser,
		reports:     reports,
		now:         time.Now,
	}
}

// Run executes one investigation end to end and returns the persisted
// report. Errors are classified via domain/core sentinels: authorization
// failures happen before any pipeline work; synthesis and persistence
// failures are fatal; an unreadable model response is not an error but a
// degraded report.
func (s *InvestigationService) Run(ctx context.Context, req InvestigationRequest) (report.Report, error) {
	invID := core.InvestigationID(core.NewID())

	category, err := subject.ParseCategory(req.Category)
	if err != nil {
		return report.Report{}, fmt.Errorf("%w: %v", core.ErrInvalidRequest, err)
	}

	verdict, err := s.gate.CheckAndReserve(ctx, req.OwnerID)
	if err != nil {
		return report.Report{}, err
	}
	switch verdict {
	case quota.VerdictDeniedUnauthenticated:
		return report.Report{}, core.ErrNoOwner
	case quota.VerdictDeniedExhausted:
		return report.Report{}, core.ErrQuotaExhausted
	}

	sub := subject.New(category, req.FormData, req.Notes)
	parties := sub.Parties()
	partyNames := make([]string, 0, len(parties))
	for _, p := range parties {
		partyNames = append(partyNames, p.Name)
	}

	log.Printf("[Investigation] %s state=%s owner=%s category=%s parties=%d",
		invID, StatePending, req.OwnerID, category, len(parties))

	bundle := s.evidence.Gather(ctx, sub)
	log.Printf("[Investigation] %s state=%s sources=%d", invID, StateEvidenceGathered, len(bundle.SourcesChecked()))

	raw, err := s.synthesizer.Synthesize(ctx, sub, bundle, s.now())
	if err != nil {
		return report.Report{}, core.NewSynthesisError(err)
	}
	log.Printf("[Investigation] %s state=%s", invID, StateSynthesized)

	analysis := s.parser.Parse(raw, partyNames, bundle.SourcesChecked())
	if analysis.Degraded {
		log.Printf("[Investigation] %s state=%s", invID, StateDegraded)
	} else {
		log.Printf("[Investigation] %s state=%s risk=%s score=%.0f",
			invID, StateParsed, analysis.RiskLevel, analysis.RiskScore)
		if d := report.ScoreDivergence(analysis); d > 25 {
			log.Printf("[Investigation] %s model score diverges from flag-derived advisory score by %.0f points", invID, d)
		}
	}

	if analysis.VerificationStatus == "" {
		analysis.VerificationStatus = fmt.Sprintf("%d source(s) returned evidence", len(bundle.SourcesChecked()))
	}

	rep := report.New(req.OwnerID, analysis)
	if err := s.reports.Put(ctx, rep); err != nil {
		return report.Report{}, core.NewPersistenceError(err)
	}
	log.Printf("[Investigation] %s state=%s report=%s", invID, StatePersisted, rep.ID)

	// Commit happens only after the report is durably stored. A commit
	// failure is logged, not surfaced: the owner already received their
	// report and the counter is advisory.
	if err := s.gate.Commit(ctx, req.OwnerID); err != nil {
		log.Printf("[Investigation] %s quota commit failed for owner %s: %v", invID, req.OwnerID, err)
	}
	return rep, nil
}
