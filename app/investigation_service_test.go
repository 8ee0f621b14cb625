package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dealscope/adapters/llm"
	"dealscope/adapters/memory"
	"dealscope/ai"
	"dealscope/domain/core"
	"dealscope/domain/report"
	"dealscope/internal/quota"
	"dealscope/models"
	"dealscope/ports"
)

// pipelineFixture wires a full in-memory pipeline around a mock engine.
type pipelineFixture struct {
	svc       *InvestigationService
	llm       *llm.MockLLMClient
	reports   *memory.ReportRepository
	quotas    *memory.QuotaRepository
	reportSvc *ReportService
}

func newPipelineFixture(adapters []ports.SourceAdapter) *pipelineFixture {
	mockLLM := &llm.MockLLMClient{}
	reportRepo := memory.NewReportRepository()
	quotaRepo := memory.NewQuotaRepository()
	reportSvc := NewReportService(reportRepo)

	svc := NewInvestigationService(
		quota.NewService(quotaRepo, 10),
		NewEvidenceService(adapters, time.Second),
		ai.NewSynthesizer(mockLLM, "gpt-4o", 4000),
		ai.NewReportParser(),
		reportSvc,
	)
	return &pipelineFixture{
		svc:       svc,
		llm:       mockLLM,
		reports:   reportRepo,
		quotas:    quotaRepo,
		reportSvc: reportSvc,
	}
}

func (f *pipelineFixture) used(t *testing.T, ownerID core.OwnerID) int {
	t.Helper()
	state, err := f.quotas.GetState(context.Background(), ownerID)
	require.NoError(t, err)
	return state.PeriodUsed
}

func automotiveRequest(owner core.OwnerID) InvestigationRequest {
	return InvestigationRequest{
		OwnerID:  owner,
		Category: "automotive",
		FormData: map[string]string{
			"seller_name": "Jordan Blake",
			"make":        "Porsche",
			"model":       "911 Turbo",
			"price":       "48000",
		},
		Notes: "Seller wants payment before inspection.",
	}
}

func TestRunHappyPathAllSourcesAbsent(t *testing.T) {
	// No adapters at all: every source is absent, the pipeline still
	// completes on declared facts alone.
	f := newPipelineFixture(nil)
	owner := core.OwnerID("owner-1")

	rep, err := f.svc.Run(context.Background(), automotiveRequest(owner))
	require.NoError(t, err)

	assert.False(t, rep.Analysis.Degraded)
	assert.Equal(t, report.RiskLow, rep.Analysis.RiskLevel)
	assert.Empty(t, rep.Analysis.SourcesChecked)
	assert.Contains(t, rep.Analysis.VerificationStatus, "0 sources")

	// Persisted under the owner and quota consumed exactly once.
	stored, err := f.reports.Get(context.Background(), rep.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, rep.ID, stored.ID)
	assert.Equal(t, 1, f.used(t, owner))

	// The prompt carried the empty-evidence caution.
	require.Len(t, f.llm.Prompts, 1)
	assert.Contains(t, f.llm.Prompts[0], "No external source returned evidence")
}

func TestRunUnauthenticated(t *testing.T) {
	f := newPipelineFixture(nil)

	_, err := f.svc.Run(context.Background(), automotiveRequest(""))
	assert.ErrorIs(t, err, core.ErrNoOwner)
	assert.Empty(t, f.llm.Prompts)
}

func TestRunQuotaExhausted(t *testing.T) {
	f := newPipelineFixture(nil)
	owner := core.OwnerID("owner-1")
	f.quotas.SetState(models.QuotaState{OwnerID: owner.String(), PeriodLimit: 10, PeriodUsed: 10})

	_, err := f.svc.Run(context.Background(), automotiveRequest(owner))
	assert.ErrorIs(t, err, core.ErrQuotaExhausted)

	// No model call, no report, no further consumption.
	assert.Empty(t, f.llm.Prompts)
	assert.Equal(t, 10, f.used(t, owner))
}

func TestRunUnlimitedOwnerBypassesCounter(t *testing.T) {
	f := newPipelineFixture(nil)
	owner := core.OwnerID("owner-1")
	f.quotas.SetState(models.QuotaState{OwnerID: owner.String(), PeriodLimit: 0, PeriodUsed: 99, Unlimited: true})

	_, err := f.svc.Run(context.Background(), automotiveRequest(owner))
	require.NoError(t, err)
	assert.Equal(t, 99, f.used(t, owner))
}

func TestRunInvalidCategory(t *testing.T) {
	f := newPipelineFixture(nil)
	req := automotiveRequest("owner-1")
	req.Category = "timeshares"

	_, err := f.svc.Run(context.Background(), req)
	assert.ErrorIs(t, err, core.ErrInvalidRequest)
	assert.Empty(t, f.llm.Prompts)
}

func TestRunEmptyCategoryDefaultsToGeneral(t *testing.T) {
	f := newPipelineFixture(nil)
	req := automotiveRequest("owner-1")
	req.Category = ""

	_, err := f.svc.Run(context.Background(), req)
	assert.NoError(t, err)
}

func TestRunSynthesisFailureIsFatalAndFree(t *testing.T) {
	f := newPipelineFixture(nil)
	f.llm.Error = errors.New("model overloaded")
	owner := core.OwnerID("owner-1")

	_, err := f.svc.Run(context.Background(), automotiveRequest(owner))
	assert.ErrorIs(t, err, core.ErrSynthesisFailed)
	assert.True(t, core.IsPipelineError(err))

	// Nothing persisted and the failed run did not bill the owner.
	reports, listErr := f.reports.ListByOwner(context.Background(), owner)
	require.NoError(t, listErr)
	assert.Empty(t, reports)
	assert.Equal(t, 0, f.used(t, owner))
}

func TestRunUnreadableOutputDegradesAndBills(t *testing.T) {
	f := newPipelineFixture(nil)
	f.llm.Response = "I am sorry, I cannot produce JSON today."
	owner := core.OwnerID("owner-1")

	rep, err := f.svc.Run(context.Background(), automotiveRequest(owner))
	require.NoError(t, err)

	assert.True(t, rep.Analysis.Degraded)
	assert.Equal(t, report.RiskMedium, rep.Analysis.RiskLevel)
	assert.Equal(t, 50.0, rep.Analysis.RiskScore)
	require.Len(t, rep.Analysis.PartyBackgrounds, 1)
	assert.Equal(t, "Jordan Blake", rep.Analysis.PartyBackgrounds[0].PartyName)
	assert.Equal(t, report.StatusNeedsReview, rep.Analysis.PartyBackgrounds[0].Status)

	// A degraded report is still the billable unit of work.
	assert.Equal(t, 1, f.used(t, owner))
	_, err = f.reports.Get(context.Background(), rep.ID, owner)
	assert.NoError(t, err)
}

// failingReportRepo rejects every write.
type failingReportRepo struct {
	*memory.ReportRepository
}

func (r *failingReportRepo) Put(ctx context.Context, rep report.Report) error {
	return errors.New("disk full")
}

func TestRunPersistenceFailureIsFatalAndFree(t *testing.T) {
	mockLLM := &llm.MockLLMClient{}
	quotaRepo := memory.NewQuotaRepository()
	svc := NewInvestigationService(
		quota.NewService(quotaRepo, 10),
		NewEvidenceService(nil, time.Second),
		ai.NewSynthesizer(mockLLM, "gpt-4o", 4000),
		ai.NewReportParser(),
		NewReportService(&failingReportRepo{memory.NewReportRepository()}),
	)
	owner := core.OwnerID("owner-1")

	_, err := svc.Run(context.Background(), automotiveRequest(owner))
	assert.ErrorIs(t, err, core.ErrPersistenceFailed)

	state, stateErr := quotaRepo.GetState(context.Background(), owner)
	require.NoError(t, stateErr)
	assert.Equal(t, 0, state.PeriodUsed)
}

func TestRunEvidenceFlowsIntoPrompt(t *testing.T) {
	f := newPipelineFixture([]ports.SourceAdapter{
		contributing("web_search", "3 fraud complaints about this listing"),
	})
	owner := core.OwnerID("owner-1")

	rep, err := f.svc.Run(context.Background(), automotiveRequest(owner))
	require.NoError(t, err)
	assert.Equal(t, []string{"web_search"}, rep.Analysis.SourcesChecked)

	require.Len(t, f.llm.Prompts, 1)
	assert.Contains(t, f.llm.Prompts[0], "=== SOURCE: web_search ===")
	assert.Contains(t, f.llm.Prompts[0], "3 fraud complaints about this listing")
}
