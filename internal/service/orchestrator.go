package service

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/questra-ai/questra/internal/domain"
	"github.com/questra-ai/questra/internal/telemetry"
)

// QuestionnaireInput is a full questionnaire request.
type QuestionnaireInput struct {
	RequestID        string
	Questions        []domain.Question
	ContextDocuments []domain.ContextDocument
}

// Validate checks the request shape before any pipeline work runs.
func (in *QuestionnaireInput) Validate() error {
	if in.RequestID == "" {
		return domain.ErrMissingRequestID
	}
	if len(in.Questions) == 0 {
		return domain.ErrNoQuestions
	}
	for i := range in.Questions {
		if err := in.Questions[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// BatchResult groups the answers of one processing batch.
type BatchResult struct {
	BatchNumber int
	Answers     []domain.AnswerResult
}

// QuestionnaireOutput is the full result of a questionnaire run.
type QuestionnaireOutput struct {
	RequestID           string
	TotalQuestions      int
	TotalBatches        int
	Batches             []BatchResult
	EscalationsRequired int
	Status              string
}

// Stats summarizes the knowledge base and directory.
type Stats struct {
	VerifiedAnswers int64
	Documents       int64
	Chunks          int64
	Employees       int64
}

// StatsSource aggregates the counting surfaces of the repositories.
type StatsSource interface {
	CountDocuments(ctx context.Context) (int64, error)
	CountChunks(ctx context.Context) (int64, error)
}

type VerifiedAnswerCounter interface {
	Count(ctx context.Context) (int64, error)
}

type EmployeeCounter interface {
	Count(ctx context.Context) (int64, error)
}

// OrchestratorConfig tunes the pipeline.
type OrchestratorConfig struct {
	BatchSize           int
	ConfidenceThreshold float64
	Concurrency         int
}

func (c OrchestratorConfig) withDefaults() OrchestratorConfig {
	if c.BatchSize <= 0 {
		c.BatchSize = 5
	}
	if c.ConfidenceThreshold <= 0 {
		c.ConfidenceThreshold = 0.7
	}
	if c.Concurrency <= 0 {
		c.Concurrency = 4
	}
	return c
}

// AnswerCacheInterface defines the cache operations the pipeline uses
type AnswerCacheInterface interface {
	Lookup(ctx context.Context, fingerprint, text string) (*domain.VerifiedAnswer, error)
	Promote(ctx context.Context, text, approvedAnswer, evidenceSource string) (string, error)
}

// EvidenceRetrieverInterface defines the evidence retrieval surface
type EvidenceRetrieverInterface interface {
	Retrieve(ctx context.Context, question string) ([]domain.Evidence, error)
}

// ConfidenceScorerInterface defines the analytical scoring surface
type ConfidenceScorerInterface interface {
	Score(evidence []domain.Evidence) float64
}

// AnswerabilityJudgeInterface defines the answerability check surface
type AnswerabilityJudgeInterface interface {
	Judge(ctx context.Context, question string, evidence []domain.Evidence) (Verdict, error)
}

// CitationExtractorInterface defines the citation extraction surface
type CitationExtractorInterface interface {
	Extract(ctx context.Context, q domain.Question, docs []domain.ContextDocument) ([]domain.Citation, error)
}

// AnswerDrafterInterface defines the answer drafting surface
type AnswerDrafterInterface interface {
	DraftAnswer(ctx context.Context, q domain.Question, citations []domain.Citation) (Draft, error)
}

// Orchestrator runs each question through normalize, cache, retrieve,
// judge, cite, draft, and the escalation decision.
type Orchestrator struct {
	cfg        OrchestratorConfig
	normalizer *Normalizer
	cache      AnswerCacheInterface
	retriever  EvidenceRetrieverInterface
	scorer     ConfidenceScorerInterface
	judge      AnswerabilityJudgeInterface
	citations  CitationExtractorInterface
	drafter    AnswerDrafterInterface

	chunkCounts    StatsSource
	verifiedCounts VerifiedAnswerCounter
	employeeCounts EmployeeCounter
}

func NewOrchestrator(
	cfg OrchestratorConfig,
	normalizer *Normalizer,
	cache AnswerCacheInterface,
	retriever EvidenceRetrieverInterface,
	scorer ConfidenceScorerInterface,
	judge AnswerabilityJudgeInterface,
	citations CitationExtractorInterface,
	drafter AnswerDrafterInterface,
) *Orchestrator {
	return &Orchestrator{
		cfg:        cfg.withDefaults(),
		normalizer: normalizer,
		cache:      cache,
		retriever:  retriever,
		scorer:     scorer,
		judge:      judge,
		citations:  citations,
		drafter:    drafter,
	}
}

// WithStatsSources wires the repositories the stats endpoint reads from.
func (o *Orchestrator) WithStatsSources(chunks StatsSource, verified VerifiedAnswerCounter, employees EmployeeCounter) *Orchestrator {
	o.chunkCounts = chunks
	o.verifiedCounts = verified
	o.employeeCounts = employees
	return o
}

// Process runs a questionnaire through the pipeline in fixed-size
// batches. Questions inside a batch run concurrently under a bounded
// worker pool; a per-question failure escalates that question and never
// fails the batch.
func (o *Orchestrator) Process(ctx context.Context, input QuestionnaireInput) (*QuestionnaireOutput, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	ctx, span := telemetry.StartSpan(ctx, "Orchestrator.Process", telemetry.SpanAttributes{
		RequestID: input.RequestID,
		Operation: "process_questionnaire",
	})
	defer span.End()

	total := len(input.Questions)
	batchSize := o.cfg.BatchSize
	totalBatches := (total + batchSize - 1) / batchSize

	output := &QuestionnaireOutput{
		RequestID:      input.RequestID,
		TotalQuestions: total,
		TotalBatches:   totalBatches,
		Batches:        make([]BatchResult, 0, totalBatches),
		Status:         "completed",
	}

	for batchNum := 0; batchNum < totalBatches; batchNum++ {
		start := batchNum * batchSize
		end := start + batchSize
		if end > total {
			end = total
		}

		answers, err := o.processBatch(ctx, input.Questions[start:end], input.ContextDocuments)
		if err != nil {
			return nil, err
		}

		output.Batches = append(output.Batches, BatchResult{
			BatchNumber: batchNum + 1,
			Answers:     answers,
		})
		for _, a := range answers {
			if a.NeedsEscalation {
				output.EscalationsRequired++
			}
		}
	}

	return output, nil
}

// processBatch answers the batch's questions concurrently. Result order
// matches question order regardless of completion order.
func (o *Orchestrator) processBatch(ctx context.Context, questions []domain.Question, contextDocs []domain.ContextDocument) ([]domain.AnswerResult, error) {
	answers := make([]domain.AnswerResult, len(questions))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(o.cfg.Concurrency)

	for i, q := range questions {
		g.Go(func() error {
			answers[i] = o.answerQuestion(ctx, q, contextDocs)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return answers, nil
}

// answerQuestion runs the full per-question pipeline. Failures never
// propagate: anything the pipeline cannot answer comes back as an
// escalated result.
func (o *Orchestrator) answerQuestion(ctx context.Context, q domain.Question, contextDocs []domain.ContextDocument) domain.AnswerResult {
	ctx, span := telemetry.StartSpan(ctx, "Orchestrator.answerQuestion", telemetry.SpanAttributes{
		QuestionID: q.ID,
		Category:   string(q.Category),
		Operation:  "answer_question",
	})
	defer span.End()

	normalized := o.normalizer.Normalize(q)
	if q.Category == "" {
		q.Category = normalized.Category
	}

	// Verified answers short-circuit the whole pipeline.
	if rec, err := o.cache.Lookup(ctx, normalized.Fingerprint, q.Text); err == nil && rec != nil {
		return domain.NewCacheHitResult(q, rec, rec.Confidence, CacheBoost)
	}

	evidence, err := o.retriever.Retrieve(ctx, q.Text)
	if err != nil {
		telemetry.CaptureError(ctx, err)
		return domain.NewEscalatedResult(q, "", 0.0, nil,
			"Evidence retrieval failed",
			fmt.Sprintf("Retrieval error: %v", err))
	}

	docs := contextDocs
	if len(evidence) > 0 {
		docs = make([]domain.ContextDocument, 0, len(evidence))
		for _, e := range evidence {
			docs = append(docs, e.ToContextDocument())
		}
	}

	if len(evidence) == 0 && len(docs) == 0 {
		return domain.NewEscalatedResult(q, "", 0.0, nil,
			"No evidence found in the knowledge base",
			"No evidence found")
	}

	score := o.scorer.Score(evidence)

	verdict, judgeErr := o.judge.Judge(ctx, q.Text, evidence)
	judgeFlagged := false
	judgeReason := ""
	if judgeErr != nil {
		log.Printf("answerability judge failed, applying penalty: %v", judgeErr)
		score *= AnswerabilityPenalty
		judgeFlagged = true
		judgeReason = "Answerability check unavailable"
	} else if !verdict.Answers {
		score *= AnswerabilityPenalty
		judgeFlagged = true
		judgeReason = "Evidence is topically related but doesn't answer the question: " + verdict.Reasoning
	}

	citations, err := o.citations.Extract(ctx, q, docs)
	if err != nil {
		// Fall back to raw evidence as citations.
		log.Printf("citation extraction failed, citing evidence directly: %v", err)
		citations = make([]domain.Citation, 0, len(evidence))
		for _, e := range evidence {
			citations = append(citations, e.ToCitation())
		}
	}

	draft, err := o.drafter.DraftAnswer(ctx, q, citations)
	if err != nil {
		telemetry.CaptureError(ctx, err)
		return domain.NewEscalatedResult(q, "", domain.ClampConfidence(score), citations,
			"Answer drafting failed",
			fmt.Sprintf("Drafting error: %v", err))
	}
	if draft.Malformed {
		return domain.NewEscalatedResult(q, "", malformedDraftConfidence, citations,
			draft.Reasoning,
			"Model returned unparseable output")
	}

	reasoning := draft.Reasoning
	if verdict.Reasoning != "" {
		reasoning = fmt.Sprintf("%s (answerability: %s)", reasoning, verdict.Reasoning)
	}

	switch {
	case judgeFlagged:
		return domain.NewEscalatedResult(q, draft.Answer, score, citations, reasoning, judgeReason)
	case score < o.cfg.ConfidenceThreshold:
		return domain.NewEscalatedResult(q, draft.Answer, score, citations, reasoning,
			fmt.Sprintf("Confidence %.2f below threshold %.2f", score, o.cfg.ConfidenceThreshold))
	default:
		return domain.NewRetrievedResult(q, draft.Answer, score, citations, reasoning)
	}
}

// LearnFromFeedback promotes an approved answer into the verified-answer
// cache and returns its fingerprint.
func (o *Orchestrator) LearnFromFeedback(ctx context.Context, question, approvedAnswer, evidenceSource string) (string, error) {
	return o.cache.Promote(ctx, question, approvedAnswer, evidenceSource)
}

// GetStats reports knowledge-base and directory counts.
func (o *Orchestrator) GetStats(ctx context.Context) (*Stats, error) {
	var stats Stats
	var err error

	if o.verifiedCounts != nil {
		if stats.VerifiedAnswers, err = o.verifiedCounts.Count(ctx); err != nil {
			return nil, err
		}
	}
	if o.chunkCounts != nil {
		if stats.Documents, err = o.chunkCounts.CountDocuments(ctx); err != nil {
			return nil, err
		}
		if stats.Chunks, err = o.chunkCounts.CountChunks(ctx); err != nil {
			return nil, err
		}
	}
	if o.employeeCounts != nil {
		if stats.Employees, err = o.employeeCounts.Count(ctx); err != nil {
			return nil, err
		}
	}

	return &stats, nil
}
