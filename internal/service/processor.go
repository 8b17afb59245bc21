package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"phongtro/internal/model"
)

// ApologyMessage is returned verbatim whenever the answer pipeline fails.
// Users see one stable Vietnamese message regardless of which stage broke.
const ApologyMessage = "Xin lỗi, tôi đang gặp sự cố. Vui lòng thử lại sau."

// SearchIndex is the retrieval surface the processor queries.
type SearchIndex interface {
	Query(ctx context.Context, text string, topK int) ([]model.Room, error)
}

// SearchLogger records one search interaction for analytics. Implemented by
// PostgresRepository.
type SearchLogger interface {
	LogSearch(ctx context.Context, searchID, question string, criteria model.Criteria, resultCount, responseTimeMS int, userID, sessionID string) error
}

// QuestionProcessor runs a user question through the full answer pipeline:
// criteria extraction, vector retrieval, structured filtering, prompt
// construction, completion, and directive parsing.
type QuestionProcessor struct {
	extractor *Extractor
	filter    *Filter
	prompts   *PromptBuilder
	parser    *ResponseParser
	provider  CompletionProvider
	index     SearchIndex
	logger    SearchLogger
	topK      int
}

// NewQuestionProcessor wires the pipeline together. logger may be nil, in
// which case searches are not recorded.
func NewQuestionProcessor(
	extractor *Extractor,
	filter *Filter,
	prompts *PromptBuilder,
	parser *ResponseParser,
	provider CompletionProvider,
	index SearchIndex,
	logger SearchLogger,
	topK int,
) *QuestionProcessor {
	if topK <= 0 {
		topK = 15
	}
	return &QuestionProcessor{
		extractor: extractor,
		filter:    filter,
		prompts:   prompts,
		parser:    parser,
		provider:  provider,
		index:     index,
		logger:    logger,
		topK:      topK,
	}
}

// Process answers one question. Pipeline failures never surface to the
// caller as errors: the result degrades to the fixed apology message.
func (p *QuestionProcessor) Process(ctx context.Context, question, userID, sessionID string) model.ChatResult {
	start := time.Now()

	result, resultCount, criteria, err := p.answer(ctx, question)
	if err != nil {
		log.Printf("Error processing question: %v", err)
		result = model.ChatResult{
			Response: ApologyMessage,
			Type:     model.ResponseTypeText,
		}
	}

	p.logSearch(question, criteria, resultCount, int(time.Since(start).Milliseconds()), userID, sessionID)
	return result
}

func (p *QuestionProcessor) answer(ctx context.Context, question string) (model.ChatResult, int, model.Criteria, error) {
	criteria := p.extractor.Extract(question)

	searchText := BuildSearchQuery(question, criteria)
	candidates, err := p.index.Query(ctx, searchText, p.topK)
	if err != nil {
		return model.ChatResult{}, 0, criteria, fmt.Errorf("vector search failed: %w", err)
	}

	filtered := p.filter.Apply(candidates, criteria)
	log.Printf("Retrieved %d candidates, %d after filtering", len(candidates), len(filtered))

	prompt := p.prompts.Build(question, filtered, criteria)
	reply, err := p.provider.Complete(ctx, SystemInstructions, prompt)
	if err != nil {
		return model.ChatResult{}, len(filtered), criteria, fmt.Errorf("completion failed: %w", err)
	}

	result := p.parser.Parse(ctx, reply, filtered)
	return result, len(filtered), criteria, nil
}

// logSearch records the interaction without blocking the response path.
func (p *QuestionProcessor) logSearch(question string, criteria model.Criteria, resultCount, elapsedMS int, userID, sessionID string) {
	if p.logger == nil {
		return
	}
	searchID := uuid.NewString()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := p.logger.LogSearch(ctx, searchID, question, criteria, resultCount, elapsedMS, userID, sessionID); err != nil {
			log.Printf("Warning: failed to log search %s: %v", searchID, err)
		}
	}()
}

// BuildSearchQuery enriches the raw question with extracted criteria before
// embedding, pulling semantically close documents even when the question
// phrases things obliquely.
func BuildSearchQuery(question string, criteria model.Criteria) string {
	lower := strings.ToLower(question)
	parts := []string{question}

	if criteria.Location != "" && !strings.Contains(lower, strings.ToLower(criteria.Location)) {
		parts = append(parts, criteria.Location)
	}
	if criteria.Area != nil && !criteria.Area.UnboundedAbove() {
		parts = append(parts, fmt.Sprintf("%.0fm2 đến %.0fm2", criteria.Area.Min, criteria.Area.Max))
	}
	if criteria.Category != "" {
		readable := strings.ReplaceAll(criteria.Category, "-", " ")
		if !strings.Contains(lower, readable) {
			parts = append(parts, readable)
		}
	}
	parts = append(parts, criteria.Amenities...)

	return strings.Join(parts, " ")
}
