// Package agent orchestrates answering a single question: classify,
// retrieve methodology, apply deterministic rules, call the model, and
// parse the response into a structured draft.
package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"financeqa/internal/domain"
	"financeqa/internal/rules"
)

// ContextBudget caps the total characters of retrieved methodology
// injected into a prompt.
const ContextBudget = 6000

// Options tunes the orchestration.
type Options struct {
	TopK          int // chunks per retrieval, DefaultTopK when zero
	ContextBudget int
	Logger        *slog.Logger
}

// Agent answers questions against a fixed set of collaborators, all
// read-only after construction.
type Agent struct {
	classifier domain.Classifier
	retriever  domain.Retriever
	rules      *rules.Engine
	completer  domain.Completer
	topK       int
	budget     int
	log        *slog.Logger
}

// New wires an agent. classifier, retriever and completer are required;
// rules may be nil to disable deterministic hints.
func New(classifier domain.Classifier, retriever domain.Retriever, engine *rules.Engine, completer domain.Completer, opts Options) *Agent {
	budget := opts.ContextBudget
	if budget <= 0 {
		budget = ContextBudget
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Agent{
		classifier: classifier,
		retriever:  retriever,
		rules:      engine,
		completer:  completer,
		topK:       opts.TopK,
		budget:     budget,
		log:        log,
	}
}

// Answer resolves the question type, builds the prompt, invokes the
// model once, and parses the response. Model failures propagate to the
// caller; the retry discipline lives in the runner. An answer without
// an extractable value is still a valid draft, not an error.
func (a *Agent) Answer(ctx context.Context, q domain.Question) (domain.AnswerDraft, domain.QuestionType, error) {
	qtype := a.classifier.Classify(ctx, q)

	// Conceptual questions and tactical questions with insufficient
	// context get retrieved methodology; directly computable ones rely
	// on the provided context alone.
	methodology := ""
	usedRAG := false
	if qtype != domain.BasicTactical {
		retrieved := a.retriever.Retrieve(q.Text, a.topK)
		methodology = joinChunks(retrieved, a.budget)
		usedRAG = methodology != ""
	}

	var match domain.RuleMatch
	matched := false
	if a.rules != nil {
		match, matched = a.rules.Match(q)
	}

	req := domain.CompletionRequest{
		System: systemPrompt(qtype),
		User:   userPrompt(q, qtype, methodology, match, matched),
	}
	out, err := a.completer.Complete(ctx, req)
	if err != nil {
		return domain.AnswerDraft{}, qtype, fmt.Errorf("answer question %d: %w", q.ID, err)
	}

	draft := parseResponse(out)
	draft.UsedRAG = usedRAG
	if matched {
		draft.UsedRule = match.RuleName
	}
	a.log.Debug("answered",
		"question", q.ID,
		"type", string(qtype),
		"rag", usedRAG,
		"rule", draft.UsedRule,
		"has_value", draft.HasValue)
	return draft, qtype, nil
}

// joinChunks concatenates retrieved chunk texts in score order, capped
// at budget characters. A chunk that would overflow the budget is
// dropped rather than truncated mid-passage.
func joinChunks(results []domain.SearchResult, budget int) string {
	var b strings.Builder
	for _, r := range results {
		text := strings.TrimSpace(r.Chunk.Text)
		if text == "" {
			continue
		}
		need := len(text)
		if b.Len() > 0 {
			need += 2
		}
		if b.Len()+need > budget {
			break
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(text)
	}
	return b.String()
}
