package domain

// QuestionType categorizes how a benchmark question has to be answered.
type QuestionType string

const (
	// Conceptual questions require theoretical knowledge, no company data.
	Conceptual QuestionType = "conceptual"
	// BasicTactical questions can be computed directly from the provided context.
	BasicTactical QuestionType = "basic_tactical"
	// AssumptionTactical questions have context but require reasonable assumptions.
	AssumptionTactical QuestionType = "assumption_tactical"
)

// ParseQuestionType maps a free-form label to a QuestionType.
// Returns false for unknown labels.
func ParseQuestionType(s string) (QuestionType, bool) {
	switch QuestionType(s) {
	case Conceptual, BasicTactical, AssumptionTactical:
		return QuestionType(s), true
	}
	return "", false
}

// Question is a single benchmark item. Created from input data, never mutated.
type Question struct {
	ID             int
	Text           string
	Context        string // may be empty
	ExpectedAnswer string
	DeclaredType   QuestionType // empty when the dataset carries no label
}

// Chunk is a bounded-size slice of source text used as a retrieval unit.
// Chunks are immutable once created and owned by the Index.
type Chunk struct {
	ID          int
	Text        string
	Section     string // nearest heading, empty when none detected
	StartOffset int
}

// SearchResult is a matching chunk with its relevance score in [0,1].
type SearchResult struct {
	Chunk Chunk
	Score float64
}

// RuleMatch is the output of a deterministic calculation rule.
type RuleMatch struct {
	RuleName    string
	Value       float64
	Explanation string
}

// AnswerDraft is the structured result of answering one question.
// Not shared across questions.
type AnswerDraft struct {
	RawText     string  // full model response
	Value       float64 // first well-formed number in the final answer
	HasValue    bool
	FinalAnswer string // final-answer line as written by the model
	Assumptions string
	Reasoning   string
	UsedRAG     bool
	UsedRule    string // rule name, empty when no rule applied
}

// EvaluationResult records how a predicted answer compared to the
// reference. The normalized values used for the comparison are kept
// for auditability.
type EvaluationResult struct {
	QuestionID          int
	Correct             bool
	Predicted           string
	Expected            string
	NormalizedPredicted string
	NormalizedExpected  string
	PredictedNumeric    bool
	ExpectedNumeric     bool
	Delta               float64 // |predicted - expected|, numeric comparisons only
}

// RunStatus is the terminal state of one question in a batch run.
type RunStatus string

const (
	StatusOK      RunStatus = "ok"
	StatusSkipped RunStatus = "skipped"
	StatusFailed  RunStatus = "failed"
)

// ErrorKind annotates a RunOutcome with what went wrong (or what was
// missing). Non-fatal kinds can appear on StatusOK outcomes.
type ErrorKind string

const (
	ErrorKindNone             ErrorKind = ""
	ErrKindRetrievalEmpty     ErrorKind = "retrieval_empty"
	ErrKindAnswerUnparsable   ErrorKind = "answer_unparsable"
	ErrKindModelRateLimited   ErrorKind = "model_rate_limited"
	ErrKindModelHardFailure   ErrorKind = "model_hard_failure"
	ErrKindCanceled           ErrorKind = "canceled"
	ErrKindClassifierFallback ErrorKind = "classification_ambiguous"
)

// RunOutcome is the terminal record for one question. Exactly one is
// produced per input question, regardless of failures.
type RunOutcome struct {
	Question   Question
	Type       QuestionType
	Status     RunStatus
	Draft      *AnswerDraft
	Evaluation *EvaluationResult
	ErrorKind  ErrorKind
	Error      string
}
