package worker

import (
	"bufio"
	"context"
	"fmt"
	"errors"
	"os"
	"strings"

	"github.com/ppiankov/studyprep/internal/chat"
	"github.com/ppiankov/studyprep/internal/model"
)

// ErrNotProcessed marks a question the batch stopped before answering
var ErrNotProcessed = errors.New("question not processed")

// batchKey is the limiter key shared by every question of a batch
const batchKey = "batch"

// Submitter runs one question through a session
type Submitter interface {
	Submit(ctx context.Context, sess *chat.Session, input string, hooks chat.Hooks) ([]model.ChatMessage, error)
}

// QuestionJob asks one question in a fresh session
type QuestionJob struct {
	Index     int
	Question  string
	Submitter Submitter
	Limiter   *Limiter
}

// Execute runs the question and exports the resulting session
func (j *QuestionJob) Execute(ctx context.Context) Result {
	result := &BatchResult{Index: j.Index, Question: j.Question}

	if j.Limiter != nil {
		if err := j.Limiter.Wait(ctx, batchKey); err != nil {
			result.Error = fmt.Errorf("rate limit: %w", err)
			return result
		}
	}

	sess := chat.NewSession("")
	messages, err := j.Submitter.Submit(ctx, sess, j.Question, chat.Hooks{})
	result.Messages = messages
	result.Transcript = chat.Export(sess)
	if err != nil {
		result.Error = err
	}
	return result
}

// BatchResult is the outcome of one question
type BatchResult struct {
	Index      int
	Question   string
	Messages   []model.ChatMessage
	Transcript model.Transcript
	Error      error
}

// GetError returns the error from the batch result
func (r *BatchResult) GetError() error {
	return r.Error
}

// BatchProcessor answers many questions concurrently
type BatchProcessor struct {
	submitter   Submitter
	concurrency int
	limiter     *Limiter
}

// NewBatchProcessor creates a new batch processor. A non-positive rps disables limiting.
func NewBatchProcessor(submitter Submitter, concurrency int, rps float64, burst int) *BatchProcessor {
	return &BatchProcessor{
		submitter:   submitter,
		concurrency: concurrency,
		limiter:     NewLimiter(rps, burst),
	}
}

// ProcessQuestions answers every question and returns one result per question
// in input order. Questions a cancelled context kept from finishing carry the
// context error.
func (b *BatchProcessor) ProcessQuestions(ctx context.Context, questions []string) []*BatchResult {
	results := make([]*BatchResult, len(questions))
	if len(questions) == 0 {
		return results
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()
	defer pool.Shutdown()

	// Submitting and collecting concurrently keeps the bounded queues moving
	go func() {
		for i, q := range questions {
			if !pool.Submit(&QuestionJob{
				Index:     i,
				Question:  q,
				Submitter: b.submitter,
				Limiter:   b.limiter,
			}) {
				break
			}
		}
		pool.Close()
	}()

	for r := range pool.Results() {
		res := r.(*BatchResult)
		results[res.Index] = res
	}

	for i, res := range results {
		if res != nil {
			continue
		}
		err := ErrNotProcessed
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = fmt.Errorf("%w: %w", ErrNotProcessed, ctxErr)
		}
		results[i] = &BatchResult{Index: i, Question: questions[i], Error: err}
	}

	return results
}

// ProcessFile reads questions from a file and answers them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*BatchResult, error) {
	questions, err := ReadQuestionsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read questions: %w", err)
	}

	return b.ProcessQuestions(ctx, questions), nil
}

// ReadQuestionsFromFile reads questions from a file (one per line)
func ReadQuestionsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var questions []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			questions = append(questions, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return questions, nil
}
