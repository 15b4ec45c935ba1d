// Package chat runs the scripted tutor conversation: one submission at a time
// per session, a canned primary reply after a pause, and an optional simulated
// expert verification after a second pause.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ppiankov/studyprep/internal/model"
	"github.com/ppiankov/studyprep/internal/selector"
	"go.uber.org/zap"
)

var (
	// ErrBusy is returned when a session already has a submission in flight
	ErrBusy = errors.New("session is busy")

	// ErrEmptyInput is returned for blank submissions
	ErrEmptyInput = errors.New("empty input")
)

// Renderer receives messages as they are appended to the log
type Renderer interface {
	RenderMessage(msg model.ChatMessage)
}

// BusyIndicator is told when a submission starts and finishes
type BusyIndicator interface {
	SetBusy(busy bool)
}

// Hooks are the optional presentation collaborators of one submission
type Hooks struct {
	Renderer Renderer
	Busy     BusyIndicator
}

func (h Hooks) render(msg model.ChatMessage) {
	if h.Renderer != nil {
		h.Renderer.RenderMessage(msg)
	}
}

func (h Hooks) setBusy(busy bool) {
	if h.Busy != nil {
		h.Busy.SetBusy(busy)
	}
}

// Options tunes the engine's pauses
type Options struct {
	PrimaryDelay time.Duration
	VerifyDelay  time.Duration
}

// DefaultOptions returns the demo pauses
func DefaultOptions() Options {
	return Options{
		PrimaryDelay: 1500 * time.Millisecond,
		VerifyDelay:  2000 * time.Millisecond,
	}
}

// Engine orchestrates submissions. It holds no per-session state and may be
// shared by many sessions.
type Engine struct {
	selector  *selector.Selector
	generator Generator
	clock     Clock
	rnd       selector.Random
	opts      Options
	log       *zap.SugaredLogger
}

// Option customizes an Engine
type Option func(*Engine)

// WithGenerator replaces the canned generator
func WithGenerator(g Generator) Option {
	return func(e *Engine) { e.generator = g }
}

// WithClock replaces the wall clock
func WithClock(c Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithRandom replaces the verification random source
func WithRandom(r selector.Random) Option {
	return func(e *Engine) { e.rnd = r }
}

// WithOptions sets the pauses
func WithOptions(o Options) Option {
	return func(e *Engine) { e.opts = o }
}

// WithLogger sets the engine logger
func WithLogger(l *zap.SugaredLogger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// NewEngine creates an engine with canned replies, the wall clock and the
// process random source unless overridden
func NewEngine(s *selector.Selector, opts ...Option) *Engine {
	e := &Engine{
		selector: s,
		clock:    RealClock{},
		rnd:      selector.DefaultRandom(),
		opts:     DefaultOptions(),
		log:      zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.generator == nil {
		e.generator = NewCannedGenerator(s)
	}
	return e
}

// Selector returns the engine's selector
func (e *Engine) Selector() *selector.Selector {
	return e.selector
}

// Submit processes one question end-to-end and returns the messages it
// appended. A generation failure is not an error: it is answered with the
// fallback message. The busy flag is always cleared before Submit returns.
func (e *Engine) Submit(ctx context.Context, sess *Session, input string, hooks Hooks) (appended []model.ChatMessage, err error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, ErrEmptyInput
	}
	if !sess.TryAcquire() {
		return nil, ErrBusy
	}
	hooks.setBusy(true)
	defer func() {
		sess.Release()
		hooks.setBusy(false)
	}()

	emit := func(msg model.ChatMessage) {
		msg = sess.Append(msg)
		appended = append(appended, msg)
		hooks.render(msg)
	}

	emit(userMessage(input))

	topic := e.selector.Classify(input)
	sess.observeTopic(topic)
	log := e.log.With("session_id", sess.ID(), "topic", topic)

	if err := e.clock.Sleep(ctx, e.opts.PrimaryDelay); err != nil {
		return appended, fmt.Errorf("await primary reply: %w", err)
	}

	reply, genErr := e.generate(ctx, topic, input)
	if genErr != nil {
		log.Warnw("reply generation failed, sending fallback", "error", genErr)
		emit(fallbackMessage())
		return appended, nil
	}
	emit(assistantMessage(reply, topic))

	if !e.selector.RequiresVerification(topic, e.rnd) {
		log.Debugw("reply delivered", "verified", false)
		return appended, nil
	}

	if err := e.clock.Sleep(ctx, e.opts.VerifyDelay); err != nil {
		return appended, fmt.Errorf("await verification: %w", err)
	}

	v := e.selector.SelectVerification(topic, e.rnd)
	emit(verifiedMessage(v))
	log.Debugw("reply delivered", "verified", true, "verifier", v.Verifier)

	return appended, nil
}

// generate calls the generator and converts a panic into an error
func (e *Engine) generate(ctx context.Context, topic model.Topic, input string) (reply Reply, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("generator panic: %v", r)
		}
	}()

	reply, err = e.generator.Generate(ctx, topic, input)
	if err != nil {
		return Reply{}, err
	}
	if strings.TrimSpace(reply.Text) == "" {
		return Reply{}, fmt.Errorf("generator returned an empty reply")
	}
	return reply, nil
}
