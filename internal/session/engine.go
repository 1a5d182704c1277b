package session

import (
	"time"

	"github.com/verte-zerg/wordcram/internal/generator"
	"github.com/verte-zerg/wordcram/internal/model"
	"github.com/verte-zerg/wordcram/internal/progress"
)

// Phase is the state of the current item.
type Phase int

const (
	PhasePresenting Phase = iota // word shown, translation hidden
	PhaseRevealed                // translation and ratings shown
	PhaseDone                    // no items left or the user quit
)

// ActionKind identifies an abstract user action.
type ActionKind int

const (
	ActionReveal ActionKind = iota + 1
	ActionCycle
	ActionConfirm
	ActionSubmit // reveal when presenting, confirm when revealed
	ActionClear  // cycle the rating when revealed, clear input otherwise
	ActionType
	ActionBackspace
	ActionQuit
)

// Action is one user input already decoded from the terminal.
type Action struct {
	Kind ActionKind
	Char rune
}

// Cursor is the item currently on screen.
type Cursor struct {
	Term     string
	Word     model.Word
	Revealed bool
	Selected model.Level
	Typed    []rune
	Done     bool
}

// Saver persists the progress store. A returned error is fatal.
type Saver func(st *progress.Store) error

// Recorder receives every confirmed rating.
type Recorder interface {
	RecordReview(review model.Review)
}

// Options controls how the first round is built and ordered.
type Options struct {
	Count          int
	MaxProficiency int
	Shuffle        bool
	Seed           int64
}

// Engine is the session state machine. It is not safe for concurrent use.
type Engine struct {
	store    *progress.Store
	save     Saver
	recorder Recorder
	gen      *generator.Generator
	shuffle  bool
	now      func() time.Time

	fromList bool
	working  map[string]model.Word
	order    []string
	index    int
	round    int
	reviews  int
	cursor   Cursor
	done     bool
}

// New builds an engine. When words is empty the first round is drawn from
// the store with progress.Select.
func New(st *progress.Store, words map[string]model.Word, opts Options, save Saver, rec Recorder) *Engine {
	if st == nil {
		st = progress.New()
	}
	fromList := len(words) > 0
	working := progress.Clone(words)
	if !fromList {
		working = progress.Select(st, opts.Count, opts.MaxProficiency)
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Engine{
		store:    st,
		save:     save,
		recorder: rec,
		gen:      generator.NewSeeded(seed),
		shuffle:  opts.Shuffle,
		now:      time.Now,
		fromList: fromList,
		working:  working,
	}
}

// Start positions the engine on the first item. An empty working set ends
// the session right away after persisting the store.
func (e *Engine) Start() error {
	e.beginRound(e.working)
	return e.advance()
}

// Handle applies one abstract action.
func (e *Engine) Handle(a Action) error {
	switch a.Kind {
	case ActionReveal:
		e.Reveal()
	case ActionCycle:
		e.CycleRating()
	case ActionConfirm:
		return e.Confirm()
	case ActionSubmit:
		if e.Phase() == PhasePresenting {
			e.Reveal()
			return nil
		}
		return e.Confirm()
	case ActionClear:
		if e.Phase() == PhaseRevealed {
			e.CycleRating()
			return nil
		}
		e.ClearInput()
	case ActionType:
		e.TypeChar(a.Char)
	case ActionBackspace:
		e.Backspace()
	case ActionQuit:
		return e.Quit()
	}
	return nil
}

// Reveal shows the translation of the current word.
func (e *Engine) Reveal() {
	if e.Phase() != PhasePresenting {
		return
	}
	e.cursor.Revealed = true
	e.cursor.Typed = nil
}

// CycleRating moves the selected rating to the next level.
func (e *Engine) CycleRating() {
	if e.Phase() != PhaseRevealed {
		return
	}
	e.cursor.Selected = e.cursor.Selected.Next()
	e.cursor.Typed = nil
}

// ClearInput drops the typed characters.
func (e *Engine) ClearInput() {
	if e.done {
		return
	}
	e.cursor.Typed = nil
}

// Confirm applies the selected rating and moves to the next item. Without a
// selected rating it does nothing.
func (e *Engine) Confirm() error {
	if e.Phase() != PhaseRevealed {
		return nil
	}
	level := e.cursor.Selected
	if level == model.Unselected {
		return nil
	}
	before := e.working[e.cursor.Term]
	after := Apply(before, level)
	e.working[e.cursor.Term] = after
	e.reviews++
	if e.recorder != nil {
		e.recorder.RecordReview(model.Review{
			Term:            e.cursor.Term,
			Level:           level,
			ProficiencyFrom: before.Proficiency,
			ProficiencyTo:   after.Proficiency,
			Round:           e.round,
			ReviewedAt:      e.now(),
		})
	}
	e.cursor.Word = after
	e.cursor.Done = true
	e.cursor.Revealed = false
	e.cursor.Selected = model.Unselected
	e.cursor.Typed = nil
	return e.advance()
}

// TypeChar appends r to the typed input, bounded by the term length.
func (e *Engine) TypeChar(r rune) {
	if e.Phase() != PhasePresenting {
		return
	}
	if len(e.cursor.Typed) >= len([]rune(e.cursor.Term)) {
		return
	}
	e.cursor.Typed = append(e.cursor.Typed, r)
}

// Backspace removes the last typed character.
func (e *Engine) Backspace() {
	if e.done || len(e.cursor.Typed) == 0 {
		return
	}
	e.cursor.Typed = e.cursor.Typed[:len(e.cursor.Typed)-1]
}

// Quit merges what was rated so far, saves and ends the session.
func (e *Engine) Quit() error {
	if e.done {
		return nil
	}
	e.done = true
	return e.persist()
}

// Phase reports the state of the current item.
func (e *Engine) Phase() Phase {
	switch {
	case e.done:
		return PhaseDone
	case e.cursor.Revealed:
		return PhaseRevealed
	default:
		return PhasePresenting
	}
}

// Cursor returns a copy of the current item.
func (e *Engine) Cursor() Cursor {
	c := e.cursor
	c.Typed = append([]rune(nil), e.cursor.Typed...)
	return c
}

// Done reports whether the session has ended.
func (e *Engine) Done() bool {
	return e.done
}

// Round returns the 1-based round number.
func (e *Engine) Round() int {
	return e.round
}

// Reviews returns the number of confirmed ratings.
func (e *Engine) Reviews() int {
	return e.reviews
}

// WorkingSize returns the number of words in the current round.
func (e *Engine) WorkingSize() int {
	return len(e.working)
}

// Remaining returns how many items of the round are not yet shown.
func (e *Engine) Remaining() int {
	return len(e.order) - e.index
}

// FromWordList reports whether the first round came from a word list.
func (e *Engine) FromWordList() bool {
	return e.fromList
}

// Working returns a copy of the current round's working set.
func (e *Engine) Working() map[string]model.Word {
	return progress.Clone(e.working)
}

// Store returns the progress store the engine merges into.
func (e *Engine) Store() *progress.Store {
	return e.store
}

func (e *Engine) beginRound(words map[string]model.Word) {
	e.round++
	e.working = words
	e.order = e.gen.Order(progress.SortedTerms(words), e.shuffle)
	e.index = 0
}

func (e *Engine) advance() error {
	for !e.done {
		if e.index < len(e.order) {
			term := e.order[e.index]
			e.index++
			e.cursor = Cursor{Term: term, Word: e.working[term]}
			return nil
		}
		if err := e.finishRound(); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) finishRound() error {
	if err := e.persist(); err != nil {
		e.done = true
		return err
	}
	weak := progress.Weak(e.working)
	if len(weak) == 0 {
		e.done = true
		return nil
	}
	e.beginRound(weak)
	return nil
}

func (e *Engine) persist() error {
	e.store.Merge(e.working)
	if e.save == nil {
		return nil
	}
	return e.save(e.store)
}
