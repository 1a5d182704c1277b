// Package model defines shared data structures.
package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// FinishedProficiency is the proficiency at which a word counts as learned.
const FinishedProficiency = 100

// Level is a self-assessed difficulty rating.
type Level int

const (
	Unselected Level = iota
	Repeat
	Hard
	Normal
	Simple
)

var (
	levelNames   = [...]string{Unselected: "Unselected", Repeat: "Repeat", Hard: "Hard", Normal: "Normal", Simple: "Simple"}
	levelWeights = [...]int{Unselected: 0, Repeat: -3, Hard: 1, Normal: 3, Simple: 5}
	levelByName  = map[string]Level{
		"Unselected": Unselected,
		"Repeat":     Repeat,
		"Hard":       Hard,
		"Normal":     Normal,
		"Simple":     Simple,
	}
)

// Levels lists the selectable ratings in cycle order.
var Levels = []Level{Repeat, Hard, Normal, Simple}

// IsValid reports whether l is a known level.
func (l Level) IsValid() bool {
	return l >= Unselected && l <= Simple
}

// Weight returns the proficiency weight attached to the level.
func (l Level) Weight() int {
	if !l.IsValid() {
		return 0
	}
	return levelWeights[l]
}

// Next returns the following rating in the selection cycle.
// Unselected is only a starting point and is never returned.
func (l Level) Next() Level {
	switch l {
	case Repeat:
		return Hard
	case Hard:
		return Normal
	case Normal:
		return Simple
	default:
		return Repeat
	}
}

// String returns the level name. For invalid values it returns "Level(n)".
func (l Level) String() string {
	if l.IsValid() {
		return levelNames[l]
	}
	return fmt.Sprintf("Level(%d)", int(l))
}

// Label returns the name shown in the status panel.
func (l Level) Label() string {
	if l == Unselected {
		return "Not Selected"
	}
	return l.String()
}

// MarshalText implements encoding.TextMarshaler.
func (l Level) MarshalText() ([]byte, error) {
	if !l.IsValid() {
		return nil, fmt.Errorf("invalid level: %d", int(l))
	}
	return []byte(levelNames[l]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Level) UnmarshalText(text []byte) error {
	v, ok := levelByName[string(text)]
	if !ok {
		return fmt.Errorf("invalid level: %q", text)
	}
	*l = v
	return nil
}

// Word is the learning record for one term. The term itself is the map key.
type Word struct {
	Translation string `json:"translation"`
	Proficiency int    `json:"proficiency"`
	LastLevel   Level  `json:"last_level"`
}

// Finished reports whether the word reached FinishedProficiency.
func (w Word) Finished() bool {
	return w.Proficiency >= FinishedProficiency
}

// UnmarshalJSON accepts the legacy "chinese" key for the translation.
func (w *Word) UnmarshalJSON(data []byte) error {
	var raw struct {
		Translation *string `json:"translation"`
		Chinese     *string `json:"chinese"`
		Proficiency int     `json:"proficiency"`
		LastLevel   Level   `json:"last_level"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	w.Proficiency = raw.Proficiency
	w.LastLevel = raw.LastLevel
	w.Translation = ""
	switch {
	case raw.Translation != nil:
		w.Translation = *raw.Translation
	case raw.Chinese != nil:
		w.Translation = *raw.Chinese
	}
	return nil
}

// Config defines practice settings.
type Config struct {
	WordListPath   string
	DataPath       string
	HistoryPath    string
	Count          int
	MaxProficiency int
	Shuffle        bool
	NoHistory      bool
}

// StatsConfig defines options for stats output.
type StatsConfig struct {
	DataPath    string
	HistoryPath string
	Limit       int
	Top         int
}

// Review is one confirmed rating, as stored in the history database.
type Review struct {
	Term            string
	Level           Level
	ProficiencyFrom int
	ProficiencyTo   int
	Round           int
	ReviewedAt      time.Time
}

// SessionAggregate summarizes a practice session for reporting.
type SessionAggregate struct {
	ID        string
	StartedAt time.Time
	EndedAt   time.Time
	Source    string
	Rounds    int
	Reviews   int
}

// LevelCount counts history reviews per rating.
type LevelCount struct {
	Level Level
	Count int
}

// TermAggregate aggregates the reviews of one term.
type TermAggregate struct {
	Term    string
	Reviews int
	Repeats int
}
