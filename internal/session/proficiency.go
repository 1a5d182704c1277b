// Package session drives a practice session: word presentation, self-rating
// and weak-word repeat rounds.
package session

import "github.com/verte-zerg/wordcram/internal/model"

// Apply returns word updated with a confirmed rating.
// Repeat resets proficiency to its weight; other ratings add their weight.
func Apply(word model.Word, level model.Level) model.Word {
	if level == model.Unselected || !level.IsValid() {
		return word
	}
	if level == model.Repeat {
		word.Proficiency = model.Repeat.Weight()
	} else {
		word.Proficiency += level.Weight()
	}
	word.LastLevel = level
	return word
}
