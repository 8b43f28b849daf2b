package domain

// Planet is one of the ten archetype categories.
type Planet string

const (
	Earth   Planet = "Earth"
	Mars    Planet = "Mars"
	Venus   Planet = "Venus"
	Mercury Planet = "Mercury"
	Jupiter Planet = "Jupiter"
	Saturn  Planet = "Saturn"
	Neptune Planet = "Neptune"
	Uranus  Planet = "Uranus"
	Moon    Planet = "Moon"
	Sun     Planet = "Sun"
)

// Planets returns the canonical planet order. Callers get a fresh slice.
func Planets() []Planet {
	return []Planet{Earth, Mars, Venus, Mercury, Jupiter, Saturn, Neptune, Uranus, Moon, Sun}
}

// Valid reports whether p is one of the ten known planets.
func (p Planet) Valid() bool {
	for _, known := range Planets() {
		if p == known {
			return true
		}
	}
	return false
}

// AnswerChoice is a single selected option letter on a quiz question.
type AnswerChoice string

// ScoreTable tallies points per planet. Tables built by the scorers always
// carry every planet, zero included.
type ScoreTable map[Planet]int

// Total sums every planet's points.
func (t ScoreTable) Total() int {
	total := 0
	for _, v := range t {
		total += v
	}
	return total
}

// ArchetypeResult is the outcome of scoring one quiz submission.
// Scored is false when no answer matched; Archetype then holds the
// scorer's fallback planet.
type ArchetypeResult struct {
	Answers   []AnswerChoice `json:"answers"`
	Scores    ScoreTable     `json:"scores"`
	Archetype Planet         `json:"archetype"`
	Scored    bool           `json:"scored"`
}

// Planet returns the archetype only when the result was actually scored.
func (r ArchetypeResult) Planet() (Planet, bool) {
	if !r.Scored {
		return "", false
	}
	return r.Archetype, true
}
