package simplify

import "time"

// Difficulty is the learner level a study guide is written for.
type Difficulty string

const (
	Beginner     Difficulty = "beginner"
	Intermediate Difficulty = "intermediate"
	Advanced     Difficulty = "advanced"
)

// ParseDifficulty maps user input onto a Difficulty, defaulting to intermediate.
func ParseDifficulty(s string) Difficulty {
	switch d := Difficulty(s); d {
	case Beginner, Intermediate, Advanced:
		return d
	}
	return Intermediate
}

// ChunkPosition tells the model where a chunk sits in the whole text.
type ChunkPosition struct {
	Index int
	Total int
}

// StudySession is one model-proposed block of study time.
type StudySession struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	DurationMinutes int    `json:"durationMinutes"`
	DayOffset       int    `json:"dayOffset"`
	TimeOfDay       string `json:"timeOfDay"`
}

// QuizQuestion is a multiple-choice question; CorrectAnswer indexes Options.
type QuizQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

// Chat roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one turn of a tutoring conversation.
type ChatMessage struct {
	Role      string    `json:"role" firestore:"role"`
	Content   string    `json:"content" firestore:"content"`
	Timestamp time.Time `json:"timestamp" firestore:"createdAt"`
}
