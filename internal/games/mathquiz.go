package games

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/arcadeworks/arcade-go/internal/rng"
	"github.com/arcadeworks/arcade-go/internal/session"
)

// MathQuizGame implements a generated arithmetic quiz. Each question is
// answered at most once; answering an already-answered question is an
// invalid action rather than an idempotent replay.
type MathQuizGame struct{}

const (
	quizEasyQuestions   = 5
	quizMediumQuestions = 8
	quizHardQuestions   = 10

	quizEasyPoints   = 10
	quizMediumPoints = 15
	quizHardPoints   = 20

	quizStreakBonus   = 5.0
	quizTimePerSecond = 1.0
)

type quizQuestion struct {
	ID       int    `json:"id"`
	Prompt   string `json:"prompt"`
	Answer   int    `json:"answer"` // secret
	Points   int    `json:"points"`
	Answered bool   `json:"answered"`
	Correct  bool   `json:"correct"`
}

type quizContent struct {
	Questions []quizQuestion `json:"questions"`
}

type quizAnswer struct {
	QuestionID int `json:"question_id"`
	Answer     int `json:"answer"`
}

// Spec returns metadata about the math quiz.
func (g *MathQuizGame) Spec() Spec {
	return Spec{
		ID:   "mathquiz",
		Name: "Math Quiz",
		Difficulties: []session.Difficulty{
			session.DifficultyEasy, session.DifficultyMedium, session.DifficultyHard,
		},
	}
}

func quizShape(d session.Difficulty) (count, points, operandMax int, ops []byte) {
	switch d {
	case session.DifficultyMedium:
		return quizMediumQuestions, quizMediumPoints, 50, []byte{'+', '-', '*'}
	case session.DifficultyHard:
		return quizHardQuestions, quizHardPoints, 100, []byte{'+', '-', '*'}
	default:
		return quizEasyQuestions, quizEasyPoints, 20, []byte{'+', '-'}
	}
}

// Generate builds the question set from the seeded stream.
func (g *MathQuizGame) Generate(cfg session.Config, stream *rng.Stream) (json.RawMessage, error) {
	count, points, operandMax, ops := quizShape(cfg.Difficulty)

	content := quizContent{Questions: make([]quizQuestion, count)}
	for i := 0; i < count; i++ {
		a := stream.IntRange(1, operandMax)
		b := stream.IntRange(1, operandMax)
		op := ops[stream.Intn(len(ops))]

		var answer int
		switch op {
		case '+':
			answer = a + b
		case '-':
			if b > a {
				a, b = b, a // keep answers non-negative
			}
			answer = a - b
		case '*':
			b = stream.IntRange(2, 12)
			answer = a * b
		}

		content.Questions[i] = quizQuestion{
			ID:     i,
			Prompt: fmt.Sprintf("%d %c %d", a, op, b),
			Answer: answer,
			Points: points,
		}
	}

	return json.Marshal(content)
}

// Apply grades one answer.
func (g *MathQuizGame) Apply(s *session.Session, action json.RawMessage, now time.Time) (Outcome, error) {
	var ans quizAnswer
	if err := decodeAction(action, &ans); err != nil {
		return Outcome{}, err
	}

	var content quizContent
	if err := decodeContent(s, &content); err != nil {
		return Outcome{}, err
	}

	if ans.QuestionID < 0 || ans.QuestionID >= len(content.Questions) {
		return Outcome{}, session.InvalidActionError("question %d does not exist", ans.QuestionID)
	}
	q := &content.Questions[ans.QuestionID]
	if q.Answered {
		return Outcome{}, session.InvalidActionError("question %d is already answered", ans.QuestionID)
	}

	q.Answered = true
	q.Correct = ans.Answer == q.Answer

	s.Progress.Moves++
	s.Progress.Attempts++
	s.Progress.Index++

	outcome := Outcome{
		Result: ResultIncorrect,
		Details: map[string]any{
			"question_id":    q.ID,
			"correct_answer": q.Answer,
		},
	}

	if q.Correct {
		s.Progress.Matches++
		s.Progress.Score += q.Points
		s.Progress.Streak++
		if s.Progress.Streak > s.Progress.BestStreak {
			s.Progress.BestStreak = s.Progress.Streak
		}
		outcome.Result = ResultCorrect
		outcome.Details["points"] = q.Points
	} else {
		s.Progress.Streak = 0
	}

	outcome.Details["current_score"] = s.Progress.Score
	outcome.Details["answered"] = s.Progress.Index
	outcome.Details["total"] = len(content.Questions)

	if s.Progress.Index == len(content.Questions) {
		s.Completed = true
	}

	if err := encodeContent(s, &content); err != nil {
		return Outcome{}, err
	}
	return outcome, nil
}

// Score is the running score plus a best-streak bonus minus a small
// time penalty.
func (g *MathQuizGame) Score(cfg session.Config, p session.Progress) int {
	raw := float64(p.Score)*cfg.Difficulty.Multiplier() +
		float64(p.BestStreak)*quizStreakBonus -
		timePenalty(p.ElapsedMs, quizTimePerSecond)
	return clampScore(raw)
}

// SecretFields lists keys stripped from projected content.
func (g *MathQuizGame) SecretFields() []string {
	return []string{"answer"}
}
