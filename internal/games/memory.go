package games

import (
	"encoding/json"
	"time"

	"github.com/arcadeworks/arcade-go/internal/rng"
	"github.com/arcadeworks/arcade-go/internal/session"
)

// MemoryGame implements card-pair matching. The board holds 2*pairs
// cards; a move flips two distinct unmatched cards and they stay
// matched when their symbols agree.
type MemoryGame struct{}

const (
	memoryEasyPairs   = 6
	memoryMediumPairs = 8
	memoryHardPairs   = 12

	memoryBasePerPair   = 100.0
	memoryMovePenalty   = 15.0
	memoryTimePerSecond = 2.0
)

var memorySymbols = []string{
	"anchor", "bell", "cherry", "crown", "diamond", "flame",
	"heart", "leaf", "moon", "rocket", "star", "sun",
	"wave", "bolt", "clover", "key",
}

type memoryCard struct {
	ID      int    `json:"id"`
	Symbol  string `json:"symbol"` // secret until matched or revealed
	Matched bool   `json:"matched"`
}

type memoryContent struct {
	Pairs int          `json:"pairs"`
	Cards []memoryCard `json:"cards"`
}

type memoryMove struct {
	CardIDs []int `json:"card_ids"`
}

// Spec returns metadata about the memory game.
func (g *MemoryGame) Spec() Spec {
	return Spec{
		ID:   "memory",
		Name: "Memory Pairs",
		Difficulties: []session.Difficulty{
			session.DifficultyEasy, session.DifficultyMedium, session.DifficultyHard,
		},
	}
}

func memoryPairs(d session.Difficulty) int {
	switch d {
	case session.DifficultyMedium:
		return memoryMediumPairs
	case session.DifficultyHard:
		return memoryHardPairs
	default:
		return memoryEasyPairs
	}
}

// Generate builds a shuffled board of symbol pairs.
func (g *MemoryGame) Generate(cfg session.Config, stream *rng.Stream) (json.RawMessage, error) {
	pairs := memoryPairs(cfg.Difficulty)

	symbols := make([]string, len(memorySymbols))
	copy(symbols, memorySymbols)
	stream.Shuffle(len(symbols), func(i, j int) {
		symbols[i], symbols[j] = symbols[j], symbols[i]
	})

	deck := make([]string, 0, pairs*2)
	for _, sym := range symbols[:pairs] {
		deck = append(deck, sym, sym)
	}
	stream.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})

	content := memoryContent{Pairs: pairs, Cards: make([]memoryCard, len(deck))}
	for i, sym := range deck {
		content.Cards[i] = memoryCard{ID: i, Symbol: sym}
	}

	return json.Marshal(content)
}

// Apply flips a pair of cards.
func (g *MemoryGame) Apply(s *session.Session, action json.RawMessage, now time.Time) (Outcome, error) {
	var move memoryMove
	if err := decodeAction(action, &move); err != nil {
		return Outcome{}, err
	}

	var content memoryContent
	if err := decodeContent(s, &content); err != nil {
		return Outcome{}, err
	}

	if len(move.CardIDs) != 2 {
		return Outcome{}, session.InvalidActionError("a move requires exactly 2 card ids, got %d", len(move.CardIDs))
	}
	a, b := move.CardIDs[0], move.CardIDs[1]
	if a == b {
		return Outcome{}, session.InvalidActionError("card ids must be distinct, got %d twice", a)
	}
	for _, id := range move.CardIDs {
		if id < 0 || id >= len(content.Cards) {
			return Outcome{}, session.InvalidActionError("card id %d is not on the board", id)
		}
		if content.Cards[id].Matched {
			return Outcome{}, session.InvalidActionError("card %d is already matched", id)
		}
	}

	s.Progress.Moves++
	s.Progress.Attempts++

	match := content.Cards[a].Symbol == content.Cards[b].Symbol
	outcome := Outcome{
		Result: ResultIncorrect,
		Details: map[string]any{
			"match": match,
			"cards": []map[string]any{
				{"id": a, "symbol": content.Cards[a].Symbol},
				{"id": b, "symbol": content.Cards[b].Symbol},
			},
		},
	}

	if match {
		content.Cards[a].Matched = true
		content.Cards[b].Matched = true
		s.Progress.Matches++
		s.Progress.Streak++
		if s.Progress.Streak > s.Progress.BestStreak {
			s.Progress.BestStreak = s.Progress.Streak
		}
		outcome.Result = ResultCorrect
	} else {
		s.Progress.Streak = 0
	}

	outcome.Details["matches"] = s.Progress.Matches
	outcome.Details["pairs"] = content.Pairs

	if s.Progress.Matches == content.Pairs {
		s.Completed = true
	}

	if err := encodeContent(s, &content); err != nil {
		return Outcome{}, err
	}
	return outcome, nil
}

// Score rewards finishing a board in few moves and little time.
func (g *MemoryGame) Score(cfg session.Config, p session.Progress) int {
	pairs := memoryPairs(cfg.Difficulty)
	if p.Matches < pairs {
		return 0
	}

	base := float64(pairs) * memoryBasePerPair * cfg.Difficulty.Multiplier()
	raw := base -
		excessPenalty(p.Moves, pairs, memoryMovePenalty) -
		timePenalty(p.ElapsedMs, memoryTimePerSecond)
	return clampScore(raw)
}

// SecretFields lists keys stripped from projected content.
func (g *MemoryGame) SecretFields() []string {
	return []string{"symbol"}
}
