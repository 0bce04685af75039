// Package model defines shared data structures.
package model

import (
	"fmt"
	"strings"
	"time"
)

// Status is the top-level phase of a game session.
type Status int

const (
	StatusMenu Status = iota
	StatusStory
	StatusLoading
	StatusPlaying
	StatusLevelComplete
	StatusGameOver
	StatusVictory
)

var statusNames = [...]string{
	StatusMenu:          "MENU",
	StatusStory:         "STORY",
	StatusLoading:       "LOADING",
	StatusPlaying:       "PLAYING",
	StatusLevelComplete: "LEVEL_COMPLETE",
	StatusGameOver:      "GAME_OVER",
	StatusVictory:       "VICTORY",
}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return fmt.Sprintf("Status(%d)", int(s))
	}
	return statusNames[s]
}

// Terminal reports whether the run has ended.
func (s Status) Terminal() bool {
	return s == StatusGameOver || s == StatusVictory
}

// Difficulty is a named preset scaling boss speed and damage.
type Difficulty int

const (
	DifficultyEasy Difficulty = iota
	DifficultyNormal
	DifficultyHard
)

// Difficulties lists all tiers in menu order.
var Difficulties = []Difficulty{DifficultyEasy, DifficultyNormal, DifficultyHard}

func (d Difficulty) String() string {
	switch d {
	case DifficultyEasy:
		return "easy"
	case DifficultyNormal:
		return "normal"
	case DifficultyHard:
		return "hard"
	default:
		return fmt.Sprintf("Difficulty(%d)", int(d))
	}
}

// ParseDifficulty parses a difficulty name case-insensitively.
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return DifficultyEasy, nil
	case "normal", "":
		return DifficultyNormal, nil
	case "hard":
		return DifficultyHard, nil
	default:
		return DifficultyNormal, fmt.Errorf("unknown difficulty %q (expected easy, normal or hard)", s)
	}
}

// Element tags a level and its boss.
type Element int

const (
	ElementFire Element = iota
	ElementWater
	ElementWood
	ElementMetal
	ElementEarth
	ElementHealing
)

// Elements lists every element including healing.
var Elements = []Element{ElementFire, ElementWater, ElementWood, ElementMetal, ElementEarth, ElementHealing}

var elementKeys = [...]string{"fire", "water", "wood", "metal", "earth", "healing"}
var elementGlyphs = [...]string{"火", "水", "木", "金", "土", "靈"}

// Key returns the ASCII identifier used in file names and config.
func (e Element) Key() string {
	if e < 0 || int(e) >= len(elementKeys) {
		return "unknown"
	}
	return elementKeys[e]
}

// Glyph returns the single-character element name.
func (e Element) Glyph() string {
	if e < 0 || int(e) >= len(elementGlyphs) {
		return "?"
	}
	return elementGlyphs[e]
}

func (e Element) String() string {
	return e.Key()
}

// DifficultySettings scales boss stats for a difficulty tier.
type DifficultySettings struct {
	SpeedMultiplier  float64
	DamageMultiplier float64
	WordLength       string
}

// LevelConfig describes one level of the campaign.
type LevelConfig struct {
	Number    int
	Element   Element
	BossName  string
	Tier      int
	StoryText string
}

// Boss is the opponent of a single level.
type Boss struct {
	Name           string        `json:"name"`
	Title          string        `json:"title"`
	Element        Element       `json:"element"`
	MaxHealth      int           `json:"maxHealth"`
	CurrentHealth  int           `json:"currentHealth"`
	AttackInterval time.Duration `json:"attackInterval"`
	Damage         int           `json:"damage"`
	Description    string        `json:"description"`
}

// DisplayHealth returns the current health clamped to [0, MaxHealth].
func (b Boss) DisplayHealth() int {
	if b.CurrentHealth < 0 {
		return 0
	}
	if b.CurrentHealth > b.MaxHealth {
		return b.MaxHealth
	}
	return b.CurrentHealth
}

// Challenge is the text the player must reproduce exactly.
type Challenge struct {
	Text    string `json:"text"`
	Healing bool   `json:"healing"`
}

// Outcome is how a run ended.
type Outcome string

const (
	OutcomeVictory Outcome = "victory"
	OutcomeDefeat  Outcome = "defeat"
)

// RunRecord summarizes a finished run.
type RunRecord struct {
	ID           string     `json:"id"`
	StartedAt    time.Time  `json:"startedAt"`
	EndedAt      time.Time  `json:"endedAt"`
	Difficulty   Difficulty `json:"difficulty"`
	Outcome      Outcome    `json:"outcome"`
	Level        int        `json:"level"`
	Score        int        `json:"score"`
	MaxCombo     int        `json:"maxCombo"`
	PlayerHealth int        `json:"playerHealth"`
}

// HistoryFilter narrows run history queries.
type HistoryFilter struct {
	Difficulty *Difficulty
	Since      *time.Time
	Last       int
}

// Cue identifies an audio cue requested by the game.
type Cue int

const (
	CueType Cue = iota
	CueAttack
	CueDamage
	CueVictory
)

func (c Cue) String() string {
	switch c {
	case CueType:
		return "type"
	case CueAttack:
		return "attack"
	case CueDamage:
		return "damage"
	case CueVictory:
		return "victory"
	default:
		return fmt.Sprintf("Cue(%d)", int(c))
	}
}

// MarshalText encodes the status by name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// MarshalText encodes the difficulty by name.
func (d Difficulty) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// MarshalText encodes the element by key.
func (e Element) MarshalText() ([]byte, error) {
	return []byte(e.Key()), nil
}
