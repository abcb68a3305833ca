// Package content provides the quiz questions and word challenges shown
// between match rounds.
package content

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed bank.yaml
var defaultBankYAML []byte

// ErrEmptyBank is returned when a bank has no questions or no words.
var ErrEmptyBank = errors.New("bank needs at least one question and one word")

// Topic is a quiz subject.
type Topic string

const (
	TopicScience          Topic = "IQ Science"
	TopicBiology          Topic = "Biology"
	TopicChemistry        Topic = "Chemistry"
	TopicEnglish          Topic = "English"
	TopicGeneralKnowledge Topic = "General Knowledge"
	TopicPhysics          Topic = "Physics"
)

// Topics returns every known topic.
func Topics() []Topic {
	return []Topic{
		TopicScience,
		TopicBiology,
		TopicChemistry,
		TopicEnglish,
		TopicGeneralKnowledge,
		TopicPhysics,
	}
}

// Question is a multiple choice quiz question.
type Question struct {
	ID          string   `yaml:"id" json:"id"`
	Topic       Topic    `yaml:"topic" json:"topic"`
	Prompt      string   `yaml:"prompt" json:"prompt"`
	Options     []string `yaml:"options" json:"options"`
	Correct     int      `yaml:"correct" json:"correct"`
	Explanation string   `yaml:"explanation" json:"explanation"`
}

// IsCorrect reports whether option i is the right answer.
func (q Question) IsCorrect(i int) bool {
	return i == q.Correct
}

// Word is a bank entry for the word challenge.
type Word struct {
	Word string `yaml:"word"`
	Hint string `yaml:"hint"`
}

// WordChallenge asks the player to unscramble Word.
type WordChallenge struct {
	Word      string   `json:"word"`
	Hint      string   `json:"hint"`
	Scrambled string   `json:"scrambled"`
	Options   []string `json:"options"`
}

// Check compares a guess with the word, ignoring case and surrounding space.
func (w WordChallenge) Check(guess string) bool {
	return strings.EqualFold(strings.TrimSpace(guess), w.Word)
}

// Source is the random source used to pick content.
type Source interface {
	Intn(n int) int
}

// Provider hands out quiz questions and word challenges.
type Provider interface {
	Question(src Source) Question
	WordChallenge(src Source) WordChallenge
}

// Bank is a static Provider backed by YAML.
type Bank struct {
	Questions []Question `yaml:"questions"`
	Words     []Word     `yaml:"words"`
}

// DefaultBank returns the embedded bank.
func DefaultBank() (*Bank, error) {
	return ParseBank(defaultBankYAML)
}

// LoadBank reads a bank from path, or the embedded bank when path is empty.
func LoadBank(path string) (*Bank, error) {
	if path == "" {
		return DefaultBank()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("content: failed to read bank %s: %w", path, err)
	}
	return ParseBank(data)
}

// ParseBank decodes and validates a YAML bank.
func ParseBank(data []byte) (*Bank, error) {
	var b Bank
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("content: failed to parse bank: %w", err)
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &b, nil
}

// Validate checks every entry.
func (b *Bank) Validate() error {
	if len(b.Questions) == 0 || len(b.Words) == 0 {
		return fmt.Errorf("content: %w", ErrEmptyBank)
	}
	for i, q := range b.Questions {
		if len(q.Options) < 2 {
			return fmt.Errorf("content: question %d (%s): need at least two options", i, q.ID)
		}
		if q.Correct < 0 || q.Correct >= len(q.Options) {
			return fmt.Errorf("content: question %d (%s): correct index %d out of range", i, q.ID, q.Correct)
		}
	}
	for i, w := range b.Words {
		if strings.TrimSpace(w.Word) == "" {
			return fmt.Errorf("content: word %d is empty", i)
		}
	}
	return nil
}

// Question picks a random topic present in the bank, then a question from it.
func (b *Bank) Question(src Source) Question {
	var topics []Topic
	seen := make(map[Topic]bool)
	for _, q := range b.Questions {
		if !seen[q.Topic] {
			seen[q.Topic] = true
			topics = append(topics, q.Topic)
		}
	}

	q, _ := b.QuestionFor(topics[src.Intn(len(topics))], src)
	return q
}

// QuestionFor picks a random question on topic.
func (b *Bank) QuestionFor(topic Topic, src Source) (Question, bool) {
	var pool []Question
	for _, q := range b.Questions {
		if q.Topic == topic {
			pool = append(pool, q)
		}
	}
	if len(pool) == 0 {
		return Question{}, false
	}
	return pool[src.Intn(len(pool))], true
}

// WordChallenge picks a word, scrambles it and offers up to three other bank
// words as decoys.
func (b *Bank) WordChallenge(src Source) WordChallenge {
	pick := src.Intn(len(b.Words))
	w := b.Words[pick]
	word := strings.ToUpper(w.Word)

	options := []string{word}
	for _, i := range perm(len(b.Words), src) {
		if len(options) == MaxWordOptions {
			break
		}
		candidate := strings.ToUpper(b.Words[i].Word)
		if i == pick || contains(options, candidate) {
			continue
		}
		options = append(options, candidate)
	}
	shuffled := make([]string, len(options))
	for i, j := range perm(len(options), src) {
		shuffled[i] = options[j]
	}

	return WordChallenge{
		Word:      word,
		Hint:      w.Hint,
		Scrambled: Scramble(word, src),
		Options:   shuffled,
	}
}

// MaxWordOptions is the number of choices offered for a word challenge.
const MaxWordOptions = 4

// Scramble shuffles the letters of word. The result differs from word
// whenever word has at least two distinct letters.
func Scramble(word string, src Source) string {
	runes := []rune(word)
	if len(runes) < 2 {
		return word
	}

	for range 8 {
		for i := len(runes) - 1; i > 0; i-- {
			j := src.Intn(i + 1)
			runes[i], runes[j] = runes[j], runes[i]
		}
		if string(runes) != word {
			return string(runes)
		}
	}

	// Rotating by one only keeps a word with a single repeated letter
	rotated := append([]rune(word)[1:], []rune(word)[0])
	return string(rotated)
}

func perm(n int, src Source) []int {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	for i := n - 1; i > 0; i-- {
		j := src.Intn(i + 1)
		p[i], p[j] = p[j], p[i]
	}
	return p
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
