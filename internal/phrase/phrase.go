// Package phrase maps logical phrase identifiers to display lines.
//
// Each phrase carries pre-split line arrays per device class so that the
// rasterizer never has to break or rewrite display strings at runtime.
package phrase

import (
	"fmt"
	"sort"
	"strings"
)

type DeviceClass int

const (
	Wide DeviceClass = iota
	Narrow
)

func (d DeviceClass) String() string {
	if d == Narrow {
		return "narrow"
	}
	return "wide"
}

type Phrase struct {
	ID     string
	Wide   []string
	Narrow []string
}

// Lines returns the line array for class, falling back to the wide layout.
func (p Phrase) Lines(class DeviceClass) []string {
	if class == Narrow && len(p.Narrow) > 0 {
		return p.Narrow
	}
	return p.Wide
}

func (p Phrase) Text(class DeviceClass) string {
	return strings.Join(p.Lines(class), "\n")
}

type Book struct {
	phrases map[string]Phrase
}

func NewBook(phrases ...Phrase) *Book {
	b := &Book{phrases: make(map[string]Phrase, len(phrases))}
	for _, p := range phrases {
		b.Add(p)
	}
	return b
}

// DefaultBook holds the intro and promoted phrases of the hero animation.
func DefaultBook() *Book {
	return NewBook(
		Phrase{ID: "intro", Wide: []string{"ALIEN FORK"}, Narrow: []string{"ALIEN", "FORK"}},
		Phrase{ID: "promoted", Wide: []string{"HELLO, HUMAN"}, Narrow: []string{"HELLO,", "HUMAN"}},
	)
}

// Add registers p, replacing any phrase with the same ID. A phrase without
// a wide layout gets one by joining its narrow lines.
func (b *Book) Add(p Phrase) {
	if len(p.Wide) == 0 && len(p.Narrow) > 0 {
		p.Wide = []string{strings.Join(p.Narrow, " ")}
	}
	b.phrases[p.ID] = p
}

func (b *Book) Get(id string) (Phrase, error) {
	p, ok := b.phrases[id]
	if !ok {
		return Phrase{}, fmt.Errorf("unknown phrase: %s", id)
	}
	return p, nil
}

// Literal builds a one-off phrase from text; explicit line breaks split it
// for both classes.
func Literal(id, text string) Phrase {
	lines := strings.Split(text, "\n")
	return Phrase{ID: id, Wide: lines, Narrow: lines}
}

func (b *Book) IDs() []string {
	ids := make([]string, 0, len(b.phrases))
	for id := range b.phrases {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
