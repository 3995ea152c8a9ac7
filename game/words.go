package game

import (
	_ "embed"
	"math/rand/v2"
	"strings"
)

//go:embed words/easy.txt
var easyWordsRaw string

//go:embed words/hard.txt
var hardWordsRaw string

// Catalog is the static indexed word list. Every replica embeds the same
// lists, so an index resolves to the same word everywhere; the wire only
// ever carries indices.
type Catalog struct {
	easy []string
	hard []string
}

var defaultCatalog = &Catalog{
	easy: splitWords(easyWordsRaw),
	hard: splitWords(hardWordsRaw),
}

func DefaultCatalog() *Catalog {
	return defaultCatalog
}

func splitWords(raw string) []string {
	lines := strings.Split(raw, "\n")
	words := make([]string, 0, len(lines))
	for _, line := range lines {
		word := strings.TrimSpace(line)
		if word != "" {
			words = append(words, word)
		}
	}
	return words
}

// Easy resolves an easy-word index. Indices wrap so any uint32 is valid.
func (c *Catalog) Easy(i uint32) string {
	return c.easy[int(i)%len(c.easy)]
}

func (c *Catalog) Hard(i uint32) string {
	return c.hard[int(i)%len(c.hard)]
}

func (c *Catalog) Word(choice WordChoice, easy, hard uint32) string {
	if choice == WordHard {
		return c.Hard(hard)
	}
	return c.Easy(easy)
}

func (c *Catalog) EasyCount() int {
	return len(c.easy)
}

func (c *Catalog) HardCount() int {
	return len(c.hard)
}

// RandomPair draws one easy and one hard index for a fresh round.
func (c *Catalog) RandomPair(rng *rand.Rand) (easy, hard uint32) {
	return uint32(rng.IntN(len(c.easy))), uint32(rng.IntN(len(c.hard)))
}
