package api

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"unicode"
)

// ErrJoinCodeExhausted means 50 candidate codes all collided, which in
// practice only happens when the team namespace is saturated.
var ErrJoinCodeExhausted = errors.New("unable to generate a unique join code")

// codePrefix derives a five-letter prefix from the team name, padding
// short names so codes stay a uniform shape.
func codePrefix(teamName string) string {
	var b strings.Builder
	for _, ch := range strings.ToUpper(teamName) {
		if unicode.IsLetter(ch) {
			b.WriteRune(ch)
		}
	}
	letters := b.String()
	if letters == "" {
		letters = "SQUAD"
	}
	if len(letters) < 5 {
		letters = (letters + "ABCDE")[:5]
	}
	return letters[:5]
}

// GenerateJoinCode produces a code of the form PREFIX-123X that does not
// collide with any code in taken, retrying up to 50 times.
func GenerateJoinCode(teamName string, taken map[string]bool) (string, error) {
	prefix := codePrefix(teamName)
	for i := 0; i < 50; i++ {
		numeric := 100 + rand.Intn(900)
		suffix := rune('A' + rand.Intn(26))
		candidate := fmt.Sprintf("%s-%d%c", prefix, numeric, suffix)
		if !taken[candidate] {
			return candidate, nil
		}
	}
	return "", ErrJoinCodeExhausted
}
