// Package challenge asks the user to prove intent before a risky command
// runs. Input and output are injectable io.Reader/io.Writer, and the token
// comes from an injected random Source, so the gate is fully testable.
package challenge

import (
	"bufio"
	"context"
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"strings"

	"github.com/hpkotak/shellfirm/internal/checks"
)

// ErrRejected means the user did not type the token back exactly.
var ErrRejected = errors.New("challenge rejected")

// alphabet leaves out characters that are easy to misread (0/O, 1/l/I).
const alphabet = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Source supplies randomness for tokens. *rand.Rand satisfies it.
type Source interface {
	IntN(n int) int
}

// NewSource returns a PCG generator seeded from crypto/rand. Call it once
// per invocation.
func NewSource() Source {
	var seed [16]byte
	if _, err := crand.Read(seed[:]); err != nil {
		panic(fmt.Sprintf("challenge: reading random seed: %v", err))
	}
	return rand.New(rand.NewPCG(
		binary.LittleEndian.Uint64(seed[:8]),
		binary.LittleEndian.Uint64(seed[8:]),
	))
}

// Token returns n characters drawn from the token alphabet.
func Token(src Source, n int) string {
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		b.WriteByte(alphabet[src.IntN(len(alphabet))])
	}
	return b.String()
}

// Gate prompts once for a freshly generated token.
type Gate struct {
	Length int
	Source Source
	In     io.Reader
	Out    io.Writer
}

// Confirm lists matches, prints a new token and reads one line. It returns
// nil when the line equals the token and ErrRejected otherwise, including
// on empty input and end of input. Only the line terminator is stripped.
// A Length below 1 always rejects.
func (g *Gate) Confirm(ctx context.Context, matches []checks.Check) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	// An empty token would accept an empty line.
	if g.Length < 1 {
		return ErrRejected
	}

	_, _ = fmt.Fprintln(g.Out, "shellfirm: this command matched risky patterns:")
	for _, m := range matches {
		_, _ = fmt.Fprintf(g.Out, "  - [%s] %s (%s)\n", m.Risk, m.Description, m.ID)
	}

	token := Token(g.Source, g.Length)
	_, _ = fmt.Fprintf(g.Out, "Type %q to continue: ", token)

	line, ok := readLine(g.In)
	if !ok {
		_, _ = fmt.Fprintln(g.Out)
		return ErrRejected
	}
	if line != token {
		return ErrRejected
	}
	return nil
}

// readLine returns one line without its \n or \r\n terminator. ok is false
// when nothing could be read.
func readLine(in io.Reader) (string, bool) {
	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		return "", false
	}
	return strings.TrimSuffix(scanner.Text(), "\r"), true
}

// YesNo prompts the user for yes/no confirmation.
// defaultYes controls what happens when the user presses Enter without input.
func YesNo(prompt string, defaultYes bool, in io.Reader, out io.Writer) bool {
	hint := "[Y/n]"
	if !defaultYes {
		hint = "[y/N]"
	}
	_, _ = fmt.Fprintf(out, "%s %s: ", prompt, hint)

	line, ok := readLine(in)
	if !ok {
		return false
	}

	switch strings.TrimSpace(strings.ToLower(line)) {
	case "":
		return defaultYes
	case "y", "yes":
		return true
	default:
		return false
	}
}
