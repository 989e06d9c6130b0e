// Package id generates prefixed identifiers for render runs and evaluations.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// runAlphabet avoids look-alike characters so run ids can be read back from a terminal.
const (
	runAlphabet = "23456789abcdefghjkmnpqrstuvwxyz"
	runSize     = 12
)

// Generate creates a prefixed NanoID, e.g. "eval-V1StGXR8_Z5jdHi6B-myT".
// It fails only when the system has insufficient entropy.
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// Run creates a short, human-readable run id, e.g. "run-k3m9x2p7qd4h".
// A run id is stamped on every view produced by one CLI invocation.
func Run() (string, error) {
	id, err := gonanoid.Generate(runAlphabet, runSize)
	if err != nil {
		return "", fmt.Errorf("generate run id: %w", err)
	}
	return "run-" + id, nil
}

// MustGenerate is like Generate but panics if ID generation fails.
func MustGenerate(prefix string) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return id
}
