// Package share encodes draft snapshots into compact share codes and derives
// content IDs for saved drafts.
package share

import (
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/crypto/blake2b"

	"github.com/DoyleJ11/lol-draft-companion/internal/engine"
)

var ErrInvalidCode = errors.New("invalid share code")

// Marshal returns the msgpack form of a snapshot.
func Marshal(s engine.Snapshot) ([]byte, error) {
	b, err := msgpack.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return b, nil
}

func Unmarshal(b []byte) (engine.Snapshot, error) {
	var s engine.Snapshot
	if err := msgpack.Unmarshal(b, &s); err != nil {
		return engine.Snapshot{}, fmt.Errorf("%w: %w", ErrInvalidCode, err)
	}
	if _, err := engine.ParseFormat(string(s.Format)); err != nil {
		return engine.Snapshot{}, fmt.Errorf("%w: %w", ErrInvalidCode, err)
	}
	if _, err := engine.ParseStartingSide(string(s.StartingSide)); err != nil {
		return engine.Snapshot{}, fmt.Errorf("%w: %w", ErrInvalidCode, err)
	}
	return s, nil
}

// Encode turns a snapshot into a URL-safe share code.
func Encode(s engine.Snapshot) (string, error) {
	b, err := Marshal(s)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func Decode(code string) (engine.Snapshot, error) {
	b, err := base64.RawURLEncoding.DecodeString(code)
	if err != nil {
		return engine.Snapshot{}, fmt.Errorf("%w: %w", ErrInvalidCode, err)
	}
	return Unmarshal(b)
}

// ContentID names a snapshot by its content: the first 12 bytes of the
// blake2b-256 digest of its msgpack form, hex encoded.
func ContentID(s engine.Snapshot) (string, error) {
	b, err := Marshal(s)
	if err != nil {
		return "", err
	}
	sum := blake2b.Sum256(b)
	return hex.EncodeToString(sum[:12]), nil
}

// Load rebuilds a draft from a snapshot, replaying it when the selections
// follow the flow so undo history is available, and assigning it directly
// otherwise.
func Load(s engine.Snapshot) (*engine.Draft, error) {
	d, err := engine.Replay(s)
	if err == nil {
		return d, nil
	}
	return engine.Restore(s)
}
