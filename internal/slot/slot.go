// Package slot provides named whole-value persistence slots.
//
// A slot holds one opaque value that is always read and written in full.
// The visitor collection lives in a single slot; every change rewrites it.
package slot

import (
	"database/sql"
	"errors"
	"fmt"
	"regexp"
)

// ErrNotFound is returned by Get when a slot has never been written.
var ErrNotFound = errors.New("slot not found")

// Store reads and overwrites named slots.
type Store interface {
	Get(name string) ([]byte, error)
	Put(name string, value []byte) error
}

// Supported storage media.
const (
	MediumSQLite = "sqlite"
	MediumFile   = "file"
	MediumBolt   = "bolt"
)

// ValidMedia is the set of allowed storage media.
var ValidMedia = []string{MediumSQLite, MediumFile, MediumBolt}

var namePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

func checkName(name string) error {
	if !namePattern.MatchString(name) {
		return fmt.Errorf("invalid slot name: %q", name)
	}
	return nil
}

// Open returns a Store for the given medium. The sqlite medium uses the
// service database; file and bolt use path (a directory and a file
// respectively). Bolt stores must be closed by the caller.
func Open(medium string, database *sql.DB, path string) (Store, error) {
	switch medium {
	case MediumSQLite, "":
		if database == nil {
			return nil, fmt.Errorf("sqlite medium requires a database")
		}
		return NewSQLite(database), nil
	case MediumFile:
		f, err := NewFile(path)
		if err != nil {
			return nil, err
		}
		return f, nil
	case MediumBolt:
		b, err := OpenBolt(path)
		if err != nil {
			return nil, err
		}
		return b, nil
	default:
		return nil, fmt.Errorf("unknown storage medium: %q", medium)
	}
}
