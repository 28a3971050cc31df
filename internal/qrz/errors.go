package qrz

import (
	"errors"
	"fmt"
)

// ErrAbsent is matched by every error returned from Client.Lookup
var ErrAbsent = errors.New("callsign not found or lookup failed")

// ErrorKind classifies why a lookup produced no record
type ErrorKind int

const (
	KindTimeout ErrorKind = iota
	KindNetwork
	KindStatus
	KindParse
	KindNotFound
)

func (k ErrorKind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindNetwork:
		return "network"
	case KindStatus:
		return "remote-status"
	case KindParse:
		return "parse"
	case KindNotFound:
		return "not-found"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// LookupError carries the diagnostic detail behind an absent lookup result
type LookupError struct {
	Kind       ErrorKind
	Callsign   string
	StatusCode int // set for KindStatus
	Err        error
}

func (e *LookupError) Error() string {
	switch {
	case e.Kind == KindStatus:
		return fmt.Sprintf("lookup %s: status code %d", e.Callsign, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("lookup %s: %s: %v", e.Callsign, e.Kind, e.Err)
	default:
		return fmt.Sprintf("lookup %s: %s", e.Callsign, e.Kind)
	}
}

func (e *LookupError) Unwrap() error { return e.Err }

// Is makes every LookupError match ErrAbsent
func (e *LookupError) Is(target error) bool {
	return target == ErrAbsent
}

// KindOf returns the kind of a lookup error and whether err was one
func KindOf(err error) (ErrorKind, bool) {
	var le *LookupError
	if errors.As(err, &le) {
		return le.Kind, true
	}
	return 0, false
}
