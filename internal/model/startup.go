package model

import (
	"fmt"
	"strings"
)

// StartupTupleLen is the number of positional values the UI process sends
// to a freshly spawned web extension.
const StartupTupleLen = 5

// StartupParameters is the payload the UI process hands to the web extension
// once, at process start.
type StartupParameters struct {
	// EndpointAddress is the D-Bus address of the UI process server.
	// Empty means the UI process did not start its side of the channel.
	EndpointAddress string
	DataDir         string
	AdblockDataDir  string
	PrivateProfile  bool
	BrowserMode     bool
}

// HasEndpoint reports whether an IPC endpoint address was supplied
func (p StartupParameters) HasEndpoint() bool {
	return strings.TrimSpace(p.EndpointAddress) != ""
}

// TupleError describes a malformed startup tuple element.
type TupleError struct {
	Index  int
	Reason string
}

func (e *TupleError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("startup tuple: %s", e.Reason)
	}
	return fmt.Sprintf("startup tuple element %d: %s", e.Index, e.Reason)
}

// ParseStartupTuple decodes the positional (maybe-string, string, string, bool, bool)
// tuple. The first element may be nil or a *string.
func ParseStartupTuple(tuple []any) (StartupParameters, error) {
	var p StartupParameters

	if len(tuple) != StartupTupleLen {
		return p, &TupleError{Index: -1, Reason: fmt.Sprintf("expected %d elements, got %d", StartupTupleLen, len(tuple))}
	}

	switch v := tuple[0].(type) {
	case nil:
	case string:
		p.EndpointAddress = v
	case *string:
		if v != nil {
			p.EndpointAddress = *v
		}
	default:
		return p, &TupleError{Index: 0, Reason: fmt.Sprintf("expected optional string, got %T", v)}
	}

	var ok bool
	if p.DataDir, ok = tuple[1].(string); !ok {
		return p, &TupleError{Index: 1, Reason: fmt.Sprintf("expected string, got %T", tuple[1])}
	}
	if p.AdblockDataDir, ok = tuple[2].(string); !ok {
		return p, &TupleError{Index: 2, Reason: fmt.Sprintf("expected string, got %T", tuple[2])}
	}
	if p.PrivateProfile, ok = tuple[3].(bool); !ok {
		return p, &TupleError{Index: 3, Reason: fmt.Sprintf("expected bool, got %T", tuple[3])}
	}
	if p.BrowserMode, ok = tuple[4].(bool); !ok {
		return p, &TupleError{Index: 4, Reason: fmt.Sprintf("expected bool, got %T", tuple[4])}
	}

	return p, nil
}
