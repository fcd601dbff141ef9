package multipart

import (
	"bytes"
	"crypto/subtle"
)

type boundaryKind int

const (
	boundaryNone boundaryKind = iota
	boundaryPart
	boundaryFinal
)

// boundaryMatcher holds the two delimiter byte strings derived once from
// the boundary parameter: "--boundary" and "--boundary--".
type boundaryMatcher struct {
	part  []byte
	final []byte
}

func newBoundaryMatcher(boundary string) boundaryMatcher {
	final := []byte("--" + boundary + "--")
	return boundaryMatcher{
		part:  final[:len(final)-2],
		final: final,
	}
}

// classify reports whether line is a part delimiter, the final delimiter,
// or ordinary content. Leading linear white space is stripped per the
// historical multipart leniency rule, trailing whitespace is tolerated.
// The equality checks run in constant time over attacker-supplied input.
func (m boundaryMatcher) classify(line []byte) boundaryKind {
	candidate := bytes.TrimLeft(line, " \t")
	candidate = bytes.TrimRight(candidate, " \t\r\n")

	if len(candidate) == len(m.final) && subtle.ConstantTimeCompare(candidate, m.final) == 1 {
		return boundaryFinal
	}
	if len(candidate) == len(m.part) && subtle.ConstantTimeCompare(candidate, m.part) == 1 {
		return boundaryPart
	}
	return boundaryNone
}
