package uuid

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
)

var ErrInvalidFormat = errors.New("uuid: invalid format")

type UUID [16]byte

// NewV4 returns a random UUID backed by crypto/rand, which makes the
// generated value unsuitable for guessing or collision attacks.
func NewV4() UUID {
	var uuid UUID

	if _, err := rand.Read(uuid[:]); err != nil {
		// crypto/rand failing means the platform randomness source is
		// broken; nothing sensible can continue from here.
		panic("uuid: reading random source: " + err.Error())
	}

	uuid[6] = (uuid[6] & 0x0f) | 0x40 // Version 4
	uuid[8] = (uuid[8] & 0x3f) | 0x80 // Variant is 10

	return uuid
}

// NewString is shorthand for NewV4().String().
func NewString() string {
	return NewV4().String()
}

func Parse(s string) (UUID, error) {
	var uuid UUID

	switch len(s) {
	case 36:
	case 36 + 9:
		if !strings.EqualFold(s[:9], "urn:uuid:") {
			return uuid, ErrInvalidFormat
		}
		s = s[9:]
	default:
		return uuid, ErrInvalidFormat
	}

	if s[8] != '-' || s[13] != '-' || s[18] != '-' || s[23] != '-' {
		return uuid, ErrInvalidFormat
	}

	for _, group := range []struct {
		dst []byte
		src string
	}{
		{uuid[:4], s[:8]},
		{uuid[4:6], s[9:13]},
		{uuid[6:8], s[14:18]},
		{uuid[8:10], s[19:23]},
		{uuid[10:], s[24:]},
	} {
		if _, err := hex.Decode(group.dst, []byte(group.src)); err != nil {
			return UUID{}, ErrInvalidFormat
		}
	}

	return uuid, nil
}

func (uuid UUID) String() string {
	var buf [36]byte

	hex.Encode(buf[:], uuid[:4])
	buf[8] = '-'
	hex.Encode(buf[9:13], uuid[4:6])
	buf[13] = '-'
	hex.Encode(buf[14:18], uuid[6:8])
	buf[18] = '-'
	hex.Encode(buf[19:23], uuid[8:10])
	buf[23] = '-'
	hex.Encode(buf[24:], uuid[10:])

	return string(buf[:])
}

func (uuid UUID) Version() byte {
	return uuid[6] >> 4
}
