package wol

import (
	"encoding/hex"
	"strings"
)

// PacketSize is the fixed length of a Wake-on-LAN magic packet:
// a 6-byte synchronization stream followed by the MAC repeated 16 times.
const PacketSize = 6 + 16*6

type MagicPacket [PacketSize]byte

// ParseMAC accepts the canonical colon- or dash-separated hex form of a
// 6-byte hardware address. Anything else is rejected before any I/O.
func ParseMAC(s string) ([6]byte, error) {
	var mac [6]byte

	parts := strings.FieldsFunc(
		s, func(r rune) bool {
			return r == ':' || r == '-'
		},
	)
	if len(parts) != 6 {
		return mac, ErrInvalidMAC
	}

	for i, p := range parts {
		if len(p) != 2 {
			return mac, ErrInvalidMAC
		}

		b, err := hex.DecodeString(p)
		if err != nil {
			return mac, ErrInvalidMAC
		}

		mac[i] = b[0]
	}

	return mac, nil
}

// NewMagicPacket builds the 102-byte payload for the given address.
func NewMagicPacket(mac [6]byte) MagicPacket {
	var p MagicPacket

	for i := 0; i < 6; i++ {
		p[i] = 0xFF
	}

	for i := 0; i < 16; i++ {
		copy(p[6+i*6:], mac[:])
	}

	return p
}
