package wol

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseMAC(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected [6]byte
		wantErr  bool
	}{
		{
			name:     "ColonSeparated",
			input:    "AA:BB:CC:DD:EE:FF",
			expected: [6]byte{0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF},
		},
		{
			name:     "DashSeparated",
			input:    "aa-bb-cc-dd-ee-ff",
			expected: [6]byte{0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF},
		},
		{
			name:     "MixedCase",
			input:    "01:23:45:67:89:aB",
			expected: [6]byte{0x01, 0x23, 0x45, 0x67, 0x89, 0xAB},
		},
		{
			name:    "Empty",
			input:   "",
			wantErr: true,
		},
		{
			name:    "TooFewGroups",
			input:   "AA:BB:CC:DD:EE",
			wantErr: true,
		},
		{
			name:    "TooManyGroups",
			input:   "AA:BB:CC:DD:EE:FF:00",
			wantErr: true,
		},
		{
			name:    "NonHexDigits",
			input:   "GG:BB:CC:DD:EE:FF",
			wantErr: true,
		},
		{
			name:    "NoSeparators",
			input:   "AABBCCDDEEFF",
			wantErr: true,
		},
		{
			name:    "ShortGroup",
			input:   "A:BB:CC:DD:EE:FF",
			wantErr: true,
		},
		{
			name:    "LongGroup",
			input:   "AAA:BB:CC:DD:EE:FF",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(
			tt.name, func(t *testing.T) {
				mac, err := ParseMAC(tt.input)
				if tt.wantErr {
					assert.ErrorIs(t, err, ErrInvalidMAC)
					return
				}

				assert.NoError(t, err)
				assert.Equal(t, tt.expected, mac)
			},
		)
	}
}

func TestNewMagicPacket(t *testing.T) {
	mac := [6]byte{0x01, 0x23, 0x45, 0x67, 0x89, 0xAB}
	pkt := NewMagicPacket(mac)

	assert.Equal(t, PacketSize, len(pkt))
	assert.Equal(t, 102, len(pkt))

	for i := 0; i < 6; i++ {
		assert.Equal(t, byte(0xFF), pkt[i])
	}

	for i := 0; i < 16; i++ {
		start := 6 + i*6
		assert.True(t, bytes.Equal(mac[:], pkt[start:start+6]))
	}
}
