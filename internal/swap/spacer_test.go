package swap

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveSpacer(t *testing.T) {
	key := testKey(0x22)

	tests := []struct {
		name     string
		pkh      bool
		withKey  bool
		wantKind SpacerKind
		want     []byte
	}{
		{"dummy without key", false, false, DummySpacer, []byte{0x00}},
		{"dummy with key", false, true, DummySpacer, []byte{0x00}},
		{"placeholder", true, false, NoKeyPlaceholder, make([]byte, 33)},
		{"public key", true, true, PublicKeyHashSpacer, key.PubKey().SerializeCompressed()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			signer := key
			if !tt.withKey {
				signer = nil
			}

			spacer := ResolveSpacer(tt.pkh, signer)
			require.Equal(t, tt.wantKind, spacer.Kind)
			require.Equal(t, tt.want, spacer.Bytes())
			require.Equal(t, int64(len(tt.want)), spacer.Len())
		})
	}
}

func TestSpacerBytesIsCopy(t *testing.T) {
	spacer := ResolveSpacer(true, nil)
	b := spacer.Bytes()
	b[0] = 0xff
	require.Equal(t, byte(0x00), spacer.Bytes()[0])
}
