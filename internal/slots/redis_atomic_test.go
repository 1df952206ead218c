package slots

import (
	"crypto/sha1"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

// The hold scripts run through EVALSHA, so each script object must carry
// the SHA-1 digest of its body, matching what PreloadScripts registers.
func TestSlotScriptsCarrySHA1Digests(t *testing.T) {
	tests := []struct {
		name string
		body string
		hash string
	}{
		{"hold", luaAtomicSlotHold, slotHoldScript.Hash()},
		{"release", luaAtomicSlotRelease, slotReleaseScript.Hash()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sum := sha1.Sum([]byte(tt.body))
			assert.Equal(t, hex.EncodeToString(sum[:]), tt.hash)
		})
	}
}
