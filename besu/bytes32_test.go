// Copyright (c) 2024 The besu-go developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>
package besu

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBytes32MarshalUnmarshal(t *testing.T) {
	originalHex := `"0x00000000000000000000000000000000000000000000000000006d6173746572"`

	var unmarshaled Bytes32
	err := json.Unmarshal([]byte(originalHex), &unmarshaled)
	assert.NoError(t, err)

	marshaled, err := json.Marshal(unmarshaled)
	assert.NoError(t, err)
	assert.Equal(t, originalHex, string(marshaled))

	// the hex form must survive embedding by value
	wrapped, err := json.Marshal(struct{ ID Bytes32 }{unmarshaled})
	assert.NoError(t, err)
	assert.Equal(t, `{"ID":`+originalHex+`}`, string(wrapped))
}

func TestBytesToBytes32(t *testing.T) {
	b32 := BytesToBytes32([]byte{0x01})
	assert.Equal(t, "0x0000000000000000000000000000000000000000000000000000000000000001", b32.String())
	assert.True(t, Bytes32{}.IsZero())
	assert.False(t, b32.IsZero())
}
