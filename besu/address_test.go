// Copyright (c) 2024 The besu-go developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>
package besu

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressString(t *testing.T) {
	addr := BytesToAddress([]byte{0xde, 0xad, 0xbe, 0xef})
	assert.Equal(t, "0x00000000000000000000000000000000deadbeef", addr.String())
	assert.True(t, Address{}.IsZero())
	assert.False(t, addr.IsZero())
}

func TestParseAddress(t *testing.T) {
	addr, err := ParseAddress("0x00000000000000000000000000000000deadbeef")
	require.NoError(t, err)
	assert.Equal(t, BytesToAddress([]byte{0xde, 0xad, 0xbe, 0xef}), *addr)

	// no prefix
	addr, err = ParseAddress("00000000000000000000000000000000deadbeef")
	require.NoError(t, err)
	assert.Equal(t, BytesToAddress([]byte{0xde, 0xad, 0xbe, 0xef}), *addr)

	_, err = ParseAddress("0xdeadbeef")
	assert.Error(t, err)
	_, err = ParseAddress("zz00000000000000000000000000000000deadbeef")
	assert.Error(t, err)
}

func TestAddressJSON(t *testing.T) {
	addr := MustParseAddress("0x00000000000000000000000000000000deadbeef")

	data, err := json.Marshal(addr)
	require.NoError(t, err)
	assert.Equal(t, `"0x00000000000000000000000000000000deadbeef"`, string(data))

	var decoded Address
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, addr, decoded)

	// addresses used as JSON map keys
	m := map[Address]int{addr: 1}
	data, err = json.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, `{"0x00000000000000000000000000000000deadbeef":1}`, string(data))
}

func TestBytesToAddress(t *testing.T) {
	// longer slices are cropped from the left
	b := make([]byte, 32)
	b[11] = 0xff
	b[31] = 0x01
	addr := BytesToAddress(b)
	assert.Equal(t, "0x0000000000000000000000000000000000000001", addr.String())
}

func TestCreateContractAddress(t *testing.T) {
	sender := MustParseAddress("0x970e8128ab834e8eac17ab8e3812f010678cf791")

	a0 := CreateContractAddress(sender, 0)
	a1 := CreateContractAddress(sender, 1)
	assert.NotEqual(t, a0, a1)
	// derivation is deterministic
	assert.Equal(t, a0, CreateContractAddress(sender, 0))
}
