// Copyright (c) 2024 The besu-go developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doytsujin/besu/besu"
)

func TestExtraDataEncoding(t *testing.T) {
	validators := []besu.Address{
		besu.MustParseAddress("0x627306090abab3a6e1400e9345bc60c78a8bef57"),
		besu.MustParseAddress("0xf17f52151ebef6c7334fad080c5704d77216b732"),
	}

	encoded, err := ExtraData(validators)
	require.NoError(t, err)

	raw, err := hexutil.Decode(encoded)
	require.NoError(t, err)

	var decoded struct {
		Vanity     []byte
		Validators []besu.Address
		Vote       []byte
		Round      []byte
		Seals      [][]byte
	}
	require.NoError(t, rlp.DecodeBytes(raw, &decoded))

	assert.Equal(t, make([]byte, 32), decoded.Vanity)
	assert.Equal(t, validators, decoded.Validators)
	assert.Empty(t, decoded.Vote)
	assert.Equal(t, make([]byte, 4), decoded.Round)
	assert.Empty(t, decoded.Seals)
}

func TestExtraDataNoValidators(t *testing.T) {
	encoded, err := ExtraData(nil)
	require.NoError(t, err)
	assert.NotEmpty(t, encoded)
}
