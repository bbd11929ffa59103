// Copyright (c) 2024 The besu-go developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package genesis generates blockchain network configuration: node keypairs
// and a genesis file carrying the RLP encoded IBFT 2.0 extra data.
package genesis

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/doytsujin/besu/besu"
)

const extraVanityLength = 32

// ExtraData encodes the IBFT 2.0 genesis extra data for the given validator
// set: zeroed vanity bytes, the validator addresses, an empty proposer vote,
// a zero round number and no commit seals.
func ExtraData(validators []besu.Address) (string, error) {
	payload := []interface{}{
		make([]byte, extraVanityLength),
		validators,
		[]byte{},        // no proposer vote at genesis
		make([]byte, 4), // round zero, fixed width
		[]interface{}{}, // no commit seals
	}
	encoded, err := rlp.EncodeToBytes(payload)
	if err != nil {
		return "", errors.WithMessage(err, "encode extra data")
	}
	return hexutil.Encode(encoded), nil
}
