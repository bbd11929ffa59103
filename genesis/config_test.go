// Copyright (c) 2024 The besu-go developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doytsujin/besu/besu"
)

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func defaultOptions(t *testing.T, configFile string) Options {
	return Options{
		ConfigFile:         configFile,
		OutputDir:          filepath.Join(t.TempDir(), "out"),
		GenesisFileName:    "genesis.json",
		PrivateKeyFileName: "key.priv",
		PublicKeyFileName:  "key.pub",
	}
}

func TestGenerateNodeKeys(t *testing.T) {
	opts := defaultOptions(t, writeConfig(t, `{
		"genesis": {
			"config": {"ibft2": {"blockperiodseconds": 2}},
			"gasLimit": "0x1fffffffffffff"
		},
		"blockchain": {"nodes": {"generate": true, "count": 2}}
	}`))

	validators, err := Generate(opts)
	require.NoError(t, err)
	require.Len(t, validators, 2)

	for _, addr := range validators {
		nodeDir := filepath.Join(opts.OutputDir, "keys", addr.String())

		pubText, err := os.ReadFile(filepath.Join(nodeDir, "key.pub"))
		require.NoError(t, err)
		privText, err := os.ReadFile(filepath.Join(nodeDir, "key.priv"))
		require.NoError(t, err)

		// the written keypair must derive the directory's address
		key, err := crypto.HexToECDSA(strings.TrimPrefix(string(privText), "0x"))
		require.NoError(t, err)
		assert.Equal(t, addr.Bytes(), crypto.PubkeyToAddress(key.PublicKey).Bytes())
		assert.Equal(t, hexutil.Encode(crypto.FromECDSAPub(&key.PublicKey)[1:]), string(pubText))
	}

	var genesis map[string]json.RawMessage
	data, err := os.ReadFile(filepath.Join(opts.OutputDir, "genesis.json"))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &genesis))
	assert.Contains(t, genesis, "extraData")
	assert.Contains(t, genesis, "gasLimit")
}

func TestGenerateImportsPublicKeys(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	pubText := hexutil.Encode(crypto.FromECDSAPub(&key.PublicKey)[1:])

	opts := defaultOptions(t, writeConfig(t, `{
		"genesis": {"config": {"ibft2": {}}},
		"blockchain": {"nodes": {"generate": false, "keys": ["`+pubText+`"]}}
	}`))

	validators, err := Generate(opts)
	require.NoError(t, err)
	require.Len(t, validators, 1)

	expected := besu.BytesToAddress(crypto.PubkeyToAddress(key.PublicKey).Bytes())
	assert.Equal(t, expected, validators[0])

	nodeDir := filepath.Join(opts.OutputDir, "keys", validators[0].String())
	assert.FileExists(t, filepath.Join(nodeDir, "key.pub"))
	assert.NoFileExists(t, filepath.Join(nodeDir, "key.priv"))
}

func TestGenerateSkipsExtraDataWithoutIBFT(t *testing.T) {
	opts := defaultOptions(t, writeConfig(t, `{
		"genesis": {"config": {"ethash": {}}},
		"blockchain": {"nodes": {"generate": true, "count": 1}}
	}`))

	_, err := Generate(opts)
	require.NoError(t, err)

	var genesis map[string]json.RawMessage
	data, err := os.ReadFile(filepath.Join(opts.OutputDir, "genesis.json"))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &genesis))
	assert.NotContains(t, genesis, "extraData")
}

func TestGenerateRejectsNonEmptyOutputDir(t *testing.T) {
	opts := defaultOptions(t, writeConfig(t, `{"blockchain": {"nodes": {"generate": true, "count": 1}}}`))
	require.NoError(t, os.MkdirAll(opts.OutputDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(opts.OutputDir, "stale"), []byte("x"), 0o600))

	_, err := Generate(opts)
	assert.ErrorContains(t, err, "must be empty")
}

func TestGenerateRejectsDuplicateFileNames(t *testing.T) {
	opts := defaultOptions(t, writeConfig(t, `{}`))
	opts.PrivateKeyFileName = "key"
	opts.PublicKeyFileName = "key"

	_, err := Generate(opts)
	assert.ErrorContains(t, err, "unique")
}
