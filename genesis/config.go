// Copyright (c) 2024 The besu-go developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"crypto/ecdsa"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"

	"github.com/doytsujin/besu/besu"
	"github.com/doytsujin/besu/log"
)

var logger = log.WithContext("pkg", "genesis")

// Config is the operator configuration file layout. The genesis section is
// kept opaque and copied into the output file as-is, except for the injected
// extra data.
type Config struct {
	Genesis    map[string]json.RawMessage `json:"genesis"`
	Blockchain struct {
		Nodes struct {
			Generate bool     `json:"generate"`
			Count    int      `json:"count"`
			Keys     []string `json:"keys"`
		} `json:"nodes"`
	} `json:"blockchain"`
}

// Options controls where Generate reads its configuration and writes its
// output files.
type Options struct {
	ConfigFile         string
	OutputDir          string
	GenesisFileName    string
	PrivateKeyFileName string
	PublicKeyFileName  string
}

func (o *Options) validate() error {
	names := map[string]bool{}
	for _, name := range []string{o.GenesisFileName, o.PrivateKeyFileName, o.PublicKeyFileName} {
		if names[name] {
			return errors.New("output file paths must be unique")
		}
		names[name] = true
	}
	return nil
}

// Generate produces the network configuration: one key directory per node
// under <output>/keys, named by the node address, plus the genesis file. It
// returns the validator addresses in the order they were written.
func Generate(opts Options) ([]besu.Address, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if err := prepareOutputDir(opts.OutputDir); err != nil {
		return nil, err
	}

	config, err := parseConfig(opts.ConfigFile)
	if err != nil {
		return nil, err
	}

	var validators []besu.Address
	if config.Blockchain.Nodes.Generate {
		logger.Info("generating node keys", "count", config.Blockchain.Nodes.Count)
		for i := 0; i < config.Blockchain.Nodes.Count; i++ {
			key, err := crypto.GenerateKey()
			if err != nil {
				return nil, errors.WithMessage(err, "generate keypair")
			}
			addr, err := writeKeypair(opts, &key.PublicKey, key)
			if err != nil {
				return nil, err
			}
			validators = append(validators, addr)
		}
	} else {
		logger.Info("importing public keys from configuration", "count", len(config.Blockchain.Nodes.Keys))
		for i, keyText := range config.Blockchain.Nodes.Keys {
			pub, err := parsePublicKey(keyText)
			if err != nil {
				return nil, errors.WithMessagef(err, "keys[%d]", i)
			}
			addr, err := writeKeypair(opts, pub, nil)
			if err != nil {
				return nil, err
			}
			validators = append(validators, addr)
		}
	}

	if err := processExtraData(config, validators); err != nil {
		return nil, err
	}
	if err := writeGenesisFile(opts, config); err != nil {
		return nil, err
	}
	return validators, nil
}

func prepareOutputDir(dir string) error {
	entries, err := os.ReadDir(dir)
	switch {
	case os.IsNotExist(err):
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.WithMessage(err, "create output directory")
		}
	case err != nil:
		return errors.WithMessage(err, "read output directory")
	case len(entries) > 0:
		return errors.New("output directory must be empty")
	}
	return os.Mkdir(filepath.Join(dir, "keys"), 0o755)
}

func parseConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithMessage(err, "read configuration file")
	}
	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, errors.WithMessage(err, "parse configuration file")
	}
	if config.Genesis == nil {
		config.Genesis = map[string]json.RawMessage{}
	}
	return &config, nil
}

// parsePublicKey accepts a hex encoded secp256k1 public key, with or without
// the uncompressed-point prefix byte.
func parsePublicKey(text string) (*ecdsa.PublicKey, error) {
	data, err := hexutil.Decode(text)
	if err != nil {
		return nil, err
	}
	if len(data) == 64 {
		data = append([]byte{4}, data...)
	}
	return crypto.UnmarshalPubkey(data)
}

// writeKeypair writes the public key, and the private key when present, into
// a directory named by the derived node address.
func writeKeypair(opts Options, pub *ecdsa.PublicKey, key *ecdsa.PrivateKey) (besu.Address, error) {
	addr := besu.BytesToAddress(crypto.PubkeyToAddress(*pub).Bytes())

	nodeDir := filepath.Join(opts.OutputDir, "keys", addr.String())
	if err := os.Mkdir(nodeDir, 0o755); err != nil {
		return besu.Address{}, errors.WithMessage(err, "create node key directory")
	}

	pubText := hexutil.Encode(crypto.FromECDSAPub(pub)[1:])
	if err := createFileAndWrite(nodeDir, opts.PublicKeyFileName, pubText); err != nil {
		return besu.Address{}, err
	}
	if key != nil {
		privText := hexutil.Encode(crypto.FromECDSA(key))
		if err := createFileAndWrite(nodeDir, opts.PrivateKeyFileName, privText); err != nil {
			return besu.Address{}, err
		}
	}
	logger.Info("wrote node key files", "address", addr)
	return addr, nil
}

func createFileAndWrite(dir, name, content string) error {
	f, err := os.OpenFile(filepath.Join(dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// processExtraData injects the encoded validator set when the genesis config
// section selects IBFT 2.0.
func processExtraData(config *Config, validators []besu.Address) error {
	raw, ok := config.Genesis["config"]
	if !ok {
		return nil
	}
	var consensus map[string]json.RawMessage
	if err := json.Unmarshal(raw, &consensus); err != nil {
		return errors.WithMessage(err, "parse genesis config section")
	}
	if _, ok := consensus["ibft2"]; !ok {
		return nil
	}

	logger.Info("generating IBFT extra data", "validators", len(validators))
	extraData, err := ExtraData(validators)
	if err != nil {
		return err
	}
	encoded, err := json.Marshal(extraData)
	if err != nil {
		return err
	}
	config.Genesis["extraData"] = encoded
	return nil
}

func writeGenesisFile(opts Options, config *Config) error {
	logger.Info("writing genesis file", "name", opts.GenesisFileName)
	data, err := json.MarshalIndent(config.Genesis, "", "  ")
	if err != nil {
		return err
	}
	return createFileAndWrite(opts.OutputDir, opts.GenesisFileName, string(data))
}
