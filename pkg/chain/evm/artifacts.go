// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package evm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/luxfi/geth/accounts/abi"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/rsvctl/pkg/chain"
	"github.com/luxfi/rsvctl/pkg/constants"
)

// Artifact is a compiled contract in brownie build format.
type Artifact struct {
	Name     string
	ABI      abi.ABI
	Bytecode []byte
}

type artifactFile struct {
	ContractName string          `json:"contractName"`
	ABI          json.RawMessage `json:"abi"`
	Bytecode     string          `json:"bytecode"`
}

// Artifacts loads <dir>/<Kind>.json on first use.
type Artifacts struct {
	dir   string
	mu    sync.Mutex
	cache map[chain.Kind]*Artifact
}

func NewArtifacts(dir string) (*Artifacts, error) {
	if dir == "" {
		return nil, constants.ErrNoArtifacts
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("artifacts directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("artifacts path %s is not a directory", dir)
	}
	return &Artifacts{dir: dir, cache: map[chain.Kind]*Artifact{}}, nil
}

func (a *Artifacts) Get(kind chain.Kind) (*Artifact, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if art, ok := a.cache[kind]; ok {
		return art, nil
	}
	art, err := loadArtifact(filepath.Join(a.dir, string(kind)+".json"))
	if err != nil {
		return nil, fmt.Errorf("failed to load %s artifact: %w", kind, err)
	}
	a.cache[kind] = art
	return art, nil
}

func loadArtifact(path string) (*Artifact, error) {
	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f artifactFile
	if err := json.Unmarshal(bs, &f); err != nil {
		return nil, err
	}
	if len(f.ABI) == 0 {
		return nil, fmt.Errorf("%s has no abi", path)
	}
	parsed, err := abi.JSON(bytes.NewReader(f.ABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse abi: %w", err)
	}
	return &Artifact{
		Name:     f.ContractName,
		ABI:      parsed,
		Bytecode: common.FromHex(f.Bytecode),
	}, nil
}
