// Copyright (C) 2022, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package models

import (
	"github.com/luxfi/geth/common"
	"github.com/luxfi/rsvctl/pkg/chain"
)

// Generation is the set of contracts a fork replaces.
type Generation struct {
	Reserve chain.Contract `yaml:"reserve"`
	Manager chain.Contract `yaml:"manager"`
	Relayer chain.Contract `yaml:"relayer,omitempty"`
}

// Deployed reports whether any contract of the generation exists.
func (g Generation) Deployed() bool {
	return !g.Reserve.IsZero() || !g.Manager.IsZero() || !g.Relayer.IsZero()
}

// Complete reports whether every contract of the generation exists.
func (g Generation) Complete() bool {
	return !g.Reserve.IsZero() && !g.Manager.IsZero() && !g.Relayer.IsZero()
}

// Deployment is a complete Reserve system.
type Deployment struct {
	Collateral      []chain.Contract `yaml:"collateral"`
	Basket          chain.Contract   `yaml:"basket"`
	Vault           chain.Contract   `yaml:"vault"`
	ProposalFactory chain.Contract   `yaml:"proposalFactory"`
	Generation      `yaml:",inline"`
	Operator        common.Address `yaml:"operator"`
}

// Contracts lists every contract of the deployment with a display label.
func (d *Deployment) Contracts() []Labeled {
	out := make([]Labeled, 0, len(d.Collateral)+6)
	for i, c := range d.Collateral {
		out = append(out, Labeled{Label: collateralLabel(i), Contract: c})
	}
	out = append(out,
		Labeled{"Basket", d.Basket},
		Labeled{"Vault", d.Vault},
		Labeled{"ProposalFactory", d.ProposalFactory},
		Labeled{"Reserve", d.Reserve},
		Labeled{"Manager", d.Manager},
	)
	if !d.Relayer.IsZero() {
		out = append(out, Labeled{"Relayer", d.Relayer})
	}
	return out
}

type Labeled struct {
	Label    string
	Contract chain.Contract
}

var collateralLabels = []string{"USDC", "TUSD", "PAX"}

func collateralLabel(i int) string {
	if i < len(collateralLabels) {
		return collateralLabels[i]
	}
	return "Token"
}
