// Copyright (C) 2022, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package application

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"os"
	"path/filepath"

	luxlog "github.com/luxfi/log"
	"github.com/luxfi/rsvctl/pkg/chain"
	"github.com/luxfi/rsvctl/pkg/chain/evm"
	"github.com/luxfi/rsvctl/pkg/chain/simchain"
	"github.com/luxfi/rsvctl/pkg/config"
	"github.com/luxfi/rsvctl/pkg/constants"
	"github.com/luxfi/rsvctl/pkg/key"
	"github.com/luxfi/rsvctl/pkg/models"
	"github.com/luxfi/rsvctl/pkg/prompts"
	"go.uber.org/zap"
)

// SimulatedFunding is what each account starts with on a simulated chain: 100 ETH.
var SimulatedFunding = new(big.Int).Mul(big.NewInt(100), big.NewInt(1_000_000_000_000_000_000))

type App struct {
	Log     luxlog.Logger
	baseDir string
	Conf    *config.Config
	Prompt  prompts.Prompter
}

func New() *App {
	return &App{}
}

func (app *App) Setup(baseDir string, log luxlog.Logger, conf *config.Config, prompt prompts.Prompter) {
	app.baseDir = baseDir
	app.Log = log
	app.Conf = conf
	app.Prompt = prompt
}

func (app *App) GetBaseDir() string {
	return app.baseDir
}

// GetConfigPath returns the config file in use, or the default location
// when none was loaded.
func (app *App) GetConfigPath() string {
	if app.Conf != nil && app.Conf.ConfigFileExists() {
		return app.Conf.GetConfigPath()
	}
	return filepath.Join(app.baseDir, constants.DefaultConfigFileName+"."+constants.DefaultConfigFileType)
}

func (app *App) GetArtifactsDir() string {
	if app.Conf != nil {
		if dir := app.Conf.ArtifactsDir(); dir != "" {
			return dir
		}
	}
	return filepath.Join(app.baseDir, constants.ArtifactsDirName)
}

func (app *App) GetAddressBookPath() string {
	if app.Conf != nil {
		if path := app.Conf.AddressBook(); path != "" {
			return path
		}
	}
	return filepath.Join(app.baseDir, constants.AddressBookFileName)
}

func (app *App) AddressBookExists() bool {
	_, err := os.Stat(app.GetAddressBookPath())
	return err == nil
}

// GuardAddressBook refuses to let a command replace an existing address book
// unless force is set. Simulated runs never write the book.
func (app *App) GuardAddressBook(force bool) error {
	if force || app.Conf.Simulate() || !app.AddressBookExists() {
		return nil
	}
	return fmt.Errorf("%w: %s", constants.ErrAddressBookExists, app.GetAddressBookPath())
}

func (app *App) LoadForkBook() (*models.ForkBook, error) {
	return models.LoadForkBook(app.GetAddressBookPath())
}

func (app *App) SaveForkBook(book *models.ForkBook) error {
	path := app.GetAddressBookPath()
	if err := book.Save(path); err != nil {
		return err
	}
	app.Log.Debug("address book saved", zap.String("path", path))
	return nil
}

// CaptureYesNo delegates to the internal prompt
func (app *App) CaptureYesNo(prompt string) (bool, error) {
	return app.Prompt.CaptureYesNo(prompt)
}

// Confirm asks question unless --yes is set. A declined or impossible
// prompt is an error.
func (app *App) Confirm(question string) error {
	yes := app.Conf != nil && app.Conf.Yes()
	if app.Prompt == nil && !yes {
		return prompts.ErrNonInteractive
	}
	return prompts.Confirm(app.Prompt, question, yes)
}

// LoadKeys builds the signing accounts from the configuration. A simulated
// run with no key material uses the development mnemonic.
func (app *App) LoadKeys() (*key.Ring, error) {
	src := app.Conf.KeySource()
	if src.Empty() && app.Conf.Simulate() {
		src.Mnemonic = key.DevMnemonic
	}
	return key.Load(src)
}

// Connection is an open chain client.
type Connection struct {
	Client  chain.Client
	ChainID uint64
	// Sim is set when the client is a simulated chain.
	Sim   *simchain.Chain
	close func()
}

func (c *Connection) Close() {
	if c.close != nil {
		c.close()
	}
}

// Connect opens the configured chain with ring as the signers. With
// --simulate it starts an in-memory chain and funds every account.
func (app *App) Connect(ctx context.Context, ring *key.Ring) (*Connection, error) {
	if app.Conf.Simulate() {
		opts := []simchain.Option{}
		if id := app.Conf.ChainID(); id != 0 {
			opts = append(opts, simchain.WithChainID(id))
		}
		sim := simchain.New(opts...)
		for _, a := range ring.All() {
			sim.Fund(a.Address, SimulatedFunding)
		}
		app.Log.Info("using simulated chain", zap.Uint64("chainID", sim.ChainID()))
		return &Connection{Client: sim, ChainID: sim.ChainID(), Sim: sim}, nil
	}

	rpcURL := app.Conf.RPCURL()
	if rpcURL == "" {
		return nil, errors.New("no RPC endpoint: set --rpc-url or use --simulate")
	}
	artifacts, err := evm.NewArtifacts(app.GetArtifactsDir())
	if err != nil {
		return nil, err
	}
	client, err := evm.Dial(ctx, rpcURL, app.Conf.ChainID(), ring.Keys(), artifacts, app.Log)
	if err != nil {
		return nil, err
	}
	return &Connection{Client: client, ChainID: client.ChainID(), close: client.Close}, nil
}
