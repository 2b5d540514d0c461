package ens

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	ecommon "github.com/everFinance/ensproxy/common"
)

var log = ecommon.NewLog("ens")

// Client wraps a json-rpc backend plus the proxy operator key. All upstream
// collaborators (controller, registry, base registrar, resolvers) are bound
// through it.
type Client struct {
	Eth     *ethclient.Client
	prvKey  *ecdsa.PrivateKey
	chainID *big.Int
	from    common.Address
}

func NewClient(rpcUrl, prvHex string) (*Client, error) {
	eth, err := ethclient.Dial(rpcUrl)
	if err != nil {
		return nil, err
	}
	prv, err := crypto.HexToECDSA(prvHex)
	if err != nil {
		return nil, err
	}
	chainID, err := eth.ChainID(context.Background())
	if err != nil {
		return nil, err
	}
	return &Client{
		Eth:     eth,
		prvKey:  prv,
		chainID: chainID,
		from:    crypto.PubkeyToAddress(prv.PublicKey),
	}, nil
}

func (c *Client) From() common.Address {
	return c.from
}

func (c *Client) callOpts(ctx context.Context) *bind.CallOpts {
	return &bind.CallOpts{Context: ctx}
}

func (c *Client) transactOpts(ctx context.Context, value *big.Int) (*bind.TransactOpts, error) {
	opts, err := bind.NewKeyedTransactorWithChainID(c.prvKey, c.chainID)
	if err != nil {
		return nil, err
	}
	opts.Context = ctx
	opts.Value = value
	return opts, nil
}

// waitMined blocks until the tx is mined and fails on a reverted receipt, so
// an upstream revert surfaces as a call failure.
func (c *Client) waitMined(ctx context.Context, tx *types.Transaction) error {
	receipt, err := bind.WaitMined(ctx, c.Eth, tx)
	if err != nil {
		return err
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return errors.New("tx reverted: " + tx.Hash().Hex())
	}
	return nil
}

// Transfer sends native value from the operator account; used for treasury
// withdrawals.
func (c *Client) Transfer(ctx context.Context, to common.Address, amount *big.Int) error {
	nonce, err := c.Eth.PendingNonceAt(ctx, c.from)
	if err != nil {
		return err
	}
	gasPrice, err := c.Eth.SuggestGasPrice(ctx)
	if err != nil {
		return err
	}
	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &to,
		Value:    amount,
		Gas:      21000,
		GasPrice: gasPrice,
	})
	signedTx, err := types.SignTx(tx, types.LatestSignerForChainID(c.chainID), c.prvKey)
	if err != nil {
		return err
	}
	if err := c.Eth.SendTransaction(ctx, signedTx); err != nil {
		return err
	}
	log.Debug("treasury transfer submitted", "to", to.Hex(), "amount", amount.String(), "tx", signedTx.Hash().Hex())
	return c.waitMined(ctx, signedTx)
}
