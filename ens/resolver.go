package ens

import (
	"context"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
)

const resolverABIJson = `[
{"type":"function","name":"setContenthash","stateMutability":"nonpayable","inputs":[{"name":"node","type":"bytes32"},{"name":"hash","type":"bytes"}],"outputs":[]}
]`

type Resolver struct {
	cli      *Client
	contract *bind.BoundContract
	address  common.Address
}

func NewResolver(cli *Client, addr common.Address) (*Resolver, error) {
	parsed, err := abi.JSON(strings.NewReader(resolverABIJson))
	if err != nil {
		return nil, err
	}
	return &Resolver{
		cli:      cli,
		contract: bind.NewBoundContract(addr, parsed, cli.Eth, cli.Eth, cli.Eth),
		address:  addr,
	}, nil
}

func (r *Resolver) SetContentHash(ctx context.Context, node common.Hash, contentHash []byte) error {
	opts, err := r.cli.transactOpts(ctx, nil)
	if err != nil {
		return err
	}
	tx, err := r.contract.Transact(opts, "setContenthash", [32]byte(node), contentHash)
	if err != nil {
		return err
	}
	return r.cli.waitMined(ctx, tx)
}
