package ens

import (
	"context"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
)

const registrarABIJson = `[
{"type":"function","name":"nameExpires","stateMutability":"view","inputs":[{"name":"id","type":"uint256"}],"outputs":[{"name":"","type":"uint256"}]}
]`

// BaseRegistrar holds the actual name NFTs; the proxy only reads expiries.
type BaseRegistrar struct {
	cli      *Client
	contract *bind.BoundContract
	address  common.Address
}

func NewBaseRegistrar(cli *Client, addr common.Address) (*BaseRegistrar, error) {
	parsed, err := abi.JSON(strings.NewReader(registrarABIJson))
	if err != nil {
		return nil, err
	}
	return &BaseRegistrar{
		cli:      cli,
		contract: bind.NewBoundContract(addr, parsed, cli.Eth, cli.Eth, cli.Eth),
		address:  addr,
	}, nil
}

func (r *BaseRegistrar) ExpiryOf(ctx context.Context, id *big.Int) (*big.Int, error) {
	var out []interface{}
	if err := r.contract.Call(r.cli.callOpts(ctx), &out, "nameExpires", id); err != nil {
		return nil, err
	}
	return abi.ConvertType(out[0], new(big.Int)).(*big.Int), nil
}
