package ens

import (
	"context"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
)

const registryABIJson = `[
{"type":"function","name":"owner","stateMutability":"view","inputs":[{"name":"node","type":"bytes32"}],"outputs":[{"name":"","type":"address"}]},
{"type":"function","name":"resolver","stateMutability":"view","inputs":[{"name":"node","type":"bytes32"}],"outputs":[{"name":"","type":"address"}]}
]`

type Registry struct {
	cli      *Client
	contract *bind.BoundContract
	address  common.Address
}

func NewRegistry(cli *Client, addr common.Address) (*Registry, error) {
	parsed, err := abi.JSON(strings.NewReader(registryABIJson))
	if err != nil {
		return nil, err
	}
	return &Registry{
		cli:      cli,
		contract: bind.NewBoundContract(addr, parsed, cli.Eth, cli.Eth, cli.Eth),
		address:  addr,
	}, nil
}

func (r *Registry) OwnerOf(ctx context.Context, node common.Hash) (common.Address, error) {
	var out []interface{}
	if err := r.contract.Call(r.cli.callOpts(ctx), &out, "owner", [32]byte(node)); err != nil {
		return common.Address{}, err
	}
	return *abi.ConvertType(out[0], new(common.Address)).(*common.Address), nil
}

func (r *Registry) ResolverOf(ctx context.Context, node common.Hash) (common.Address, error) {
	var out []interface{}
	if err := r.contract.Call(r.cli.callOpts(ctx), &out, "resolver", [32]byte(node)); err != nil {
		return common.Address{}, err
	}
	return *abi.ConvertType(out[0], new(common.Address)).(*common.Address), nil
}
