package ens

import (
	"context"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/everFinance/ensproxy/schema"
)

// registrar controller surface used by the proxy; matches the
// ETHRegistrarController deployment.
const controllerABIJson = `[
{"type":"function","name":"rentPrice","stateMutability":"view","inputs":[{"name":"name","type":"string"},{"name":"duration","type":"uint256"}],"outputs":[{"name":"price","type":"tuple","components":[{"name":"base","type":"uint256"},{"name":"premium","type":"uint256"}]}]},
{"type":"function","name":"makeCommitment","stateMutability":"pure","inputs":[{"name":"name","type":"string"},{"name":"owner","type":"address"},{"name":"duration","type":"uint256"},{"name":"secret","type":"bytes32"},{"name":"resolver","type":"address"},{"name":"data","type":"bytes[]"},{"name":"reverseRecord","type":"bool"},{"name":"ownerControlledFuses","type":"uint16"}],"outputs":[{"name":"","type":"bytes32"}]},
{"type":"function","name":"commit","stateMutability":"nonpayable","inputs":[{"name":"commitment","type":"bytes32"}],"outputs":[]},
{"type":"function","name":"register","stateMutability":"payable","inputs":[{"name":"name","type":"string"},{"name":"owner","type":"address"},{"name":"duration","type":"uint256"},{"name":"secret","type":"bytes32"},{"name":"resolver","type":"address"},{"name":"data","type":"bytes[]"},{"name":"reverseRecord","type":"bool"},{"name":"ownerControlledFuses","type":"uint16"}],"outputs":[]},
{"type":"function","name":"available","stateMutability":"view","inputs":[{"name":"name","type":"string"}],"outputs":[{"name":"","type":"bool"}]},
{"type":"function","name":"valid","stateMutability":"pure","inputs":[{"name":"name","type":"string"}],"outputs":[{"name":"","type":"bool"}]},
{"type":"function","name":"minCommitmentAge","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"maxCommitmentAge","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]}
]`

// rent price tuple returned by rentPrice
type priceTuple struct {
	Base    *big.Int
	Premium *big.Int
}

type Controller struct {
	cli      *Client
	contract *bind.BoundContract
	address  common.Address
}

func NewController(cli *Client, addr common.Address) (*Controller, error) {
	parsed, err := abi.JSON(strings.NewReader(controllerABIJson))
	if err != nil {
		return nil, err
	}
	return &Controller{
		cli:      cli,
		contract: bind.NewBoundContract(addr, parsed, cli.Eth, cli.Eth, cli.Eth),
		address:  addr,
	}, nil
}

func (c *Controller) Address() common.Address {
	return c.address
}

func (c *Controller) RentPrice(ctx context.Context, name string, duration *big.Int) (schema.PriceQuote, error) {
	var out []interface{}
	if err := c.contract.Call(c.cli.callOpts(ctx), &out, "rentPrice", name, duration); err != nil {
		return schema.PriceQuote{}, err
	}
	price := *abi.ConvertType(out[0], new(priceTuple)).(*priceTuple)
	return schema.PriceQuote{Base: price.Base, Premium: price.Premium}, nil
}

func (c *Controller) MakeCommitment(ctx context.Context, req schema.RegistrationRequest) (schema.Commitment, error) {
	var out []interface{}
	err := c.contract.Call(c.cli.callOpts(ctx), &out, "makeCommitment",
		req.Name, req.Owner, req.Duration, req.Secret, req.Resolver, req.Data, req.ReverseRecord, req.Fuses)
	if err != nil {
		return schema.Commitment{}, err
	}
	return schema.Commitment(*abi.ConvertType(out[0], new([32]byte)).(*[32]byte)), nil
}

func (c *Controller) Commit(ctx context.Context, commitment schema.Commitment) error {
	opts, err := c.cli.transactOpts(ctx, nil)
	if err != nil {
		return err
	}
	tx, err := c.contract.Transact(opts, "commit", [32]byte(commitment))
	if err != nil {
		return err
	}
	return c.cli.waitMined(ctx, tx)
}

func (c *Controller) Register(ctx context.Context, req schema.RegistrationRequest, value *big.Int) error {
	opts, err := c.cli.transactOpts(ctx, value)
	if err != nil {
		return err
	}
	tx, err := c.contract.Transact(opts, "register",
		req.Name, req.Owner, req.Duration, req.Secret, req.Resolver, req.Data, req.ReverseRecord, req.Fuses)
	if err != nil {
		return err
	}
	return c.cli.waitMined(ctx, tx)
}

func (c *Controller) Available(ctx context.Context, name string) (bool, error) {
	var out []interface{}
	if err := c.contract.Call(c.cli.callOpts(ctx), &out, "available", name); err != nil {
		return false, err
	}
	return *abi.ConvertType(out[0], new(bool)).(*bool), nil
}

func (c *Controller) Valid(ctx context.Context, name string) (bool, error) {
	var out []interface{}
	if err := c.contract.Call(c.cli.callOpts(ctx), &out, "valid", name); err != nil {
		return false, err
	}
	return *abi.ConvertType(out[0], new(bool)).(*bool), nil
}

func (c *Controller) MinCommitmentAge(ctx context.Context) (*big.Int, error) {
	var out []interface{}
	if err := c.contract.Call(c.cli.callOpts(ctx), &out, "minCommitmentAge"); err != nil {
		return nil, err
	}
	return abi.ConvertType(out[0], new(big.Int)).(*big.Int), nil
}

func (c *Controller) MaxCommitmentAge(ctx context.Context) (*big.Int, error) {
	var out []interface{}
	if err := c.contract.Call(c.cli.callOpts(ctx), &out, "maxCommitmentAge"); err != nil {
		return nil, err
	}
	return abi.ConvertType(out[0], new(big.Int)).(*big.Int), nil
}
