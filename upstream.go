package ensproxy

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/everFinance/ensproxy/schema"
)

// RegistrarController is the upstream commit-reveal controller. It owns
// pricing, commitment hashing, reveal-window timing and the final
// registration; the proxy only forwards.
type RegistrarController interface {
	RentPrice(ctx context.Context, name string, duration *big.Int) (schema.PriceQuote, error)
	MakeCommitment(ctx context.Context, req schema.RegistrationRequest) (schema.Commitment, error)
	Commit(ctx context.Context, commitment schema.Commitment) error
	// Register forwards the registration with value attached. value must be
	// exactly base+premium; the service fee never leaves the proxy.
	Register(ctx context.Context, req schema.RegistrationRequest, value *big.Int) error
	Available(ctx context.Context, name string) (bool, error)
	Valid(ctx context.Context, name string) (bool, error)
	MinCommitmentAge(ctx context.Context) (*big.Int, error)
	MaxCommitmentAge(ctx context.Context) (*big.Int, error)
}

// NameRegistry resolves node ownership and resolver bindings.
type NameRegistry interface {
	OwnerOf(ctx context.Context, node common.Hash) (common.Address, error)
	ResolverOf(ctx context.Context, node common.Hash) (common.Address, error)
}

// BaseRegistrar exposes name expiry by token id (keccak256 of the label).
type BaseRegistrar interface {
	ExpiryOf(ctx context.Context, id *big.Int) (*big.Int, error)
}

// Resolver stores per-name records; only content hash updates are used here.
type Resolver interface {
	SetContentHash(ctx context.Context, node common.Hash, contentHash []byte) error
}

// ValueTransferor moves native value out of the proxy treasury.
type ValueTransferor interface {
	Transfer(ctx context.Context, to common.Address, amount *big.Int) error
}

// ControllerFactory dials a controller binding; used by UpdateController.
type ControllerFactory func(addr common.Address) (RegistrarController, error)

// ResolverFactory dials resolvers discovered through the registry. Resolver
// bindings can change per node, so resolvers are dialed per call and never
// cached.
type ResolverFactory func(addr common.Address) (Resolver, error)

// Upstream groups the injected collaborator capabilities. Production wiring
// uses the ens package; tests substitute fakes.
type Upstream struct {
	Registry      NameRegistry
	BaseRegistrar BaseRegistrar
	Controller    RegistrarController // nil until UpdateController is called
	Transferor    ValueTransferor
	NewController ControllerFactory
	NewResolver   ResolverFactory
}
