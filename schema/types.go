package schema

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Commitment is the upstream controller's hiding digest of a registration
// request. It is computed by the controller's makeCommitment and only ever
// passed through this system.
type Commitment = common.Hash

// MaxServiceFee is the hard ceiling for the proxy service fee: 0.01 ETH.
var MaxServiceFee = new(big.Int).Exp(big.NewInt(10), big.NewInt(16), nil)

// RegistrationRequest carries every argument of the upstream register call.
// Built per request, never persisted.
type RegistrationRequest struct {
	Name          string
	Owner         common.Address
	Duration      *big.Int // seconds
	Secret        [32]byte
	Resolver      common.Address
	Data          [][]byte // resolver multicall records
	ReverseRecord bool
	Fuses         uint16 // owner controlled fuses
}

// PriceQuote is the upstream rent price for a (name, duration) pair.
// Premium decays over time, so quotes must never be reused across calls.
type PriceQuote struct {
	Base    *big.Int
	Premium *big.Int
}

// CommitmentAges are the controller's reveal window bounds, constant per
// controller deployment.
type CommitmentAges struct {
	Min *big.Int `json:"min"`
	Max *big.Int `json:"max"`
}
