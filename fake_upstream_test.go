package ensproxy

import (
	"context"
	"encoding/binary"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/everFinance/ensproxy/schema"
)

var (
	testOwner  = common.HexToAddress("0x1000000000000000000000000000000000000001")
	testCaller = common.HexToAddress("0x2000000000000000000000000000000000000002")
)

type registerCall struct {
	req   schema.RegistrationRequest
	value *big.Int
}

// fakeController implements RegistrarController in memory, with knobs for
// adversarial behaviors: failing calls, reentrant callbacks, shifting prices.
type fakeController struct {
	base    *big.Int
	premium *big.Int

	invalid     map[string]bool
	unavailable map[string]bool

	commits    []schema.Commitment
	registered []registerCall

	commitErr   error
	registerErr error
	onRegister  func() // invoked mid upstream register call

	minAge *big.Int
	maxAge *big.Int
}

func newFakeController() *fakeController {
	return &fakeController{
		base:        big.NewInt(1000),
		premium:     big.NewInt(0),
		invalid:     map[string]bool{},
		unavailable: map[string]bool{},
		minAge:      big.NewInt(60),
		maxAge:      big.NewInt(86400),
	}
}

func (f *fakeController) RentPrice(ctx context.Context, name string, duration *big.Int) (schema.PriceQuote, error) {
	return schema.PriceQuote{
		Base:    new(big.Int).Set(f.base),
		Premium: new(big.Int).Set(f.premium),
	}, nil
}

// MakeCommitment hashes every request field, mirroring the upstream's
// keccak over the abi-encoded parameters.
func (f *fakeController) MakeCommitment(ctx context.Context, req schema.RegistrationRequest) (schema.Commitment, error) {
	durBy := make([]byte, 8)
	binary.BigEndian.PutUint64(durBy, req.Duration.Uint64())
	fuseBy := make([]byte, 2)
	binary.BigEndian.PutUint16(fuseBy, req.Fuses)
	reverse := byte(0)
	if req.ReverseRecord {
		reverse = 1
	}
	parts := [][]byte{
		[]byte(req.Name), req.Owner.Bytes(), durBy, req.Secret[:], req.Resolver.Bytes(), {reverse}, fuseBy,
	}
	for _, d := range req.Data {
		parts = append(parts, crypto.Keccak256(d))
	}
	return crypto.Keccak256Hash(parts...), nil
}

func (f *fakeController) Commit(ctx context.Context, commitment schema.Commitment) error {
	if f.commitErr != nil {
		return f.commitErr
	}
	f.commits = append(f.commits, commitment)
	return nil
}

func (f *fakeController) Register(ctx context.Context, req schema.RegistrationRequest, value *big.Int) error {
	if f.onRegister != nil {
		f.onRegister()
	}
	if f.registerErr != nil {
		return f.registerErr
	}
	f.registered = append(f.registered, registerCall{req: req, value: new(big.Int).Set(value)})
	return nil
}

func (f *fakeController) Available(ctx context.Context, name string) (bool, error) {
	return !f.unavailable[name], nil
}

func (f *fakeController) Valid(ctx context.Context, name string) (bool, error) {
	return !f.invalid[name], nil
}

func (f *fakeController) MinCommitmentAge(ctx context.Context) (*big.Int, error) {
	return f.minAge, nil
}

func (f *fakeController) MaxCommitmentAge(ctx context.Context) (*big.Int, error) {
	return f.maxAge, nil
}

type fakeRegistry struct {
	owners    map[common.Hash]common.Address
	resolvers map[common.Hash]common.Address
}

func (f *fakeRegistry) OwnerOf(ctx context.Context, node common.Hash) (common.Address, error) {
	return f.owners[node], nil
}

func (f *fakeRegistry) ResolverOf(ctx context.Context, node common.Hash) (common.Address, error) {
	return f.resolvers[node], nil
}

type fakeRegistrar struct {
	expiries map[string]*big.Int // key: id.String()
}

func (f *fakeRegistrar) ExpiryOf(ctx context.Context, id *big.Int) (*big.Int, error) {
	if expiry, ok := f.expiries[id.String()]; ok {
		return expiry, nil
	}
	return big.NewInt(0), nil
}

type contentHashCall struct {
	node common.Hash
	hash []byte
}

type fakeResolver struct {
	calls []contentHashCall
	err   error
}

func (f *fakeResolver) SetContentHash(ctx context.Context, node common.Hash, contentHash []byte) error {
	if f.err != nil {
		return f.err
	}
	f.calls = append(f.calls, contentHashCall{node: node, hash: contentHash})
	return nil
}

type transferCall struct {
	to     common.Address
	amount *big.Int
}

type fakeTransferor struct {
	fail      bool
	transfers []transferCall
}

func (f *fakeTransferor) Transfer(ctx context.Context, to common.Address, amount *big.Int) error {
	if f.fail {
		return errors.New("recipient rejected transfer")
	}
	f.transfers = append(f.transfers, transferCall{to: to, amount: new(big.Int).Set(amount)})
	return nil
}

type fakeUpstream struct {
	controller *fakeController
	registry   *fakeRegistry
	registrar  *fakeRegistrar
	resolver   *fakeResolver
	transferor *fakeTransferor
}

func newTestProxy(t *testing.T) (*Proxy, *fakeUpstream) {
	t.Helper()
	fakes := &fakeUpstream{
		controller: newFakeController(),
		registry: &fakeRegistry{
			owners:    map[common.Hash]common.Address{},
			resolvers: map[common.Hash]common.Address{},
		},
		registrar:  &fakeRegistrar{expiries: map[string]*big.Int{}},
		resolver:   &fakeResolver{},
		transferor: &fakeTransferor{},
	}
	up := Upstream{
		Registry:      fakes.registry,
		BaseRegistrar: fakes.registrar,
		Controller:    fakes.controller,
		Transferor:    fakes.transferor,
		NewController: func(addr common.Address) (RegistrarController, error) {
			return fakes.controller, nil
		},
		NewResolver: func(addr common.Address) (Resolver, error) {
			return fakes.resolver, nil
		},
	}
	p := New(
		t.TempDir(), "", t.TempDir(), true,
		false, "", "", "", "", "",
		testOwner, up, "", false,
	)
	t.Cleanup(p.Close)
	return p, fakes
}

func testRequest(name string) schema.RegistrationRequest {
	req := schema.RegistrationRequest{
		Name:     name,
		Owner:    testCaller,
		Duration: big.NewInt(31536000),
		Resolver: common.HexToAddress("0x3000000000000000000000000000000000000003"),
		Data:     [][]byte{{0x01, 0x02}},
	}
	copy(req.Secret[:], crypto.Keccak256([]byte(name+"-secret")))
	return req
}
