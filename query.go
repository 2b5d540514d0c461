package ensproxy

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/everFinance/ensproxy/schema"
)

// Available reports upstream availability for the name. Point-in-time fact,
// never cached.
func (s *Proxy) Available(ctx context.Context, name string) (bool, error) {
	controller, err := s.currentController()
	if err != nil {
		return false, err
	}
	ok, err := controller.Available(ctx, name)
	if err != nil {
		return false, fmt.Errorf("upstream available: %w", err)
	}
	return ok, nil
}

// Valid reports upstream syntactic validity for the name.
func (s *Proxy) Valid(ctx context.Context, name string) (bool, error) {
	controller, err := s.currentController()
	if err != nil {
		return false, err
	}
	ok, err := controller.Valid(ctx, name)
	if err != nil {
		return false, fmt.Errorf("upstream valid: %w", err)
	}
	return ok, nil
}

// GetExpiry returns the name's expiry timestamp from the base registrar.
// Expiry only moves forward on renewal, so a short cache window is safe.
func (s *Proxy) GetExpiry(ctx context.Context, name string) (*big.Int, error) {
	cacheKey := "expiry:" + name
	if data, err := s.localCache.Cache.Get(cacheKey); err == nil {
		if expiry, ok := new(big.Int).SetString(string(data), 10); ok {
			return expiry, nil
		}
	}
	id := new(big.Int).SetBytes(crypto.Keccak256([]byte(name)))
	expiry, err := s.baseRegistrar.ExpiryOf(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("upstream nameExpires: %w", err)
	}
	if err := s.localCache.Cache.Set(cacheKey, []byte(expiry.String())); err != nil {
		log.Warn("cache expiry", "err", err, "name", name)
	}
	return expiry, nil
}

// CommitmentAges returns the controller's reveal window bounds. Constant per
// controller deployment, cached and refreshed by a background job.
func (s *Proxy) CommitmentAges(ctx context.Context) (schema.CommitmentAges, error) {
	if data, err := s.localCache.Cache.Get("commitment-ages"); err == nil {
		ages := schema.CommitmentAges{}
		if err := json.Unmarshal(data, &ages); err == nil {
			return ages, nil
		}
	}
	return s.fetchCommitmentAges(ctx)
}

func (s *Proxy) fetchCommitmentAges(ctx context.Context) (schema.CommitmentAges, error) {
	controller, err := s.currentController()
	if err != nil {
		return schema.CommitmentAges{}, err
	}
	minAge, err := controller.MinCommitmentAge(ctx)
	if err != nil {
		return schema.CommitmentAges{}, fmt.Errorf("upstream minCommitmentAge: %w", err)
	}
	maxAge, err := controller.MaxCommitmentAge(ctx)
	if err != nil {
		return schema.CommitmentAges{}, fmt.Errorf("upstream maxCommitmentAge: %w", err)
	}
	ages := schema.CommitmentAges{Min: minAge, Max: maxAge}
	if data, err := json.Marshal(ages); err == nil {
		if err := s.localCache.Cache.Set("commitment-ages", data); err != nil {
			log.Warn("cache commitment ages", "err", err)
		}
	}
	return ages, nil
}
