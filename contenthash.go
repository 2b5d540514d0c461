package ensproxy

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/everFinance/ensproxy/schema"
)

// SetContentHashByNode pushes a content hash to the node's active resolver.
// The resolver is re-resolved from the registry on every call, resolver
// bindings can change under a node at any time.
func (s *Proxy) SetContentHashByNode(ctx context.Context, caller common.Address, node common.Hash, contentHash []byte) error {
	if err := s.requireOwner(caller); err != nil {
		return err
	}
	resolverAddr, err := s.registry.ResolverOf(ctx, node)
	if err != nil {
		return fmt.Errorf("upstream resolver lookup: %w", err)
	}
	if resolverAddr == (common.Address{}) {
		return schema.ErrResolverNotSet
	}
	resolver, err := s.newResolver(resolverAddr)
	if err != nil {
		return err
	}
	if err := resolver.SetContentHash(ctx, node, contentHash); err != nil {
		return fmt.Errorf("upstream setContenthash: %w", err)
	}
	log.Info("content hash updated", "node", node.Hex(), "resolver", resolverAddr.Hex())
	return nil
}
