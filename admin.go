package ensproxy

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/everFinance/ensproxy/schema"
)

// requireOwner gates every administrative operation.
func (s *Proxy) requireOwner(caller common.Address) error {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	if caller != s.owner {
		return schema.ErrUnauthorized
	}
	return nil
}

// TransferOwnership hands the administrator role to newOwner. The stored
// owner survives restarts and overrides the deploy-time flag.
func (s *Proxy) TransferOwnership(caller, newOwner common.Address) error {
	if err := s.requireOwner(caller); err != nil {
		return err
	}
	if newOwner == (common.Address{}) {
		return schema.ErrInvalidInput
	}
	if err := s.store.SaveOwner(newOwner); err != nil {
		return err
	}
	s.stateMu.Lock()
	s.owner = newOwner
	s.stateMu.Unlock()
	log.Info("ownership transferred", "previous", caller.Hex(), "new", newOwner.Hex())
	return nil
}

// UpdateController rebinds the upstream controller. Until the first
// successful rebind (or a non-nil binding at construction) every
// controller-dependent operation fails with ErrNotConfigured.
func (s *Proxy) UpdateController(caller, addr common.Address) error {
	if err := s.requireOwner(caller); err != nil {
		return err
	}
	if addr == (common.Address{}) {
		return schema.ErrInvalidInput
	}
	controller, err := s.newController(addr)
	if err != nil {
		return err
	}
	s.stateMu.Lock()
	s.controller = controller
	s.stateMu.Unlock()
	log.Info("controller updated", "controller", addr.Hex())
	return nil
}
