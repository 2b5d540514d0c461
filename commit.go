package ensproxy

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/everFinance/ensproxy/schema"
)

// BuildCommitment validates the name against upstream and delegates digest
// computation to the controller's commitment function. Validity and
// availability are point-in-time facts, both are re-checked on every call.
// No side effects.
func (s *Proxy) BuildCommitment(ctx context.Context, req schema.RegistrationRequest) (schema.Commitment, error) {
	controller, err := s.currentController()
	if err != nil {
		return schema.Commitment{}, err
	}
	valid, err := controller.Valid(ctx, req.Name)
	if err != nil {
		return schema.Commitment{}, fmt.Errorf("upstream valid: %w", err)
	}
	if !valid {
		return schema.Commitment{}, schema.ErrNameInvalid
	}
	available, err := controller.Available(ctx, req.Name)
	if err != nil {
		return schema.Commitment{}, fmt.Errorf("upstream available: %w", err)
	}
	if !available {
		return schema.Commitment{}, schema.ErrNameUnavailable
	}
	commitment, err := controller.MakeCommitment(ctx, req)
	if err != nil {
		return schema.Commitment{}, fmt.Errorf("upstream makeCommitment: %w", err)
	}
	return commitment, nil
}

// SubmitCommitment forwards an already-built commitment upstream and records
// the submission for off-system observability. Submission is one-way and not
// idempotent; reveal-window bookkeeping lives upstream.
func (s *Proxy) SubmitCommitment(ctx context.Context, name string, submitter common.Address, commitment schema.Commitment) error {
	controller, err := s.currentController()
	if err != nil {
		return err
	}
	if err := controller.Commit(ctx, commitment); err != nil {
		return fmt.Errorf("upstream commit: %w", err)
	}

	event := schema.CommitEvent{
		Name:       name,
		Submitter:  submitter.Hex(),
		Commitment: commitment.Hex(),
		Timestamp:  time.Now().Unix(),
	}
	if err := s.store.SaveCommitAudit(event); err != nil {
		log.Error("save commit audit", "err", err, "name", name)
	}
	if err := s.wdb.InsertCommitRecord(schema.CommitRecord{
		Name:       name,
		Submitter:  event.Submitter,
		Commitment: event.Commitment,
	}); err != nil {
		log.Error("insert commit record", "err", err, "name", name)
	}
	s.events.PushCommit(event)
	metricCommitment()
	log.Debug("commitment submitted", "name", name, "submitter", event.Submitter, "commitment", event.Commitment)
	return nil
}

// CommitToName builds then submits in one call, re-validating name validity
// and availability right before submission.
func (s *Proxy) CommitToName(ctx context.Context, req schema.RegistrationRequest, submitter common.Address) (schema.Commitment, error) {
	commitment, err := s.BuildCommitment(ctx, req)
	if err != nil {
		return schema.Commitment{}, err
	}
	if err := s.SubmitCommitment(ctx, req.Name, submitter, commitment); err != nil {
		return schema.Commitment{}, err
	}
	return commitment, nil
}
