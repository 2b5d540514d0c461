package ensproxy

import (
	"context"
	"testing"

	"github.com/everFinance/ensproxy/schema"
	"github.com/stretchr/testify/assert"
)

func TestBuildCommitmentDeterministic(t *testing.T) {
	p, _ := newTestProxy(t)
	ctx := context.Background()

	c1, err := p.BuildCommitment(ctx, testRequest("alice"))
	assert.NoError(t, err)
	c2, err := p.BuildCommitment(ctx, testRequest("alice"))
	assert.NoError(t, err)
	assert.Equal(t, c1, c2)

	// any differing field must change the digest
	reqOtherSecret := testRequest("alice")
	reqOtherSecret.Secret[0] ^= 0xff
	c3, err := p.BuildCommitment(ctx, reqOtherSecret)
	assert.NoError(t, err)
	assert.NotEqual(t, c1, c3)

	c4, err := p.BuildCommitment(ctx, testRequest("bob"))
	assert.NoError(t, err)
	assert.NotEqual(t, c1, c4)
}

func TestBuildCommitmentChecksName(t *testing.T) {
	p, fakes := newTestProxy(t)
	ctx := context.Background()

	fakes.controller.invalid["!!"] = true
	_, err := p.BuildCommitment(ctx, testRequest("!!"))
	assert.ErrorIs(t, err, schema.ErrNameInvalid)

	fakes.controller.unavailable["taken"] = true
	_, err = p.BuildCommitment(ctx, testRequest("taken"))
	assert.ErrorIs(t, err, schema.ErrNameUnavailable)
}

func TestSubmitCommitment(t *testing.T) {
	p, fakes := newTestProxy(t)
	ctx := context.Background()

	commitment, err := p.BuildCommitment(ctx, testRequest("alice"))
	assert.NoError(t, err)
	assert.NoError(t, p.SubmitCommitment(ctx, "alice", testCaller, commitment))

	assert.Len(t, fakes.controller.commits, 1)
	assert.Equal(t, commitment, fakes.controller.commits[0])

	// submission event recorded for observability
	records, err := p.wdb.GetCommitsBySubmitter(testCaller.Hex(), 10, 0)
	assert.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, "alice", records[0].Name)
	assert.Equal(t, commitment.Hex(), records[0].Commitment)

	keys, err := p.store.KVDb.GetAllKey(schema.CommitAuditBucket)
	assert.NoError(t, err)
	assert.Len(t, keys, 1)
}

func TestCommitToName(t *testing.T) {
	p, fakes := newTestProxy(t)
	ctx := context.Background()

	commitment, err := p.CommitToName(ctx, testRequest("alice"), testCaller)
	assert.NoError(t, err)
	assert.Len(t, fakes.controller.commits, 1)
	assert.Equal(t, commitment, fakes.controller.commits[0])

	// unavailable names are rejected before submission
	fakes.controller.unavailable["taken"] = true
	_, err = p.CommitToName(ctx, testRequest("taken"), testCaller)
	assert.ErrorIs(t, err, schema.ErrNameUnavailable)
	assert.Len(t, fakes.controller.commits, 1)
}

func TestSubmitCommitmentUpstreamRevert(t *testing.T) {
	p, fakes := newTestProxy(t)
	ctx := context.Background()

	fakes.controller.commitErr = assert.AnError
	commitment, err := p.BuildCommitment(ctx, testRequest("alice"))
	assert.NoError(t, err)
	err = p.SubmitCommitment(ctx, "alice", testCaller, commitment)
	assert.ErrorIs(t, err, assert.AnError)

	// failed submissions leave no trace
	records, err := p.wdb.GetCommitsBySubmitter(testCaller.Hex(), 10, 0)
	assert.NoError(t, err)
	assert.Len(t, records, 0)
}

func TestCommitNotConfigured(t *testing.T) {
	p, _ := newTestProxy(t)
	p.stateMu.Lock()
	p.controller = nil
	p.stateMu.Unlock()

	_, err := p.BuildCommitment(context.Background(), testRequest("alice"))
	assert.ErrorIs(t, err, schema.ErrNotConfigured)
	err = p.SubmitCommitment(context.Background(), "alice", testCaller, schema.Commitment{})
	assert.ErrorIs(t, err, schema.ErrNotConfigured)
}
