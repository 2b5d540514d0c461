package schema

const (
	// audit store buckets
	CommitAuditBucket   = "commit-audit-bucket"
	RegisterAuditBucket = "register-audit-bucket"
	TreasuryBucket      = "treasury-bucket"
	ConstantsBucket     = "constants-bucket"
)

const (
	TreasuryBalanceKey = "treasury-balance"
	OwnerKey           = "owner"
)
