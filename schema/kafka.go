package schema

// kafka event payloads, one topic per event kind

type CommitEvent struct {
	Name       string `json:"name"`
	Submitter  string `json:"submitter"`
	Commitment string `json:"commitment"`
	Timestamp  int64  `json:"timestamp"`
}

type RegisterEvent struct {
	Name      string `json:"name"`
	Caller    string `json:"caller"`
	Owner     string `json:"owner"`
	TotalCost string `json:"totalCost"` // wei
	Timestamp int64  `json:"timestamp"`
}
