package schema

type RespErr struct {
	Err string `json:"error"`
}

func (r RespErr) Error() string {
	return r.Err
}

type RespQuote struct {
	Name       string `json:"name"`
	Duration   int64  `json:"duration"`
	Base       string `json:"base"`    // wei
	Premium    string `json:"premium"` // wei
	ServiceFee string `json:"serviceFee"`
	Total      string `json:"total"`
}

type RespFee struct {
	ServiceFee string `json:"serviceFee"` // wei
	MaxFee     string `json:"maxFee"`
}

type RespCommitment struct {
	Commitment string `json:"commitment"` // hex
}

type RespExpiry struct {
	Name   string `json:"name"`
	Expiry int64  `json:"expiry"` // unix
}

type RespBool struct {
	Result bool `json:"result"`
}

type RespTreasury struct {
	Balance string `json:"balance"` // wei
}

// ReqRegistration is the wire form of RegistrationRequest: byte fields hex
// encoded, amounts as decimal strings.
type ReqRegistration struct {
	Name          string   `json:"name"`
	Owner         string   `json:"owner"`
	Duration      int64    `json:"duration"`
	Secret        string   `json:"secret"` // hex 32 bytes
	Resolver      string   `json:"resolver"`
	Data          []string `json:"data"` // hex blobs
	ReverseRecord bool     `json:"reverseRecord"`
	Fuses         uint16   `json:"fuses"`

	Paid string `json:"paid,omitempty"` // wei, register only
}

type ReqCommit struct {
	Name       string `json:"name"`
	Commitment string `json:"commitment"` // hex
}

type ReqUpdateFee struct {
	ServiceFee string `json:"serviceFee"` // wei
}

type ReqUpdateController struct {
	Controller string `json:"controller"`
}

type ReqContentHash struct {
	Node        string `json:"node"`        // hex 32 bytes
	ContentHash string `json:"contentHash"` // hex
}

type ReqTransferOwner struct {
	NewOwner string `json:"newOwner"`
}
