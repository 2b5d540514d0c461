package sdk

import (
	"crypto/ecdsa"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/everFinance/ensproxy/schema"
	"github.com/tidwall/gjson"
	"gopkg.in/h2non/gentleman.v2"
	"gopkg.in/h2non/gentleman.v2/plugins/body"
)

// Client talks to a running proxy over its http api. Write endpoints need a
// signer key, reads work without one.
type Client struct {
	SCli   *gentleman.Client
	prvKey *ecdsa.PrivateKey
}

func New(proxyUrl string) *Client {
	return &Client{
		SCli: gentleman.New().URL(proxyUrl),
	}
}

func NewWithSigner(proxyUrl, prvHex string) (*Client, error) {
	prv, err := crypto.HexToECDSA(prvHex)
	if err != nil {
		return nil, err
	}
	return &Client{
		SCli:   gentleman.New().URL(proxyUrl),
		prvKey: prv,
	}, nil
}

func (c *Client) GetQuote(name string, duration int64) (res schema.RespQuote, err error) {
	err = c.get(fmt.Sprintf("/price/%s/%d", name, duration), &res)
	return
}

func (c *Client) GetFee() (res schema.RespFee, err error) {
	err = c.get("/fee", &res)
	return
}

func (c *Client) GetTreasury() (res schema.RespTreasury, err error) {
	err = c.get("/treasury", &res)
	return
}

func (c *Client) Available(name string) (bool, error) {
	res := schema.RespBool{}
	err := c.get("/available/"+name, &res)
	return res.Result, err
}

func (c *Client) Valid(name string) (bool, error) {
	res := schema.RespBool{}
	err := c.get("/valid/"+name, &res)
	return res.Result, err
}

func (c *Client) GetExpiry(name string) (res schema.RespExpiry, err error) {
	err = c.get("/expiry/"+name, &res)
	return
}

func (c *Client) CommitmentAges() (res schema.CommitmentAges, err error) {
	err = c.get("/commitment/ages", &res)
	return
}

func (c *Client) GetCommits(submitter string, num, from int) (res []schema.CommitRecord, err error) {
	err = c.get(fmt.Sprintf("/orders/commits/%s?num=%d&from=%d", submitter, num, from), &res)
	return
}

func (c *Client) GetRegistrations(caller string, num, from int) (res []schema.RegistrationRecord, err error) {
	err = c.get(fmt.Sprintf("/orders/registrations/%s?num=%d&from=%d", caller, num, from), &res)
	return
}

// BuildCommitment is a pure read, no signature needed.
func (c *Client) BuildCommitment(req schema.ReqRegistration) (res schema.RespCommitment, err error) {
	err = c.post("/commitment", req, &res, false)
	return
}

func (c *Client) SubmitCommitment(name, commitment string) (res schema.RespCommitment, err error) {
	err = c.post("/commit", schema.ReqCommit{Name: name, Commitment: commitment}, &res, true)
	return
}

func (c *Client) CommitToName(req schema.ReqRegistration) (res schema.RespCommitment, err error) {
	err = c.post("/commit/name", req, &res, true)
	return
}

// Register forwards the registration; req.Paid is the attached payment in
// wei and must cover base+premium+serviceFee from a fresh quote.
func (c *Client) Register(req schema.ReqRegistration) error {
	return c.post("/register", req, nil, true)
}

func (c *Client) UpdateFee(serviceFee string) error {
	return c.post("/admin/fee", schema.ReqUpdateFee{ServiceFee: serviceFee}, nil, true)
}

func (c *Client) UpdateController(controller string) error {
	return c.post("/admin/controller", schema.ReqUpdateController{Controller: controller}, nil, true)
}

func (c *Client) Withdraw() (res schema.RespTreasury, err error) {
	err = c.post("/admin/withdraw", struct{}{}, &res, true)
	return
}

func (c *Client) SetContentHash(node, contentHash string) error {
	return c.post("/admin/contenthash", schema.ReqContentHash{Node: node, ContentHash: contentHash}, nil, true)
}

func (c *Client) TransferOwner(newOwner string) error {
	return c.post("/admin/owner", schema.ReqTransferOwner{NewOwner: newOwner}, nil, true)
}

func (c *Client) get(path string, out interface{}) error {
	req := c.SCli.Get()
	req.AddPath(path)
	resp, err := req.Send()
	if err != nil {
		return err
	}
	defer resp.Close()
	if !resp.Ok {
		return respErr(resp.String())
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(resp.Bytes(), out)
}

func (c *Client) post(path string, payload interface{}, out interface{}, signed bool) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req := c.SCli.Post()
	req.AddPath(path)
	req.Use(body.String(string(data)))
	if signed {
		if c.prvKey == nil {
			return errors.New("sdk client has no signer key")
		}
		// sign the exact bytes sent, the server recovers the sender from them
		sig, err := crypto.Sign(accounts.TextHash(data), c.prvKey)
		if err != nil {
			return err
		}
		req.SetHeader("X-Signature", hexutil.Encode(sig))
	}
	resp, err := req.Send()
	if err != nil {
		return err
	}
	defer resp.Close()
	if !resp.Ok {
		return respErr(resp.String())
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(resp.Bytes(), out)
}

func respErr(respBody string) error {
	if msg := gjson.Get(respBody, "error"); msg.Exists() {
		return errors.New(msg.String())
	}
	return errors.New("resp failed: " + respBody)
}
