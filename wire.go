package ensproxy

import (
	"encoding/json"
	"io"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/everFinance/ensproxy/schema"
	"github.com/gin-gonic/gin"
)

func bindJson(body []byte, v interface{}) error {
	if len(body) == 0 {
		return schema.ErrInvalidInput
	}
	return json.Unmarshal(body, v)
}

// parseRegistration converts the wire form into the internal request,
// rejecting malformed addresses and secrets up front.
func parseRegistration(wire schema.ReqRegistration) (schema.RegistrationRequest, error) {
	req := schema.RegistrationRequest{}
	if wire.Name == "" || wire.Duration <= 0 {
		return req, schema.ErrInvalidInput
	}
	if !common.IsHexAddress(wire.Owner) || !common.IsHexAddress(wire.Resolver) {
		return req, schema.ErrInvalidInput
	}
	secret, err := hexutil.Decode(wire.Secret)
	if err != nil || len(secret) != 32 {
		return req, schema.ErrInvalidInput
	}
	data := make([][]byte, 0, len(wire.Data))
	for _, d := range wire.Data {
		blob, err := hexutil.Decode(d)
		if err != nil {
			return req, schema.ErrInvalidInput
		}
		data = append(data, blob)
	}

	req.Name = wire.Name
	req.Owner = common.HexToAddress(wire.Owner)
	req.Duration = big.NewInt(wire.Duration)
	copy(req.Secret[:], secret)
	req.Resolver = common.HexToAddress(wire.Resolver)
	req.Data = data
	req.ReverseRecord = wire.ReverseRecord
	req.Fuses = wire.Fuses
	return req, nil
}

// bindRegistration reads an unsigned registration body; used for the pure
// commitment build endpoint which has no side effects.
func bindRegistration(c *gin.Context) (schema.RegistrationRequest, schema.ReqRegistration, bool) {
	wire := schema.ReqRegistration{}
	if c.Request.Body == nil {
		errorResponse(c, "body can not be null")
		return schema.RegistrationRequest{}, wire, false
	}
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		errorResponse(c, err.Error())
		return schema.RegistrationRequest{}, wire, false
	}
	defer c.Request.Body.Close()
	if err := bindJson(body, &wire); err != nil {
		errorResponse(c, err.Error())
		return schema.RegistrationRequest{}, wire, false
	}
	req, err := parseRegistration(wire)
	if err != nil {
		errorResponse(c, err.Error())
		return schema.RegistrationRequest{}, wire, false
	}
	return req, wire, true
}

// bindSignedRegistration reads a signed registration body and recovers the
// sender identity.
func bindSignedRegistration(c *gin.Context) (schema.RegistrationRequest, common.Address, bool) {
	sender, body, err := recoverSender(c)
	if err != nil {
		errorResponse(c, err.Error())
		return schema.RegistrationRequest{}, common.Address{}, false
	}
	wire := schema.ReqRegistration{}
	if err := bindJson(body, &wire); err != nil {
		errorResponse(c, err.Error())
		return schema.RegistrationRequest{}, common.Address{}, false
	}
	req, err := parseRegistration(wire)
	if err != nil {
		errorResponse(c, err.Error())
		return schema.RegistrationRequest{}, common.Address{}, false
	}
	return req, sender, true
}
