package ensproxy

import (
	"errors"
	"io"
	"math/big"
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	ecommon "github.com/everFinance/ensproxy/common"
	"github.com/everFinance/ensproxy/schema"
	"github.com/gin-gonic/gin"
)

func (s *Proxy) runAPI(port string) {
	s.registerRoutes()
	if err := s.engine.Run(port); err != nil {
		panic(err)
	}
}

func (s *Proxy) registerRoutes() {
	r := s.engine
	r.Use(ecommon.CORSMiddleware())
	r.Use(LimiterMiddleware(600, "M", nil))
	v1 := r.Group("/")
	{
		// public reads
		v1.GET("/price/:name/:duration", s.getQuote)
		v1.GET("/fee", s.getFee)
		v1.GET("/treasury", s.getTreasury)
		v1.GET("/available/:name", s.getAvailable)
		v1.GET("/valid/:name", s.getValid)
		v1.GET("/expiry/:name", s.getExpiry)
		v1.GET("/commitment/ages", s.getCommitmentAges)
		v1.GET("/orders/commits/:submitter", s.getCommits)
		v1.GET("/orders/registrations/:caller", s.getRegistrations)

		// public writes, caller identity recovered from the body signature
		v1.POST("/commitment", s.buildCommitment)
		v1.POST("/commit", s.submitCommit)
		v1.POST("/commit/name", s.commitToName)
		v1.POST("/register", s.register)

		// owner only; the ACL itself is enforced in the service layer
		admin := v1.Group("/admin")
		{
			admin.POST("/fee", s.updateFee)
			admin.POST("/controller", s.updateController)
			admin.POST("/withdraw", s.withdraw)
			admin.POST("/contenthash", s.setContentHash)
			admin.POST("/owner", s.transferOwner)
		}
	}
}

// recoverSender reads the request body and recovers the signing address from
// the X-Signature header (65-byte secp256k1 signature over the EIP-191 text
// hash of the raw body).
func recoverSender(c *gin.Context) (common.Address, []byte, error) {
	if c.Request.Body == nil {
		return common.Address{}, nil, schema.ErrInvalidInput
	}
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return common.Address{}, nil, err
	}
	defer c.Request.Body.Close()

	sig, err := hexutil.Decode(c.GetHeader("X-Signature"))
	if err != nil || len(sig) != crypto.SignatureLength {
		return common.Address{}, nil, schema.ErrInvalidInput
	}
	if sig[crypto.RecoveryIDOffset] >= 27 { // wallet-style V
		sig = append([]byte{}, sig...)
		sig[crypto.RecoveryIDOffset] -= 27
	}
	pub, err := crypto.SigToPub(accounts.TextHash(body), sig)
	if err != nil {
		return common.Address{}, nil, schema.ErrInvalidInput
	}
	return crypto.PubkeyToAddress(*pub), body, nil
}

func (s *Proxy) getQuote(c *gin.Context) {
	name := c.Param("name")
	duration, err := strconv.ParseInt(c.Param("duration"), 10, 64)
	if err != nil || duration <= 0 {
		errorResponse(c, "duration incorrect")
		return
	}
	total, base, premium, err := s.QuoteTotal(c.Request.Context(), name, big.NewInt(duration))
	if err != nil {
		respondServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, schema.RespQuote{
		Name:       name,
		Duration:   duration,
		Base:       base.String(),
		Premium:    premium.String(),
		ServiceFee: s.GetFee().String(),
		Total:      total.String(),
	})
}

func (s *Proxy) getFee(c *gin.Context) {
	c.JSON(http.StatusOK, schema.RespFee{
		ServiceFee: s.GetFee().String(),
		MaxFee:     schema.MaxServiceFee.String(),
	})
}

func (s *Proxy) getTreasury(c *gin.Context) {
	c.JSON(http.StatusOK, schema.RespTreasury{
		Balance: s.TreasuryBalance().String(),
	})
}

func (s *Proxy) getAvailable(c *gin.Context) {
	ok, err := s.Available(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, schema.RespBool{Result: ok})
}

func (s *Proxy) getValid(c *gin.Context) {
	ok, err := s.Valid(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, schema.RespBool{Result: ok})
}

func (s *Proxy) getExpiry(c *gin.Context) {
	name := c.Param("name")
	expiry, err := s.GetExpiry(c.Request.Context(), name)
	if err != nil {
		respondServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, schema.RespExpiry{Name: name, Expiry: expiry.Int64()})
}

func (s *Proxy) getCommitmentAges(c *gin.Context) {
	ages, err := s.CommitmentAges(c.Request.Context())
	if err != nil {
		respondServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, ages)
}

func (s *Proxy) getCommits(c *gin.Context) {
	num, from := pageParams(c)
	records, err := s.wdb.GetCommitsBySubmitter(c.Param("submitter"), num, from)
	if err != nil {
		internalErrorResponse(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, records)
}

func (s *Proxy) getRegistrations(c *gin.Context) {
	num, from := pageParams(c)
	records, err := s.wdb.GetRegistrationsByCaller(c.Param("caller"), num, from)
	if err != nil {
		internalErrorResponse(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, records)
}

func (s *Proxy) buildCommitment(c *gin.Context) {
	req, _, ok := bindRegistration(c)
	if !ok {
		return
	}
	commitment, err := s.BuildCommitment(c.Request.Context(), req)
	if err != nil {
		respondServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, schema.RespCommitment{Commitment: commitment.Hex()})
}

func (s *Proxy) submitCommit(c *gin.Context) {
	sender, body, err := recoverSender(c)
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	reqCommit := schema.ReqCommit{}
	if err := bindJson(body, &reqCommit); err != nil {
		errorResponse(c, err.Error())
		return
	}
	commitment := common.HexToHash(reqCommit.Commitment)
	if err := s.SubmitCommitment(c.Request.Context(), reqCommit.Name, sender, commitment); err != nil {
		respondServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, schema.RespCommitment{Commitment: commitment.Hex()})
}

func (s *Proxy) commitToName(c *gin.Context) {
	req, sender, ok := bindSignedRegistration(c)
	if !ok {
		return
	}
	commitment, err := s.CommitToName(c.Request.Context(), req, sender)
	if err != nil {
		respondServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, schema.RespCommitment{Commitment: commitment.Hex()})
}

func (s *Proxy) register(c *gin.Context) {
	sender, body, err := recoverSender(c)
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	wireReq := schema.ReqRegistration{}
	if err := bindJson(body, &wireReq); err != nil {
		errorResponse(c, err.Error())
		return
	}
	req, err := parseRegistration(wireReq)
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	paid, ok := new(big.Int).SetString(wireReq.Paid, 10)
	if !ok {
		errorResponse(c, "paid incorrect")
		return
	}
	if err := s.RegisterWithFee(c.Request.Context(), req, sender, paid); err != nil {
		respondServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"name": req.Name})
}

func (s *Proxy) updateFee(c *gin.Context) {
	sender, body, err := recoverSender(c)
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	req := schema.ReqUpdateFee{}
	if err := bindJson(body, &req); err != nil {
		errorResponse(c, err.Error())
		return
	}
	newFee, ok := new(big.Int).SetString(req.ServiceFee, 10)
	if !ok {
		errorResponse(c, "serviceFee incorrect")
		return
	}
	if err := s.UpdateFee(sender, newFee); err != nil {
		respondServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, schema.RespFee{ServiceFee: newFee.String(), MaxFee: schema.MaxServiceFee.String()})
}

func (s *Proxy) updateController(c *gin.Context) {
	sender, body, err := recoverSender(c)
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	req := schema.ReqUpdateController{}
	if err := bindJson(body, &req); err != nil {
		errorResponse(c, err.Error())
		return
	}
	if !common.IsHexAddress(req.Controller) {
		errorResponse(c, schema.ErrInvalidInput.Error())
		return
	}
	if err := s.UpdateController(sender, common.HexToAddress(req.Controller)); err != nil {
		respondServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"controller": req.Controller})
}

func (s *Proxy) withdraw(c *gin.Context) {
	sender, _, err := recoverSender(c)
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	if err := s.Withdraw(c.Request.Context(), sender); err != nil {
		respondServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, schema.RespTreasury{Balance: s.TreasuryBalance().String()})
}

func (s *Proxy) setContentHash(c *gin.Context) {
	sender, body, err := recoverSender(c)
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	req := schema.ReqContentHash{}
	if err := bindJson(body, &req); err != nil {
		errorResponse(c, err.Error())
		return
	}
	contentHash, err := hexutil.Decode(req.ContentHash)
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	if err := s.SetContentHashByNode(c.Request.Context(), sender, common.HexToHash(req.Node), contentHash); err != nil {
		respondServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"node": req.Node})
}

func (s *Proxy) transferOwner(c *gin.Context) {
	sender, body, err := recoverSender(c)
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	req := schema.ReqTransferOwner{}
	if err := bindJson(body, &req); err != nil {
		errorResponse(c, err.Error())
		return
	}
	if !common.IsHexAddress(req.NewOwner) {
		errorResponse(c, schema.ErrInvalidInput.Error())
		return
	}
	if err := s.TransferOwnership(sender, common.HexToAddress(req.NewOwner)); err != nil {
		respondServiceErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"owner": req.NewOwner})
}

func pageParams(c *gin.Context) (num, from int) {
	num, err := strconv.Atoi(c.DefaultQuery("num", "20"))
	if err != nil || num <= 0 || num > 100 {
		num = 20
	}
	from, err = strconv.Atoi(c.DefaultQuery("from", "0"))
	if err != nil || from < 0 {
		from = 0
	}
	return
}

func errorResponse(c *gin.Context, err string) {
	// client error
	c.JSON(http.StatusBadRequest, schema.RespErr{
		Err: err,
	})
}

func internalErrorResponse(c *gin.Context, err string) {
	c.JSON(http.StatusInternalServerError, schema.RespErr{
		Err: err,
	})
}

// respondServiceErr maps service-layer failures onto http statuses: the
// error taxonomy is a client error, everything else (wrapped upstream
// failures) is internal.
func respondServiceErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, schema.ErrNotConfigured),
		errors.Is(err, schema.ErrInvalidInput),
		errors.Is(err, schema.ErrInsufficientPayment),
		errors.Is(err, schema.ErrFeeTooHigh),
		errors.Is(err, schema.ErrNothingToWithdraw),
		errors.Is(err, schema.ErrReentrancyBlocked),
		errors.Is(err, schema.ErrNameInvalid),
		errors.Is(err, schema.ErrNameUnavailable),
		errors.Is(err, schema.ErrResolverNotSet):
		errorResponse(c, err.Error())
	case errors.Is(err, schema.ErrUnauthorized):
		c.JSON(http.StatusForbidden, schema.RespErr{Err: err.Error()})
	default:
		internalErrorResponse(c, err.Error())
	}
}
