package payu

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// productLabel prefixes productinfo. The application id rides after the
// separator because the gateway protocol only offers a single opaque field;
// in-process callers should read SignedRequest.ApplicationID instead of
// parsing it back out.
const (
	productLabel         = "Vestiga Application"
	productInfoSeparator = " - "
)

type Config struct {
	Key        string
	Salt       string
	MerchantID string
	BaseURL    string
	SuccessURL string
	FailureURL string
}

// PaymentURL is the gateway endpoint the signed payload must be posted to.
func (c Config) PaymentURL() string {
	return strings.TrimRight(c.BaseURL, "/") + "/_payment"
}

type InitiateParams struct {
	ApplicationID string
	Amount        string
	FirstName     string
	Email         string
	Phone         string
}

// SignedRequest mirrors the gateway's form field names. Recomputing the hash
// from its own fields with the same salt reproduces Hash exactly.
type SignedRequest struct {
	Key         string `json:"key"`
	TxnID       string `json:"txnid"`
	Amount      string `json:"amount"`
	ProductInfo string `json:"productinfo"`
	FirstName   string `json:"firstname"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	SURL        string `json:"surl"`
	FURL        string `json:"furl"`
	Hash        string `json:"hash"`

	// ApplicationID duplicates the identifier encoded in ProductInfo so
	// callers never depend on the separator convention. Not hashed.
	ApplicationID string `json:"applicationId"`
}

type RequestBuilder struct {
	config Config
}

func NewRequestBuilder(config Config) *RequestBuilder {
	return &RequestBuilder{config: config}
}

// Build validates the initiation fields, mints a transaction id and returns
// the signed payload. It never touches the network.
func (b *RequestBuilder) Build(params InitiateParams) (SignedRequest, error) {
	if params.ApplicationID == "" || params.Amount == "" || params.FirstName == "" || params.Email == "" || params.Phone == "" {
		return SignedRequest{}, fmt.Errorf("%w: application ID, amount, first name, email, and phone are required", ErrInvalidRequest)
	}

	amount, err := strconv.ParseFloat(params.Amount, 64)
	if err != nil || amount <= 0 {
		return SignedRequest{}, fmt.Errorf("%w: amount must be a positive number", ErrInvalidRequest)
	}

	txnID := NewTransactionID()
	productInfo := productLabel + productInfoSeparator + params.ApplicationID

	request := SignedRequest{
		Key:           b.config.Key,
		TxnID:         txnID,
		Amount:        params.Amount,
		ProductInfo:   productInfo,
		FirstName:     params.FirstName,
		Email:         params.Email,
		Phone:         params.Phone,
		SURL:          b.config.SuccessURL,
		FURL:          b.config.FailureURL,
		ApplicationID: params.ApplicationID,
	}
	request.Hash = Digest(OutboundSequence(b.config.Key, txnID, params.Amount, productInfo, params.FirstName, params.Email, b.config.Salt))

	return request, nil
}

// NewTransactionID mints a globally unique id from a nanosecond timestamp
// and a random suffix. The gateway rejects reused ids, so collisions across
// concurrent initiations must be negligible, not merely unlikely.
func NewTransactionID() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("TXN_%d_%s", time.Now().UnixNano(), suffix)
}
