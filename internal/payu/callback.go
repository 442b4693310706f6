package payu

import (
	"crypto/subtle"
	"fmt"
	"strings"
)

// successStatus is the gateway's literal token for a completed payment. Any
// other status verifies as a failed payment, not as an error.
const successStatus = "success"

type Outcome string

const (
	OutcomeSuccess Outcome = "SUCCESS"
	OutcomeFailure Outcome = "FAILURE"
)

// Callback holds the fields the gateway posts back. The transport does not
// authenticate the sender, so nothing here is trusted until Verify passes.
type Callback struct {
	Status      string `json:"status" form:"status"`
	TxnID       string `json:"txnid" form:"txnid"`
	Amount      string `json:"amount" form:"amount"`
	ProductInfo string `json:"productinfo" form:"productinfo"`
	FirstName   string `json:"firstname" form:"firstname"`
	Email       string `json:"email" form:"email"`
	Phone       string `json:"phone" form:"phone"`
	Hash        string `json:"hash" form:"hash"`
}

type VerifiedOutcome struct {
	ApplicationID string
	TxnID         string
	Outcome       Outcome
}

// Verifier checks callback integrity against the shared salt. It keeps no
// memory of prior callbacks; redelivery idempotency belongs to the state
// machine.
type Verifier struct {
	key  string
	salt string
}

func NewVerifier(config Config) *Verifier {
	return &Verifier{key: config.Key, salt: config.Salt}
}

// Verify recomputes the inbound checksum from the callback's own fields and
// compares it in constant time against the supplied hash. The supplied value
// is never used as input to anything before it matches.
func (v *Verifier) Verify(cb Callback) (VerifiedOutcome, error) {
	expected := Digest(InboundSequence(v.salt, cb.Status, cb.Email, cb.FirstName, cb.ProductInfo, cb.Amount, cb.TxnID, v.key))

	supplied := strings.ToLower(strings.TrimSpace(cb.Hash))
	if subtle.ConstantTimeCompare([]byte(expected), []byte(supplied)) != 1 {
		return VerifiedOutcome{}, fmt.Errorf("%w: hash mismatch for txnid %s", ErrIntegrity, cb.TxnID)
	}

	applicationID, err := applicationIDFromProductInfo(cb.ProductInfo)
	if err != nil {
		return VerifiedOutcome{}, err
	}

	outcome := OutcomeFailure
	if cb.Status == successStatus {
		outcome = OutcomeSuccess
	}

	return VerifiedOutcome{
		ApplicationID: applicationID,
		TxnID:         cb.TxnID,
		Outcome:       outcome,
	}, nil
}

// applicationIDFromProductInfo splits on the first separator only, so an
// identifier that itself contains " - " survives intact in the tail.
func applicationIDFromProductInfo(productInfo string) (string, error) {
	parts := strings.SplitN(productInfo, productInfoSeparator, 2)
	if len(parts) != 2 || parts[1] == "" {
		return "", fmt.Errorf("%w: productinfo %q does not embed an application ID", ErrInvalidRequest, productInfo)
	}
	return parts[1], nil
}
