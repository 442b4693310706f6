package payu

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

var testConfig = Config{
	Key:        "gtKFFx",
	Salt:       "eCwWELxi",
	MerchantID: "M1",
	BaseURL:    "https://test.payu.in",
	SuccessURL: "http://localhost:3000/payment/success",
	FailureURL: "http://localhost:3000/payment/failure",
}

func validParams() InitiateParams {
	return InitiateParams{
		ApplicationID: "A1",
		Amount:        "500",
		FirstName:     "Asha",
		Email:         "a@x.com",
		Phone:         "9999999999",
	}
}

func TestBuild_SignsTheRequest(t *testing.T) {
	builder := NewRequestBuilder(testConfig)

	signed, err := builder.Build(validParams())
	require.NoError(t, err)

	require.Equal(t, "gtKFFx", signed.Key)
	require.Equal(t, "500", signed.Amount)
	require.Equal(t, "Vestiga Application - A1", signed.ProductInfo)
	require.Equal(t, "A1", signed.ApplicationID)
	require.Equal(t, "http://localhost:3000/payment/success", signed.SURL)
	require.Equal(t, "http://localhost:3000/payment/failure", signed.FURL)
	require.Regexp(t, hexDigest, signed.Hash)
}

func TestBuild_PayloadIsSelfConsistent(t *testing.T) {
	builder := NewRequestBuilder(testConfig)

	signed, err := builder.Build(validParams())
	require.NoError(t, err)

	recomputed := Digest(OutboundSequence(
		signed.Key, signed.TxnID, signed.Amount, signed.ProductInfo, signed.FirstName, signed.Email, testConfig.Salt))
	require.Equal(t, signed.Hash, recomputed)
}

func TestBuild_RejectsMissingFields(t *testing.T) {
	builder := NewRequestBuilder(testConfig)

	cases := []struct {
		name   string
		mutate func(*InitiateParams)
	}{
		{"application id", func(p *InitiateParams) { p.ApplicationID = "" }},
		{"amount", func(p *InitiateParams) { p.Amount = "" }},
		{"first name", func(p *InitiateParams) { p.FirstName = "" }},
		{"email", func(p *InitiateParams) { p.Email = "" }},
		{"phone", func(p *InitiateParams) { p.Phone = "" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			params := validParams()
			tc.mutate(&params)

			_, err := builder.Build(params)
			require.ErrorIs(t, err, ErrInvalidRequest)
		})
	}
}

func TestBuild_RejectsBadAmounts(t *testing.T) {
	builder := NewRequestBuilder(testConfig)

	for _, amount := range []string{"0", "-10", "abc", "1e999"} {
		params := validParams()
		params.Amount = amount

		_, err := builder.Build(params)
		require.ErrorIs(t, err, ErrInvalidRequest, "amount %q", amount)
	}
}

func TestNewTransactionID_Format(t *testing.T) {
	pattern := regexp.MustCompile(`^TXN_\d+_[a-zA-Z0-9]+$`)

	id := NewTransactionID()
	require.Regexp(t, pattern, id)
}

func TestNewTransactionID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewTransactionID()
		require.False(t, seen[id], "duplicate transaction id %s", id)
		seen[id] = true
	}
}

func TestPaymentURL(t *testing.T) {
	require.Equal(t, "https://test.payu.in/_payment", testConfig.PaymentURL())

	trailing := testConfig
	trailing.BaseURL = "https://test.payu.in/"
	require.Equal(t, "https://test.payu.in/_payment", trailing.PaymentURL())
}
