package payu

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

var hexDigest = regexp.MustCompile(`^[0-9a-f]{128}$`)

func TestDigest_IsDeterministic(t *testing.T) {
	fields := OutboundSequence("key", "TXN_1", "500", "Vestiga Application - A1", "Asha", "a@x.com", "salt")

	first := Digest(fields)
	second := Digest(fields)

	require.Equal(t, first, second)
	require.Regexp(t, hexDigest, first)
}

func TestDigest_ChangesWithAnyField(t *testing.T) {
	base := OutboundSequence("key", "TXN_1", "500", "Vestiga Application - A1", "Asha", "a@x.com", "salt")
	baseDigest := Digest(base)

	for i := range base {
		mutated := make([]string, len(base))
		copy(mutated, base)
		mutated[i] = mutated[i] + "x"
		require.NotEqual(t, baseDigest, Digest(mutated), "field %d did not affect the digest", i)
	}
}

func TestOutboundSequence_MatchesGatewayContract(t *testing.T) {
	fields := OutboundSequence("key", "txn", "500", "info", "Asha", "a@x.com", "salt")

	require.Len(t, fields, 17)
	joined := strings.Join(fields, "|")
	require.Equal(t, "key|txn|500|info|Asha|a@x.com|||||||||||salt", joined)
}

func TestInboundSequence_MatchesGatewayContract(t *testing.T) {
	fields := InboundSequence("salt", "success", "a@x.com", "Asha", "info", "500", "txn", "key")

	require.Len(t, fields, 18)
	joined := strings.Join(fields, "|")
	require.Equal(t, "salt|success|||||||||||a@x.com|Asha|info|500|txn|key", joined)
}

func TestSequences_EmptyFieldsKeepTheirPosition(t *testing.T) {
	withEmpty := Digest(OutboundSequence("key", "txn", "", "info", "Asha", "a@x.com", "salt"))
	without := Digest([]string{"key", "txn", "info", "Asha", "a@x.com", "", "", "", "", "", "", "", "", "", "", "salt"})

	// Dropping the empty amount field instead of carrying it shifts every
	// later position and must produce a different digest.
	require.NotEqual(t, withEmpty, without)
}
