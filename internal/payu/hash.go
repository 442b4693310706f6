package payu

import (
	"crypto/sha512"
	"encoding/hex"
	"strings"
)

// The gateway hashes a fixed-width field sequence: unused positions are
// carried as empty strings, never omitted. Request and response signing use
// different published orderings, so the sequences are built separately and
// fed to the same digest.
const (
	hashSeparator     = "|"
	placeholderFields = 10
)

// Digest joins the fields with the gateway separator and returns the
// lowercase hex SHA-512 of the result. Deterministic, no side effects.
func Digest(fields []string) string {
	sum := sha512.Sum512([]byte(strings.Join(fields, hashSeparator)))
	return hex.EncodeToString(sum[:])
}

// OutboundSequence is the request-signing order:
// key|txnid|amount|productinfo|firstname|email|<10 empty>|salt.
func OutboundSequence(key, txnid, amount, productinfo, firstname, email, salt string) []string {
	fields := make([]string, 0, 7+placeholderFields)
	fields = append(fields, key, txnid, amount, productinfo, firstname, email)
	for i := 0; i < placeholderFields; i++ {
		fields = append(fields, "")
	}
	return append(fields, salt)
}

// InboundSequence is the response-verification order, the reverse reading:
// salt|status|<10 empty>|email|firstname|productinfo|amount|txnid|key.
func InboundSequence(salt, status, email, firstname, productinfo, amount, txnid, key string) []string {
	fields := make([]string, 0, 8+placeholderFields)
	fields = append(fields, salt, status)
	for i := 0; i < placeholderFields; i++ {
		fields = append(fields, "")
	}
	return append(fields, email, firstname, productinfo, amount, txnid, key)
}
