package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// VerifyWebhookSignature checks that signature is the hex-encoded HMAC-SHA256
// of the exact raw request body under secret. The comparison is constant
// time. A missing secret or signature always fails verification.
//
// Callers must verify before parsing the body into a structured event;
// unverified payloads are attacker-controlled input.
func VerifyWebhookSignature(body []byte, signature, secret string) bool {
	if secret == "" || signature == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(signature), []byte(expected))
}

// VerifyCheckoutSignature checks the client-side checkout confirmation
// signature, computed by the gateway over "orderID|paymentID" with the key
// secret.
func VerifyCheckoutSignature(orderID, paymentID, signature, secret string) bool {
	if orderID == "" || paymentID == "" {
		return false
	}
	return VerifyWebhookSignature([]byte(orderID+"|"+paymentID), signature, secret)
}
