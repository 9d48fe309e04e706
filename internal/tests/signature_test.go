package tests

import (
	"testing"

	"edupay/internal/gateway"
)

func TestVerifyWebhookSignature_RoundTrip(t *testing.T) {
	t.Parallel()

	body := []byte(`{"event":"payment.captured","payload":{}}`)
	secret := "whsec_roundtrip"

	if !gateway.VerifyWebhookSignature(body, signBody(secret, body), secret) {
		t.Error("expected valid signature to verify")
	}
}

func TestVerifyWebhookSignature_FlippedByte_Fails(t *testing.T) {
	t.Parallel()

	body := []byte(`{"event":"payment.captured"}`)
	secret := "whsec_flip"

	sig := []byte(signBody(secret, body))
	sig[len(sig)-1] ^= 0x01

	if gateway.VerifyWebhookSignature(body, string(sig), secret) {
		t.Error("expected tampered signature to fail")
	}
}

func TestVerifyWebhookSignature_ModifiedBody_Fails(t *testing.T) {
	t.Parallel()

	body := []byte(`{"amount":50000}`)
	secret := "whsec_body"
	sig := signBody(secret, body)

	if gateway.VerifyWebhookSignature([]byte(`{"amount":50001}`), sig, secret) {
		t.Error("expected signature over different body to fail")
	}
}

func TestVerifyWebhookSignature_FailsClosed(t *testing.T) {
	t.Parallel()

	body := []byte(`{}`)

	testCases := []struct {
		name      string
		signature string
		secret    string
	}{
		{name: "missing secret", signature: signBody("s", body), secret: ""},
		{name: "missing signature", signature: "", secret: "s"},
		{name: "both missing", signature: "", secret: ""},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if gateway.VerifyWebhookSignature(body, tc.signature, tc.secret) {
				t.Error("expected verification to fail closed")
			}
		})
	}
}

func TestVerifyCheckoutSignature(t *testing.T) {
	t.Parallel()

	secret := "key_secret"
	sig := signBody(secret, []byte("order_abc|pay_123"))

	if !gateway.VerifyCheckoutSignature("order_abc", "pay_123", sig, secret) {
		t.Error("expected valid checkout signature to verify")
	}
	if gateway.VerifyCheckoutSignature("order_abc", "pay_999", sig, secret) {
		t.Error("expected checkout signature for other payment to fail")
	}
	if gateway.VerifyCheckoutSignature("", "pay_123", sig, secret) {
		t.Error("expected missing order id to fail closed")
	}
}
