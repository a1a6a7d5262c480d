package http_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"testing"
	"time"

	httpctrl "github.com/oa-lab/zaiseki/pkg/controller/http"
)

var verifySlackSignature = httpctrl.VerifySlackSignature

// computeSlackSignature computes a valid request signature
func computeSlackSignature(signingSecret, timestamp, body string) string {
	baseString := fmt.Sprintf("v0:%s:%s", timestamp, body)
	h := hmac.New(sha256.New, []byte(signingSecret))
	h.Write([]byte(baseString))
	return "v0=" + hex.EncodeToString(h.Sum(nil))
}

func TestVerifySlackSignature(t *testing.T) {
	signingSecret := "test-signing-secret"
	body := []byte(`payload={"type":"block_actions"}`)

	t.Run("valid signature", func(t *testing.T) {
		timestamp := strconv.FormatInt(time.Now().Unix(), 10)
		signature := computeSlackSignature(signingSecret, timestamp, string(body))

		if err := verifySlackSignature(signingSecret, timestamp, signature, body); err != nil {
			t.Errorf("expected no error, got: %v", err)
		}
	})

	t.Run("invalid signature", func(t *testing.T) {
		timestamp := strconv.FormatInt(time.Now().Unix(), 10)

		if err := verifySlackSignature(signingSecret, timestamp, "v0=invalid", body); err == nil {
			t.Error("expected error for invalid signature, got nil")
		}
	})

	t.Run("missing timestamp", func(t *testing.T) {
		signature := computeSlackSignature(signingSecret, "123456", string(body))

		if err := verifySlackSignature(signingSecret, "", signature, body); err == nil {
			t.Error("expected error for missing timestamp, got nil")
		}
	})

	t.Run("missing signature", func(t *testing.T) {
		timestamp := strconv.FormatInt(time.Now().Unix(), 10)

		if err := verifySlackSignature(signingSecret, timestamp, "", body); err == nil {
			t.Error("expected error for missing signature, got nil")
		}
	})

	t.Run("timestamp outside the replay window", func(t *testing.T) {
		oldTimestamp := strconv.FormatInt(time.Now().Add(-10*time.Minute).Unix(), 10)
		signature := computeSlackSignature(signingSecret, oldTimestamp, string(body))

		if err := verifySlackSignature(signingSecret, oldTimestamp, signature, body); err == nil {
			t.Error("expected error for old timestamp, got nil")
		}
	})

	t.Run("far-future timestamp is rejected", func(t *testing.T) {
		futureTimestamp := strconv.FormatInt(time.Now().Add(10*time.Minute).Unix(), 10)
		signature := computeSlackSignature(signingSecret, futureTimestamp, string(body))

		if err := verifySlackSignature(signingSecret, futureTimestamp, signature, body); err == nil {
			t.Error("expected error for future timestamp, got nil")
		}
	})

	t.Run("invalid timestamp format", func(t *testing.T) {
		signature := computeSlackSignature(signingSecret, "not-a-number", string(body))

		if err := verifySlackSignature(signingSecret, "not-a-number", signature, body); err == nil {
			t.Error("expected error for invalid timestamp format, got nil")
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		timestamp := strconv.FormatInt(time.Now().Unix(), 10)
		signature := computeSlackSignature("wrong-secret", timestamp, string(body))

		if err := verifySlackSignature(signingSecret, timestamp, signature, body); err == nil {
			t.Error("expected error for wrong secret, got nil")
		}
	})

	t.Run("tampered body", func(t *testing.T) {
		timestamp := strconv.FormatInt(time.Now().Unix(), 10)
		signature := computeSlackSignature(signingSecret, timestamp, string(body))

		if err := verifySlackSignature(signingSecret, timestamp, signature, []byte("tampered")); err == nil {
			t.Error("expected error for tampered body, got nil")
		}
	})
}
