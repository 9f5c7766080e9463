package slack

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const testSecret = "8f742231b10e8888abcd99yyyzzz85a5"

func sign(secret string, timestamp string, body string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte("v0:" + timestamp + ":" + body))
	return "v0=" + hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	now := time.Date(2025, time.March, 12, 10, 0, 0, 0, time.UTC)
	body := "token=xyz&user_id=U123&text=hello"
	timestamp := fmt.Sprintf("%d", now.Unix())

	t.Run("accepts a valid signature", func(t *testing.T) {
		ok := VerifySignature(testSecret, []byte(body), sign(testSecret, timestamp, body), timestamp, now)
		assert.True(t, ok)
	})

	t.Run("rejects a tampered body", func(t *testing.T) {
		ok := VerifySignature(testSecret, []byte(body+"&admin=1"), sign(testSecret, timestamp, body), timestamp, now)
		assert.False(t, ok)
	})

	t.Run("rejects a signature under a different secret", func(t *testing.T) {
		ok := VerifySignature(testSecret, []byte(body), sign("other-secret", timestamp, body), timestamp, now)
		assert.False(t, ok)
	})

	t.Run("rejects stale timestamps", func(t *testing.T) {
		old := fmt.Sprintf("%d", now.Add(-6*time.Minute).Unix())
		ok := VerifySignature(testSecret, []byte(body), sign(testSecret, old, body), old, now)
		assert.False(t, ok)
	})

	t.Run("accepts timestamps just inside the window", func(t *testing.T) {
		recent := fmt.Sprintf("%d", now.Add(-4*time.Minute).Unix())
		ok := VerifySignature(testSecret, []byte(body), sign(testSecret, recent, body), recent, now)
		assert.True(t, ok)
	})

	t.Run("rejects non-numeric timestamps", func(t *testing.T) {
		ok := VerifySignature(testSecret, []byte(body), sign(testSecret, "garbage", body), "garbage", now)
		assert.False(t, ok)
	})

	t.Run("rejects everything when the secret is not configured", func(t *testing.T) {
		ok := VerifySignature("", []byte(body), sign(testSecret, timestamp, body), timestamp, now)
		assert.False(t, ok)
	})
}
