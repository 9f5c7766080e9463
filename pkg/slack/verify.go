package slack

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
)

// maxSignatureAge guards against replayed requests.
const maxSignatureAge = 5 * time.Minute

// VerifySignature checks a request against Slack's signing scheme: the
// signature header must be the hex HMAC-SHA256 of "v0:<timestamp>:<body>"
// under the signing secret, and the timestamp must be recent.
func VerifySignature(signingSecret string, body []byte, signature string, timestamp string, now time.Time) bool {
	if signingSecret == "" {
		log.Warn("Slack signing secret not configured, rejecting request")
		return false
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return false
	}
	if now.Unix()-ts > int64(maxSignatureAge.Seconds()) {
		return false
	}

	mac := hmac.New(sha256.New, []byte(signingSecret))
	mac.Write([]byte("v0:" + timestamp + ":"))
	mac.Write(body)
	expected := "v0=" + hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}
