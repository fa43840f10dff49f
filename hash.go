package callibella

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

// HashText computes the SHA-256 hash of the trimmed text.
func HashText(text string) string {
	trimmed := strings.TrimSpace(text)
	hash := sha256.Sum256([]byte(trimmed))
	return hex.EncodeToString(hash[:])
}

// AudioCacheKey generates a content-addressed key for rendered speech from
// the text hash, language, voice and speed, so the same utterance is never
// synthesized twice.
func AudioCacheKey(hash, language, voice string, speed float32) string {
	if speed <= 0 {
		speed = 1.0
	}
	tag := strconv.FormatFloat(float64(speed), 'f', 2, 32)
	return strings.Join([]string{"audio", hash, language, voice, tag}, ":")
}
