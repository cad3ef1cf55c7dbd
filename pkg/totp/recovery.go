package totp

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrymomot/securevault/pkg/keygen"
)

// recoveryCodeBytes gives 64 bits of entropy per code.
const recoveryCodeBytes = 8

// GenerateRecoveryCodes creates single-use backup codes formatted as XXXX-XXXX-XXXX-XXXX.
func GenerateRecoveryCodes(count int) ([]string, error) {
	if count < 1 {
		return nil, ErrInvalidRecoveryCodeCount
	}

	codes := make([]string, count)
	for i := 0; i < count; i++ {
		raw, err := keygen.Bytes(recoveryCodeBytes)
		if err != nil {
			return nil, errors.Join(ErrFailedToGenerateCode, err)
		}
		code := fmt.Sprintf("%X", raw)
		keygen.Wipe(raw)
		codes[i] = code[0:4] + "-" + code[4:8] + "-" + code[8:12] + "-" + code[12:16]
	}
	return codes, nil
}

// normalizeRecoveryCode drops separators and case so users may type codes loosely.
func normalizeRecoveryCode(code string) string {
	code = strings.ToUpper(code)
	return strings.Map(func(r rune) rune {
		if r == '-' || r == ' ' || r == '\t' {
			return -1
		}
		return r
	}, code)
}

// HashRecoveryCode returns the hex SHA-256 of the normalized code, for storage.
func HashRecoveryCode(code string) string {
	hash := sha256.Sum256([]byte(normalizeRecoveryCode(code)))
	return hex.EncodeToString(hash[:])
}

// VerifyRecoveryCode compares a user supplied code with a stored hash in constant time.
func VerifyRecoveryCode(code, hashedCode string) bool {
	computedHash := HashRecoveryCode(code)
	return subtle.ConstantTimeCompare([]byte(computedHash), []byte(hashedCode)) == 1
}
