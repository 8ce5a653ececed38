package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// otpMax は6桁の認証コードの上限（排他）。
var otpMax = big.NewInt(1000000)

// GenerateOTP は一様ランダムな6桁の数字文字列を生成する。
// crypto/randを使用し、000000〜999999の範囲で先頭ゼロ埋めされる。
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, otpMax)
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
