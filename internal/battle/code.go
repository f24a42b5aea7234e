package battle

import (
	"crypto/rand"
	"math/big"
	"strings"
)

const (
	inviteCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	inviteLength  = 6
)

func GenerateInviteCode() (string, error) {
	code := make([]byte, inviteLength)
	for i := range code {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(inviteCharset))))
		if err != nil {
			return "", err
		}
		code[i] = inviteCharset[num.Int64()]
	}
	return string(code), nil
}

func NormalizeInviteCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
