package redisrepo

import "fmt"

const (
	REVOKED_TOKEN_KEY = "revoked-token:%s" // <tokenID>
)

func RevokedTokenKey(tokenID string) string {
	return fmt.Sprintf(REVOKED_TOKEN_KEY, tokenID)
}
