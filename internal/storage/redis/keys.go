package redis

import (
	"fmt"

	"github.com/mcoot/tictactoe-go/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "ttt"

// accountKey returns the Redis key for an Account
func accountKey(username model.Username) string {
	return fmt.Sprintf("%s:account:%s", keyPrefix, username)
}

// accountIndexKey returns the Redis key for the SET of all usernames
func accountIndexKey() string {
	return fmt.Sprintf("%s:idx:accounts", keyPrefix)
}
