package cache

import (
	"fmt"

	"mixes-tracker/internal/class"
	"mixes-tracker/internal/steamid"
)

const keyPrefix = "mixes"

func reportKey(id steamid.SteamID, cls class.Class, limit int) string {
	return fmt.Sprintf("%s:report:%s:%s:%d", keyPrefix, id.ID64String(), cls, limit)
}

func reportPattern() string {
	return keyPrefix + ":report:*"
}
