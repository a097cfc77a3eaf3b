package config

import "os"

func IsDebug() bool {
	return os.Getenv("RELANCE_DEBUG") == "1"
}
