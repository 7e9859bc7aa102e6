package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func String() string {
	return fmt.Sprintf("subfind %s (commit=%s, date=%s)", Version, Commit, Date)
}

// UserAgent is sent with every lookup request.
func UserAgent() string {
	return "subfind/" + Version
}
