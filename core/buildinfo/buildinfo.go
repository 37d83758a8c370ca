package buildinfo

// Set at build time, for example:
//
//	go build -ldflags "-X 'github.com/m3rciful/nbrbbot/core/buildinfo.Version=v0.3.0' \
//	  -X 'github.com/m3rciful/nbrbbot/core/buildinfo.Commit=$(git rev-parse --short HEAD)'" ./cmd/nbrbbot
var (
	// Version is the release tag of the binary.
	Version = "dev"
	// Commit is the short VCS revision.
	Commit = "local"
	// Date is the RFC3339 build timestamp.
	Date = ""
)
