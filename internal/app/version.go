package app

const ServiceName = "sakeja"

// Set at build time:
//
//	go build -ldflags="-X 'github.com/Mukungiisaac/Sakeja/internal/app.Version=1.0.0'"
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)
