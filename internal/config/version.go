package config

// Version is the chaintrail binary version.
// Set at build time via: -ldflags "-X github.com/chaintrail/chaintrail/internal/config.Version=<tag>"
// Defaults to "dev" when built without ldflags.
var Version = "dev"
