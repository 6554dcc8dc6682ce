package version

// Version is overridden at build time with -ldflags "-X github.com/Daskott/credfix/version.Version=..."
var Version = "0.1.0"
