package internal

// Version is the arkhamtr release version, overridden at build time via -ldflags.
var Version = "0.3.0"
