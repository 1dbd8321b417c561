package version

// Version is the volume-backup release, overridden at build time with
// -ldflags "-X volume-backup/src/version.Version=...".
var Version = "1.0.0"
