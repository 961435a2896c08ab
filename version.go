package plurag

// Version is set at build time with -ldflags "-X github.com/plurag/plurag.Version=...".
var Version = "dev"
