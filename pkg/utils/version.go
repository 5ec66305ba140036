package utils

var (
	Version   = "dev"
	Sha       = "HEAD"
	Buildtime = "dev"
)
