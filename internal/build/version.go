package build

import "fmt"

// set at build time with -ldflags "-X"
var version string
var githash string
var buildstamp string

func Version() (string, string, string) {
	return version, githash, buildstamp
}

func VersionString() string {
	v := version
	if v == "" {
		v = "development"
	}

	ret := "storyreel " + v
	if githash != "" {
		ret += fmt.Sprintf(" (%s)", githash)
	}
	if buildstamp != "" {
		ret += " - " + buildstamp
	}
	return ret
}
