package version

import (
	"fmt"
	"io"

	"go.uber.org/zap"
)

var (
	Version   string
	Commit    string
	Branch    string
	BuildTime string
	BuiltBy   string
)

func PrintVersion(w io.Writer) {
	fmt.Fprintf(w, "Version: %s\n"+
		"Commit: %s\n"+
		"Branch: %s\n"+
		"Build Time: %s\n",
		Version,
		Commit,
		Branch,
		BuildTime,
	)
}

// Fields tags startup logs with the build that produced them.
func Fields() []zap.Field {
	return []zap.Field{
		zap.String("version", Version),
		zap.String("commit", Commit),
	}
}
