package version

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrintVersion(t *testing.T) {
	Version, Commit, Branch, BuildTime = "v1.2.3", "abc123", "main", "2024-05-01T10:00:00Z"
	t.Cleanup(func() { Version, Commit, Branch, BuildTime = "", "", "", "" })

	var b bytes.Buffer
	PrintVersion(&b)
	assert.Equal(t, "Version: v1.2.3\nCommit: abc123\nBranch: main\nBuild Time: 2024-05-01T10:00:00Z\n", b.String())
	assert.Len(t, Fields(), 2)
}
