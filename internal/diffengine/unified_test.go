package diffengine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleUnified = `--- a/main.go
+++ b/main.go
@@ -1,3 +1,4 @@
 package main
-func old() {}
+func updated() {}
+
 // end
--- a/README.md
+++ b/README.md
@@ -10,1 +10,1 @@
-Old title
+New title
`

func TestParseUnified(t *testing.T) {
	files, err := ParseUnified(sampleUnified)

	require.NoError(t, err)
	require.Len(t, files, 2)

	f := files[0]
	assert.Equal(t, "main.go", f.OldPath)
	assert.Equal(t, "main.go", f.Path())
	require.Len(t, f.Hunks, 1)
	assert.Equal(t, 1, f.Hunks[0].OldStart)
	assert.Equal(t, 4, f.Hunks[0].NewLines)
	assert.Equal(t, Stats{Added: 2, Removed: 1}, f.Stats())
	assert.Equal(t, Line{Kind: LineAdded, Content: "", NewLine: 3}, f.Hunks[0].Lines[3])
	assert.Equal(t, Line{Kind: LineContext, Content: "// end", OldLine: 3, NewLine: 4}, f.Hunks[0].Lines[4])

	assert.Equal(t, "README.md", files[1].Path())
	assert.Equal(t, 10, files[1].Hunks[0].Lines[0].OldLine)
}

func TestParseUnifiedNewFile(t *testing.T) {
	files, err := ParseUnified("--- /dev/null\n+++ b/new.txt\n@@ -0,0 +1,1 @@\n+hello\n")

	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "/dev/null", files[0].OldPath)
	assert.Equal(t, "new.txt", files[0].Path())
}

func TestParseUnifiedBadHunkHeader(t *testing.T) {
	_, err := ParseUnified("--- a/x\n+++ b/x\n@@ nonsense @@\n-a\n")

	assert.Error(t, err)
}

func TestParseUnifiedNoFiles(t *testing.T) {
	_, err := ParseUnified("just some prose\n")

	assert.Error(t, err)
}
