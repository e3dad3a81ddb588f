// Package fileutil holds the permission modes of files written by the
// generator and the CLI.
package fileutil

import "os"

// ReadableByAll is the file permission mode for generated source code
// files intended to be read by build tools and other users.
const ReadableByAll os.FileMode = 0o644

// DirMode is the permission mode of created output directories.
const DirMode os.FileMode = 0o755
