package fileutil

import "os"

// OwnerReadWrite is the file permission mode for report output files
// that may contain credentials copied from stack configuration.
const OwnerReadWrite os.FileMode = 0o600

// ReadableByAll is the file permission mode for generated fixture files
// intended to be read by build tools and other users.
const ReadableByAll os.FileMode = 0o644
