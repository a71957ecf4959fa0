package encoding

import "github.com/hdbconnect-go/hdbconnect/cesu8"

// Residue carries UTF-8-incomplete trailing bytes from one CESU8Bytes
// call to the next, for a single LOB stream.
type Residue = cesu8.Residue
