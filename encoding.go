package main

import (
	"fmt"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

// unicodeNamesVersion is the first object-format revision that stores
// names as UTF-8. Older revisions store Shift JIS.
const unicodeNamesVersion = 12

// encodeName converts a source-spelled name to its stored spelling for
// this object's format version. Every intern and every lookup goes
// through it, so name comparisons always happen in the stored encoding.
func (o *Object) encodeName(name string) (string, error) {
	if o.Version >= unicodeNamesVersion {
		return name, nil
	}
	out, _, err := transform.String(japanese.ShiftJIS.NewEncoder(), name)
	if err != nil {
		return "", fmt.Errorf("error: name '%s' cannot be encoded for object version %d", name, o.Version)
	}
	return out, nil
}
