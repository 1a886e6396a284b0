package errs

import "fmt"

// Location identifies a byte range within a source file. The file itself is
// never read by this package: lexing and parsing are an external
// collaborator, so a Location only needs to round-trip back to whatever
// produced the AST.
type Location struct {
	FileID int
	Start  int
	End    int
}

func (l Location) String() string {
	return fmt.Sprintf("file#%d[%d:%d]", l.FileID, l.Start, l.End)
}

// NoLocation is used for diagnostics synthesized by a pass (e.g. an internal
// invariant check) that has no single originating source span.
var NoLocation = Location{FileID: -1}
