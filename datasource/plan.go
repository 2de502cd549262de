package datasource

import (
	"github.com/martin-augment/sedona-db/sedonaerrors"
)

// FileScanConfig is the resolved file-scan configuration a physical plan
// is built over: the object set to read and the FileSource describing
// how to read them. The host query planner (out of scope per spec.md
// §1) is responsible for resolving a table reference down to this
// config; the adapter only consumes it.
type FileScanConfig struct {
	Objects []Object
	Source  *FileSource
}

// ScanNode is the data-source execution node spec.md §4.5 calls for:
// "Produce a data-source execution node over the resolved file-scan
// config." It is deliberately inert here — the host engine's execution
// scheduler (how a ScanNode actually gets driven alongside other
// operators) is out of scope; this module supplies only the node's
// identity and its single-partition Opener.
type ScanNode struct {
	Config FileScanConfig
	Opener *Opener
}

// CreatePhysicalPlan builds the single data-source execution node for
// config, per spec.md §4.5.
func CreatePhysicalPlan(config FileScanConfig) (*ScanNode, error) {
	return &ScanNode{Config: config, Opener: NewOpener(config.Source)}, nil
}

// ErrWritePlanNotImplemented is returned by CreateWriterPhysicalPlan: the
// pluggable file format's write path is an explicit Non-goal (spec.md
// §1), so this always fails rather than silently producing a no-op
// writer.
var ErrWritePlanNotImplemented = sedonaerrors.Internalf("write plan not implemented for this file format")

// CreateWriterPhysicalPlan always reports "not implemented": write paths
// for the pluggable format are out of scope (spec.md §1 Non-goals).
func CreateWriterPhysicalPlan(FileScanConfig) (*ScanNode, error) {
	return nil, ErrWritePlanNotImplemented
}
