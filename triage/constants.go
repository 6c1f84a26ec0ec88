package triage

const (
	reportMagic = int32(iota + 0x6A5BED)
)

const reportVersion int32 = 1

// DefaultWorkUnitChunks is how many chunks land in one work unit when
// CompareContext doesn't say otherwise. Units are large relative to
// chunks so parallel dispatch overhead stays amortized.
const DefaultWorkUnitChunks int64 = 10240

// DefaultLaneWidth is the lane comparator's lane width in bytes.
const DefaultLaneWidth = 64
