package pipeline

// Stage is a step of the image processing state machine
type Stage int

const (
	StageUploaded Stage = iota
	StageMetadataExtracted
	StageDefaultsApplied
	StageTransformed
	StageTaggedAndCollected
	StageFinalized
)

var stageNames = [...]string{
	"uploaded",
	"metadata_extracted",
	"defaults_applied",
	"transformed",
	"tagged_and_collected",
	"finalized",
}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return "unknown"
	}
	return stageNames[s]
}
