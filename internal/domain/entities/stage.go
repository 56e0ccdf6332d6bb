package entities

import "fmt"

// Stage represents a step of the minutes processing pipeline
type Stage string

const (
	StageIdle       Stage = "idle"       // No input accepted yet, or last attempt failed
	StageUploading  Stage = "uploading"  // Validating the transcript input
	StageExtracting Stage = "extracting" // Waiting on the language model call
	StageGenerating Stage = "generating" // Response parsed into a document
	StageEditing    Stage = "editing"    // Document handed to the editor
)

var stageTransitions = map[Stage][]Stage{
	StageIdle:       {StageUploading},
	StageUploading:  {StageExtracting, StageIdle},
	StageExtracting: {StageGenerating, StageIdle},
	StageGenerating: {StageEditing, StageIdle},
	StageEditing:    {StageIdle},
}

var stageProgress = map[Stage]int{
	StageIdle:       0,
	StageUploading:  20,
	StageExtracting: 60,
	StageGenerating: 100,
	StageEditing:    100,
}

var stageLabels = map[Stage]string{
	StageUploading:  "upload",
	StageExtracting: "extraction",
	StageGenerating: "generation",
}

// ParseStage validates a stage name
func ParseStage(s string) (Stage, error) {
	st := Stage(s)
	if _, ok := stageTransitions[st]; !ok {
		return "", fmt.Errorf("unknown stage %q", s)
	}
	return st, nil
}

// CanTransitionTo checks the allowed transition table
func (s Stage) CanTransitionTo(next Stage) bool {
	for _, allowed := range stageTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Progress returns the completion percentage reported while in the stage
func (s Stage) Progress() int {
	return stageProgress[s]
}

// Label returns the current-stage label, empty outside the active stages
func (s Stage) Label() string {
	return stageLabels[s]
}

// IsActive reports whether a generation is in flight
func (s Stage) IsActive() bool {
	return s == StageUploading || s == StageExtracting || s == StageGenerating
}

// ProcessingStatus is a snapshot of the controller state
type ProcessingStatus struct {
	Stage    Stage  `json:"stage"`
	Progress int    `json:"progress"`
	Label    string `json:"label,omitempty"`
	Failure  string `json:"failure,omitempty"`
}
