package stage

import "errors"

var (
	ErrNilStage          = errors.New("stage is nil")
	ErrNoCurrentStage    = errors.New("no current stage")
	ErrStageNotFound     = errors.New("stage not found")
	ErrStageFileNotFound = errors.New("stage file not found")
	ErrDocumentDrift     = errors.New("stage document changes on reload")
)
