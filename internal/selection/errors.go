package selection

import "errors"

// Registry errors. All of them are observable no-ops: the registry state is
// unchanged when they are returned.
var (
	ErrAlreadyActive = errors.New("feature already active")
	ErrNotFound      = errors.New("not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrBusy          = errors.New("a request is already in flight")
)

// Code identifies a validation failure from Resolve.
type Code string

const (
	NoAreaSelected      Code = "NoAreaSelected"
	NoMarkerPlaced      Code = "NoMarkerPlaced"
	NoShapefileLink     Code = "NoShapefileLink"
	NoProductSelected   Code = "NoProductSelected"
	NoTimestepSelected  Code = "NoTimestepSelected"
	NoStatisticSelected Code = "NoStatisticSelected"
)

// ValidationError means the current selection cannot be turned into a query
// target. Message is the user-facing guidance text; no backend call may be
// made when one is returned.
type ValidationError struct {
	Code    Code
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// validationMessages carries the guidance text shown next to the create
// buttons when a selection is incomplete.
var validationMessages = map[Code]string{
	NoAreaSelected:      "Select an Area first!",
	NoMarkerPlaced:      "Create a Marker first (or click on map)!",
	NoShapefileLink:     "Add a link retrieved from Google EE API",
	NoProductSelected:   "Select at least one Product first!",
	NoTimestepSelected:  "Select a Timestep first!",
	NoStatisticSelected: "Select a statistic method first!",
}

func validationErr(code Code) *ValidationError {
	return &ValidationError{Code: code, Message: validationMessages[code]}
}
