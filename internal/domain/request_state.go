package domain

type RequestStatus int

const (
	StatusIdle RequestStatus = iota
	StatusPending
	StatusSucceeded
	StatusFailed
)

func (s RequestStatus) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusPending:
		return "pending"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// RequestState is the session's single request lifecycle value. Result and
// Batch are only set when Succeeded; Message and Err only when Failed.
type RequestState struct {
	Status  RequestStatus
	Mode    SessionMode
	Token   uint64
	Result  *PredictionResult
	Batch   *BatchResult
	Message string
	Err     error
}

func IdleState() RequestState {
	return RequestState{Status: StatusIdle}
}

func PendingState(mode SessionMode, token uint64) RequestState {
	return RequestState{Status: StatusPending, Mode: mode, Token: token}
}

func SucceededState(mode SessionMode, token uint64, result PredictionResult) RequestState {
	return RequestState{Status: StatusSucceeded, Mode: mode, Token: token, Result: &result}
}

func BatchSucceededState(mode SessionMode, token uint64, batch BatchResult) RequestState {
	return RequestState{Status: StatusSucceeded, Mode: mode, Token: token, Batch: &batch}
}

func FailedState(mode SessionMode, token uint64, err error) RequestState {
	return RequestState{
		Status:  StatusFailed,
		Mode:    mode,
		Token:   token,
		Message: UserMessage(err),
		Err:     err,
	}
}

func (s RequestState) IsPending() bool {
	return s.Status == StatusPending
}

func (s RequestState) IsTerminal() bool {
	return s.Status == StatusSucceeded || s.Status == StatusFailed
}
