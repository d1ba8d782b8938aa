package media

import "fmt"

// FetchStatus is the outcome of a single FetchAndStore call.
type FetchStatus int

const (
	NotAttempted FetchStatus = iota
	Succeeded
	Failed
)

func (s FetchStatus) String() string {
	switch s {
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "not_attempted"
	}
}

// FailureReason says which step of a fetch failed.
type FailureReason string

const (
	ReasonFetchError      FailureReason = "fetch_error"
	ReasonBadStatus       FailureReason = "bad_status"
	ReasonUnsupportedType FailureReason = "unsupported_type"
	ReasonTooLarge        FailureReason = "too_large"
	ReasonStoreError      FailureReason = "store_error"
	ReasonAttachError     FailureReason = "attach_error"
)

// FetchResult reports what happened to one image URL.
// AttachmentID is only set when Status is Succeeded.
type FetchResult struct {
	Status       FetchStatus
	AttachmentID uint
	Reason       FailureReason
	Err          error
}

func (r FetchResult) OK() bool {
	return r.Status == Succeeded
}

func (r FetchResult) String() string {
	switch r.Status {
	case Succeeded:
		return fmt.Sprintf("succeeded: attachment %d", r.AttachmentID)
	case Failed:
		if r.Err != nil {
			return fmt.Sprintf("failed (%s): %v", r.Reason, r.Err)
		}
		return fmt.Sprintf("failed (%s)", r.Reason)
	default:
		return "not attempted"
	}
}

func succeeded(id uint) FetchResult {
	return FetchResult{Status: Succeeded, AttachmentID: id}
}

func failed(reason FailureReason, err error) FetchResult {
	return FetchResult{Status: Failed, Reason: reason, Err: err}
}
