package errors

import "errors"

var (
	ErrConfigInvalid    = errors.New("configuration invalid")
	ErrRepoUnavailable  = errors.New("repository unavailable")
	ErrPublishFailed    = errors.New("publish failed")
	ErrRemoteFailed     = errors.New("remote operation failed")
	ErrKeyInstallFailed = errors.New("key installation failed")
	ErrSCMFailed        = errors.New("SCM operation failed")
	ErrJournalFailed    = errors.New("journal update failed")
)

// ClerkError pairs a failure with operator-facing context: what was being
// done, why it failed, and what to try next. The original error stays
// reachable through Unwrap.
type ClerkError struct {
	Type        error
	Context     string
	Cause       string
	Suggestion  string
	OriginalErr error
}

func (e *ClerkError) Error() string {
	if e.OriginalErr == nil {
		return e.Context
	}
	return e.OriginalErr.Error()
}

func (e *ClerkError) Unwrap() error {
	return e.OriginalErr
}

func New(errorType error, context, cause, suggestion string, originalErr error) *ClerkError {
	return &ClerkError{
		Type:        errorType,
		Context:     context,
		Cause:       cause,
		Suggestion:  suggestion,
		OriginalErr: originalErr,
	}
}

func NewConfigError(context, cause, suggestion string, originalErr error) *ClerkError {
	return New(ErrConfigInvalid, context, cause, suggestion, originalErr)
}

func NewRepoError(context, cause, suggestion string, originalErr error) *ClerkError {
	return New(ErrRepoUnavailable, context, cause, suggestion, originalErr)
}

func NewPublishError(context, cause, suggestion string, originalErr error) *ClerkError {
	return New(ErrPublishFailed, context, cause, suggestion, originalErr)
}

func NewRemoteError(context, cause, suggestion string, originalErr error) *ClerkError {
	return New(ErrRemoteFailed, context, cause, suggestion, originalErr)
}

func NewKeyError(context, cause, suggestion string, originalErr error) *ClerkError {
	return New(ErrKeyInstallFailed, context, cause, suggestion, originalErr)
}

func NewSCMError(context, cause, suggestion string, originalErr error) *ClerkError {
	return New(ErrSCMFailed, context, cause, suggestion, originalErr)
}

func NewJournalError(context, cause, suggestion string, originalErr error) *ClerkError {
	return New(ErrJournalFailed, context, cause, suggestion, originalErr)
}
