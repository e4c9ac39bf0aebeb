package usecase

import (
	"context"
	"sync"

	"resume-analyzer/internal/domain"
	"resume-analyzer/internal/validate"

	"go.uber.org/zap"
)

// Uploader submits a selected file and returns the stored document
// reference.
type Uploader interface {
	Upload(ctx context.Context, file domain.FileSelection) (string, error)
}

// UploadState is a snapshot of the upload orchestrator's attempt record.
// InFlight is mutually exclusive with a terminal FileURL/Err; after a
// completed attempt exactly one of the two is set.
type UploadState struct {
	FileURL  string
	InFlight bool
	Err      error
}

// UploadOrchestrator validates a file selection and submits it through the
// injected transport, holding the state of the current attempt.
type UploadOrchestrator struct {
	transport Uploader
	logger    *zap.Logger

	mu       sync.Mutex
	inFlight bool
	token    uint64
	fileURL  string
	err      error
}

func NewUploadOrchestrator(transport Uploader, logger *zap.Logger) *UploadOrchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UploadOrchestrator{transport: transport, logger: logger}
}

// Upload accepts exactly one file. A selection made while another upload is
// in flight is rejected without touching state. Validation failures are
// recorded and returned before any network call. On success the returned
// document reference is stored in the orchestrator state.
func (o *UploadOrchestrator) Upload(ctx context.Context, file domain.FileSelection) (string, error) {
	o.mu.Lock()
	if o.inFlight {
		o.mu.Unlock()
		return "", &domain.StateError{Op: "upload", Reason: "an upload is already in flight"}
	}

	if verr := validateSelection(file); verr != nil {
		o.fileURL = ""
		o.err = verr
		o.mu.Unlock()
		o.logger.Warn("upload rejected", zap.String("file", file.Name), zap.Error(verr))
		return "", verr
	}

	o.inFlight = true
	o.fileURL = ""
	o.err = nil
	o.token++
	token := o.token
	o.mu.Unlock()

	url, err := o.transport.Upload(ctx, file)

	o.mu.Lock()
	defer o.mu.Unlock()
	if token != o.token {
		// the orchestrator was reset while this attempt was running;
		// discard the result so torn-down state is not rewritten
		return "", &domain.StateError{Op: "upload", Reason: "attempt superseded"}
	}
	o.inFlight = false
	if err != nil {
		o.err = err
		o.logger.Warn("upload failed", zap.String("file", file.Name), zap.Error(err))
		return "", err
	}
	o.fileURL = url
	o.logger.Info("resume uploaded", zap.String("file_url", url))
	return url, nil
}

// State returns a snapshot of the current attempt record.
func (o *UploadOrchestrator) State() UploadState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return UploadState{FileURL: o.fileURL, InFlight: o.inFlight, Err: o.err}
}

// Reset discards the attempt record. An attempt still in flight is
// superseded and its completion will be ignored.
func (o *UploadOrchestrator) Reset() {
	o.mu.Lock()
	o.token++
	o.inFlight = false
	o.fileURL = ""
	o.err = nil
	o.mu.Unlock()
}

func validateSelection(file domain.FileSelection) *domain.ValidationError {
	if !validate.FileType(file.MIMEType, []string{validate.PDFMimeType}) {
		return &domain.ValidationError{Field: "file type", Reason: "only PDF resumes are accepted"}
	}
	if !validate.FileSize(file.Size, validate.MaxResumeSize) {
		return &domain.ValidationError{Field: "file size", Reason: "resume exceeds the 5 MiB limit"}
	}
	return nil
}
