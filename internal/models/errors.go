package models

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a pipeline run failed.
type ErrorKind string

const (
	KindNoFilesSelected    ErrorKind = "NoFilesSelected"
	KindDocumentParse      ErrorKind = "DocumentParseError"
	KindEmptyResult        ErrorKind = "EmptyResultError"
	KindInvalidCredentials ErrorKind = "InvalidCredentials"
	KindRateLimited        ErrorKind = "RateLimited"
	KindContentBlocked     ErrorKind = "ContentBlocked"
	KindMalformedResponse  ErrorKind = "MalformedResponse"
	KindUnclassified       ErrorKind = "UnclassifiedServiceError"
)

var userMessages = map[ErrorKind]string{
	KindNoFilesSelected:    "Please select one or more files first.",
	KindDocumentParse:      "Could not process the PDF file. It might be corrupted or in an unsupported format.",
	KindEmptyResult:        "Could not extract any images from the provided file(s). Please check the file formats.",
	KindInvalidCredentials: "The extraction service rejected the configured API key. This is a configuration problem, please contact the administrator.",
	KindRateLimited:        "The extraction service is busy right now. Please wait a moment and try again.",
	KindContentBlocked:     "The document was blocked by the extraction service's content policy. Please try a different file.",
	KindMalformedResponse:  "The AI model returned an invalid format. This can happen with complex documents, please try again.",
	KindUnclassified:       "Failed to extract data. Please check your network connection and try again.",
}

// UserMessage returns the end-user text for a kind.
func (k ErrorKind) UserMessage() string {
	if msg, ok := userMessages[k]; ok {
		return msg
	}
	return userMessages[KindUnclassified]
}

// ExtractionError is the only error type that leaves the pipeline.
// Error() is safe to show to end users; the cause is kept for logs only.
type ExtractionError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *ExtractionError) Error() string {
	return e.Message
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// Detail includes the underlying cause. Use it for operator logs, never for responses.
func (e *ExtractionError) Detail() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

func NewExtractionError(kind ErrorKind, cause error) *ExtractionError {
	return &ExtractionError{Kind: kind, Message: kind.UserMessage(), Err: cause}
}

func DocumentParseError(fileName string, cause error) *ExtractionError {
	e := NewExtractionError(KindDocumentParse, cause)
	if fileName != "" {
		e.Message = fmt.Sprintf("Could not process the PDF file %q. It might be corrupted or in an unsupported format.", fileName)
	}
	return e
}

// KindOfError reports the kind carried by err, or KindUnclassified.
func KindOfError(err error) ErrorKind {
	var extractionErr *ExtractionError
	if errors.As(err, &extractionErr) {
		return extractionErr.Kind
	}
	return KindUnclassified
}
