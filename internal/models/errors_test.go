package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractionError_HidesCause(t *testing.T) {
	cause := errors.New("Error 401: API_KEY_INVALID")
	err := NewExtractionError(KindInvalidCredentials, cause)

	assert.Equal(t, KindInvalidCredentials.UserMessage(), err.Error())
	assert.NotContains(t, err.Error(), "API_KEY_INVALID")
	assert.Contains(t, err.Detail(), "API_KEY_INVALID")
	assert.ErrorIs(t, err, cause)
}

func TestDocumentParseError_NamesFile(t *testing.T) {
	err := DocumentParseError("form.pdf", errors.New("xref"))

	assert.Equal(t, KindDocumentParse, err.Kind)
	assert.Contains(t, err.Error(), `"form.pdf"`)
	assert.Equal(t, KindDocumentParse.UserMessage(), DocumentParseError("", nil).Error())
}

func TestKindOfError(t *testing.T) {
	wrapped := fmt.Errorf("run: %w", NewExtractionError(KindRateLimited, nil))

	assert.Equal(t, KindRateLimited, KindOfError(wrapped))
	assert.Equal(t, KindUnclassified, KindOfError(errors.New("plain")))
	assert.Equal(t, KindUnclassified, KindOfError(nil))
}

func TestUserMessage_EveryKindHasText(t *testing.T) {
	kinds := []ErrorKind{
		KindNoFilesSelected, KindDocumentParse, KindEmptyResult, KindInvalidCredentials,
		KindRateLimited, KindContentBlocked, KindMalformedResponse, KindUnclassified,
	}
	seen := map[string]bool{}
	for _, k := range kinds {
		msg := k.UserMessage()
		require.NotEmpty(t, msg, k)
		assert.False(t, seen[msg], "duplicate message for %s", k)
		seen[msg] = true
	}
	assert.Equal(t, KindUnclassified.UserMessage(), ErrorKind("Unknown").UserMessage())
}
