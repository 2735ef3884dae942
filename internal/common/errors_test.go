package common

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
)

func TestHelpers_KeepKindAndMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind error
		msg  string
	}{
		{"validation", Validationf("Please provide %s", "a title"), ErrValidation, "Please provide a title"},
		{"forbidden", Forbiddenf("not yours"), ErrForbidden, "not yours"},
		{"not found", NotFoundf("Job not found"), ErrNotFound, "Job not found"},
		{"custom", Hintf(ErrInvalidTransition, "already %s", "Rejected"), ErrInvalidTransition, "already Rejected"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, errors.Is(tt.err, tt.kind))
			assert.Equal(t, tt.msg, Message(tt.err))
		})
	}
}

func TestIsUploadFailure(t *testing.T) {
	rejected := Hintf(ErrResumeRejected, "too large")
	assert.True(t, errors.Is(rejected, ErrResumeRejected))
	assert.False(t, errors.Is(rejected, ErrUploadFailed))
	assert.True(t, IsUploadFailure(rejected))
	assert.True(t, IsUploadFailure(UploadFailed(errors.New("timeout"))))
	assert.False(t, IsUploadFailure(Validationf("nope")))
}

func TestUploadFailed_HidesCause(t *testing.T) {
	err := UploadFailed(errors.New("s3: connection reset by 10.0.0.7"))
	assert.True(t, errors.Is(err, ErrUploadFailed))
	assert.NotContains(t, Message(err), "10.0.0.7")
	assert.Equal(t, "Failed to upload resume, try again", Message(err))
}

func TestUploadFailed_ErrorCarriesCause(t *testing.T) {
	err := UploadFailed(errors.New("connection reset"))
	assert.Equal(t, "upload failed: connection reset", err.Error())
	assert.False(t, errors.Is(err, ErrResumeRejected))
}

func TestMessage_EmptyWithoutHint(t *testing.T) {
	assert.Equal(t, "", Message(errors.New("boom")))
}
