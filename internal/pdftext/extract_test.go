package pdftext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_HasSignature_ShouldCheckMagicBytes(t *testing.T) {
	assert.True(t, HasSignature([]byte("%PDF-1.7\n...")))
	assert.False(t, HasSignature([]byte("PK\x03\x04")))
	assert.False(t, HasSignature(nil))
}

func Test_Extract_NotPDF_ShouldFail(t *testing.T) {
	_, err := NewExtractor().Extract([]byte("hello"))

	assert.ErrorIs(t, err, ErrNotPDF)
}

func Test_Extract_Garbage_ShouldReturnErrorNotPanic(t *testing.T) {
	var err error
	require.NotPanics(t, func() {
		_, err = NewExtractor().Extract([]byte("%PDF-1.4\nthis is not really a pdf"))
	})
	assert.Error(t, err)
}
