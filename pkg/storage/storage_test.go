package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmissionKey(t *testing.T) {
	at := time.Unix(1700000000, 42)

	key := SubmissionKey(7, 3, "Report.PDF", at)
	assert.True(t, strings.HasPrefix(key, "submissions/7_3_1700000000000000042_"), key)
	assert.True(t, strings.HasSuffix(key, ".pdf"), key)
	assert.NotEqual(t, key, SubmissionKey(7, 3, "Report.PDF", at))

	assert.NotContains(t, SubmissionKey(7, 3, "../../etc/passwd", at), "..")
	assert.False(t, strings.HasSuffix(SubmissionKey(7, 3, "noext", at), "."))
}

func TestLocalStorage_UploadDelete(t *testing.T) {
	root := filepath.Join(t.TempDir(), "uploads")
	s, err := NewLocalStorage(root)
	require.NoError(t, err)

	loc, err := s.Upload(context.Background(), strings.NewReader("hello"), "submissions/a.pdf")
	require.NoError(t, err)
	assert.Equal(t, filepath.ToSlash(filepath.Join(root, "submissions", "a.pdf")), loc)

	data, err := os.ReadFile(filepath.FromSlash(loc))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	// keys are never overwritten
	_, err = s.Upload(context.Background(), strings.NewReader("again"), "submissions/a.pdf")
	assert.Error(t, err)

	require.NoError(t, s.Delete(context.Background(), loc))
	_, err = os.Stat(filepath.FromSlash(loc))
	assert.True(t, os.IsNotExist(err))

	// deleting twice is fine
	assert.NoError(t, s.Delete(context.Background(), loc))
}

func TestLocalStorage_RejectsEscapingKeys(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"../x", "/etc/passwd", "", "a/../../x"} {
		_, err := s.Upload(context.Background(), strings.NewReader("x"), key)
		assert.ErrorIs(t, err, ErrInvalidKey, key)
	}

	assert.ErrorIs(t, s.Delete(context.Background(), "/etc/passwd"), ErrInvalidKey)
}

func TestExtractPublicID(t *testing.T) {
	tests := map[string]string{
		"https://res.cloudinary.com/demo/raw/upload/v123456789/hub/submissions/a.pdf": "hub/submissions/a.pdf",
		"https://res.cloudinary.com/demo/raw/upload/hub/a.pdf":                        "hub/a.pdf",
		"https://res.cloudinary.com/demo/raw/upload/videos/a.pdf":                     "videos/a.pdf",
		"https://example.com/nothing-here":                                            "",
	}
	for in, want := range tests {
		assert.Equal(t, want, extractPublicID(in), in)
	}
}
