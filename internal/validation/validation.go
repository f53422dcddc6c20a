package validation

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"unicode/utf8"

	"github.com/fedutinova/logsuggest/internal/common"
)

// ReadBounded reads at most limit+1 bytes from r. A result longer than limit
// means the source was over the ceiling; the rest of the stream is never read.
func ReadBounded(r io.Reader, limit int64) ([]byte, error) {
	n := int64(math.MaxInt64) // no stream can exceed a MaxInt64 limit
	if limit < math.MaxInt64 {
		n = limit + 1
	}
	data, err := io.ReadAll(io.LimitReader(r, n))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	return data, nil
}

// asciiSpace matches what counts as blank in a byte upload; Unicode spaces
// such as NBSP are content.
const asciiSpace = " \t\n\r\v\f"

// ValidateLog applies the upload checks in order and returns the decoded text.
// The first failing check wins.
func ValidateLog(raw []byte, limit int64) (string, error) {
	if int64(len(raw)) > limit {
		return "", common.LimitError{Limit: limit}
	}

	if len(bytes.Trim(raw, asciiSpace)) == 0 {
		return "", common.ErrEmptyInput
	}

	if !utf8.Valid(raw) {
		return "", common.ErrUnsupportedEncoding
	}

	return string(raw), nil
}

// ReadLog combines ReadBounded and ValidateLog.
func ReadLog(r io.Reader, limit int64) (string, error) {
	raw, err := ReadBounded(r, limit)
	if err != nil {
		return "", err
	}
	return ValidateLog(raw, limit)
}
