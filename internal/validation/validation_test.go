package validation

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/fedutinova/logsuggest/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingReader records how many bytes were pulled from it.
type countingReader struct {
	r    *bytes.Reader
	read int
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.read += n
	return n, err
}

func TestReadBounded_StopsOneBytePastLimit(t *testing.T) {
	src := &countingReader{r: bytes.NewReader(bytes.Repeat([]byte("a"), 1000))}

	data, err := ReadBounded(src, 10)
	require.NoError(t, err)
	assert.Len(t, data, 11)
	assert.Equal(t, 11, src.read)
}

func TestReadBounded_ShortInput(t *testing.T) {
	data, err := ReadBounded(strings.NewReader("error"), 200000)
	require.NoError(t, err)
	assert.Equal(t, []byte("error"), data)
}

func TestReadBounded_ReaderError(t *testing.T) {
	boom := errors.New("boom")
	_, err := ReadBounded(errReader{boom}, 10)
	assert.ErrorIs(t, err, boom)
}

type errReader struct{ err error }

func (e errReader) Read([]byte) (int, error) { return 0, e.err }

func TestValidateLog(t *testing.T) {
	tests := []struct {
		name    string
		raw     []byte
		limit   int64
		want    string
		wantErr error
	}{
		{name: "plain text", raw: []byte("error"), limit: 200000, want: "error"},
		{name: "exactly at limit", raw: []byte("abcde"), limit: 5, want: "abcde"},
		{name: "over limit", raw: []byte("abcdef"), limit: 5, wantErr: common.ErrPayloadTooLarge},
		{name: "zero bytes", raw: []byte{}, limit: 5, wantErr: common.ErrEmptyInput},
		{name: "whitespace only", raw: []byte("   "), limit: 5, wantErr: common.ErrEmptyInput},
		{name: "newlines and tabs", raw: []byte("\n\t\r\n"), limit: 5, wantErr: common.ErrEmptyInput},
		{name: "lone continuation byte", raw: []byte{'o', 'k', 0x80}, limit: 5, wantErr: common.ErrUnsupportedEncoding},
		{name: "multibyte utf8", raw: []byte("ошибка"), limit: 100, want: "ошибка"},
		{name: "size wins over encoding", raw: []byte{0x80, 0x80, 0x80}, limit: 2, wantErr: common.ErrPayloadTooLarge},
		{name: "nbsp is content", raw: []byte("\u00a0"), limit: 100, want: "\u00a0"},
		{name: "nel is content", raw: []byte("\u0085"), limit: 100, want: "\u0085"},
		{name: "vertical tab and form feed", raw: []byte("\v\f"), limit: 5, wantErr: common.ErrEmptyInput},
		{name: "emptiness wins over encoding", raw: []byte(" \t "), limit: 5, wantErr: common.ErrEmptyInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateLog(tt.raw, tt.limit)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateLog_LimitErrorCarriesLimit(t *testing.T) {
	_, err := ValidateLog(bytes.Repeat([]byte("x"), 200001), 200000)

	var limitErr common.LimitError
	require.ErrorAs(t, err, &limitErr)
	assert.EqualValues(t, 200000, limitErr.Limit)
	assert.True(t, errors.Is(err, common.ErrPayloadTooLarge))
}

func TestValidateLog_Deterministic(t *testing.T) {
	raw := []byte{0xff, 'x'}
	_, first := ValidateLog(raw, 10)
	_, second := ValidateLog(raw, 10)
	assert.Equal(t, first, second)
}

func TestReadLog_OverLimitStream(t *testing.T) {
	_, err := ReadLog(strings.NewReader(strings.Repeat("x", 200001)), 200000)
	assert.ErrorIs(t, err, common.ErrPayloadTooLarge)
}

func TestReadBounded_MaxInt64Limit(t *testing.T) {
	data, err := ReadBounded(strings.NewReader("error"), math.MaxInt64)
	require.NoError(t, err)
	assert.Equal(t, []byte("error"), data)

	got, err := ValidateLog(data, math.MaxInt64)
	require.NoError(t, err)
	assert.Equal(t, "error", got)
}
