package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `Review,SENTIMENT
"This was a very bad steak",negative
"great movie",positive,extra
"only one field"
"I loved it, really",Positive
"Meh",NEGATIVE
`

func writeCSV(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "IMDB Dataset.csv")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadCSV_MapsRowsAndSkipsMalformed(t *testing.T) {
	path := writeCSV(t, sampleCSV)

	d, stats, err := LoadCSV(path)
	require.NoError(t, err)

	assert.Equal(t, Dataset{
		{Text: "This was a very bad steak", Label: false},
		{Text: "I loved it, really", Label: true},
		{Text: "Meh", Label: false},
	}, d)
	assert.Equal(t, 3, stats.Rows)
	assert.Equal(t, 2, stats.Skipped)
}

func TestLoadCSV_NegativeSteakRow(t *testing.T) {
	path := writeCSV(t, "review,sentiment\n\"This was a very bad steak\",negative\n")

	d, _, err := LoadCSV(path)
	require.NoError(t, err)
	require.Len(t, d, 1)
	assert.Equal(t, Example{Text: "This was a very bad steak", Label: false}, d[0])
}

func TestLoadCSV_HeaderWithBOMAndExtraColumns(t *testing.T) {
	path := writeCSV(t, "\ufeff id , Sentiment ,REVIEW\n1,positive,Loved it\n2,negative,Hated it\n")

	d, _, err := LoadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, Dataset{
		{Text: "Loved it", Label: true},
		{Text: "Hated it", Label: false},
	}, d)
}

func TestLoadCSV_Idempotent(t *testing.T) {
	path := writeCSV(t, sampleCSV)

	first, _, err := LoadCSV(path)
	require.NoError(t, err)
	second, _, err := LoadCSV(path)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestLoadCSV_SourceNotFound(t *testing.T) {
	_, _, err := LoadCSV(filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSourceNotFound), "got %v", err)
}

func TestReadCSV_MissingColumn(t *testing.T) {
	_, _, err := ReadCSV(strings.NewReader("text,label\nfoo,positive\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingColumn), "got %v", err)
}

func TestReadCSV_HeaderOnly(t *testing.T) {
	d, stats, err := ReadCSV(strings.NewReader("review,sentiment\n"))
	require.NoError(t, err)
	assert.Empty(t, d)
	assert.Equal(t, 0, stats.Skipped)
}

func TestCSVLoader_PathAndKey(t *testing.T) {
	path := writeCSV(t, sampleCSV)
	loader := NewCSVLoader(path)

	assert.Equal(t, path, loader.Path())
	assert.True(t, strings.HasPrefix(loader.Key(), "dataset:"))

	d, err := loader.Load()
	require.NoError(t, err)
	assert.Len(t, d, 3)
}

func TestLoader_Mock(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mock := NewMockLoader(ctrl)
	mock.EXPECT().
		Load().
		Return(Dataset{{Text: "fine", Label: true}}, nil)
	mock.EXPECT().
		Path().
		Return("/mock/reviews.csv")

	d, err := mock.Load()
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if len(d) != 1 || !d[0].Label {
		t.Errorf("unexpected Load result: %+v", d)
	}
	if mock.Path() != "/mock/reviews.csv" {
		t.Errorf("unexpected Path: %v", mock.Path())
	}
}

func TestPolarity_RoundTrip(t *testing.T) {
	for _, in := range []string{"positive", " POSITIVE ", "Positive"} {
		var p Polarity
		require.NoError(t, p.UnmarshalCSV(in))
		assert.True(t, bool(p), in)
		s, _ := p.MarshalCSV()
		assert.Equal(t, "positive", s)
	}
	for _, in := range []string{"negative", "", "neutral"} {
		var p Polarity
		require.NoError(t, p.UnmarshalCSV(in))
		assert.False(t, bool(p), in)
	}
}
