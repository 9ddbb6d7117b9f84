package groundtruth

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeLabelFile writes lines to a label file in a test temp dir.
func writeLabelFile(t *testing.T, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	content := strings.Join(lines, "\n")
	if len(lines) > 0 {
		content += "\n"
	}
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseRecord(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		image string
		label string
	}{
		{"plain", `img1.png,"AB"`, "img1.png", "AB"},
		{"space after comma", `word_1.png, "Genaxis Theatre"`, "word_1.png", "Genaxis Theatre"},
		{"comma inside label", `word_2.png, "1,200"`, "word_2.png", "1,200"},
		{"crlf", "word_3.png, \"EXIT\"\r\n", "word_3.png", "EXIT"},
		{"bom", "\ufeffword_4.png, \"A\"", "word_4.png", "A"},
		{"escaped quote kept", `word_5.png, "\"Today"`, "word_5.png", `\"Today`},
		{"unquoted", `word_6.png,abc`, "word_6.png", "abc"},
		{"empty label", `word_7.png,""`, "word_7.png", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := ParseRecord(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.image, rec.ImageName)
			assert.Equal(t, tt.label, rec.Label)
		})
	}
}

func TestParseRecord_NoComma(t *testing.T) {
	_, err := ParseRecord("word_1.png")
	assert.ErrorIs(t, err, ErrMalformedRecord)
}

func TestNormalizeLabel(t *testing.T) {
	assert.Equal(t, "a b c d", NormalizeLabel("a\u3000b\tc d"))
	assert.Equal(t, "plain", NormalizeLabel("plain"))
}

func TestLabelLength_CountsRunes(t *testing.T) {
	assert.Equal(t, 3, LabelLength("ABC"))
	assert.Equal(t, 2, LabelLength("日本"))
	assert.Equal(t, 0, LabelLength(""))
}

func TestScan_SkipsBlankLinesAndReportsLineNumber(t *testing.T) {
	input := "a.png,\"A\"\n\n   \nbroken\n"
	var got []Record
	err := Scan(strings.NewReader(input), func(rec Record) error {
		got = append(got, rec)
		return nil
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedRecord)
	assert.Contains(t, err.Error(), "line 4")
	assert.Len(t, got, 1)
}

func TestReadFile(t *testing.T) {
	path := writeLabelFile(t, "gt.txt", `img1.png,"AB"`, `img2.png,"ABC"`)
	records, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []Record{
		{ImageName: "img1.png", Label: "AB"},
		{ImageName: "img2.png", Label: "ABC"},
	}, records)
}

func TestReadFile_Missing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestMaxLabelLength(t *testing.T) {
	path := writeLabelFile(t, "gt.txt", `img1.png,"AB"`, `img2.png,"ABC"`)
	n, err := MaxLabelLength(path)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestMaxLabelLength_Empty(t *testing.T) {
	path := writeLabelFile(t, "gt.txt")
	n, err := MaxLabelLength(path)
	require.NoError(t, err)
	assert.Equal(t, -1, n)
}

func TestMaxLabelLength_AcrossFiles(t *testing.T) {
	train := writeLabelFile(t, "train.txt", `a.png,"HELLO"`, `b.png,"HI"`)
	valid := writeLabelFile(t, "valid.txt", `c.png,"WORLDWIDE"`)

	trainMax, err := MaxLabelLength(train)
	require.NoError(t, err)
	validMax, err := MaxLabelLength(valid)
	require.NoError(t, err)

	assert.Equal(t, 9, max(trainMax, validMax))
}

func TestCounter_CountFile(t *testing.T) {
	path := writeLabelFile(t, "gt.txt", `img1.png,"AB"`, `img2.png,"ABC"`)
	c := NewCounter()
	require.NoError(t, c.CountFile(path))

	assert.Equal(t, []rune{'A', 'B', 'C'}, c.Keys())
	assert.Equal(t, 2, c.Count('A'))
	assert.Equal(t, 2, c.Count('B'))
	assert.Equal(t, 1, c.Count('C'))
	assert.Equal(t, 5, c.Total())
	assert.Equal(t, "{'A': 2, 'B': 2, 'C': 1}", c.String())
}

func TestCounter_AccumulatesAcrossFiles(t *testing.T) {
	train := writeLabelFile(t, "train.txt", `a.png,"ab"`)
	valid := writeLabelFile(t, "valid.txt", `b.png,"bc"`)

	c := NewCounter()
	require.NoError(t, c.CountFile(train))
	assert.Equal(t, 2, c.Len())

	require.NoError(t, c.CountFile(valid))
	assert.Equal(t, []rune{'a', 'b', 'c'}, c.Keys())
	assert.Equal(t, 2, c.Count('b'))
	assert.Equal(t, 4, c.Total())
}

func TestCounter_TotalMatchesNormalizedLength(t *testing.T) {
	labels := []string{"ICDAR 2015", "a\u3000b", "tab\there", "日本語"}
	c := NewCounter()
	want := 0
	for _, l := range labels {
		c.Add(l)
		want += LabelLength(NormalizeLabel(l))
	}
	assert.Equal(t, want, c.Total())
	assert.Equal(t, 0, c.Count('\u3000'))
	assert.Equal(t, 0, c.Count('\t'))
	assert.Equal(t, 3, c.Count(' '))
}

func TestCounter_Entries(t *testing.T) {
	c := NewCounter()
	c.Add("xyx")
	assert.Equal(t, []CharCount{{Char: 'x', Count: 2}, {Char: 'y', Count: 1}}, c.Entries())
}

func TestCounter_KeysIsACopy(t *testing.T) {
	c := NewCounter()
	c.Add("ab")
	keys := c.Keys()
	keys[0] = 'z'
	assert.Equal(t, 'a', c.Keys()[0])
}

func TestLengthHistogram(t *testing.T) {
	path := writeLabelFile(t, "gt.txt", `a.png,"AB"`, `b.png,"CD"`, `c.png,"EFG"`)
	h := NewLengthHistogram()
	require.NoError(t, h.AddFile(path))

	assert.Equal(t, 3, h.Labels())
	assert.Equal(t, 3, h.Max())
	assert.Equal(t, []LengthBucket{{Length: 2, Labels: 2}, {Length: 3, Labels: 1}}, h.Buckets())
}

func TestLengthHistogram_Empty(t *testing.T) {
	h := NewLengthHistogram()
	assert.Equal(t, -1, h.Max())
	assert.Empty(t, h.Buckets())
}
