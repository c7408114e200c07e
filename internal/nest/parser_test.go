package nest

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"nestquote/pkg/models"
)

func fixture(name string) string {
	return filepath.Join("testdata", name)
}

func TestParseJobFile(t *testing.T) {
	in, err := NewParser().Parse(fixture("job.xml"))
	require.NoError(t, err)

	assert.Equal(t, models.CostInput{
		MaterialCode:          "A36-025",
		Thickness:             0.25,
		FeedRate:              120,
		PierceRateSec:         1.5,
		SheetLength:           48,
		SheetWidth:            96,
		PierceCount:           140,
		CutDistance:           5400,
		SheetQuantity:         3,
		MaterialCostPerWeight: 2.10,
		Density:               0.0975,
		ProcessTimeMinutes:    45,
	}, in)
}

func TestNestScopedFieldsWinOverPartDuplicates(t *testing.T) {
	// job.xml repeats NestQty and ProcessTime inside the first <Parts>
	// record, ahead of <Nest> in document order.
	in, err := NewParser().Parse(fixture("job.xml"))
	require.NoError(t, err)

	assert.Equal(t, 3, in.SheetQuantity)
	assert.Equal(t, 45.0, in.ProcessTimeMinutes)
}

func TestNestScopedFieldsFallBackToDocument(t *testing.T) {
	in, err := NewParser().Parse(fixture("nest_without_time.xml"))
	require.NoError(t, err)

	assert.Equal(t, 2, in.SheetQuantity)
	assert.Equal(t, 30.5, in.ProcessTimeMinutes)
	assert.Empty(t, in.MaterialCode)
}

func TestMalformedValuesBecomeZero(t *testing.T) {
	in, err := NewParser().Parse(fixture("malformed_values.xml"))
	require.NoError(t, err)

	assert.Zero(t, in.Thickness)
	assert.Equal(t, 1200.5, in.FeedRate)
	assert.Zero(t, in.PierceRateSec)
	assert.Equal(t, 48.0, in.SheetLength)
	assert.Zero(t, in.SheetWidth)
	assert.Zero(t, in.PierceCount)
	assert.Zero(t, in.SheetQuantity)
	assert.Equal(t, 12.0, in.ProcessTimeMinutes)

	parts, err := NewParser().ParseParts(fixture("malformed_values.xml"))
	require.NoError(t, err)
	require.Len(t, parts, 1)
	assert.Equal(t, models.PartCostDetail{Name: "N/A"}, parts[0])
}

func TestParseMissingFile(t *testing.T) {
	p := NewParser()

	_, err := p.Parse(filepath.Join(t.TempDir(), "nope.xml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFileNotFound))

	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, "Parse", parseErr.Op)

	_, err = p.ParseParts(filepath.Join(t.TempDir(), "nope.xml"))
	assert.ErrorIs(t, err, ErrFileNotFound)
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, "ParseParts", parseErr.Op)

	_, err = p.ParseFile(filepath.Join(t.TempDir(), "nope.xml"))
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, "ParseFile", parseErr.Op)

	for _, err := range p.Parts(filepath.Join(t.TempDir(), "nope.xml")) {
		require.True(t, errors.As(err, &parseErr))
		assert.Equal(t, "Parts", parseErr.Op)
	}
}

func TestNegativeValuesBecomeZero(t *testing.T) {
	in, err := NewParser().Parse(fixture("negative_values.xml"))
	require.NoError(t, err)

	assert.Equal(t, models.CostInput{
		MaterialCode: "A36",
		SheetLength:  48,
	}, in)

	parts, err := NewParser().ParseParts(fixture("negative_values.xml"))
	require.NoError(t, err)
	require.Len(t, parts, 1)
	assert.Equal(t, models.PartCostDetail{Name: "BRKT-100"}, parts[0])
}

func TestParseBrokenXML(t *testing.T) {
	_, err := NewParser().Parse(fixture("broken.xml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnreadable)
	assert.NotErrorIs(t, err, ErrFileNotFound)
}

func TestParseParts(t *testing.T) {
	parts, err := NewParser().ParseParts(fixture("job.xml"))
	require.NoError(t, err)

	assert.Equal(t, []models.PartCostDetail{
		{Name: "BRKT-100", Quantity: 12, CutDistance: 240, CutArea: 36.5},
		{Name: "GUSSET-7", Quantity: 4, CutDistance: 96.25, CutArea: 18},
	}, parts)
}

func TestPartsSequenceIsRestartable(t *testing.T) {
	seq := NewParser().Parts(fixture("job.xml"))

	collect := func() []string {
		var names []string
		for part, err := range seq {
			require.NoError(t, err)
			names = append(names, part.Name)
		}
		return names
	}

	first := collect()
	second := collect()
	assert.Equal(t, []string{"BRKT-100", "GUSSET-7"}, first)
	assert.Equal(t, first, second)
}

func TestPartsSequenceStopsEarly(t *testing.T) {
	count := 0
	for range NewParser().Parts(fixture("job.xml")) {
		count++
		break
	}
	assert.Equal(t, 1, count)
}

func TestPartsSequenceYieldsFileError(t *testing.T) {
	var errs []error
	for _, err := range NewParser().Parts(filepath.Join(t.TempDir(), "missing.xml")) {
		errs = append(errs, err)
	}
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], ErrFileNotFound)
}

func TestDocumentReadsOnce(t *testing.T) {
	doc, err := NewParser().ParseFile(fixture("job.xml"))
	require.NoError(t, err)

	assert.Equal(t, "A36-025", doc.CostInput().MaterialCode)
	assert.Len(t, doc.Parts(), 2)
}
