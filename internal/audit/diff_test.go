package audit

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/avjabalpur/cian-erp-sub001/internal/approval/catalog"
)

func TestComputeDiffSkipsUnchangedFields(t *testing.T) {
	persisted := map[catalog.FieldID]string{
		catalog.FieldCustomerName: "Acme",
		catalog.FieldQuantity:     "100",
		catalog.FieldComments:     "",
	}
	overlay := map[catalog.FieldID]string{
		catalog.FieldCustomerName: "Acme",
		catalog.FieldQuantity:     "250",
		catalog.FieldComments:     "hello",
	}

	diff := ComputeDiff(persisted, overlay)
	require.Len(t, diff, 2)
	require.Equal(t, DiffEntry{Previous: "100", New: "250"}, diff[catalog.FieldQuantity])
	require.Equal(t, DiffEntry{Previous: "", New: "hello"}, diff[catalog.FieldComments])
	require.NotContains(t, diff, catalog.FieldCustomerName)
}

func TestComputeDiffMissingValuesNormaliseToEmpty(t *testing.T) {
	diff := ComputeDiff(nil, map[catalog.FieldID]string{catalog.FieldComments: "hello"})
	require.Equal(t, DiffEntry{Previous: "", New: "hello"}, diff[catalog.FieldComments])

	// Writing an empty string over an absent value is not a change.
	diff = ComputeDiff(nil, map[catalog.FieldID]string{catalog.FieldComments: ""})
	require.True(t, diff.Empty())
}

func TestDiffNewValues(t *testing.T) {
	diff := DiffMap{
		catalog.FieldQuantity: {Previous: "1", New: "2"},
		catalog.FieldComments: {Previous: "", New: "x"},
	}
	require.Equal(t, map[catalog.FieldID]string{
		catalog.FieldQuantity: "2",
		catalog.FieldComments: "x",
	}, diff.NewValues())
}

func TestDiffEncodeDecodeRoundTrip(t *testing.T) {
	diff := DiffMap{
		catalog.FieldCustomerName: {Previous: "Acme", New: "Globex"},
	}
	raw, err := diff.Encode()
	require.NoError(t, err)

	decoded := DecodeDiff(raw)
	require.False(t, decoded.Malformed())
	require.Equal(t, diff, decoded)
}

func TestDecodeDiffDegradesOnCorruptPayload(t *testing.T) {
	decoded := DecodeDiff([]byte(`{"customer_name": "not-an-object"`))
	require.Len(t, decoded, 1)
	require.True(t, decoded.Malformed())
	require.Contains(t, decoded[MalformedDiffKey].New, "unreadable change record")

	// A null payload decodes to an empty, well-formed diff.
	decoded = DecodeDiff([]byte(`null`))
	require.False(t, decoded.Malformed())
	require.True(t, decoded.Empty())
}

func TestMalformedKeyNeverCollides(t *testing.T) {
	require.False(t, catalog.Known(MalformedDiffKey))
}
