package archive

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"io"
	"testing"
	"time"

	"order-etl/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func sampleDocuments() []model.OrderDocument {
	return []model.OrderDocument{
		{
			UID:              "O3",
			DateOfOrder:      time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC),
			ClientUID:        "C1",
			Subtotal:         25,
			Taxes:            5,
			Total:            30,
			MostPopularBrand: "Acme",
			OrderItems: []model.OrderItemDocument{
				{UID: "P1", Quantity: 2, Price: 10, Name: "Soap", Brand: "Acme"},
			},
		},
		{
			UID:         "O1",
			DateOfOrder: time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC),
			ClientUID:   "C2",
			OrderItems:  []model.OrderItemDocument{},
		},
	}
}

// decodeArchive reverses encode for assertions.
func decodeArchive(t *testing.T, r io.Reader) []model.OrderDocument {
	t.Helper()

	gz, err := gzip.NewReader(r)
	require.NoError(t, err)
	defer gz.Close()

	var docs []model.OrderDocument
	scanner := bufio.NewScanner(gz)
	for scanner.Scan() {
		var doc model.OrderDocument
		require.NoError(t, bson.UnmarshalExtJSON(scanner.Bytes(), false, &doc))
		docs = append(docs, doc)
	}
	require.NoError(t, scanner.Err())

	return docs
}

func TestEncode_RoundTrip(t *testing.T) {
	docs := sampleDocuments()

	data, err := encode(docs)
	require.NoError(t, err)

	decoded := decodeArchive(t, bytes.NewReader(data))
	require.Len(t, decoded, 2)
	assert.Equal(t, "O3", decoded[0].UID)
	assert.Equal(t, "O1", decoded[1].UID)
	assert.Equal(t, docs[0].OrderItems, decoded[0].OrderItems)
	assert.True(t, docs[0].DateOfOrder.Equal(decoded[0].DateOfOrder))
	assert.Equal(t, 30.0, decoded[0].Total)
}

func TestEncode_Empty(t *testing.T) {
	data, err := encode(nil)
	require.NoError(t, err)

	assert.Empty(t, decodeArchive(t, bytes.NewReader(data)))
}

func TestObjectName(t *testing.T) {
	assert.Equal(t, "orders-abc.jsonl.gz", ObjectName("abc"))
}
