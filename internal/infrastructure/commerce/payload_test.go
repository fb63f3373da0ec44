package commerce

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitOrderPayload(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wrapField string
		wantLen   int
		wantShape payloadShape
	}{
		{
			name:      "bare array",
			body:      `[{"id": 1}, {"id": 2}]`,
			wrapField: "orders",
			wantLen:   2,
			wantShape: payloadShapeList,
		},
		{
			name:      "empty array",
			body:      `[]`,
			wrapField: "orders",
			wantLen:   0,
			wantShape: payloadShapeList,
		},
		{
			name:      "wrapped array",
			body:      `{"pedidos": [{"id": 1}]}`,
			wrapField: "pedidos",
			wantLen:   1,
			wantShape: payloadShapeWrapped,
		},
		{
			name:      "wrapped singleton",
			body:      `{"pedidos": {"id": 1}}`,
			wrapField: "pedidos",
			wantLen:   1,
			wantShape: payloadShapeWrapped,
		},
		{
			name:      "lone object",
			body:      `{"id": 1, "numero": "WC-1"}`,
			wrapField: "pedidos",
			wantLen:   1,
			wantShape: payloadShapeSingleton,
		},
		{
			name:      "wrong wrap field falls back to singleton",
			body:      `{"orders": [{"id": 1}]}`,
			wrapField: "pedidos",
			wantLen:   1,
			wantShape: payloadShapeSingleton,
		},
		{
			name:      "null body",
			body:      `null`,
			wrapField: "orders",
			wantLen:   0,
			wantShape: payloadShapeList,
		},
		{
			name:      "empty body",
			body:      ``,
			wrapField: "orders",
			wantLen:   0,
			wantShape: payloadShapeList,
		},
		{
			name:      "scalar",
			body:      `42`,
			wrapField: "orders",
			wantLen:   0,
			wantShape: payloadShapeUnrecognized,
		},
		{
			name:      "string",
			body:      `"maintenance"`,
			wrapField: "orders",
			wantLen:   0,
			wantShape: payloadShapeUnrecognized,
		},
		{
			name:      "malformed json",
			body:      `[{"id": 1},`,
			wrapField: "orders",
			wantLen:   0,
			wantShape: payloadShapeUnrecognized,
		},
		{
			name:      "wrapped scalar",
			body:      `{"orders": 7}`,
			wrapField: "orders",
			wantLen:   0,
			wantShape: payloadShapeUnrecognized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			elements, shape := splitOrderPayload([]byte(tt.body), tt.wrapField)
			assert.Equal(t, tt.wantShape, shape)
			assert.Len(t, elements, tt.wantLen)
		})
	}
}

func TestLooseString_UnmarshalJSON(t *testing.T) {
	var doc struct {
		ID    looseString `json:"id"`
		Total looseString `json:"total"`
		Ref   looseString `json:"ref"`
	}
	err := json.Unmarshal([]byte(`{"id": 1001, "total": "59.90", "ref": null}`), &doc)
	require.NoError(t, err)
	assert.Equal(t, "1001", doc.ID.String())
	assert.Equal(t, "59.90", doc.Total.String())
	assert.Equal(t, "", doc.Ref.String())

	err = json.Unmarshal([]byte(`{"id": {"nested": true}}`), &doc)
	assert.Error(t, err)
}

func TestPayloadShape_String(t *testing.T) {
	assert.Equal(t, "list", payloadShapeList.String())
	assert.Equal(t, "wrapped", payloadShapeWrapped.String())
	assert.Equal(t, "singleton", payloadShapeSingleton.String())
	assert.Equal(t, "unrecognized", payloadShapeUnrecognized.String())
}
