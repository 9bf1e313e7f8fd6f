package semantictokens_test

import (
	"testing"

	semantictokens "bennypowers.dev/padls/lsp/methods/textDocument/semanticTokens"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func TestComputeDelta(t *testing.T) {
	a := []uint32{0, 0, 1, 0, 0}
	b := []uint32{0, 3, 1, 0, 0}
	c := []uint32{1, 0, 3, 1, 1}

	concat := func(parts ...[]uint32) []uint32 {
		var out []uint32
		for _, p := range parts {
			out = append(out, p...)
		}
		return out
	}

	tests := []struct {
		name     string
		old, new []uint32
		want     *protocol.SemanticTokensEdit
	}{
		{name: "unchanged", old: concat(a, b), new: concat(a, b)},
		{name: "both empty"},
		{
			name: "append",
			old:  concat(a), new: concat(a, b),
			want: &protocol.SemanticTokensEdit{Start: 5, DeleteCount: 0, Data: b},
		},
		{
			name: "prepend",
			old:  concat(b), new: concat(a, b),
			want: &protocol.SemanticTokensEdit{Start: 0, DeleteCount: 0, Data: a},
		},
		{
			name: "remove middle",
			old:  concat(a, b, c), new: concat(a, c),
			want: &protocol.SemanticTokensEdit{Start: 5, DeleteCount: 5, Data: []uint32{}},
		},
		{
			name: "replace middle",
			old:  concat(a, b, c), new: concat(a, c, c),
			want: &protocol.SemanticTokensEdit{Start: 5, DeleteCount: 5, Data: c},
		},
		{
			name: "from empty",
			new:  concat(a, c),
			want: &protocol.SemanticTokensEdit{Start: 0, DeleteCount: 0, Data: concat(a, c)},
		},
		{
			name: "to empty",
			old:  concat(a, c),
			want: &protocol.SemanticTokensEdit{Start: 0, DeleteCount: 10, Data: []uint32{}},
		},
		{
			// a partial token match must not split the edit
			name: "shared leading integers",
			old:  concat(a), new: []uint32{0, 0, 1, 0, 1},
			want: &protocol.SemanticTokensEdit{Start: 0, DeleteCount: 5, Data: []uint32{0, 0, 1, 0, 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			edits := semantictokens.ComputeDelta(tt.old, tt.new)
			if tt.want == nil {
				assert.Nil(t, edits)
				return
			}
			require.Len(t, edits, 1)
			assert.Equal(t, tt.want.Start, edits[0].Start)
			assert.Equal(t, tt.want.DeleteCount, edits[0].DeleteCount)
			assert.ElementsMatch(t, tt.want.Data, edits[0].Data)

			assert.Equal(t, concat(tt.new), concat(semantictokens.ApplyEdits(tt.old, edits)))
		})
	}
}

func TestApplyEdits(t *testing.T) {
	data := []uint32{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	assert.Equal(t, data, semantictokens.ApplyEdits(data, nil))

	got := semantictokens.ApplyEdits(data, []protocol.SemanticTokensEdit{
		{Start: 0, DeleteCount: 1, Data: []uint32{0}},
		{Start: 5, DeleteCount: 5},
	})
	assert.Equal(t, []uint32{0, 2, 3, 4, 5}, got)
}
