package semantictokens

import (
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// tokenSize is the number of integers encoding one token
const tokenSize = 5

// ComputeDelta returns the edit turning oldData into newData, or nil when they
// are equal. The edit replaces the tokens between the longest common prefix
// and suffix. Both are measured in whole tokens so an edit never splits one.
func ComputeDelta(oldData, newData []uint32) []protocol.SemanticTokensEdit {
	limit := min(len(oldData), len(newData)) / tokenSize

	prefix := 0
	for prefix < limit && sameToken(oldData, prefix, newData, prefix) {
		prefix++
	}
	if prefix*tokenSize == len(oldData) && len(oldData) == len(newData) {
		return nil
	}

	oldTokens, newTokens := len(oldData)/tokenSize, len(newData)/tokenSize
	suffix := 0
	for suffix < limit-prefix && sameToken(oldData, oldTokens-1-suffix, newData, newTokens-1-suffix) {
		suffix++
	}

	start := prefix * tokenSize
	insert := newData[start : len(newData)-suffix*tokenSize]
	return []protocol.SemanticTokensEdit{{
		Start:       uint32(start),                                  //nolint:gosec // non-negative
		DeleteCount: uint32(len(oldData) - start - suffix*tokenSize), //nolint:gosec // non-negative
		Data:        append([]uint32{}, insert...),
	}}
}

func sameToken(a []uint32, i int, b []uint32, j int) bool {
	for k := range tokenSize {
		if a[i*tokenSize+k] != b[j*tokenSize+k] {
			return false
		}
	}
	return true
}

// ApplyEdits applies semantic token edits to data the way a client does.
// Edits are applied in order of their start offset against the original data.
func ApplyEdits(data []uint32, edits []protocol.SemanticTokensEdit) []uint32 {
	result := make([]uint32, 0, len(data))
	pos := 0
	for _, edit := range edits {
		start := int(edit.Start)
		result = append(result, data[pos:start]...)
		result = append(result, edit.Data...)
		pos = start + int(edit.DeleteCount)
	}
	return append(result, data[pos:]...)
}
