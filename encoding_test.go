package main

import (
	"testing"

	"github.com/nalgeon/be"
)

func TestEncodeNameModernVersion(t *testing.T) {
	obj := NewObject(unicodeNamesVersion)
	names := []string{"hero", "主人公", "日本語", "한글"}
	for _, name := range names {
		enc, err := obj.encodeName(name)
		be.Err(t, err, nil)
		be.Equal(t, enc, name)
	}
}

func TestEncodeNameShiftJIS(t *testing.T) {
	obj := NewObject(unicodeNamesVersion - 1)
	tests := []struct {
		name string
		want string
	}{
		{"hero", "hero"},
		{"あ", "\x82\xa0"},
		{"日本語", "\x93\xfa\x96\x7b\x8c\xea"},
	}
	for _, tt := range tests {
		enc, err := obj.encodeName(tt.name)
		be.Err(t, err, nil)
		be.Equal(t, enc, tt.want)
	}
}

func TestEncodeNameUnencodable(t *testing.T) {
	obj := NewObject(11)
	_, err := obj.encodeName("한글")
	be.Equal(t, err.Error(), "error: name '한글' cannot be encoded for object version 11")
}

// Interning and lookup both pass through the name encoder, so a
// pre-Unicode object stores Shift JIS spellings yet still answers
// lookups by source spelling.
func TestShiftJISInternAndLookup(t *testing.T) {
	obj := NewObject(unicodeNamesVersion - 1)

	no, err := obj.AddStruct("日本語")
	be.Err(t, err, nil)
	be.Equal(t, obj.Structs[no].Name, "\x93\xfa\x96\x7b\x8c\xea")

	got, ok := obj.StructNo("日本語")
	be.True(t, ok)
	be.Equal(t, got, no)
}

func TestUnencodableNameRejectedOnIntern(t *testing.T) {
	obj := NewObject(11)
	_, _, err := obj.AddGlobal("한글")
	be.Equal(t, err.Error(), "error: name '한글' cannot be encoded for object version 11")
}
