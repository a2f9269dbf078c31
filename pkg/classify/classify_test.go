package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		path string
		want Kind
	}{
		{"main.c", Kind{Source, LangC}},
		{"src/lib.cc", Kind{Source, LangCPP}},
		{"lib.cpp", Kind{Source, LangCPP}},
		{"lib.CXX", Kind{Source, LangCPP}},
		{"foo.h", Kind{Header, LangC}},
		{"foo.hpp", Kind{Header, LangCPP}},
		{"foo.hh", Kind{Header, LangCPP}},
		{"foo.hxx", Kind{Header, LangCPP}},
		{"libfoo.a", Kind{Archive, LangNone}},
		{"libfoo.so", Kind{SharedLib, LangNone}},
		{"libfoo.dylib", Kind{SharedLib, LangNone}},
		{"foo.dll", Kind{SharedLib, LangNone}},
		{"foo.o", Kind{Object, LangNone}},
		{"start.s", Kind{Assembler, LangNone}},
		{"start.asm", Kind{Assembler, LangNone}},
		{"start.S", Kind{Assembler, LangNone}},
		{"vec.C", Kind{Source, LangCPP}},
		{"vec.H", Kind{Header, LangCPP}},
		{"MAIN.CC", Kind{Source, LangCPP}},
		{"README.md", Kind{Other, LangNone}},
		{"Makefile", Kind{Other, LangNone}},
		{"libfoo.so.3", Kind{Other, LangNone}},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.path))
		})
	}
}

func TestSort(t *testing.T) {
	s := Sort([]string{"a.c", "b.cpp", "a.h", "x.o", "boot.s", "libz.a", "notes.txt"})

	assert.Equal(t, []string{"a.c", "b.cpp", "boot.s"}, s.Sources)
	assert.Equal(t, []string{"a.h"}, s.Headers)
	assert.Equal(t, []string{"x.o"}, s.Objects)
	assert.Equal(t, []string{"libz.a", "notes.txt"}, s.Ignored)
	assert.True(t, s.CPP)
}

func TestSortUppercaseCIsCPP(t *testing.T) {
	s := Sort([]string{"vec.C", "boot.S"})
	assert.True(t, s.CPP)
	assert.Equal(t, []string{"vec.C", "boot.S"}, s.Sources)
}

func TestSortPlainC(t *testing.T) {
	s := Sort([]string{"a.c", "b.hpp"})
	assert.False(t, s.CPP, "a C++ header alone does not make the build C++")
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "source (C++)", Classify("x.cpp").String())
	assert.Equal(t, "object", Classify("x.o").String())
}
