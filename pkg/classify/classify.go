// Package classify maps file paths to the kind of artifact they hold,
// based only on the file extension.
package classify

import (
	"path/filepath"
	"strings"
)

// Class is the closed set of artifact kinds
type Class int

const (
	Other Class = iota
	Source
	Header
	Archive
	SharedLib
	Object
	Assembler
)

// Lang tags sources and headers with their language
type Lang int

const (
	LangNone Lang = iota
	LangC
	LangCPP
)

// Kind is the result of classifying a path. Lang is LangNone unless Class is
// Source or Header.
type Kind struct {
	Class Class
	Lang  Lang
}

var extensions = map[string]Kind{
	".c":     {Source, LangC},
	".i":     {Source, LangC},
	".cc":    {Source, LangCPP},
	".cpp":   {Source, LangCPP},
	".cxx":   {Source, LangCPP},
	".h":     {Header, LangC},
	".hpp":   {Header, LangCPP},
	".hh":    {Header, LangCPP},
	".hxx":   {Header, LangCPP},
	".a":     {Archive, LangNone},
	".so":    {SharedLib, LangNone},
	".dylib": {SharedLib, LangNone},
	".dll":   {SharedLib, LangNone},
	".o":     {Object, LangNone},
	".s":     {Assembler, LangNone},
	".asm":   {Assembler, LangNone},
}

// Extensions whose case matters, following the gcc convention
var caseSensitive = map[string]Kind{
	".C": {Source, LangCPP},
	".H": {Header, LangCPP},
	".S": {Assembler, LangNone},
}

// Classify returns the Kind of path. Extensions are matched without regard
// to case, except .C, .H and .S which keep their gcc meaning. Unknown
// extensions are Other.
func Classify(path string) Kind {
	ext := filepath.Ext(path)
	if k, ok := caseSensitive[ext]; ok {
		return k
	}
	if k, ok := extensions[strings.ToLower(ext)]; ok {
		return k
	}
	return Kind{Class: Other}
}

// IsCPP reports whether the kind is a C++ source or header
func (k Kind) IsCPP() bool {
	return k.Lang == LangCPP
}

func (c Class) String() string {
	switch c {
	case Source:
		return "source"
	case Header:
		return "header"
	case Archive:
		return "archive"
	case SharedLib:
		return "shared library"
	case Object:
		return "object"
	case Assembler:
		return "assembler"
	case Other:
		return "other"
	}
	return "unknown"
}

func (l Lang) String() string {
	switch l {
	case LangC:
		return "C"
	case LangCPP:
		return "C++"
	case LangNone:
		return ""
	}
	return "unknown"
}

func (k Kind) String() string {
	if k.Lang == LangNone {
		return k.Class.String()
	}
	return k.Class.String() + " (" + k.Lang.String() + ")"
}

// Sorted groups the inputs of a library build
type Sorted struct {
	Sources []string
	Headers []string
	Objects []string
	Ignored []string // Archives, shared libraries and unknown files
	CPP     bool     // At least one C++ source
}

// Sort partitions paths into build inputs. Assembler files are compiled like
// sources.
func Sort(paths []string) Sorted {
	var s Sorted
	for _, p := range paths {
		k := Classify(p)
		switch k.Class {
		case Source:
			if k.IsCPP() {
				s.CPP = true
			}
			s.Sources = append(s.Sources, p)
		case Assembler:
			s.Sources = append(s.Sources, p)
		case Header:
			s.Headers = append(s.Headers, p)
		case Object:
			s.Objects = append(s.Objects, p)
		case Archive, SharedLib, Other:
			s.Ignored = append(s.Ignored, p)
		}
	}
	return s
}
