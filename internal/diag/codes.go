package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Lexical
	LexInfo                Code = 1000
	LexUnknownChar         Code = 1001
	LexUnterminatedComment Code = 1002
	LexIntOutOfRange       Code = 1003

	// Syntax
	SynInfo             Code = 2000
	SynUnexpectedToken  Code = 2001
	SynExpectType       Code = 2002
	SynExpectIdentifier Code = 2003
	SynBadAssignTarget  Code = 2004

	// Semantic
	SemaInfo              Code = 3000
	SemaTypeMismatch      Code = 3001
	SemaUndefinedSymbol   Code = 3002
	SemaRedefinedSymbol   Code = 3003
	SemaInvalidCall       Code = 3004
	SemaWrongArity        Code = 3005
	SemaNotAnArray        Code = 3006
	SemaUnusedVariable    Code = 3007
	SemaUninitializedRead Code = 3008
	SemaReservedName      Code = 3009

	// I/O
	IOLoadFileError Code = 4001

	// Code generation
	GenInfo           Code = 5000
	GenTargetError    Code = 5001
	GenOutputError    Code = 5002
	GenInvalidModule  Code = 5003
	GenOptLevelCapped Code = 5004
)

var codeDescription = map[Code]string{
	UnknownCode:            "Unknown error",
	LexInfo:                "Lexical information",
	LexUnknownChar:         "Unknown character",
	LexUnterminatedComment: "Unterminated comment",
	LexIntOutOfRange:       "Integer literal out of range",
	SynInfo:                "Syntax information",
	SynUnexpectedToken:     "Unexpected token",
	SynExpectType:          "Expected type",
	SynExpectIdentifier:    "Expected identifier",
	SynBadAssignTarget:     "Invalid assignment target",
	SemaInfo:               "Semantic information",
	SemaTypeMismatch:       "Type mismatch",
	SemaUndefinedSymbol:    "Undefined symbol",
	SemaRedefinedSymbol:    "Redefinition of symbol",
	SemaInvalidCall:        "Invalid call",
	SemaWrongArity:         "Wrong number of arguments",
	SemaNotAnArray:         "Value is not an array",
	SemaUnusedVariable:     "Unused variable",
	SemaUninitializedRead:  "Use of uninitialized variable",
	SemaReservedName:       "Reserved identifier",
	IOLoadFileError:        "I/O load file error",
	GenInfo:                "Code generation information",
	GenTargetError:         "Target selection failed",
	GenOutputError:         "Output file unwritable",
	GenInvalidModule:       "Backend refused the module",
	GenOptLevelCapped:      "Optimization level capped",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("GEN%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
