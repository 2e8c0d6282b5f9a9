package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Синтаксис (C89 и соседние стандарты)
	SynInfo               Code = 1000
	SynLineComment        Code = 1001
	SynDeclAfterStatement Code = 1002
	SynC99Keyword         Code = 1003
	SynForLoopDecl        Code = 1004
	SynDesignatedInit     Code = 1005
	SynCompoundLiteral    Code = 1006
	SynVariadicMacro      Code = 1007
	SynFlexibleArray      Code = 1008
	SynC99Function        Code = 1009
	SynC99Header          Code = 1010

	// Стиль
	StyInfo          Code = 2000
	StyMagicNumber   Code = 2001
	StyLineTooLong   Code = 2002
	StyAmigaPrimType Code = 2003
	StyPointerZero   Code = 2004

	// Предупреждения
	WrnInfo                  Code = 3000
	WrnUnterminatedComment   Code = 3001
	WrnC99Usage              Code = 3002
	WrnAmigaType             Code = 3003
	WrnDeprecatedType        Code = 3004
	WrnSpecialType           Code = 3005
	WrnPascalCase            Code = 3006
	WrnUnsafeFunction        Code = 3007
	WrnPairNested            Code = 3010
	WrnPairLeaveWithoutEnter Code = 3011
	WrnPairDistance          Code = 3012
	WrnPairNoLeave           Code = 3013
	WrnPairCountMismatch     Code = 3014
	WrnPairUnmatchedAtEOF    Code = 3015

	// Совместимость компиляторов
	CmpInfo        Code = 4000
	CmpNDKReserved Code = 4001
	CmpSASC        Code = 4002
	CmpVBCC        Code = 4003
	CmpDICE        Code = 4004

	// Информационные
	InfInfo       Code = 5000
	InfEcho       Code = 5001
	InfPairUsage  Code = 5002
	InfModeNotice Code = 5003

	// Лимиты
	LimInfo               Code = 6000
	LimTooManyDiagnostics Code = 6001

	// Ввод-вывод
	IOInfo       Code = 7000
	IOReadFailed Code = 7001
)

var codeDescription = map[Code]string{
	UnknownCode:              "Unknown error",
	SynInfo:                  "Syntax information",
	SynLineComment:           "C++ comment in C89 source",
	SynDeclAfterStatement:    "Declaration after statement",
	SynC99Keyword:            "C99 keyword in C89 source",
	SynForLoopDecl:           "Declaration in for-loop initializer",
	SynDesignatedInit:        "C99 designated initializer",
	SynCompoundLiteral:       "C99 compound literal",
	SynVariadicMacro:         "C99 variadic macro",
	SynFlexibleArray:         "C99 flexible array member",
	SynC99Function:           "C99 library function",
	SynC99Header:             "C99 header",
	StyInfo:                  "Style information",
	StyMagicNumber:           "Magic number",
	StyLineTooLong:           "Line too long",
	StyAmigaPrimType:         "Standard primitive type instead of Amiga type",
	StyPointerZero:           "Zero assigned to pointer",
	WrnInfo:                  "Warning information",
	WrnUnterminatedComment:   "Unterminated block comment",
	WrnC99Usage:              "C99 construct",
	WrnAmigaType:             "Standard type instead of Amiga type",
	WrnDeprecatedType:        "Deprecated Amiga type",
	WrnSpecialType:           "Special-purpose Amiga type",
	WrnPascalCase:            "Function name is not PascalCase",
	WrnUnsafeFunction:        "Memory-unsafe function",
	WrnPairNested:            "Nested critical section enter",
	WrnPairLeaveWithoutEnter: "Critical section leave without enter",
	WrnPairDistance:          "Critical section held too long",
	WrnPairNoLeave:           "Critical section enter without any leave",
	WrnPairCountMismatch:     "Critical section enter/leave count mismatch",
	WrnPairUnmatchedAtEOF:    "Critical section still active at end of file",
	CmpInfo:                  "Compiler compatibility information",
	CmpNDKReserved:           "NDK reserved word",
	CmpSASC:                  "Keyword incompatible with SAS/C",
	CmpVBCC:                  "Keyword incompatible with VBCC",
	CmpDICE:                  "Keyword incompatible with DICE",
	InfInfo:                  "Information",
	InfEcho:                  "Echo comment",
	InfPairUsage:             "Critical section usage",
	InfModeNotice:            "Validation mode notice",
	LimInfo:                  "Limit information",
	LimTooManyDiagnostics:    "Too many diagnostics",
	IOInfo:                   "I/O information",
	IOReadFailed:             "Cannot read file",
}

// Kind groups codes the way reports present them.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindSyntax
	KindStyle
	KindWarning
	KindCompiler
	KindComment
	KindLimit
	KindIO
)

func (k Kind) String() string {
	switch k {
	case KindSyntax:
		return "SYNTAX"
	case KindStyle:
		return "STYLE"
	case KindWarning:
		return "WARNING"
	case KindCompiler:
		return "COMPILER"
	case KindComment:
		return "COMMENT"
	case KindLimit:
		return "LIMIT"
	case KindIO:
		return "IO"
	}
	return "UNKNOWN"
}

// Kind derives the report kind from the code range.
func (c Code) Kind() Kind {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return KindSyntax
	case ic >= 2000 && ic < 3000:
		return KindStyle
	case ic >= 3000 && ic < 4000:
		return KindWarning
	case ic >= 4000 && ic < 5000:
		return KindCompiler
	case ic >= 5000 && ic < 6000:
		return KindComment
	case ic >= 6000 && ic < 7000:
		return KindLimit
	case ic >= 7000 && ic < 8000:
		return KindIO
	}
	return KindUnknown
}

// DefaultSeverity is the severity a diagnostic of this code carries unless
// the producer says otherwise.
func (c Code) DefaultSeverity() Severity {
	switch c.Kind() {
	case KindSyntax, KindIO:
		return SevError
	case KindComment:
		return SevInfo
	default:
		return SevWarning
	}
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("STY%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("WRN%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("CMP%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("INF%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("LIM%04d", ic)
	case ic >= 7000 && ic < 8000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
